package cache

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateKey_OrderIndependent(t *testing.T) {
	a := GenerateKey("tasks", map[string]any{"page": 1, "limit": 10})
	b := GenerateKey("tasks", map[string]any{"limit": 10, "page": 1})
	require.Equal(t, a, b)
	require.True(t, strings.HasPrefix(a, "tasks:"))
}

func TestGenerateKey_Deterministic(t *testing.T) {
	params := map[string]any{
		"userId": "u-1",
		"tags":   []string{"gym", "run"},
		"nested": map[string]any{"z": 1, "a": true},
	}
	first := GenerateKey("journals", params)
	for i := 0; i < 50; i++ {
		require.Equal(t, first, GenerateKey("journals", params))
	}
}

func TestGenerateKey_Distinguishes(t *testing.T) {
	base := GenerateKey("tasks", map[string]any{"page": 1, "limit": 10})

	variants := []struct {
		name   string
		prefix string
		params map[string]any
	}{
		{"value", "tasks", map[string]any{"page": 2, "limit": 10}},
		{"prefix", "journals", map[string]any{"page": 1, "limit": 10}},
		{"missing param", "tasks", map[string]any{"page": 1}},
		{"string vs int", "tasks", map[string]any{"page": "1", "limit": 10}},
		{"float vs int", "tasks", map[string]any{"page": 1.0, "limit": 10}},
		{"extra param", "tasks", map[string]any{"page": 1, "limit": 10, "sort": "asc"}},
	}
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			require.NotEqual(t, base, GenerateKey(v.prefix, v.params))
		})
	}
}

func TestGenerateKey_Arrays(t *testing.T) {
	a := GenerateKey("search", map[string]any{"tags": []string{"a", "b"}})
	require.Equal(t, a, GenerateKey("search", map[string]any{"tags": []string{"a", "b"}}))
	require.NotEqual(t, a, GenerateKey("search", map[string]any{"tags": []string{"b", "a"}}))
	require.NotEqual(t, a, GenerateKey("search", map[string]any{"tags": []string{"a,b"}}))
}

func TestGenerateKey_IntWidthsShareEncoding(t *testing.T) {
	require.Equal(t,
		GenerateKey("p", map[string]any{"n": int(7)}),
		GenerateKey("p", map[string]any{"n": int64(7)}),
	)
}

func TestGenerateKey_EncodedSuffixIsURLSafe(t *testing.T) {
	key := GenerateKey("tasks:u-1", map[string]any{"q": "a/b+c?d", "page": 3})
	suffix := strings.TrimPrefix(key, "tasks:u-1:")
	require.NotContains(t, suffix, "/")
	require.NotContains(t, suffix, "+")

	raw, err := base64.RawURLEncoding.DecodeString(suffix)
	require.NoError(t, err)
	require.Equal(t, `{s:"page"=i:3,s:"q"=s:"a/b+c?d"}`, string(raw))
}

func TestGenerateKey_EmptyParams(t *testing.T) {
	require.Equal(t, GenerateKey("users", nil), GenerateKey("users", map[string]any{}))
}
