package handlers

import (
	"net/http"
	"testing"

	"tracker-api/internal/models"

	"github.com/stretchr/testify/require"
)

type journalsBody struct {
	Entries []models.JournalEntry `json:"entries"`
	Total   int64                 `json:"total"`
}

func TestCreateJournal_Validation(t *testing.T) {
	env := newTestEnv(t)

	cases := []map[string]any{
		{"content": "no title"},
		{"title": "t", "mood": 9},
		{"title": "t", "date": "03/01/2025"},
	}
	for _, body := range cases {
		w := env.do(t, http.MethodPost, "/api/journals", "u-1", body)
		require.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestJournal_CRUDInvalidatesOwnerFamily(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/journals", "u-1", map[string]any{
		"title": "Day one", "content": "hello", "tags": " Work, focus,work ", "date": "2025-02-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[models.JournalEntry](t, w)
	require.Equal(t, "work,focus", created.Tags)
	require.Equal(t, 3, created.Mood)

	w = env.do(t, http.MethodGet, "/api/journals", "u-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, int64(1), decode[journalsBody](t, w).Total)

	// The listing warmed the single-entry key.
	before := env.cache.GetStats().TotalHits
	w = env.do(t, http.MethodGet, "/api/journals/"+created.ID, "u-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, before+1, env.cache.GetStats().TotalHits)

	w = env.do(t, http.MethodPut, "/api/journals/"+created.ID, "u-1", map[string]any{"title": "Day one, edited", "mood": 5})
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, "/api/journals/"+created.ID, "u-1", nil)
	got := decode[models.JournalEntry](t, w)
	require.Equal(t, "Day one, edited", got.Title)
	require.Equal(t, 5, got.Mood)

	w = env.do(t, http.MethodGet, "/api/journals?tag=FOCUS", "u-1", nil)
	require.Equal(t, int64(1), decode[journalsBody](t, w).Total)
	w = env.do(t, http.MethodGet, "/api/journals?tag=foc", "u-1", nil)
	require.Equal(t, int64(0), decode[journalsBody](t, w).Total)

	w = env.do(t, http.MethodDelete, "/api/journals/"+created.ID, "u-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, "/api/journals/"+created.ID, "u-1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(t, http.MethodGet, "/api/journals", "u-1", nil)
	require.Equal(t, int64(0), decode[journalsBody](t, w).Total)
}

func TestJournal_IsolatedPerUser(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/journals", "u-1", map[string]any{"title": "private"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[models.JournalEntry](t, w).ID

	w = env.do(t, http.MethodGet, "/api/journals/"+id, "u-2", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(t, http.MethodGet, "/api/journals", "u-2", nil)
	require.Equal(t, int64(0), decode[journalsBody](t, w).Total)
}

func TestNormalizeTags(t *testing.T) {
	require.Equal(t, "a,b", normalizeTags("A, b ,,a"))
	require.Equal(t, "", normalizeTags(" , "))
}
