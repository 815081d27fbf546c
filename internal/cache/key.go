package cache

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// KeySeparator sits between the prefix and the encoded parameters.
const KeySeparator = ":"

// GenerateKey builds a deterministic key from a prefix and query parameters.
// Parameters are sorted by name and serialized with type tags, so map order
// never matters while int 1, float 1.0 and string "1" stay distinct. Signed
// integers of any width share a tag, as do unsigned ones. The serialized form
// is base64url-encoded so keys stay opaque and safe to log.
//
// Callers that need to invalidate a family of keys put the family in prefix,
// e.g. GenerateKey("journals:"+userID, params), then DeleteByPattern("^journals:"+userID+":").
func GenerateKey(prefix string, params map[string]any) string {
	canonical := serializeValue(reflect.ValueOf(params))
	return prefix + KeySeparator + base64.RawURLEncoding.EncodeToString([]byte(canonical))
}

func serializeValue(rv reflect.Value) string {
	if !rv.IsValid() {
		return "nil"
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "nil"
		}
		return serializeValue(rv.Elem())
	case reflect.String:
		return "s:" + strconv.Quote(rv.String())
	case reflect.Bool:
		return "b:" + strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "i:" + strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return "u:" + strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return "f:" + strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return "[]"
		}
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = serializeValue(rv.Index(i))
		}
		return "[" + strings.Join(parts, ",") + "]"
	case reflect.Map:
		return serializeMap(rv)
	}

	// Structs and anything else fall back to JSON.
	data, err := json.Marshal(rv.Interface())
	if err != nil {
		return fmt.Sprintf("t:%s", rv.Type())
	}
	return "j:" + string(data)
}

// serializeMap emits key=value pairs sorted by serialized key.
func serializeMap(rv reflect.Value) string {
	if rv.IsNil() || rv.Len() == 0 {
		return "{}"
	}

	type pair struct{ k, v string }
	pairs := make([]pair, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		pairs = append(pairs, pair{k: serializeValue(iter.Key()), v: serializeValue(iter.Value())})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].k < pairs[j].k })

	var b strings.Builder
	b.WriteByte('{')
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.k)
		b.WriteByte('=')
		b.WriteString(p.v)
	}
	b.WriteByte('}')
	return b.String()
}
