package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tracker-api/internal/cache"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type staticStats cache.Stats

func (s staticStats) GetStats() cache.Stats { return cache.Stats(s) }

func TestCacheCollector_Values(t *testing.T) {
	c := NewCacheCollector("tracker", staticStats{
		Size: 3, TotalHits: 6, TotalMisses: 2, TotalRequests: 8, HitRate: 0.75, Evictions: 1,
	})
	require.Equal(t, 6, testutil.CollectAndCount(c))

	expected := `
# HELP tracker_cache_hits_total Total lookups that returned a live entry
# TYPE tracker_cache_hits_total counter
tracker_cache_hits_total 6
# HELP tracker_cache_hit_ratio Hits divided by lookups since the last reset
# TYPE tracker_cache_hit_ratio gauge
tracker_cache_hit_ratio 0.75
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"tracker_cache_hits_total", "tracker_cache_hit_ratio"))
}

func TestHandler_ExposesEngineStats(t *testing.T) {
	e, err := cache.New(cache.DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, e.Set("a", 1, 0))
	_, _ = e.Get("a")

	w := httptest.NewRecorder()
	Handler(NewRegistry("tracker", e)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "tracker_cache_entries 1")
	require.Contains(t, w.Body.String(), "tracker_cache_hits_total 1")
}
