// Package metrics exposes cache statistics to Prometheus.
package metrics

import (
	"net/http"

	"tracker-api/internal/cache"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatsSource is anything that can report cache stats.
type StatsSource interface {
	GetStats() cache.Stats
}

// CacheCollector reads a StatsSource at scrape time.
type CacheCollector struct {
	source StatsSource

	size        *prometheus.Desc
	hits        *prometheus.Desc
	misses      *prometheus.Desc
	evictions   *prometheus.Desc
	expirations *prometheus.Desc
	hitRate     *prometheus.Desc
}

// NewCacheCollector creates a collector with the given namespace.
func NewCacheCollector(namespace string, source StatsSource) *CacheCollector {
	name := func(n string) string { return prometheus.BuildFQName(namespace, "cache", n) }
	return &CacheCollector{
		source:      source,
		size:        prometheus.NewDesc(name("entries"), "Number of entries currently stored", nil, nil),
		hits:        prometheus.NewDesc(name("hits_total"), "Total lookups that returned a live entry", nil, nil),
		misses:      prometheus.NewDesc(name("misses_total"), "Total lookups that found nothing live", nil, nil),
		evictions:   prometheus.NewDesc(name("evictions_total"), "Total live entries removed to respect capacity", nil, nil),
		expirations: prometheus.NewDesc(name("expirations_total"), "Total expired entries removed", nil, nil),
		hitRate:     prometheus.NewDesc(name("hit_ratio"), "Hits divided by lookups since the last reset", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *CacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.size
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.expirations
	ch <- c.hitRate
}

// Collect implements prometheus.Collector.
func (c *CacheCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.GetStats()
	ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(s.Size))
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.TotalHits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.TotalMisses))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions))
	ch <- prometheus.MustNewConstMetric(c.expirations, prometheus.CounterValue, float64(s.Expirations))
	ch <- prometheus.MustNewConstMetric(c.hitRate, prometheus.GaugeValue, s.HitRate)
}

// NewRegistry returns a registry holding the cache collector plus the Go
// runtime and process collectors.
func NewRegistry(namespace string, source StatsSource) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		NewCacheCollector(namespace, source),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
