package cache

// Stats is a point-in-time snapshot of engine counters.
type Stats struct {
	Size          int     `json:"size"`
	HitRate       float64 `json:"hitRate"`
	TotalHits     uint64  `json:"totalHits"`
	TotalMisses   uint64  `json:"totalMisses"`
	TotalRequests uint64  `json:"totalRequests"`
	Evictions     uint64  `json:"evictions"`
	Expirations   uint64  `json:"expirations"`
}

// GetStats implements Cache.GetStats. HitRate is 0 when no Get has run.
func (e *Engine) GetStats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	total := e.hits + e.misses
	var rate float64
	if total > 0 {
		rate = float64(e.hits) / float64(total)
	}
	return Stats{
		Size:          len(e.items),
		HitRate:       rate,
		TotalHits:     e.hits,
		TotalMisses:   e.misses,
		TotalRequests: total,
		Evictions:     e.evictions,
		Expirations:   e.expirations,
	}
}
