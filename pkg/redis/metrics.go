package redis

import "sync/atomic"

// Metrics tracks cache effectiveness counters. All counters are atomic
// and safe for concurrent use.
type Metrics struct {
	hits          atomic.Int64
	misses        atomic.Int64
	errors        atomic.Int64
	invalidations atomic.Int64
}

// NewMetrics creates a zeroed metrics collector
func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) recordHit()          { m.hits.Add(1) }
func (m *Metrics) recordMiss()         { m.misses.Add(1) }
func (m *Metrics) recordError()        { m.errors.Add(1) }
func (m *Metrics) recordInvalidation() { m.invalidations.Add(1) }

// Hits returns the number of cache hits
func (m *Metrics) Hits() int64 { return m.hits.Load() }

// Misses returns the number of cache misses
func (m *Metrics) Misses() int64 { return m.misses.Load() }

// Errors returns the number of cache errors
func (m *Metrics) Errors() int64 { return m.errors.Load() }

// Invalidations returns the number of invalidation calls
func (m *Metrics) Invalidations() int64 { return m.invalidations.Load() }

// HitRate returns hits/(hits+misses), 0 when no lookups happened
func (m *Metrics) HitRate() float64 {
	hits := m.hits.Load()
	total := hits + m.misses.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
