package pipeline

import (
	"slices"
	"sort"
	"sync"
	"time"
)

type sample struct {
	at     time.Time
	dur    time.Duration
	failed bool
}

// StatsSnapshot aggregates the samples of one unit kind inside the window.
type StatsSnapshot struct {
	Count  int     `json:"count"`
	Failed int     `json:"failed"`
	MinMs  float64 `json:"min_ms"`
	MaxMs  float64 `json:"max_ms"`
	AvgMs  float64 `json:"avg_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P95Ms  float64 `json:"p95_ms"`
	P99Ms  float64 `json:"p99_ms"`
}

// LatencyStats keeps a rolling window of unit latencies, bucketed by kind
// ("lines", "match", "section", ...).
type LatencyStats struct {
	mu     sync.Mutex
	byKind map[string][]sample
	maxAge time.Duration
	now    func() time.Time
}

func NewLatencyStats(maxAge time.Duration) *LatencyStats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &LatencyStats{
		byKind: make(map[string][]sample),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Record adds one finished unit. Negative durations count as zero.
func (s *LatencyStats) Record(kind string, d time.Duration, failed bool) {
	if d < 0 {
		d = 0
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	samples := prune(s.byKind[kind], now.Add(-s.maxAge))
	s.byKind[kind] = append(samples, sample{at: now, dur: d, failed: failed})
}

// Snapshot returns per-kind aggregates. Kinds with no samples left in the
// window are dropped.
func (s *LatencyStats) Snapshot() map[string]StatsSnapshot {
	cutoff := s.now().Add(-s.maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]StatsSnapshot, len(s.byKind))
	for kind, samples := range s.byKind {
		samples = prune(samples, cutoff)
		if len(samples) == 0 {
			delete(s.byKind, kind)
			continue
		}
		s.byKind[kind] = samples
		out[kind] = summarize(samples)
	}
	return out
}

// Kinds lists the kinds currently tracked, sorted.
func (s *LatencyStats) Kinds() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	kinds := make([]string, 0, len(s.byKind))
	for k := range s.byKind {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

func summarize(samples []sample) StatsSnapshot {
	values := make([]float64, 0, len(samples))
	var sum float64
	failed := 0
	for _, sm := range samples {
		ms := float64(sm.dur) / float64(time.Millisecond)
		values = append(values, ms)
		sum += ms
		if sm.failed {
			failed++
		}
	}
	sort.Float64s(values)

	return StatsSnapshot{
		Count:  len(values),
		Failed: failed,
		MinMs:  values[0],
		MaxMs:  values[len(values)-1],
		AvgMs:  sum / float64(len(values)),
		P50Ms:  percentile(values, 50),
		P95Ms:  percentile(values, 95),
		P99Ms:  percentile(values, 99),
	}
}

// prune compacts samples in place, keeping those at or after cutoff.
func prune(samples []sample, cutoff time.Time) []sample {
	w := 0
	for _, sm := range samples {
		if !sm.at.Before(cutoff) {
			samples[w] = sm
			w++
		}
	}
	return samples[:w]
}

// percentile interpolates linearly between the two closest ranks.
func percentile(sorted []float64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return sorted[0]
	case pct >= 100:
		return sorted[len(sorted)-1]
	}
	idx := float64(len(sorted)-1) * pct / 100
	lo := int(idx)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo] + (sorted[lo+1]-sorted[lo])*frac
}
