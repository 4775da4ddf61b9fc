package pipeline

import (
	"testing"
	"time"
)

func TestLatencyStatsSnapshotPercentiles(t *testing.T) {
	stats := NewLatencyStats(time.Hour)
	for _, ms := range []int{100, 200, 300, 400, 500} {
		stats.Record("match", time.Duration(ms)*time.Millisecond, false)
	}

	snap, ok := stats.Snapshot()["match"]
	if !ok {
		t.Fatal("expected match kind in snapshot")
	}
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%f max=%f", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
}

func TestLatencyStatsSeparatesKinds(t *testing.T) {
	stats := NewLatencyStats(time.Hour)
	stats.Record("lines", 10*time.Millisecond, false)
	stats.Record("section", 20*time.Millisecond, true)
	stats.Record("section", 30*time.Millisecond, false)

	snap := stats.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 kinds, got %d", len(snap))
	}
	if snap["lines"].Count != 1 {
		t.Errorf("expected 1 lines sample, got %d", snap["lines"].Count)
	}
	if snap["section"].Count != 2 || snap["section"].Failed != 1 {
		t.Errorf("expected 2 section samples with 1 failure, got %+v", snap["section"])
	}
	kinds := stats.Kinds()
	if len(kinds) != 2 || kinds[0] != "lines" || kinds[1] != "section" {
		t.Errorf("expected sorted kinds [lines section], got %v", kinds)
	}
}

func TestLatencyStatsPrunesExpiredSamples(t *testing.T) {
	stats := NewLatencyStats(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	stats.now = func() time.Time { return now }

	stats.Record("match", 100*time.Millisecond, false)
	now = now.Add(2 * time.Minute)

	if snap := stats.Snapshot(); len(snap) != 0 {
		t.Fatalf("expected empty snapshot after prune, got %v", snap)
	}

	stats.Record("match", 200*time.Millisecond, false)
	snap := stats.Snapshot()["match"]
	if snap.Count != 1 {
		t.Fatalf("expected count=1 for fresh sample, got %d", snap.Count)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected min=max=200, got min=%f max=%f", snap.MinMs, snap.MaxMs)
	}
}

func TestLatencyStatsClampsNegativeDuration(t *testing.T) {
	stats := NewLatencyStats(time.Hour)
	stats.Record("lines", -10*time.Millisecond, false)
	snap := stats.Snapshot()["lines"]
	if snap.Count != 1 {
		t.Fatalf("expected count=1, got %d", snap.Count)
	}
	if snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%f max=%f", snap.MinMs, snap.MaxMs)
	}
}
