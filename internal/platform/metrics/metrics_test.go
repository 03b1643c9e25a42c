package metrics

import (
	"testing"
	"time"
)

func TestSnapshotCounters(t *testing.T) {
	c := New()
	c.Record(200, 10*time.Millisecond)
	c.Record(404, 20*time.Millisecond)
	c.Record(429, 5*time.Millisecond)
	c.Record(500, 25*time.Millisecond)

	snap := c.Snapshot()
	if snap.RequestsTotal != 4 {
		t.Fatalf("requests = %d", snap.RequestsTotal)
	}
	if snap.ClientErrsTotal != 2 {
		t.Fatalf("client errors = %d", snap.ClientErrsTotal)
	}
	if snap.ErrorsTotal != 1 {
		t.Fatalf("server errors = %d", snap.ErrorsTotal)
	}
	if snap.RateLimitedTotal != 1 {
		t.Fatalf("rate limited = %d", snap.RateLimitedTotal)
	}
	if snap.TotalDurationMs != 60 {
		t.Fatalf("total duration = %d", snap.TotalDurationMs)
	}
	if snap.AvgDurationMs != 15 {
		t.Fatalf("avg duration = %v", snap.AvgDurationMs)
	}
}

func TestSnapshotEmpty(t *testing.T) {
	snap := New().Snapshot()
	if snap.RequestsTotal != 0 || snap.AvgDurationMs != 0 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}
