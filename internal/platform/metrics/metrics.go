package metrics

import (
	"sync/atomic"
	"time"
)

// Collector keeps cheap in-process request counters served on /metrics.
type Collector struct {
	requests    atomic.Uint64
	clientErrs  atomic.Uint64
	serverErrs  atomic.Uint64
	rateLimited atomic.Uint64
	durationMs  atomic.Uint64
}

// Snapshot is the JSON shape of the /metrics endpoint.
type Snapshot struct {
	RequestsTotal    uint64  `json:"requestsTotal"`
	ClientErrsTotal  uint64  `json:"clientErrorsTotal"`
	ErrorsTotal      uint64  `json:"errorsTotal"`
	RateLimitedTotal uint64  `json:"rateLimitedTotal"`
	AvgDurationMs    float64 `json:"avgDurationMs"`
	TotalDurationMs  uint64  `json:"totalDurationMs"`
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.requests.Add(1)
	c.durationMs.Add(uint64(duration.Milliseconds()))
	switch {
	case status == 429:
		c.rateLimited.Add(1)
		c.clientErrs.Add(1)
	case status >= 500:
		c.serverErrs.Add(1)
	case status >= 400:
		c.clientErrs.Add(1)
	}
}

func (c *Collector) Snapshot() Snapshot {
	snap := Snapshot{
		RequestsTotal:    c.requests.Load(),
		ClientErrsTotal:  c.clientErrs.Load(),
		ErrorsTotal:      c.serverErrs.Load(),
		RateLimitedTotal: c.rateLimited.Load(),
		TotalDurationMs:  c.durationMs.Load(),
	}
	if snap.RequestsTotal > 0 {
		snap.AvgDurationMs = float64(snap.TotalDurationMs) / float64(snap.RequestsTotal)
	}
	return snap
}
