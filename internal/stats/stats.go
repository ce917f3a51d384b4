// Package stats keeps the process-wide generation counters. They are
// observability only; nothing reads them to make decisions.
package stats

import (
	"sync/atomic"
	"time"
)

// Stats is safe for concurrent use. The zero value is not ready; use New.
type Stats struct {
	generated atomic.Int64
	cached    atomic.Int64
	errors    atomic.Int64
	inFlight  atomic.Int64
	started   time.Time
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Generated     int64   `json:"generated"`
	Cached        int64   `json:"cached"`
	Errors        int64   `json:"errors"`
	InFlight      int64   `json:"in_flight"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

func New() *Stats {
	return &Stats{started: time.Now()}
}

func (s *Stats) Generated() { s.generated.Add(1) }
func (s *Stats) Cached()    { s.cached.Add(1) }
func (s *Stats) Error()     { s.errors.Add(1) }

// Begin marks a generation as running; call the returned func when it ends.
func (s *Stats) Begin() (end func()) {
	s.inFlight.Add(1)
	return func() { s.inFlight.Add(-1) }
}

func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Generated:     s.generated.Load(),
		Cached:        s.cached.Load(),
		Errors:        s.errors.Load(),
		InFlight:      s.inFlight.Load(),
		UptimeSeconds: time.Since(s.started).Seconds(),
	}
}
