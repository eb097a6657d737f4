package models

import "time"

// Stats accumulates counters over the lifetime of one dashboard session.
// The ever-seen sets are keyed by ModelID so an unplug/replug cycle counts a
// model once, while Connects and Disconnects come from transient-key diffs
// and count every cycle. The sets only ever grow.
type Stats struct {
	StartTime          time.Time
	Refreshes          uint64
	EverSeen           map[ModelID]struct{}
	EverSeenBootloader map[ModelID]struct{}
	PeakDevices        int
	LastLatency        time.Duration
	Connects           uint64
	Disconnects        uint64
}

// NewStats returns empty statistics anchored at the given session start.
func NewStats(start time.Time) Stats {
	return Stats{
		StartTime:          start,
		EverSeen:           make(map[ModelID]struct{}),
		EverSeenBootloader: make(map[ModelID]struct{}),
	}
}

// Uptime returns the session age at the given instant.
func (s *Stats) Uptime(now time.Time) time.Duration {
	return now.Sub(s.StartTime)
}

// RefreshRate returns the average number of refreshes per second since the
// session started, or zero for a brand-new session.
func (s *Stats) RefreshRate(now time.Time) float64 {
	elapsed := s.Uptime(now).Seconds()
	if elapsed <= 0 {
		return 0
	}

	return float64(s.Refreshes) / elapsed
}
