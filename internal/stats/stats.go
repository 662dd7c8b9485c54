// Package stats tracks process-wide counters for the client registry:
// an allocation counter that mirrors slot occupancy, observable by
// tests the same way the pool itself is. Grounded on the teacher's
// atomic-counter style for connection/byte tracking, trimmed down to
// the one counter this domain needs.
package stats

import "sync/atomic"

var allocCount int64

// RecordInsert increments the process-wide allocation counter. Called
// once per Slot Pool insert.
func RecordInsert() {
	atomic.AddInt64(&allocCount, 1)
}

// RecordRemove decrements the process-wide allocation counter. Called
// once per Slot Pool remove.
func RecordRemove() {
	atomic.AddInt64(&allocCount, -1)
}

// AllocCount returns the current allocation counter value. It returns
// to zero once every client handle (and any pipeline sharing it) has
// been released, matching the original implementation's memory
// accounting for the slot pool.
func AllocCount() int64 {
	return atomic.LoadInt64(&allocCount)
}
