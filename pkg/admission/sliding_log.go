package admission

import (
	"sync"
	"time"
)

// SlidingLog implements the sliding window log admission algorithm.
//
// The log retains the exact event times of prior admissions, oldest first.
// On each call, entries that have fallen out of the trailing window relative
// to the new event time are evicted from the front; the request is admitted
// only while the retained count stays below capacity.
//
// Denials never append, so the log never holds more than capacity entries.
// Each Admit counts as a single admission regardless of cost; weighted costs
// are a token bucket property.
type SlidingLog struct {
	capacity int64
	window   time.Duration
	log      []time.Time // admitted event times, oldest first
	mu       sync.Mutex
}

// NewSlidingLog creates a sliding window log admitting at most capacity
// events per trailing window.
func NewSlidingLog(capacity int64, window time.Duration) *SlidingLog {
	return &SlidingLog{
		capacity: capacity,
		window:   window,
	}
}

// Admit attempts to admit one event at eventTime. cost is ignored; the
// variant has a fixed cost of one per call.
func (sl *SlidingLog) Admit(_ int64, eventTime time.Time) bool {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	sl.evictLocked(eventTime)

	if int64(len(sl.log)) < sl.capacity {
		sl.log = append(sl.log, eventTime)
		return true
	}
	return false
}

// Remaining returns how many admissions are left in the current window.
func (sl *SlidingLog) Remaining() int64 {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.capacity - int64(len(sl.log))
}

// evictLocked drops entries older than the window relative to eventTime,
// stopping at the first retained entry still inside it. Caller must hold mu.
func (sl *SlidingLog) evictLocked(eventTime time.Time) {
	i := 0
	for i < len(sl.log) && eventTime.Sub(sl.log[i]) >= sl.window {
		i++
	}
	if i > 0 {
		sl.log = append(sl.log[:0], sl.log[i:]...)
	}
}
