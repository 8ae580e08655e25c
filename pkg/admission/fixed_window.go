package admission

import (
	"sync"
	"time"
)

// FixedWindow implements the fixed window counter admission algorithm.
//
// Admissions are counted against a window that resets whenever the event time
// has moved a full window past the window start. The variant keeps O(1) state
// and no history, trading precision for cheapness: a burst straddling a
// window edge can admit up to twice the limit. That boundary bursting is an
// accepted property of the algorithm, not a defect, and tests pin it down.
type FixedWindow struct {
	limit       int64
	window      time.Duration
	count       int64     // admissions in the current window, count <= limit
	windowStart time.Time // event time the current window opened
	mu          sync.Mutex
}

// NewFixedWindow creates a fixed window counter. start is the event time of
// the creating request and opens the first window.
func NewFixedWindow(limit int64, window time.Duration, start time.Time) *FixedWindow {
	return &FixedWindow{
		limit:       limit,
		window:      window,
		windowStart: start,
	}
}

// Admit attempts to admit one event at eventTime. cost is ignored; the
// counter tracks admissions, not weighted units.
func (fw *FixedWindow) Admit(_ int64, eventTime time.Time) bool {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if eventTime.Sub(fw.windowStart) >= fw.window {
		fw.windowStart = eventTime
		fw.count = 0
	}

	if fw.count < fw.limit {
		fw.count++
		return true
	}
	return false
}

// Remaining returns the admissions left in the current window.
func (fw *FixedWindow) Remaining() int64 {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.limit - fw.count
}
