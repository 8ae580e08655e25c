package admission

import (
	"fmt"
	"time"
)

// Algorithm selects which admission algorithm backs a bucket.
type Algorithm string

const (
	// AlgorithmTokenBucket is a capped, continuously refilling balance.
	// Allows bursts up to capacity; supports weighted costs.
	AlgorithmTokenBucket Algorithm = "token_bucket"

	// AlgorithmSlidingLog retains exact admission timestamps within a
	// trailing window. Precise, memory bounded by capacity, fixed cost of
	// one per admission.
	AlgorithmSlidingLog Algorithm = "sliding_log"

	// AlgorithmFixedWindow counts admissions in reset-on-interval windows.
	// O(1) state but permits up to 2x the limit across a window edge.
	AlgorithmFixedWindow Algorithm = "fixed_window"
)

// Valid reports whether a is a known algorithm.
func (a Algorithm) Valid() bool {
	switch a {
	case AlgorithmTokenBucket, AlgorithmSlidingLog, AlgorithmFixedWindow:
		return true
	}
	return false
}

// Bucket is the capability contract shared by all admission algorithms.
//
// Admit attempts to admit cost units at eventTime and reports whether the
// request is allowed. A denial leaves the bucket's balance unchanged.
// Implementations serialize concurrent calls; the effect of Admit calls on
// one bucket is equivalent to some sequential order.
//
// Remaining reports the bucket's current balance. It is informational: by the
// time the caller reads it another goroutine may have consumed from the
// bucket.
type Bucket interface {
	Admit(cost int64, eventTime time.Time) bool
	Remaining() int64
}

// newBucket constructs a bucket for the given algorithm, seeded at the
// creating request's event time.
func newBucket(alg Algorithm, capacity int64, refillRate float64, window time.Duration, start time.Time) (Bucket, error) {
	switch alg {
	case AlgorithmTokenBucket:
		return NewTokenBucket(capacity, refillRate, start), nil
	case AlgorithmSlidingLog:
		return NewSlidingLog(capacity, window), nil
	case AlgorithmFixedWindow:
		return NewFixedWindow(capacity, window, start), nil
	default:
		return nil, fmt.Errorf("unknown algorithm %q", alg)
	}
}
