package admission

import (
	"sync"
	"time"
)

// TokenBucket implements the token bucket admission algorithm.
//
// The bucket holds a fractional balance capped at capacity and refilled at a
// constant rate. Each admission consumes its weighted cost; if the balance
// cannot cover the cost, the request is denied and the balance is untouched.
//
// Unlike a wall-clock limiter, refill is driven entirely by the event times
// passed to Admit. Events that arrive out of order (an older timestamp after
// a newer one) never refill and never rewind lastRefill, so replaying an
// unordered log cannot inflate the balance.
//
// # Thread Safety
//
// TokenBucket is safe for concurrent use; refill-then-consume runs as one
// atomic step under a per-bucket mutex.
type TokenBucket struct {
	capacity   int64     // Maximum tokens the bucket can hold
	refillRate float64   // Tokens added per second of event time
	tokens     float64   // Current balance, 0 <= tokens <= capacity
	lastRefill time.Time // Event time of the last refill; never moves backward
	mu         sync.Mutex
}

// NewTokenBucket creates a token bucket seeded at full capacity.
//
// start is the event time of the request that created the bucket, not the
// wall clock; a bucket created for a log entry from 10:00 starts refilling
// from 10:00.
func NewTokenBucket(capacity int64, refillRate float64, start time.Time) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity), // full bucket allows an initial burst
		lastRefill: start,
	}
}

// Admit attempts to consume cost tokens at eventTime.
func (tb *TokenBucket) Admit(cost int64, eventTime time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refillLocked(eventTime)

	if tb.tokens >= float64(cost) {
		tb.tokens -= float64(cost)
		return true
	}
	return false
}

// Remaining returns the whole tokens currently available.
func (tb *TokenBucket) Remaining() int64 {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return int64(tb.tokens)
}

// Capacity returns the maximum balance.
func (tb *TokenBucket) Capacity() int64 {
	return tb.capacity
}

// refillLocked adds tokens for the event time elapsed since the last refill.
// Caller must hold mu.
func (tb *TokenBucket) refillLocked(eventTime time.Time) {
	// Time travel safety: an out-of-order or duplicate event must not
	// refill, and lastRefill must never move backward.
	if !eventTime.After(tb.lastRefill) {
		return
	}

	elapsed := eventTime.Sub(tb.lastRefill).Seconds()
	tb.tokens += elapsed * tb.refillRate
	if tb.tokens > float64(tb.capacity) {
		tb.tokens = float64(tb.capacity)
	}
	tb.lastRefill = eventTime
}
