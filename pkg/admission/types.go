package admission

import (
	"errors"
	"fmt"
	"time"
)

// Request describes one incoming request to be admitted or denied.
//
// EventTime is epoch milliseconds and is the time the request happened, which
// may be arbitrarily far in the past (log replay) or future. The limiter
// never substitutes the wall clock for it.
type Request struct {
	// IP is the caller's remote address, used for anonymous identity fallback.
	IP string

	// Identity is the authenticated principal, empty for anonymous callers.
	Identity string

	// Path is the route being requested.
	Path string

	// Method is the HTTP-style method; write-class methods cost more.
	Method string

	// TenantID scopes every check; all of a tenant's traffic shares one
	// tenant-level bucket.
	TenantID string

	// EventTime is the request timestamp in epoch milliseconds.
	EventTime int64
}

// Time returns the request's event time as a time.Time.
func (r Request) Time() time.Time {
	return time.UnixMilli(r.EventTime)
}

// Anonymous reports whether the request has no authenticated identity.
func (r Request) Anonymous() bool {
	return r.Identity == ""
}

// Decision is the outcome of a limit check.
//
// Only Allowed is load-bearing; the remaining fields are informational and
// describe the level that produced the decision.
type Decision struct {
	// Allowed indicates whether the request may proceed.
	Allowed bool

	// Level names the hierarchy level that produced the decision
	// ("tenant" or "identity").
	Level string

	// Key is the bucket key of that level.
	Key string

	// Cost is the weighted cost charged (or refused) at that level.
	Cost int64

	// Remaining is the level bucket's balance after the decision.
	Remaining int64
}

// ErrInvalidEventTime is returned for a negative event time. The limiter
// refuses to coerce bad timestamps to "now" because that would silently
// corrupt replayed decisions.
var ErrInvalidEventTime = errors.New("invalid event time")

func validateRequest(r Request) error {
	if r.EventTime < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidEventTime, r.EventTime)
	}
	return nil
}
