// Package admission implements hierarchical, in-process admission control.
//
// # Overview
//
// The admission package decides, per request, whether it may proceed based on
// shared token budgets organized in a hierarchy (tenant, then identity+route).
// It is a single-node primitive: all state is in memory and all operations are
// synchronous and computational.
//
// The package is built from four pieces:
//
//   - Bucket: one admission primitive. Three interchangeable algorithms
//     (token bucket, sliding window log, fixed window counter) share the
//     Admit(cost, eventTime) contract.
//   - Registry: a concurrent map from composite key to Bucket with race-free,
//     exactly-once creation per key.
//   - Composer: derives the ordered hierarchy levels (key, capacity, cost)
//     a request must pass through.
//   - Limiter: orchestrates the above, evaluating levels in priority order
//     with short-circuit, fail-closed semantics.
//
// # Event Time
//
// All decisions are made against the request's event time, never the wall
// clock. Buckets are seeded at the event time of the request that creates
// them, and refill arithmetic ignores events that arrive out of order rather
// than rewinding state. This makes the limiter usable for replaying
// historical logs as well as live traffic.
//
// # Example
//
//	limiter := admission.New(admission.Config{
//	    Capacity: capacity.NewStatic(capacity.Defaults()),
//	})
//
//	decision, err := limiter.Check(admission.Request{
//	    IP:        "203.0.113.7",
//	    Identity:  "alice",
//	    Path:      "/home",
//	    Method:    "GET",
//	    TenantID:  "ACME",
//	    EventTime: time.Now().UnixMilli(),
//	})
//	if err != nil {
//	    // malformed input, not a rate-limit denial
//	}
//	if !decision.Allowed {
//	    // deny the request
//	}
//
// # Thread Safety
//
// All types are safe for concurrent use. Buckets serialize their
// refill-then-consume sequence under a per-bucket mutex, so admissions on one
// key are linearizable and admissions on different keys never block each
// other.
package admission
