// Package audit records admission decisions for later inspection.
//
// The admission core itself never performs I/O; callers (the HTTP server, the
// replay command) build a Record from each decision and hand it to a Sink.
// Two sinks ship with the package: a bounded in-memory ring for tests and
// embedding, and a SQLite-backed sink for durable decision trails.
package audit
