// Package capacity resolves tenant, user, and path capacities for admission
// control.
//
// The admission core treats capacity lookup as an external collaborator: it
// asks for a capacity only when creating a bucket and never caches beyond
// that, so a capacity change takes effect for buckets created after the
// change.
//
// The package ships a static, YAML-backed Provider with documented defaults
// for unknown subjects, plus a file watcher that hot-reloads the tables on
// change.
package capacity
