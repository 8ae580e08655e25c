package admission

import (
	"sync"
	"sync/atomic"
	"time"
)

// Registry owns exactly one live Bucket per composite key.
//
// Buckets are created lazily on first reference and live for the registry's
// lifetime unless swept. The registry is the sole owner: buckets are handed
// out by reference and never copied, since a copy would fork the refill
// state.
//
// Creation is race-free: concurrent first access on the same new key resolves
// to a single bucket, and the factory runs at most once per key.
type Registry struct {
	entries map[string]*registryEntry
	mu      sync.RWMutex
}

type registryEntry struct {
	bucket   Bucket
	lastSeen atomic.Int64 // event time of last access, epoch millis
}

func (e *registryEntry) touch(eventTime time.Time) {
	// Event times can arrive out of order; keep the newest.
	ms := eventTime.UnixMilli()
	for {
		prev := e.lastSeen.Load()
		if ms <= prev {
			return
		}
		if e.lastSeen.CompareAndSwap(prev, ms) {
			return
		}
	}
}

// NewRegistry creates an empty bucket registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*registryEntry),
	}
}

// GetOrCreate returns the bucket for key, invoking factory to create it on
// first reference. Repeated calls with the same key return the same bucket.
func (r *Registry) GetOrCreate(key string, eventTime time.Time, factory func() Bucket) Bucket {
	r.mu.RLock()
	e, ok := r.entries[key]
	r.mu.RUnlock()
	if ok {
		e.touch(eventTime)
		return e.bucket
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another goroutine may have won the creation race.
	if e, ok := r.entries[key]; ok {
		e.touch(eventTime)
		return e.bucket
	}

	e = &registryEntry{bucket: factory()}
	e.touch(eventTime)
	r.entries[key] = e
	return e.bucket
}

// Get returns the bucket for key, or nil if none exists. It does not create
// and does not refresh the key's idle stamp.
func (r *Registry) Get(key string) Bucket {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[key]; ok {
		return e.bucket
	}
	return nil
}

// Len returns the number of tracked keys.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Sweep removes every key whose last access event time is before cutoff and
// returns how many were evicted. The core never sweeps on its own; eviction
// policy belongs to the deployment (see the reaper package).
func (r *Registry) Sweep(cutoff time.Time) int {
	ms := cutoff.UnixMilli()

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for key, e := range r.entries {
		if e.lastSeen.Load() < ms {
			delete(r.entries, key)
			evicted++
		}
	}
	return evicted
}
