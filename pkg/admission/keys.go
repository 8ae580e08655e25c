package admission

import (
	"strings"

	"atlas-hq/gatewarden/pkg/admission/capacity"
)

// Level names, in evaluation order.
const (
	LevelTenant   = "tenant"
	LevelIdentity = "identity"
)

// Level is one gating check in the hierarchy: which bucket key it maps to,
// the capacity a new bucket gets, its refill rate, and what the request costs
// against it.
type Level struct {
	Name       string
	Key        string
	Capacity   int64
	RefillRate float64 // tokens per second for token bucket variants
	Cost       int64
}

// Composer derives the ordered hierarchy levels a request must pass through.
//
// Keys are order-stable: the same logical subject always serializes to the
// same string, so the registry treats it as the same entity.
type Composer struct {
	caps capacity.Provider

	// anonymousCapacity is the base capacity for callers without an
	// identity. It must sit strictly below every authenticated tier.
	anonymousCapacity int64

	writeCost int64
	readCost  int64
}

// NewComposer creates a composer backed by the given capacity provider.
func NewComposer(caps capacity.Provider, anonymousCapacity, writeCost, readCost int64) *Composer {
	return &Composer{
		caps:              caps,
		anonymousCapacity: anonymousCapacity,
		writeCost:         writeCost,
		readCost:          readCost,
	}
}

// Levels returns the checks for req in strict evaluation order: the tenant
// level gates the identity level.
func (c *Composer) Levels(req Request) []Level {
	cost := c.methodCost(req.Method)

	tenantCap := c.caps.TenantCapacity(req.TenantID)
	tenant := Level{
		Name:     LevelTenant,
		Key:      "tenant:" + req.TenantID,
		Capacity: tenantCap,
		// The tenant bucket replenishes its full capacity each second;
		// it exists to cap aggregate burst, not to starve the tenant.
		RefillRate: float64(tenantCap),
		Cost:       cost,
	}

	var key string
	var base int64
	if req.Anonymous() {
		// No identity: fall back to the caller's IP with a strict
		// anonymous allowance.
		key = "tenant:" + req.TenantID + ":ip:" + req.IP + ":path:" + req.Path
		base = c.anonymousCapacity
	} else {
		key = "tenant:" + req.TenantID + ":user:" + req.Identity + ":path:" + req.Path
		base = c.caps.UserCapacity(req.Identity)
	}

	// The path's hard limit caps every tier. A premium identity cannot
	// spam a sensitive endpoint past the path's own ceiling.
	effective := base
	if pathCap := c.caps.PathCapacity(req.Path); pathCap < effective {
		effective = pathCap
	}

	identity := Level{
		Name:       LevelIdentity,
		Key:        key,
		Capacity:   effective,
		RefillRate: 1,
		Cost:       cost,
	}

	return []Level{tenant, identity}
}

// methodCost weighs write-class methods heavier than reads.
func (c *Composer) methodCost(method string) int64 {
	switch strings.ToUpper(method) {
	case "POST", "PUT", "DELETE", "PATCH":
		return c.writeCost
	}
	return c.readCost
}
