package capacity

// Provider resolves the capacity a subject is entitled to. Implementations
// must be safe for concurrent use and must return a documented default for
// unknown subjects rather than an error.
type Provider interface {
	// TenantCapacity returns the tenant-level bucket capacity.
	TenantCapacity(tenantID string) int64

	// UserCapacity returns the base capacity of an authenticated identity's
	// tier.
	UserCapacity(identity string) int64

	// PathCapacity returns the hard per-path ceiling that caps every tier.
	PathCapacity(path string) int64
}

// Default capacities for unknown subjects. The user default sits above the
// anonymous allowance so authenticated callers always rank strictly higher.
const (
	DefaultTenantCapacity int64 = 100
	DefaultUserCapacity   int64 = 20
	DefaultPathCapacity   int64 = 1000
)
