package capacity

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Table holds the capacity lookup tables, typically loaded from YAML:
//
//	tenants:
//	  ACME: 10000
//	users:
//	  alice: 100
//	paths:
//	  /login: 5
//	defaults:
//	  tenant: 100
//	  user: 20
//	  path: 1000
type Table struct {
	Tenants  map[string]int64 `yaml:"tenants"`
	Users    map[string]int64 `yaml:"users"`
	Paths    map[string]int64 `yaml:"paths"`
	Defaults TableDefaults    `yaml:"defaults"`
}

// TableDefaults are the fallback capacities for unknown subjects.
type TableDefaults struct {
	Tenant int64 `yaml:"tenant"`
	User   int64 `yaml:"user"`
	Path   int64 `yaml:"path"`
}

// Defaults returns an empty table with the package defaults filled in.
func Defaults() Table {
	return Table{
		Defaults: TableDefaults{
			Tenant: DefaultTenantCapacity,
			User:   DefaultUserCapacity,
			Path:   DefaultPathCapacity,
		},
	}
}

// LoadTable reads a capacity table from a YAML file, filling in package
// defaults for any unset fallback.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to read capacity file %q: %w", path, err)
	}

	table := Defaults()
	if err := yaml.Unmarshal(data, &table); err != nil {
		return Table{}, fmt.Errorf("failed to parse capacity file %q: %w", path, err)
	}
	if err := table.Validate(); err != nil {
		return Table{}, fmt.Errorf("capacity file %q: %w", path, err)
	}
	return table, nil
}

// Validate checks that every configured capacity is positive.
func (t Table) Validate() error {
	for id, c := range t.Tenants {
		if c <= 0 {
			return fmt.Errorf("tenant %q has non-positive capacity %d", id, c)
		}
	}
	for id, c := range t.Users {
		if c <= 0 {
			return fmt.Errorf("user %q has non-positive capacity %d", id, c)
		}
	}
	for p, c := range t.Paths {
		if c <= 0 {
			return fmt.Errorf("path %q has non-positive capacity %d", p, c)
		}
	}
	if t.Defaults.Tenant <= 0 || t.Defaults.User <= 0 || t.Defaults.Path <= 0 {
		return fmt.Errorf("defaults must be positive, got %+v", t.Defaults)
	}
	return nil
}

// Static is a Provider backed by an in-memory Table. The table can be swapped
// atomically at runtime, which is how hot reload works; lookups against
// already-created buckets are unaffected, since the admission core bakes a
// capacity into a bucket at creation time.
type Static struct {
	table Table
	mu    sync.RWMutex
}

// NewStatic creates a Static provider over table.
func NewStatic(table Table) *Static {
	return &Static{table: table}
}

// Replace swaps in a new table. Only buckets created after the swap observe
// the new capacities.
func (s *Static) Replace(table Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = table
}

// TenantCapacity implements Provider.
func (s *Static) TenantCapacity(tenantID string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.table.Tenants[tenantID]; ok {
		return c
	}
	return s.table.Defaults.Tenant
}

// UserCapacity implements Provider.
func (s *Static) UserCapacity(identity string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.table.Users[identity]; ok {
		return c
	}
	return s.table.Defaults.User
}

// PathCapacity implements Provider.
func (s *Static) PathCapacity(path string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.table.Paths[path]; ok {
		return c
	}
	return s.table.Defaults.Path
}
