package capacity

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStatic_Lookups(t *testing.T) {
	s := NewStatic(Table{
		Tenants:  map[string]int64{"ACME": 10000},
		Users:    map[string]int64{"alice": 100},
		Paths:    map[string]int64{"/login": 5},
		Defaults: TableDefaults{Tenant: 100, User: 20, Path: 1000},
	})

	if got := s.TenantCapacity("ACME"); got != 10000 {
		t.Errorf("TenantCapacity(ACME) = %d, want 10000", got)
	}
	if got := s.TenantCapacity("unknown"); got != 100 {
		t.Errorf("TenantCapacity(unknown) = %d, want 100", got)
	}
	if got := s.UserCapacity("alice"); got != 100 {
		t.Errorf("UserCapacity(alice) = %d, want 100", got)
	}
	if got := s.UserCapacity("bob"); got != 20 {
		t.Errorf("UserCapacity(bob) = %d, want 20", got)
	}
	if got := s.PathCapacity("/login"); got != 5 {
		t.Errorf("PathCapacity(/login) = %d, want 5", got)
	}
	if got := s.PathCapacity("/anything"); got != 1000 {
		t.Errorf("PathCapacity(/anything) = %d, want 1000", got)
	}
}

func TestStatic_Replace(t *testing.T) {
	s := NewStatic(Defaults())
	if got := s.TenantCapacity("ACME"); got != DefaultTenantCapacity {
		t.Fatalf("got %d before replace, want default", got)
	}

	s.Replace(Table{
		Tenants:  map[string]int64{"ACME": 42},
		Defaults: Defaults().Defaults,
	})
	if got := s.TenantCapacity("ACME"); got != 42 {
		t.Fatalf("got %d after replace, want 42", got)
	}
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capacity.yaml")
	content := `
tenants:
  ACME: 10000
users:
  alice: 100
paths:
  /login: 5
defaults:
  user: 25
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Tenants["ACME"] != 10000 {
		t.Errorf("ACME = %d, want 10000", table.Tenants["ACME"])
	}
	if table.Defaults.User != 25 {
		t.Errorf("defaults.user = %d, want 25", table.Defaults.User)
	}
	// Unset defaults keep their package values.
	if table.Defaults.Tenant != DefaultTenantCapacity {
		t.Errorf("defaults.tenant = %d, want %d", table.Defaults.Tenant, DefaultTenantCapacity)
	}
}

func TestLoadTable_Invalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "tenants: ["},
		{"non-positive capacity", "tenants:\n  ACME: 0\n"},
		{"negative path", "paths:\n  /login: -5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadTable(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	if _, err := LoadTable(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
