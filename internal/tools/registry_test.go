package tools

import (
	"context"
	"testing"

	"github.com/venturely/venturely/internal/log"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(log.NewNop())
	if err != nil {
		t.Fatalf("NewRegistry() failed: %v", err)
	}
	return r
}

func TestNewRegistry_BuiltinTools(t *testing.T) {
	r := newTestRegistry(t)

	for _, name := range []string{
		"financial_calculator",
		"data_analyzer",
		"document_processor",
		"chart_generator",
	} {
		def, ok := r.Get(name)
		if !ok {
			t.Errorf("Get(%q) not found", name)
			continue
		}
		if def.Name() != name {
			t.Errorf("Name() = %q, want %q", def.Name(), name)
		}
		if def.Description() == "" {
			t.Errorf("tool %q has no description", name)
		}
		if def.Parameters() == nil {
			t.Errorf("tool %q has no parameter schema", name)
		}
	}

	if got := len(r.All()); got != 4 {
		t.Errorf("All() returned %d tools, want 4", got)
	}
}

// Every tool name a role maps to must resolve to a registered tool.
func TestRegistry_RoleReferentialIntegrity(t *testing.T) {
	r := newTestRegistry(t)

	for _, role := range r.Roles() {
		for _, def := range r.ForUserType(role) {
			if _, ok := r.Get(def.Name()); !ok {
				t.Errorf("role %q maps to unregistered tool %q", role, def.Name())
			}
		}
	}
}

func TestRegistry_ForUserType(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		role      string
		wantNames []string
	}{
		{"entrepreneur", []string{"financial_calculator", "data_analyzer", "chart_generator", "document_processor"}},
		{"investor", []string{"financial_calculator", "data_analyzer", "chart_generator"}},
		{"lender", []string{"financial_calculator", "document_processor", "data_analyzer"}},
		{"grantor", []string{"document_processor", "data_analyzer"}},
		{"partner", []string{"data_analyzer", "chart_generator"}},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			defs := r.ForUserType(tt.role)
			if len(defs) != len(tt.wantNames) {
				t.Fatalf("got %d tools, want %d", len(defs), len(tt.wantNames))
			}
			for i, def := range defs {
				if def.Name() != tt.wantNames[i] {
					t.Errorf("tool[%d] = %q, want %q", i, def.Name(), tt.wantNames[i])
				}
			}
		})
	}
}

func TestRegistry_ForUserType_UnknownRole(t *testing.T) {
	r := newTestRegistry(t)

	defs := r.ForUserType("accountant")
	if len(defs) != 0 {
		t.Errorf("got %d tools for unknown role, want 0", len(defs))
	}
}

func TestRegistry_Register_Duplicate(t *testing.T) {
	r := newTestRegistry(t)

	dup, err := New("financial_calculator", "duplicate", func(_ context.Context, in struct{}) (any, error) {
		return nil, nil
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if err := r.Register(dup); err == nil {
		t.Error("expected error when registering a duplicate tool name")
	}
}

func TestRegistry_Register_Nil(t *testing.T) {
	r := newTestRegistry(t)
	if err := r.Register(nil); err == nil {
		t.Error("expected error when registering nil")
	}
}

func TestRegistry_Roles(t *testing.T) {
	r := newTestRegistry(t)

	roles := r.Roles()
	want := []string{"entrepreneur", "grantor", "investor", "lender", "partner"}
	if len(roles) != len(want) {
		t.Fatalf("Roles() returned %d roles, want %d", len(roles), len(want))
	}
	for i, role := range roles {
		if role != want[i] {
			t.Errorf("roles[%d] = %q, want %q", i, role, want[i])
		}
	}
}
