package resourcescope

import (
	"testing"

	"github.com/dalemusser/idlehub/internal/app/system/authz"
	"github.com/dalemusser/idlehub/internal/app/system/criteria"
)

func ptr(v int64) *int64 { return &v }

func TestScope(t *testing.T) {
	tests := []struct {
		name      string
		caller    authz.Caller
		requested *int64
		want      *int64
	}{
		{"admin keeps filter", authz.Caller{Role: authz.RoleAdmin}, ptr(999), ptr(999)},
		{"admin no filter", authz.Caller{Role: authz.RoleAdmin}, nil, nil},
		{"ra_all keeps filter", authz.Caller{Role: authz.RoleRAAll}, ptr(2), ptr(2)},
		{"viewer unrestricted", authz.Caller{Role: authz.RoleViewer}, nil, nil},
		{"manager overrides foreign department", authz.Caller{Role: authz.RoleManager, DepartmentID: ptr(3)}, ptr(999), ptr(3)},
		{"manager no filter narrowed", authz.Caller{Role: authz.RoleManager, DepartmentID: ptr(3)}, nil, ptr(3)},
		{"ra_department narrowed", authz.Caller{Role: authz.RoleRADepartment, DepartmentID: ptr(8)}, ptr(1), ptr(8)},
		{"manager without department sees nothing", authz.Caller{Role: authz.RoleManager}, ptr(4), ptr(NoDepartment)},
		{"unknown role sees nothing", authz.Caller{Role: authz.Role("auditor")}, nil, ptr(NoDepartment)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := criteria.Default()
			c.DepartmentID = tt.requested
			got := Scope(c, tt.caller).DepartmentID

			switch {
			case tt.want == nil && got != nil:
				t.Errorf("DepartmentID: got %d, want nil", *got)
			case tt.want != nil && got == nil:
				t.Errorf("DepartmentID: got nil, want %d", *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("DepartmentID: got %d, want %d", *got, *tt.want)
			}
		})
	}
}

func TestScope_DoesNotMutateInput(t *testing.T) {
	c := criteria.Default()
	c.DepartmentID = ptr(999)
	_ = Scope(c, authz.Caller{Role: authz.RoleManager, DepartmentID: ptr(3)})
	if *c.DepartmentID != 999 {
		t.Errorf("input mutated: got %d, want 999", *c.DepartmentID)
	}
}

func TestAllowsDepartment(t *testing.T) {
	manager := authz.Caller{Role: authz.RoleManager, DepartmentID: ptr(3)}
	if !AllowsDepartment(manager, 3) {
		t.Error("manager should be allowed own department")
	}
	if AllowsDepartment(manager, 4) {
		t.Error("manager should not be allowed a foreign department")
	}
	if !AllowsDepartment(authz.Caller{Role: authz.RoleAdmin}, 4) {
		t.Error("admin should be allowed any department")
	}
}
