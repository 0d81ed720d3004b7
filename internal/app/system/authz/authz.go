// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/idlehub/internal/app/system/auth"
)

// Role is the closed set of staff roles.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleRAAll        Role = "ra_all"
	RoleRADepartment Role = "ra_department"
	RoleManager      Role = "manager"
	RoleViewer       Role = "viewer"
)

// Roles lists every known role.
var Roles = []Role{RoleAdmin, RoleRAAll, RoleRADepartment, RoleManager, RoleViewer}

// ParseRole maps a stored role string onto the enum (case-insensitive).
func ParseRole(s string) (Role, bool) {
	v := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, r := range Roles {
		if v == r {
			return r, true
		}
	}
	return "", false
}

// CanWrite reports whether the role may create, change, import, or delete records.
func (r Role) CanWrite() bool {
	return r != RoleViewer && r != ""
}

// WriterRoles returns the roles allowed to modify records, as strings for
// auth.RequireRole.
func WriterRoles() []string {
	var out []string
	for _, r := range Roles {
		if r.CanWrite() {
			out = append(out, string(r))
		}
	}
	return out
}

// Caller is the identity an engine operation runs on behalf of.
type Caller struct {
	UserID       int64
	Name         string
	Role         Role
	DepartmentID *int64
}

// CallerFromRequest returns the signed-in caller. An unknown role yields
// ok=false so callers fail closed.
func CallerFromRequest(r *http.Request) (Caller, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return Caller{}, false
	}
	role, ok := ParseRole(u.Role)
	if !ok {
		return Caller{}, false
	}
	return Caller{
		UserID:       u.ID,
		Name:         u.Name,
		Role:         role,
		DepartmentID: u.DepartmentID,
	}, true
}
