// Package resourcescope narrows idle-resource queries to what a caller's
// role may see.
//
// Authorization rules:
//   - admin, ra_all and viewer see every department
//   - manager and ra_department see only their own department; a
//     departmentId filter they pass is replaced, not rejected
//   - a department-scoped caller without a department sees nothing
//
// Scope must run after criteria.Parse and before queryplan.Compile.
package resourcescope

import (
	"github.com/dalemusser/idlehub/internal/app/system/authz"
	"github.com/dalemusser/idlehub/internal/app/system/criteria"
)

// NoDepartment is never assigned to a real department, so filtering on it
// yields an empty result.
const NoDepartment int64 = 0

type rule func(c criteria.Criteria, caller authz.Caller) criteria.Criteria

var rules = map[authz.Role]rule{
	authz.RoleAdmin:        unrestricted,
	authz.RoleRAAll:        unrestricted,
	authz.RoleViewer:       unrestricted,
	authz.RoleRADepartment: ownDepartment,
	authz.RoleManager:      ownDepartment,
}

// Scope applies the caller's rule. Roles without a rule are treated like
// department-scoped roles without a department.
func Scope(c criteria.Criteria, caller authz.Caller) criteria.Criteria {
	if r, ok := rules[caller.Role]; ok {
		return r(c, caller)
	}
	return restrictTo(c, NoDepartment)
}

// DepartmentScoped reports whether the caller is limited to one department.
func DepartmentScoped(caller authz.Caller) bool {
	return caller.Role == authz.RoleManager || caller.Role == authz.RoleRADepartment
}

// AllowsDepartment reports whether the caller may read or write records of
// departmentID.
func AllowsDepartment(caller authz.Caller, departmentID int64) bool {
	c := Scope(criteria.Criteria{}, caller)
	return c.DepartmentID == nil || *c.DepartmentID == departmentID
}

func unrestricted(c criteria.Criteria, _ authz.Caller) criteria.Criteria {
	return c
}

func ownDepartment(c criteria.Criteria, caller authz.Caller) criteria.Criteria {
	if caller.DepartmentID == nil {
		return restrictTo(c, NoDepartment)
	}
	return restrictTo(c, *caller.DepartmentID)
}

func restrictTo(c criteria.Criteria, departmentID int64) criteria.Criteria {
	c.DepartmentID = &departmentID
	return c
}
