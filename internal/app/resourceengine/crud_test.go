package resourceengine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/idlehub/internal/app/resourceengine"
	"github.com/dalemusser/idlehub/internal/app/system/criteria"
	"github.com/dalemusser/idlehub/internal/testutil"
	"github.com/shopspring/decimal"
)

func validInput(depID int64) resourceengine.ResourceInput {
	rate := decimal.RequireFromString("55.50")
	return resourceengine.ResourceInput{
		EmployeeCode: "EMP500",
		FullName:     "Dana <b>Scully</b>",
		DepartmentID: depID,
		Position:     "Analyst",
		Email:        "dana@example.com",
		SkillSet:     "Go, SQL",
		IdleFrom:     "2025-03-01",
		Status:       "Idle",
		Rate:         &rate,
	}
}

func TestCreate_AndGet(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	rec, err := e.eng.Create(ctx, validInput(e.engineering.ID), admin().Caller())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.FullName != "Dana Scully" {
		t.Errorf("fullName: got %q, want markup stripped", rec.FullName)
	}
	if rec.DepartmentName != "Engineering" || rec.Status != "idle" || rec.IdleFrom != "2025-03-01" {
		t.Errorf("record: got %+v", rec)
	}
	if rec.CreatedBy != admin().ID {
		t.Errorf("createdBy: got %d", rec.CreatedBy)
	}

	_, err = e.eng.Create(ctx, validInput(e.engineering.ID), admin().Caller())
	if !errors.Is(err, resourceengine.ErrDuplicateCode) {
		t.Errorf("second create: got %v, want ErrDuplicateCode", err)
	}
}

func TestCreate_Validation(t *testing.T) {
	e := newEnv(t)
	tests := []struct {
		name  string
		edit  func(*resourceengine.ResourceInput)
		field string
	}{
		{"missing code", func(in *resourceengine.ResourceInput) { in.EmployeeCode = "" }, "employeeCode"},
		{"bad email", func(in *resourceengine.ResourceInput) { in.Email = "nope" }, "email"},
		{"bad date", func(in *resourceengine.ResourceInput) { in.IdleFrom = "03/01/2025" }, "idleFrom"},
		{"idleTo before idleFrom", func(in *resourceengine.ResourceInput) { in.IdleTo = "2025-02-01" }, "idleTo"},
		{"bad status", func(in *resourceengine.ResourceInput) { in.Status = "gone" }, "status"},
		{"unknown department", func(in *resourceengine.ResourceInput) { in.DepartmentID = 999 }, "departmentId"},
		{"negative rate", func(in *resourceengine.ResourceInput) {
			r := decimal.NewFromInt(-5)
			in.Rate = &r
		}, "rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput(e.engineering.ID)
			tt.edit(&in)
			_, err := e.eng.Create(context.Background(), in, admin().Caller())
			var ve *criteria.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("field: got %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestWrites_RoleAndScope(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	foreign := e.fx.CreateResource(ctx, "S1", "Sam", e.sales, testutil.Date(2025, 1, 1))
	manager := testutil.ManagerUser(e.engineering.ID).Caller()

	if _, err := e.eng.Create(ctx, validInput(e.engineering.ID), testutil.ViewerUser().Caller()); !errors.Is(err, resourceengine.ErrReadOnly) {
		t.Errorf("viewer create: got %v, want ErrReadOnly", err)
	}
	if _, err := e.eng.Create(ctx, validInput(e.sales.ID), manager); !errors.Is(err, resourceengine.ErrOutOfScope) {
		t.Errorf("manager create in other department: got %v, want ErrOutOfScope", err)
	}
	if _, err := e.eng.Get(ctx, foreign.ID, manager); !errors.Is(err, resourceengine.ErrNotFound) {
		t.Errorf("manager get foreign: got %v, want ErrNotFound", err)
	}
	if err := e.eng.Delete(ctx, foreign.ID, manager); !errors.Is(err, resourceengine.ErrNotFound) {
		t.Errorf("manager delete foreign: got %v, want ErrNotFound", err)
	}
	if len(e.store.All()) != 1 {
		t.Error("foreign record should survive")
	}
}

func ptr[T any](v T) *T { return &v }

func TestUpdate_EmployeeCodeImmutable(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	created, err := e.eng.Create(ctx, validInput(e.engineering.ID), admin().Caller())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var ve *criteria.ValidationError
	_, err = e.eng.Update(ctx, created.ID, resourceengine.ResourcePatch{EmployeeCode: ptr("CHANGED")}, admin().Caller())
	if !errors.As(err, &ve) || ve.Field != "employeeCode" {
		t.Errorf("code change: got %v", err)
	}

	patch := resourceengine.ResourcePatch{
		EmployeeCode: ptr("EMP500"),
		Status:       ptr("assigned"),
		DepartmentID: ptr(e.sales.ID),
	}
	updated, err := e.eng.Update(ctx, created.ID, patch, admin().Caller())
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.EmployeeCode != "EMP500" || updated.Status != "assigned" || updated.DepartmentName != "Sales" {
		t.Errorf("updated: got %+v", updated)
	}
	if updated.CreatedAt != created.CreatedAt {
		t.Errorf("createdAt changed: %v -> %v", created.CreatedAt, updated.CreatedAt)
	}
}

func TestUpdate_PartialKeepsOmittedFields(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	in := validInput(e.engineering.ID)
	in.IdleTo = "2025-09-30"
	in.ProcessNote = "waiting on project"
	created, err := e.eng.Create(ctx, in, admin().Caller())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := e.eng.Update(ctx, created.ID, resourceengine.ResourcePatch{Position: ptr("Lead <i>Analyst</i>")}, admin().Caller())
	if err != nil {
		t.Fatalf("Update without fullName: %v", err)
	}
	if updated.Position != "Lead Analyst" {
		t.Errorf("position: got %q", updated.Position)
	}
	if updated.FullName != "Dana Scully" || updated.SkillSet != "Go, SQL" || updated.ProcessNote != "waiting on project" {
		t.Errorf("text fields changed: %+v", updated)
	}
	if updated.Rate == nil || updated.Rate.String() != "55.5" {
		t.Errorf("rate: got %v, want 55.5", updated.Rate)
	}
	if updated.Email == nil || *updated.Email != "dana@example.com" {
		t.Errorf("email: got %v", updated.Email)
	}
	if updated.IdleTo == nil || *updated.IdleTo != "2025-09-30" || updated.IdleFrom != "2025-03-01" {
		t.Errorf("dates: got %s..%v", updated.IdleFrom, updated.IdleTo)
	}

	cleared, err := e.eng.Update(ctx, created.ID, resourceengine.ResourcePatch{Email: ptr(""), IdleTo: ptr("")}, admin().Caller())
	if err != nil {
		t.Fatalf("Update clearing: %v", err)
	}
	if cleared.Email != nil || cleared.IdleTo != nil {
		t.Errorf("clear: got email=%v idleTo=%v", cleared.Email, cleared.IdleTo)
	}
	if cleared.Rate == nil {
		t.Error("clearing email must not clear rate")
	}
}

func TestUpdate_ValidatesMergedRecord(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	created, err := e.eng.Create(ctx, validInput(e.engineering.ID), admin().Caller())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	tests := []struct {
		name  string
		patch resourceengine.ResourcePatch
		field string
	}{
		{"idleTo before stored idleFrom", resourceengine.ResourcePatch{IdleTo: ptr("2025-01-01")}, "idleTo"},
		{"blank full name", resourceengine.ResourcePatch{FullName: ptr("  ")}, "fullName"},
		{"bad status", resourceengine.ResourcePatch{Status: ptr("retired")}, "status"},
		{"bad email", resourceengine.ResourcePatch{Email: ptr("nope")}, "email"},
		{"negative rate", resourceengine.ResourcePatch{Rate: ptr(decimal.NewFromInt(-1))}, "rate"},
		{"unknown department", resourceengine.ResourcePatch{DepartmentID: ptr(int64(999))}, "departmentId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.eng.Update(ctx, created.ID, tt.patch, admin().Caller())
			var ve *criteria.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Errorf("got %v, want ValidationError on %s", err, tt.field)
			}
		})
	}

	manager := testutil.ManagerUser(e.engineering.ID).Caller()
	if _, err := e.eng.Update(ctx, created.ID, resourceengine.ResourcePatch{DepartmentID: ptr(e.sales.ID)}, manager); !errors.Is(err, resourceengine.ErrOutOfScope) {
		t.Errorf("manager moving record out: got %v, want ErrOutOfScope", err)
	}
}

func TestBatchDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.fx.CreateResource(ctx, "A", "A", e.engineering, testutil.Date(2025, 1, 1))
	b := e.fx.CreateResource(ctx, "B", "B", e.engineering, testutil.Date(2025, 1, 1))

	res, err := e.eng.BatchDelete(ctx, []int64{a.ID, 404, b.ID}, admin().Caller())
	if err != nil {
		t.Fatalf("BatchDelete: %v", err)
	}
	if res.Deleted != 2 || len(res.Errors) != 1 || res.Errors[0] != "ID 404: not found" {
		t.Errorf("result: got %+v", res)
	}
	if len(e.store.All()) != 0 {
		t.Errorf("remaining: got %d", len(e.store.All()))
	}
}
