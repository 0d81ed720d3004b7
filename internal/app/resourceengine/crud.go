package resourceengine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/idlehub/internal/app/policy/resourcescope"
	"github.com/dalemusser/idlehub/internal/app/system/authz"
	"github.com/dalemusser/idlehub/internal/app/system/criteria"
	"github.com/dalemusser/idlehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/idlehub/internal/app/system/projection"
	"github.com/dalemusser/idlehub/internal/domain/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ResourceInput is the create/update payload.
type ResourceInput struct {
	EmployeeCode string           `json:"employeeCode" validate:"required,max=50"`
	FullName     string           `json:"fullName" validate:"required,max=255"`
	DepartmentID int64            `json:"departmentId" validate:"required,gt=0"`
	Position     string           `json:"position" validate:"required,max=255"`
	Email        string           `json:"email" validate:"omitempty,email,max=255"`
	SkillSet     string           `json:"skillSet"`
	IdleFrom     string           `json:"idleFrom" validate:"required,datetime=2006-01-02"`
	IdleTo       string           `json:"idleTo" validate:"omitempty,datetime=2006-01-02"`
	Status       string           `json:"status" validate:"required"`
	Rate         *decimal.Decimal `json:"rate"`
	ProcessNote  string           `json:"processNote"`
}

// BatchResult reports a batch delete.
type BatchResult struct {
	Deleted int      `json:"deleted"`
	Errors  []string `json:"errors"`
}

// Get returns one record. Records outside the caller's scope are reported
// as ErrNotFound.
func (e *Engine) Get(ctx context.Context, id int64, caller authz.Caller) (projection.Record, error) {
	row, err := e.visible(ctx, id, caller)
	if err != nil {
		return projection.Record{}, err
	}
	counts, err := e.cvCounts(ctx, []models.ResourceRow{*row})
	if err != nil {
		return projection.Record{}, err
	}
	return projection.One(*row, e.now(), e.cfg.ThresholdMonths, counts[row.ID]), nil
}

// Create validates and stores a new record on behalf of caller.
func (e *Engine) Create(ctx context.Context, in ResourceInput, caller authz.Caller) (projection.Record, error) {
	if !caller.Role.CanWrite() {
		return projection.Record{}, ErrReadOnly
	}
	in = cleanInput(in)
	if err := validate.Struct(in); err != nil {
		return projection.Record{}, validationError(err)
	}
	r, err := e.buildRecord(ctx, in, caller)
	if err != nil {
		return projection.Record{}, err
	}
	r.EmployeeCode = in.EmployeeCode
	r.CreatedBy = caller.UserID

	exists, err := e.resources.ExistsByEmployeeCode(ctx, r.EmployeeCode)
	if err != nil {
		return projection.Record{}, fmt.Errorf("check employee code: %w", err)
	}
	if exists {
		return projection.Record{}, ErrDuplicateCode
	}

	created, err := e.resources.Create(ctx, r)
	if errors.Is(err, models.ErrDuplicateEmployeeCode) {
		return projection.Record{}, ErrDuplicateCode
	}
	if err != nil {
		return projection.Record{}, fmt.Errorf("create idle resource: %w", err)
	}
	e.log.Info("idle resource created",
		zap.Int64("id", created.ID),
		zap.String("employee_code", created.EmployeeCode),
		zap.Int64("user_id", caller.UserID))

	return e.Get(ctx, created.ID, caller)
}

// ResourcePatch is the update payload. Nil fields keep the stored value;
// an empty email or idleTo clears it.
type ResourcePatch struct {
	EmployeeCode *string          `json:"employeeCode"`
	FullName     *string          `json:"fullName"`
	DepartmentID *int64           `json:"departmentId"`
	Position     *string          `json:"position"`
	Email        *string          `json:"email"`
	SkillSet     *string          `json:"skillSet"`
	IdleFrom     *string          `json:"idleFrom"`
	IdleTo       *string          `json:"idleTo"`
	Status       *string          `json:"status"`
	Rate         *decimal.Decimal `json:"rate"`
	ProcessNote  *string          `json:"processNote"`
}

// Update applies patch to a record and validates the merged result. The
// employee code cannot change; passing a different one is a validation
// error.
func (e *Engine) Update(ctx context.Context, id int64, patch ResourcePatch, caller authz.Caller) (projection.Record, error) {
	if !caller.Role.CanWrite() {
		return projection.Record{}, ErrReadOnly
	}
	existing, err := e.visible(ctx, id, caller)
	if err != nil {
		return projection.Record{}, err
	}
	if patch.EmployeeCode != nil {
		if code := strings.TrimSpace(*patch.EmployeeCode); code != "" && code != existing.EmployeeCode {
			return projection.Record{}, &criteria.ValidationError{Field: "employeeCode", Reason: "cannot be changed"}
		}
	}
	in := cleanInput(merge(existing.IdleResource, patch))
	if err := validate.Struct(in); err != nil {
		return projection.Record{}, validationError(err)
	}
	r, err := e.buildRecord(ctx, in, caller)
	if err != nil {
		return projection.Record{}, err
	}
	r.ID = existing.ID
	r.EmployeeCode = existing.EmployeeCode
	r.CreatedBy = existing.CreatedBy
	r.CreatedAt = existing.CreatedAt

	if err := e.resources.Update(ctx, r); err != nil {
		return projection.Record{}, fmt.Errorf("update idle resource: %w", err)
	}
	return e.Get(ctx, id, caller)
}

// merge lays patch over the stored record in input form.
func merge(cur models.IdleResource, p ResourcePatch) ResourceInput {
	in := ResourceInput{
		EmployeeCode: cur.EmployeeCode,
		FullName:     cur.FullName,
		DepartmentID: cur.DepartmentID,
		Position:     cur.Position,
		SkillSet:     cur.SkillSet,
		IdleFrom:     cur.IdleFrom.Format(criteria.DateLayout),
		Status:       string(cur.Status),
		Rate:         cur.Rate,
		ProcessNote:  cur.ProcessNote,
	}
	if cur.Email != nil {
		in.Email = *cur.Email
	}
	if cur.IdleTo != nil {
		in.IdleTo = cur.IdleTo.Format(criteria.DateLayout)
	}

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&in.FullName, p.FullName)
	set(&in.Position, p.Position)
	set(&in.Email, p.Email)
	set(&in.SkillSet, p.SkillSet)
	set(&in.IdleFrom, p.IdleFrom)
	set(&in.IdleTo, p.IdleTo)
	set(&in.Status, p.Status)
	set(&in.ProcessNote, p.ProcessNote)
	if p.DepartmentID != nil {
		in.DepartmentID = *p.DepartmentID
	}
	if p.Rate != nil {
		in.Rate = p.Rate
	}
	return in
}

// Delete removes one record visible to caller.
func (e *Engine) Delete(ctx context.Context, id int64, caller authz.Caller) error {
	if !caller.Role.CanWrite() {
		return ErrReadOnly
	}
	if _, err := e.visible(ctx, id, caller); err != nil {
		return err
	}
	n, err := e.resources.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete idle resource: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	e.log.Info("idle resource deleted", zap.Int64("id", id), zap.Int64("user_id", caller.UserID))
	return nil
}

// BatchDelete deletes each id independently and reports failures per id.
func (e *Engine) BatchDelete(ctx context.Context, ids []int64, caller authz.Caller) (BatchResult, error) {
	if !caller.Role.CanWrite() {
		return BatchResult{}, ErrReadOnly
	}
	res := BatchResult{Errors: []string{}}
	for _, id := range ids {
		err := e.Delete(ctx, id, caller)
		switch {
		case err == nil:
			res.Deleted++
		case errors.Is(err, ErrNotFound):
			res.Errors = append(res.Errors, fmt.Sprintf("ID %d: not found", id))
		default:
			return res, err
		}
	}
	return res, nil
}

func (e *Engine) visible(ctx context.Context, id int64, caller authz.Caller) (*models.ResourceRow, error) {
	row, err := e.resources.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get idle resource: %w", err)
	}
	if row == nil || !resourcescope.AllowsDepartment(caller, row.DepartmentID) {
		return nil, ErrNotFound
	}
	return row, nil
}

// buildRecord converts validated input; the caller fills identity fields.
func (e *Engine) buildRecord(ctx context.Context, in ResourceInput, caller authz.Caller) (models.IdleResource, error) {
	status, ok := models.ParseStatus(in.Status)
	if !ok {
		return models.IdleResource{}, &criteria.ValidationError{Field: "status", Reason: "must be one of idle, assigned, processing, unavailable"}
	}
	idleFrom, _ := time.Parse(criteria.DateLayout, in.IdleFrom)
	var idleTo *time.Time
	if in.IdleTo != "" {
		t, _ := time.Parse(criteria.DateLayout, in.IdleTo)
		if t.Before(idleFrom) {
			return models.IdleResource{}, &criteria.ValidationError{Field: "idleTo", Reason: "must not be before idleFrom"}
		}
		idleTo = &t
	}
	if in.Rate != nil && in.Rate.IsNegative() {
		return models.IdleResource{}, &criteria.ValidationError{Field: "rate", Reason: "must not be negative"}
	}

	if !resourcescope.AllowsDepartment(caller, in.DepartmentID) {
		return models.IdleResource{}, ErrOutOfScope
	}
	dep, err := e.departments.GetByID(ctx, in.DepartmentID)
	if err != nil {
		return models.IdleResource{}, fmt.Errorf("get department: %w", err)
	}
	if dep == nil {
		return models.IdleResource{}, &criteria.ValidationError{Field: "departmentId", Reason: "department does not exist"}
	}

	r := models.IdleResource{
		FullName:     in.FullName,
		DepartmentID: dep.ID,
		Position:     in.Position,
		SkillSet:     in.SkillSet,
		IdleFrom:     idleFrom,
		IdleTo:       idleTo,
		Status:       status,
		Rate:         in.Rate,
		ProcessNote:  in.ProcessNote,
		UpdatedBy:    caller.UserID,
	}
	if in.Email != "" {
		email := in.Email
		r.Email = &email
	}
	return r, nil
}

func cleanInput(in ResourceInput) ResourceInput {
	in.EmployeeCode = strings.TrimSpace(in.EmployeeCode)
	in.FullName = htmlsanitize.PlainText(in.FullName)
	in.Position = htmlsanitize.PlainText(in.Position)
	in.Email = strings.TrimSpace(in.Email)
	in.SkillSet = htmlsanitize.PlainText(in.SkillSet)
	in.IdleFrom = strings.TrimSpace(in.IdleFrom)
	in.IdleTo = strings.TrimSpace(in.IdleTo)
	in.Status = strings.TrimSpace(in.Status)
	in.ProcessNote = htmlsanitize.PlainText(in.ProcessNote)
	return in
}
