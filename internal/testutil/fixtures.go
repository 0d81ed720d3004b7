package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/idlehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	store *MemStore
	t     *testing.T
}

// NewFixtures creates a new Fixtures instance over store.
func NewFixtures(t *testing.T, store *MemStore) *Fixtures {
	t.Helper()
	return &Fixtures{store: store, t: t}
}

// Store returns the underlying store for direct access in tests.
func (f *Fixtures) Store() *MemStore {
	return f.store
}

// CreateDepartment creates an active department with the given name and code.
func (f *Fixtures) CreateDepartment(name, code string) models.Department {
	f.t.Helper()
	now := time.Now().UTC()
	return f.store.AddDepartment(models.Department{
		Name:      name,
		Code:      code,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// CreateResource creates an idle resource in dep, idle since idleFrom.
// Rate is 50 and status is idle.
func (f *Fixtures) CreateResource(ctx context.Context, code, name string, dep models.Department, idleFrom time.Time) models.IdleResource {
	f.t.Helper()
	rate := decimal.NewFromInt(50)
	r, err := f.store.Create(ctx, models.IdleResource{
		EmployeeCode: code,
		FullName:     name,
		DepartmentID: dep.ID,
		Position:     "Developer",
		IdleFrom:     idleFrom,
		Status:       models.StatusIdle,
		Rate:         &rate,
		CreatedBy:    1,
		UpdatedBy:    1,
	})
	if err != nil {
		f.t.Fatalf("failed to create test resource: %v", err)
	}
	return r
}

// CreateResourceWith creates r as given; only the ID is assigned.
func (f *Fixtures) CreateResourceWith(ctx context.Context, r models.IdleResource) models.IdleResource {
	f.t.Helper()
	created, err := f.store.Create(ctx, r)
	if err != nil {
		f.t.Fatalf("failed to create test resource: %v", err)
	}
	return created
}

// Date returns the UTC midnight of y-m-d.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
