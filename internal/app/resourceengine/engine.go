// Package resourceengine runs idle-resource queries, CRUD, and spreadsheet
// import/export on top of pluggable storage.
//
// Every read goes criteria.Parse → resourcescope.Scope → queryplan.Compile
// before touching storage, so role scoping cannot be skipped.
package resourceengine

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/idlehub/internal/app/system/queryplan"
	"github.com/dalemusser/idlehub/internal/app/system/urgency"
	"github.com/dalemusser/idlehub/internal/app/system/xlsxutil"
	"github.com/dalemusser/idlehub/internal/domain/models"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when a record does not exist or lies outside
	// the caller's scope.
	ErrNotFound = errors.New("idle resource not found")
	// ErrDuplicateCode is returned when an employee code is already taken.
	ErrDuplicateCode = errors.New("employee code already exists")
	// ErrOutOfScope is returned when a department-scoped caller writes to
	// another department.
	ErrOutOfScope = errors.New("department is outside your scope")
	// ErrReadOnly is returned when a read-only role attempts a write.
	ErrReadOnly = errors.New("your role cannot modify idle resources")
)

// ResourceStore evaluates plans and persists idle resources.
// CountByDepartment orders its groups by department name.
// GetByID returns (nil, nil) when the id does not exist.
type ResourceStore interface {
	Query(ctx context.Context, p queryplan.Plan) ([]models.ResourceRow, error)
	Count(ctx context.Context, p queryplan.Plan) (int64, error)
	CountByDepartment(ctx context.Context, p queryplan.Plan) ([]models.DepartmentCount, error)
	Each(ctx context.Context, p queryplan.Plan, batchSize int, fn func(models.ResourceRow) error) error
	GetByID(ctx context.Context, id int64) (*models.ResourceRow, error)
	ExistsByEmployeeCode(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, r models.IdleResource) (models.IdleResource, error)
	Update(ctx context.Context, r models.IdleResource) error
	Delete(ctx context.Context, id int64) (int64, error)
}

// DepartmentLookup resolves departments. Lookups return (nil, nil) when the
// department does not exist.
type DepartmentLookup interface {
	GetByName(ctx context.Context, name string) (*models.Department, error)
	GetByID(ctx context.Context, id int64) (*models.Department, error)
	ListActive(ctx context.Context) ([]models.Department, error)
}

// CVFileStore counts and lists active CV files per resource.
type CVFileStore interface {
	CountActive(ctx context.Context, resourceIDs []int64) (map[int64]int, error)
	ListByResource(ctx context.Context, resourceID int64) ([]models.CVFile, error)
}

// Config holds engine limits.
type Config struct {
	ThresholdMonths int
	ImportMaxBytes  int64
	ImportMaxRows   int
	ExportBatchSize int
}

func (c Config) withDefaults() Config {
	if c.ThresholdMonths <= 0 {
		c.ThresholdMonths = urgency.DefaultThresholdMonths
	}
	if c.ImportMaxBytes <= 0 {
		c.ImportMaxBytes = xlsxutil.MaxUploadSize
	}
	if c.ImportMaxRows <= 0 {
		c.ImportMaxRows = xlsxutil.MaxRows
	}
	if c.ExportBatchSize <= 0 {
		c.ExportBatchSize = 500
	}
	return c
}

// Engine is stateless between calls and safe for concurrent use.
type Engine struct {
	resources   ResourceStore
	departments DepartmentLookup
	cvFiles     CVFileStore
	cfg         Config
	log         *zap.Logger

	// Now is the clock used for urgency; tests may replace it.
	Now func() time.Time
}

// New builds an Engine. cvFiles may be nil, in which case every resource
// has no CV files.
func New(resources ResourceStore, departments DepartmentLookup, cvFiles CVFileStore, cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		resources:   resources,
		departments: departments,
		cvFiles:     cvFiles,
		cfg:         cfg.withDefaults(),
		log:         logger,
		Now:         time.Now,
	}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) now() time.Time {
	return e.Now().UTC()
}
