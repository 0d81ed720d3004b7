package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/idlehub/internal/app/system/queryplan"
	"github.com/dalemusser/idlehub/internal/domain/models"
)

// MemStore is an in-memory backend that evaluates query plans in Go. It
// satisfies the engine's resource and CV interfaces; Departments returns
// the department lookup over the same data.
type MemStore struct {
	mu          sync.Mutex
	resources   map[int64]models.IdleResource
	departments map[int64]models.Department
	cvCounts    map[int64]int
	cvFiles     map[int64][]models.CVFile
	nextID      int64

	// Calls counts every store method invocation.
	Calls int
	// FailEach, when set, is returned by Each after the first row.
	FailEach error
	// WriteDelay makes Create, Update and Delete wait this long, or until
	// the context ends, before writing.
	WriteDelay time.Duration
}

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		resources:   make(map[int64]models.IdleResource),
		departments: make(map[int64]models.Department),
		cvCounts:    make(map[int64]int),
		cvFiles:     make(map[int64][]models.CVFile),
	}
}

func (m *MemStore) waitWrite(ctx context.Context) error {
	if m.WriteDelay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(m.WriteDelay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *MemStore) id() int64 {
	m.nextID++
	return m.nextID
}

// AddDepartment inserts d, assigning an ID when it has none.
func (m *MemStore) AddDepartment(d models.Department) models.Department {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.ID == 0 {
		d.ID = m.id()
	}
	m.departments[d.ID] = d
	return d
}

// SetCVCount records n active CV files for resource id.
func (m *MemStore) SetCVCount(id int64, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cvCounts[id] = n
}

// AddCVFile attaches f to its resource. Active files also raise the count.
func (m *MemStore) AddCVFile(f models.CVFile) models.CVFile {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f.ID == 0 {
		f.ID = m.id()
	}
	m.cvFiles[f.ResourceID] = append(m.cvFiles[f.ResourceID], f)
	if f.IsActive {
		m.cvCounts[f.ResourceID]++
	}
	return f
}

// All returns every stored resource ordered by ID.
func (m *MemStore) All() []models.IdleResource {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.IdleResource, 0, len(m.resources))
	for _, r := range m.resources {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *MemStore) rows() []models.ResourceRow {
	out := make([]models.ResourceRow, 0, len(m.resources))
	for _, r := range m.resources {
		out = append(out, models.ResourceRow{IdleResource: r, DepartmentName: m.departments[r.DepartmentID].Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *MemStore) Query(ctx context.Context, p queryplan.Plan) ([]models.ResourceRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	page, _ := p.Apply(m.rows())
	return page, nil
}

func (m *MemStore) Count(ctx context.Context, p queryplan.Plan) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	_, total := p.Apply(m.rows())
	return int64(total), nil
}

func (m *MemStore) CountByDepartment(ctx context.Context, p queryplan.Plan) ([]models.DepartmentCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	matched, _ := p.CountOnly().Apply(m.rows())
	idx := map[int64]int{}
	out := []models.DepartmentCount{}
	for _, r := range matched {
		i, ok := idx[r.DepartmentID]
		if !ok {
			i = len(out)
			idx[r.DepartmentID] = i
			out = append(out, models.DepartmentCount{DepartmentID: r.DepartmentID, DepartmentName: r.DepartmentName})
		}
		out[i].Count++
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DepartmentName != out[j].DepartmentName {
			return out[i].DepartmentName < out[j].DepartmentName
		}
		return out[i].DepartmentID < out[j].DepartmentID
	})
	return out, nil
}

func (m *MemStore) Each(ctx context.Context, p queryplan.Plan, batchSize int, fn func(models.ResourceRow) error) error {
	m.mu.Lock()
	m.Calls++
	rows, _ := p.Apply(m.rows())
	fail := m.FailEach
	m.mu.Unlock()

	for i, r := range rows {
		if fail != nil && i > 0 {
			return fail
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemStore) GetByID(ctx context.Context, id int64) (*models.ResourceRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	r, ok := m.resources[id]
	if !ok {
		return nil, nil
	}
	return &models.ResourceRow{IdleResource: r, DepartmentName: m.departments[r.DepartmentID].Name}, nil
}

func (m *MemStore) ExistsByEmployeeCode(ctx context.Context, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	return m.codeTaken(code, 0), nil
}

func (m *MemStore) codeTaken(code string, except int64) bool {
	for _, r := range m.resources {
		if r.EmployeeCode == code && r.ID != except {
			return true
		}
	}
	return false
}

func (m *MemStore) Create(ctx context.Context, r models.IdleResource) (models.IdleResource, error) {
	if err := m.waitWrite(ctx); err != nil {
		return models.IdleResource{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.codeTaken(r.EmployeeCode, 0) {
		return models.IdleResource{}, models.ErrDuplicateEmployeeCode
	}
	now := time.Now().UTC()
	r.ID = m.id()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = now
	}
	m.resources[r.ID] = r
	return r, nil
}

func (m *MemStore) Update(ctx context.Context, r models.IdleResource) error {
	if err := m.waitWrite(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if _, ok := m.resources[r.ID]; !ok {
		return nil
	}
	r.UpdatedAt = time.Now().UTC()
	m.resources[r.ID] = r
	return nil
}

func (m *MemStore) Delete(ctx context.Context, id int64) (int64, error) {
	if err := m.waitWrite(ctx); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if _, ok := m.resources[id]; !ok {
		return 0, nil
	}
	delete(m.resources, id)
	return 1, nil
}

func (m *MemStore) CountActive(ctx context.Context, ids []int64) (map[int64]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int64]int, len(ids))
	for _, id := range ids {
		if n := m.cvCounts[id]; n > 0 {
			out[id] = n
		}
	}
	return out, nil
}

// Departments returns a department lookup view over the same data.
func (m *MemStore) Departments() *MemDepartments {
	return &MemDepartments{m: m}
}

// MemDepartments is the department side of a MemStore.
type MemDepartments struct {
	m *MemStore
}

func (d *MemDepartments) GetByName(ctx context.Context, name string) (*models.Department, error) {
	d.m.mu.Lock()
	defer d.m.mu.Unlock()
	d.m.Calls++
	for _, dep := range d.m.departments {
		if dep.Name == name {
			dep := dep
			return &dep, nil
		}
	}
	return nil, nil
}

func (d *MemDepartments) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	d.m.mu.Lock()
	defer d.m.mu.Unlock()
	d.m.Calls++
	dep, ok := d.m.departments[id]
	if !ok {
		return nil, nil
	}
	return &dep, nil
}

func (d *MemDepartments) ListActive(ctx context.Context) ([]models.Department, error) {
	d.m.mu.Lock()
	defer d.m.mu.Unlock()
	d.m.Calls++
	var out []models.Department
	for _, dep := range d.m.departments {
		if dep.IsActive {
			out = append(out, dep)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemStore) ListByResource(ctx context.Context, resourceID int64) ([]models.CVFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	out := []models.CVFile{}
	for _, f := range m.cvFiles[resourceID] {
		if f.IsActive {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].UploadedAt.After(out[j].UploadedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
