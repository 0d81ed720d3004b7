package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/idlehub/internal/app/system/criteria"
	"github.com/dalemusser/idlehub/internal/app/system/queryplan"
	"github.com/dalemusser/idlehub/internal/domain/models"
	"gorm.io/gorm"
)

// Resources persists idle resources and translates query plans into SQL.
type Resources struct {
	db *gorm.DB
}

func NewResources(db *gorm.DB) *Resources {
	return &Resources{db: db}
}

type sqlRow struct {
	models.IdleResource `gorm:"embedded"`
	DepartmentName      string
	Relevance           int
}

func (r sqlRow) model() models.ResourceRow {
	return models.ResourceRow{IdleResource: r.IdleResource, DepartmentName: r.DepartmentName, Relevance: r.Relevance}
}

var orderExprs = map[criteria.SortField]string{
	queryplan.SortRelevance:     "relevance",
	queryplan.SortID:            "r.id",
	criteria.SortFullName:       "LOWER(r.full_name)",
	criteria.SortEmployeeCode:   "LOWER(r.employee_code)",
	criteria.SortDepartmentName: "LOWER(COALESCE(d.name, ''))",
	criteria.SortPosition:       "LOWER(r.position)",
	criteria.SortStatus:         "r.status",
	criteria.SortIdleFrom:       "r.idle_from",
	criteria.SortRate:           "r.rate",
	criteria.SortCreatedAt:      "r.created_at",
	criteria.SortUpdatedAt:      "r.updated_at",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func like(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// filtered applies every predicate of p to the joined table.
func filtered(db *gorm.DB, p queryplan.Plan) *gorm.DB {
	q := db.Table("idle_resources AS r").
		Joins("LEFT JOIN departments AS d ON d.id = r.department_id")
	if p.DepartmentID != nil {
		q = q.Where("r.department_id = ?", *p.DepartmentID)
	}
	if p.Status != nil {
		q = q.Where("r.status = ?", string(*p.Status))
	}
	if p.IdleFromStart != nil {
		q = q.Where("r.idle_from >= ?", *p.IdleFromStart)
	}
	if p.IdleFromEnd != nil {
		q = q.Where("r.idle_from <= ?", *p.IdleFromEnd)
	}
	if p.UrgentCutoff != nil {
		q = q.Where("r.idle_from <= ?", *p.UrgentCutoff)
	}
	if p.Position != "" {
		q = q.Where("r.position ILIKE ?", like(p.Position))
	}
	for _, s := range p.Skills {
		q = q.Where("COALESCE(r.skill_set, '') ILIKE ?", like(s))
	}
	if p.Search != "" {
		t := like(p.Search)
		q = q.Where(`(r.employee_code ILIKE ? OR r.full_name ILIKE ? OR r.position ILIKE ?
			OR COALESCE(d.name, '') ILIKE ? OR COALESCE(r.skill_set, '') ILIKE ? OR COALESCE(r.email, '') ILIKE ?)`,
			t, t, t, t, t, t)
	}
	return q
}

// selectQuery is the full row query for p, ordered and windowed.
func selectQuery(db *gorm.DB, p queryplan.Plan) *gorm.DB {
	q := filtered(db, p)
	if p.Ranked {
		t := like(p.Search)
		q = q.Select(`r.*, COALESCE(d.name, '') AS department_name,
			CASE
				WHEN LOWER(r.employee_code) = LOWER(?) THEN ?
				WHEN LOWER(r.full_name) = LOWER(?) THEN ?
				WHEN r.employee_code ILIKE ? THEN ?
				WHEN r.full_name ILIKE ? THEN ?
				WHEN r.position ILIKE ? THEN ?
				WHEN COALESCE(d.name, '') ILIKE ? THEN ?
				WHEN COALESCE(r.skill_set, '') ILIKE ? THEN ?
				WHEN COALESCE(r.email, '') ILIKE ? THEN ?
				ELSE ?
			END AS relevance`,
			p.Search, queryplan.ScoreExactCode,
			p.Search, queryplan.ScoreExactName,
			t, queryplan.ScorePartialCode,
			t, queryplan.ScorePartialName,
			t, queryplan.ScorePartialPosition,
			t, queryplan.ScorePartialDept,
			t, queryplan.ScorePartialSkill,
			t, queryplan.ScorePartialEmail,
			queryplan.ScoreFloor)
	} else {
		q = q.Select("r.*, COALESCE(d.name, '') AS department_name")
	}
	for _, k := range p.Sort {
		q = q.Order(orderClause(k))
	}
	if p.Offset > 0 {
		q = q.Offset(p.Offset)
	}
	if p.Limit > 0 {
		q = q.Limit(p.Limit)
	}
	return q
}

// orderClause renders one sort key. Missing rates sort lowest, matching
// the in-memory evaluator.
func orderClause(k queryplan.SortKey) string {
	expr := orderExprs[k.Field]
	if k.Desc {
		expr += " DESC"
	} else {
		expr += " ASC"
	}
	if k.Field == criteria.SortRate {
		if k.Desc {
			expr += " NULLS LAST"
		} else {
			expr += " NULLS FIRST"
		}
	}
	return expr
}

func (s *Resources) Query(ctx context.Context, p queryplan.Plan) ([]models.ResourceRow, error) {
	var rows []sqlRow
	if err := selectQuery(s.db.WithContext(ctx), p).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.ResourceRow, len(rows))
	for i, r := range rows {
		out[i] = r.model()
	}
	return out, nil
}

func (s *Resources) Count(ctx context.Context, p queryplan.Plan) (int64, error) {
	var n int64
	err := filtered(s.db.WithContext(ctx), p).Count(&n).Error
	return n, err
}

// groupQuery counts the rows p matches per department.
func groupQuery(db *gorm.DB, p queryplan.Plan) *gorm.DB {
	return filtered(db, p).
		Select("r.department_id, COALESCE(d.name, '') AS department_name, COUNT(*) AS n").
		Group("r.department_id, d.name").
		Order("department_name ASC, r.department_id ASC")
}

func (s *Resources) CountByDepartment(ctx context.Context, p queryplan.Plan) ([]models.DepartmentCount, error) {
	out := []models.DepartmentCount{}
	if err := groupQuery(s.db.WithContext(ctx), p).Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Each pages through p batchSize rows at a time. The id tiebreak in every
// compiled plan keeps the windows disjoint.
func (s *Resources) Each(ctx context.Context, p queryplan.Plan, batchSize int, fn func(models.ResourceRow) error) error {
	if batchSize <= 0 {
		batchSize = 500
	}
	for offset := 0; ; offset += batchSize {
		page := p
		page.Offset = offset
		page.Limit = batchSize
		rows, err := s.Query(ctx, page)
		if err != nil {
			return err
		}
		for _, r := range rows {
			if err := fn(r); err != nil {
				return err
			}
		}
		if len(rows) < batchSize {
			return nil
		}
	}
}

// GetByID returns the record joined with its department, or (nil, nil).
func (s *Resources) GetByID(ctx context.Context, id int64) (*models.ResourceRow, error) {
	var rows []sqlRow
	err := selectQuery(s.db.WithContext(ctx), queryplan.Plan{}).Where("r.id = ?", id).Limit(1).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	m := rows[0].model()
	return &m, nil
}

func (s *Resources) ExistsByEmployeeCode(ctx context.Context, code string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.IdleResource{}).Where("employee_code = ?", code).Limit(1).Count(&n).Error
	return n > 0, err
}

func (s *Resources) Create(ctx context.Context, r models.IdleResource) (models.IdleResource, error) {
	r.ID = 0
	err := s.db.WithContext(ctx).Create(&r).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.IdleResource{}, models.ErrDuplicateEmployeeCode
	}
	if err != nil {
		return models.IdleResource{}, fmt.Errorf("insert idle resource: %w", err)
	}
	return r, nil
}

func (s *Resources) Update(ctx context.Context, r models.IdleResource) error {
	err := s.db.WithContext(ctx).Save(&r).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrDuplicateEmployeeCode
	}
	return err
}

func (s *Resources) Delete(ctx context.Context, id int64) (int64, error) {
	res := s.db.WithContext(ctx).Delete(&models.IdleResource{}, id)
	return res.RowsAffected, res.Error
}
