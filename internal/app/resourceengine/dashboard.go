package resourceengine

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dalemusser/idlehub/internal/app/policy/resourcescope"
	"github.com/dalemusser/idlehub/internal/app/system/authz"
	"github.com/dalemusser/idlehub/internal/app/system/criteria"
	"github.com/dalemusser/idlehub/internal/app/system/projection"
	"github.com/dalemusser/idlehub/internal/app/system/queryplan"
	"github.com/dalemusser/idlehub/internal/domain/models"
	"github.com/shopspring/decimal"
)

const (
	DefaultRecentLimit = 10
	MaxRecentLimit     = 50
)

// Statistics summarizes the resources visible to a caller.
type Statistics struct {
	TotalResources      int64   `json:"totalResources"`
	TotalIdle           int64   `json:"totalIdle"`
	UrgentCount         int64   `json:"urgentCount"`
	IdlePercentage      float64 `json:"idlePercentage"`
	DepartmentsWithIdle int     `json:"departmentsWithIdle"`
}

// DepartmentStat is one department's share of the visible resources.
type DepartmentStat struct {
	DepartmentID   int64   `json:"departmentId"`
	DepartmentName string  `json:"departmentName"`
	TotalCount     int64   `json:"totalCount"`
	IdleCount      int64   `json:"idleCount"`
	UrgentCount    int64   `json:"urgentCount"`
	IdlePercentage float64 `json:"idlePercentage"`
}

// Dashboard is the combined dashboard payload.
type Dashboard struct {
	Statistics      Statistics          `json:"statistics"`
	DepartmentStats []DepartmentStat    `json:"departmentStats"`
	RecentUpdates   []projection.Record `json:"recentUpdates"`
}

// dashboardScope parses the list filters in params and narrows them to
// caller. Paging, sort and search do not apply to the aggregates.
func (e *Engine) dashboardScope(params url.Values, caller authz.Caller) (criteria.Criteria, error) {
	c, err := criteria.Parse(params)
	if err != nil {
		return criteria.Criteria{}, err
	}
	c.Search = ""
	return resourcescope.Scope(c, caller), nil
}

func (e *Engine) countPlan(c criteria.Criteria) queryplan.Plan {
	return queryplan.Compile(c, e.now(), queryplan.Options{ThresholdMonths: e.cfg.ThresholdMonths}).CountOnly()
}

func idleOf(c criteria.Criteria) criteria.Criteria {
	st := models.StatusIdle
	c.Status = &st
	return c
}

func urgentOf(c criteria.Criteria) criteria.Criteria {
	c.UrgentOnly = true
	return c
}

// Statistics counts the resources in scope: all of them, the idle ones,
// and the ones idle past the urgency threshold.
func (e *Engine) Statistics(ctx context.Context, params url.Values, caller authz.Caller) (Statistics, error) {
	c, err := e.dashboardScope(params, caller)
	if err != nil {
		return Statistics{}, err
	}
	return e.statistics(ctx, c)
}

func (e *Engine) statistics(ctx context.Context, c criteria.Criteria) (Statistics, error) {
	var st Statistics
	var err error
	if st.TotalResources, err = e.resources.Count(ctx, e.countPlan(c)); err != nil {
		return Statistics{}, fmt.Errorf("count idle resources: %w", err)
	}
	if st.TotalIdle, err = e.resources.Count(ctx, e.countPlan(idleOf(c))); err != nil {
		return Statistics{}, fmt.Errorf("count idle resources: %w", err)
	}
	if st.UrgentCount, err = e.resources.Count(ctx, e.countPlan(urgentOf(c))); err != nil {
		return Statistics{}, fmt.Errorf("count urgent resources: %w", err)
	}
	idle, err := e.resources.CountByDepartment(ctx, e.countPlan(idleOf(c)))
	if err != nil {
		return Statistics{}, fmt.Errorf("group idle resources: %w", err)
	}
	st.DepartmentsWithIdle = len(idle)
	st.IdlePercentage = percent(st.TotalIdle, st.TotalResources)
	return st, nil
}

// DepartmentStats groups the resources in scope by department, ordered by
// department name.
func (e *Engine) DepartmentStats(ctx context.Context, params url.Values, caller authz.Caller) ([]DepartmentStat, error) {
	c, err := e.dashboardScope(params, caller)
	if err != nil {
		return nil, err
	}
	return e.departmentStats(ctx, c)
}

func (e *Engine) departmentStats(ctx context.Context, c criteria.Criteria) ([]DepartmentStat, error) {
	totals, err := e.resources.CountByDepartment(ctx, e.countPlan(c))
	if err != nil {
		return nil, fmt.Errorf("group idle resources: %w", err)
	}
	idle, err := e.resources.CountByDepartment(ctx, e.countPlan(idleOf(c)))
	if err != nil {
		return nil, fmt.Errorf("group idle resources: %w", err)
	}
	urgent, err := e.resources.CountByDepartment(ctx, e.countPlan(urgentOf(c)))
	if err != nil {
		return nil, fmt.Errorf("group urgent resources: %w", err)
	}

	idleBy, urgentBy := byDepartment(idle), byDepartment(urgent)
	out := make([]DepartmentStat, 0, len(totals))
	for _, t := range totals {
		ds := DepartmentStat{
			DepartmentID:   t.DepartmentID,
			DepartmentName: t.DepartmentName,
			TotalCount:     t.Count,
			IdleCount:      idleBy[t.DepartmentID],
			UrgentCount:    urgentBy[t.DepartmentID],
		}
		ds.IdlePercentage = percent(ds.IdleCount, ds.TotalCount)
		out = append(out, ds)
	}
	return out, nil
}

// RecentUpdates returns the most recently updated resources in scope.
// limit is clamped to [1, MaxRecentLimit]; 0 means DefaultRecentLimit.
func (e *Engine) RecentUpdates(ctx context.Context, params url.Values, limit int, caller authz.Caller) ([]projection.Record, error) {
	c, err := e.dashboardScope(params, caller)
	if err != nil {
		return nil, err
	}
	return e.recentUpdates(ctx, c, limit)
}

func (e *Engine) recentUpdates(ctx context.Context, c criteria.Criteria, limit int) ([]projection.Record, error) {
	switch {
	case limit <= 0:
		limit = DefaultRecentLimit
	case limit > MaxRecentLimit:
		limit = MaxRecentLimit
	}
	c.SortField, c.SortDesc = criteria.SortUpdatedAt, true
	c.Page, c.PageSize = 1, limit

	now := e.now()
	rows, err := e.resources.Query(ctx, queryplan.Compile(c, now, queryplan.Options{ThresholdMonths: e.cfg.ThresholdMonths}))
	if err != nil {
		return nil, fmt.Errorf("query recent updates: %w", err)
	}
	counts, err := e.cvCounts(ctx, rows)
	if err != nil {
		return nil, err
	}
	return projection.Project(rows, now, projection.Options{ThresholdMonths: e.cfg.ThresholdMonths, CVCounts: counts}), nil
}

// Dashboard assembles statistics, department stats and recent updates
// over the same scoped filters.
func (e *Engine) Dashboard(ctx context.Context, params url.Values, caller authz.Caller) (Dashboard, error) {
	c, err := e.dashboardScope(params, caller)
	if err != nil {
		return Dashboard{}, err
	}
	st, err := e.statistics(ctx, c)
	if err != nil {
		return Dashboard{}, err
	}
	deps, err := e.departmentStats(ctx, c)
	if err != nil {
		return Dashboard{}, err
	}
	recent, err := e.recentUpdates(ctx, c, DefaultRecentLimit)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{Statistics: st, DepartmentStats: deps, RecentUpdates: recent}, nil
}

func byDepartment(counts []models.DepartmentCount) map[int64]int64 {
	out := make(map[int64]int64, len(counts))
	for _, c := range counts {
		out[c.DepartmentID] = c.Count
	}
	return out
}

// percent is part/whole*100 rounded to one decimal place; 0 when whole is 0.
func percent(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return decimal.NewFromInt(part).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(whole), 1).
		InexactFloat64()
}
