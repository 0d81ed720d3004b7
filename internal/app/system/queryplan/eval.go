package queryplan

import (
	"sort"
	"strings"

	"github.com/dalemusser/idlehub/internal/app/system/criteria"
	"github.com/dalemusser/idlehub/internal/domain/models"
)

// SearchField names a field that search mode inspects.
type SearchField string

const (
	FieldEmployeeCode SearchField = "employeeCode"
	FieldFullName     SearchField = "fullName"
	FieldPosition     SearchField = "position"
	FieldDepartment   SearchField = "department"
	FieldSkillSet     SearchField = "skillSet"
	FieldEmail        SearchField = "email"
)

// SearchFields lists the searchable fields in scoring order.
var SearchFields = []SearchField{FieldEmployeeCode, FieldFullName, FieldPosition, FieldDepartment, FieldSkillSet, FieldEmail}

// FieldValue returns the text of f on r.
func FieldValue(r models.ResourceRow, f SearchField) string {
	switch f {
	case FieldEmployeeCode:
		return r.EmployeeCode
	case FieldFullName:
		return r.FullName
	case FieldPosition:
		return r.Position
	case FieldDepartment:
		return r.DepartmentName
	case FieldSkillSet:
		return r.SkillSet
	case FieldEmail:
		if r.Email != nil {
			return *r.Email
		}
	}
	return ""
}

// Matches reports whether r satisfies every predicate of p.
func (p Plan) Matches(r models.ResourceRow) bool {
	if p.DepartmentID != nil && r.DepartmentID != *p.DepartmentID {
		return false
	}
	if p.Status != nil && r.Status != *p.Status {
		return false
	}
	idle := r.IdleFrom.UTC()
	if p.IdleFromStart != nil && idle.Before(*p.IdleFromStart) {
		return false
	}
	if p.IdleFromEnd != nil && idle.After(*p.IdleFromEnd) {
		return false
	}
	if p.UrgentCutoff != nil && idle.After(*p.UrgentCutoff) {
		return false
	}
	if p.Position != "" && !containsFold(r.Position, p.Position) {
		return false
	}
	for _, s := range p.Skills {
		if !containsFold(r.SkillSet, s) {
			return false
		}
	}
	if p.Search != "" && Relevance(p.Search, r) == 0 {
		return false
	}
	return true
}

// Relevance scores how well term matches r; 0 means no match.
func Relevance(term string, r models.ResourceRow) int {
	term = strings.TrimSpace(term)
	if term == "" {
		return 0
	}
	switch {
	case strings.EqualFold(r.EmployeeCode, term):
		return ScoreExactCode
	case strings.EqualFold(r.FullName, term):
		return ScoreExactName
	case containsFold(r.EmployeeCode, term):
		return ScorePartialCode
	case containsFold(r.FullName, term):
		return ScorePartialName
	case containsFold(r.Position, term):
		return ScorePartialPosition
	case containsFold(r.DepartmentName, term):
		return ScorePartialDept
	case containsFold(r.SkillSet, term):
		return ScorePartialSkill
	case containsFold(FieldValue(r, FieldEmail), term):
		return ScorePartialEmail
	}
	return 0
}

// Less orders a before b by p.Sort. Missing rates sort lowest.
func (p Plan) Less(a, b models.ResourceRow) bool {
	for _, k := range p.Sort {
		c := compare(k.Field, a, b)
		if c == 0 {
			continue
		}
		if k.Desc {
			return c > 0
		}
		return c < 0
	}
	return false
}

// Apply runs p over rows in memory: filters, scores, sorts and windows.
// It returns the page and the total number of matching rows.
func (p Plan) Apply(rows []models.ResourceRow) ([]models.ResourceRow, int) {
	var matched []models.ResourceRow
	for _, r := range rows {
		if !p.Matches(r) {
			continue
		}
		if p.Ranked {
			r.Relevance = Relevance(p.Search, r)
		}
		matched = append(matched, r)
	}
	sort.SliceStable(matched, func(i, j int) bool { return p.Less(matched[i], matched[j]) })

	total := len(matched)
	offset := max(p.Offset, 0)
	if offset >= total {
		return []models.ResourceRow{}, total
	}
	end := total
	if p.Limit > 0 && p.Limit < end-offset {
		end = offset + p.Limit
	}
	return matched[offset:end], total
}

func compare(f criteria.SortField, a, b models.ResourceRow) int {
	switch f {
	case SortRelevance:
		return cmpInt(int64(a.Relevance), int64(b.Relevance))
	case SortID:
		return cmpInt(a.ID, b.ID)
	case criteria.SortFullName:
		return strings.Compare(strings.ToLower(a.FullName), strings.ToLower(b.FullName))
	case criteria.SortEmployeeCode:
		return strings.Compare(strings.ToLower(a.EmployeeCode), strings.ToLower(b.EmployeeCode))
	case criteria.SortDepartmentName:
		return strings.Compare(strings.ToLower(a.DepartmentName), strings.ToLower(b.DepartmentName))
	case criteria.SortPosition:
		return strings.Compare(strings.ToLower(a.Position), strings.ToLower(b.Position))
	case criteria.SortStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	case criteria.SortIdleFrom:
		return a.IdleFrom.Compare(b.IdleFrom)
	case criteria.SortCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case criteria.SortUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case criteria.SortRate:
		switch {
		case a.Rate == nil && b.Rate == nil:
			return 0
		case a.Rate == nil:
			return -1
		case b.Rate == nil:
			return 1
		}
		return a.Rate.Cmp(*b.Rate)
	}
	return 0
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func containsFold(s, sub string) bool {
	return sub != "" && strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
