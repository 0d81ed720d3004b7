// Package queryplan compiles normalized, scoped criteria into an immutable
// Plan that storage backends translate into their own query language.
//
// The Go evaluator in eval.go defines the reference semantics of a plan:
// the in-memory backend runs it directly, and the Mongo and SQL backends
// must produce the same rows in the same order.
package queryplan

import (
	"strings"
	"time"

	"github.com/dalemusser/idlehub/internal/app/system/criteria"
	"github.com/dalemusser/idlehub/internal/app/system/paging"
	"github.com/dalemusser/idlehub/internal/app/system/urgency"
	"github.com/dalemusser/idlehub/internal/domain/models"
)

// Sort keys that exist only in plans.
const (
	SortRelevance criteria.SortField = "relevance"
	SortID        criteria.SortField = "id"
)

// Relevance scores, highest first.
const (
	ScoreExactCode       = 100
	ScoreExactName       = 90
	ScorePartialCode     = 80
	ScorePartialName     = 70
	ScorePartialPosition = 60
	ScorePartialDept     = 50
	ScorePartialSkill    = 40
	ScorePartialEmail    = 30
	ScoreFloor           = 10
)

// SortKey orders by one field.
type SortKey struct {
	Field criteria.SortField
	Desc  bool
}

// Plan is a conjunction of predicates plus ordering and a window.
// The zero value matches every row, unordered and unbounded.
type Plan struct {
	DepartmentID  *int64
	Status        *models.ResourceStatus
	IdleFromStart *time.Time
	IdleFromEnd   *time.Time
	UrgentCutoff  *time.Time
	Position      string
	Skills        []string

	// Search is the trimmed term; non-empty restricts rows to those matching
	// it in at least one searchable field.
	Search string
	// Ranked adds the relevance score to each row and orders by it first.
	Ranked bool

	Sort   []SortKey
	Offset int
	Limit  int // 0 means no limit
}

// Options tune compilation.
type Options struct {
	ThresholdMonths int
	// Unbounded drops offset and limit (export).
	Unbounded bool
	// Unranked keeps the search filter but orders by the requested sort
	// only (export).
	Unranked bool
}

// Compile builds the plan for c at now.
func Compile(c criteria.Criteria, now time.Time, opts Options) Plan {
	p := Plan{
		DepartmentID:  c.DepartmentID,
		Status:        c.Status,
		IdleFromStart: dateOnly(c.IdleFromStart),
		IdleFromEnd:   dateOnly(c.IdleFromEnd),
		Position:      strings.TrimSpace(c.Position),
		Skills:        append([]string(nil), c.Skills...),
		Search:        strings.TrimSpace(c.Search),
	}

	if c.UrgentOnly {
		cut := urgency.Cutoff(now, opts.ThresholdMonths)
		p.UrgentCutoff = &cut
	}

	p.Ranked = p.Search != "" && !opts.Unranked
	if p.Ranked {
		p.Sort = append(p.Sort, SortKey{Field: SortRelevance, Desc: true})
	}
	field := c.SortField
	if field == "" {
		field = criteria.SortUpdatedAt
	}
	p.Sort = append(p.Sort, SortKey{Field: field, Desc: c.SortDesc})
	if field != SortID {
		p.Sort = append(p.Sort, SortKey{Field: SortID})
	}

	if !opts.Unbounded {
		p.Offset = paging.Offset(c.Page, c.PageSize)
		p.Limit = c.PageSize
	}
	return p
}

// CountOnly returns p without ordering or window, for total counts.
func (p Plan) CountOnly() Plan {
	p.Sort = nil
	p.Offset = 0
	p.Limit = 0
	p.Ranked = false
	return p
}

func dateOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := urgency.DateOf(*t)
	return &d
}
