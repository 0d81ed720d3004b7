// Package projection maps stored rows into API records, attaching the
// computed urgency flag, CV counts and search highlights.
package projection

import (
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/idlehub/internal/app/system/queryplan"
	"github.com/dalemusser/idlehub/internal/app/system/urgency"
	"github.com/dalemusser/idlehub/internal/domain/models"
	"github.com/shopspring/decimal"
)

// Highlight delimiters wrapped around each matched substring.
const (
	MarkOpen  = "<mark>"
	MarkClose = "</mark>"
)

// Record is one idle resource as returned to API callers.
type Record struct {
	ID             int64            `json:"id"`
	EmployeeCode   string           `json:"employeeCode"`
	FullName       string           `json:"fullName"`
	DepartmentID   int64            `json:"departmentId"`
	DepartmentName string           `json:"departmentName"`
	Position       string           `json:"position"`
	Email          *string          `json:"email,omitempty"`
	SkillSet       string           `json:"skillSet,omitempty"`
	IdleFrom       string           `json:"idleFrom"`
	IdleTo         *string          `json:"idleTo,omitempty"`
	Status         string           `json:"status"`
	Rate           *decimal.Decimal `json:"rate,omitempty"`
	ProcessNote    string           `json:"processNote,omitempty"`
	CreatedBy      int64            `json:"createdBy"`
	UpdatedBy      int64            `json:"updatedBy"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`

	IsUrgent        bool              `json:"isUrgent"`
	CVFilesCount    int               `json:"cvFilesCount"`
	SearchRelevance *int              `json:"searchRelevance,omitempty"`
	SearchHighlight map[string]string `json:"searchHighlight,omitempty"`
}

// Options carries per-request projection inputs.
type Options struct {
	// Search is the term of a search-mode request; empty disables highlights.
	Search          string
	ThresholdMonths int
	// CVCounts maps resource id to its active CV file count.
	CVCounts map[int64]int
}

// Project maps rows in order.
func Project(rows []models.ResourceRow, now time.Time, opts Options) []Record {
	var re *regexp.Regexp
	if term := strings.TrimSpace(opts.Search); term != "" {
		re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(term))
	}

	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		rec := One(r, now, opts.ThresholdMonths, opts.CVCounts[r.ID])
		if re != nil {
			score := r.Relevance
			rec.SearchRelevance = &score
			rec.SearchHighlight = highlights(r, re)
		}
		out = append(out, rec)
	}
	return out
}

// One projects a single row without search decoration.
func One(r models.ResourceRow, now time.Time, thresholdMonths, cvCount int) Record {
	rec := Record{
		ID:             r.ID,
		EmployeeCode:   r.EmployeeCode,
		FullName:       r.FullName,
		DepartmentID:   r.DepartmentID,
		DepartmentName: r.DepartmentName,
		Position:       r.Position,
		Email:          r.Email,
		SkillSet:       r.SkillSet,
		IdleFrom:       FormatDate(r.IdleFrom),
		Status:         string(r.Status),
		Rate:           r.Rate,
		ProcessNote:    r.ProcessNote,
		CreatedBy:      r.CreatedBy,
		UpdatedBy:      r.UpdatedBy,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		IsUrgent:       urgency.IsUrgent(r.IdleFrom, now, thresholdMonths),
		CVFilesCount:   cvCount,
	}
	if r.IdleTo != nil {
		s := FormatDate(*r.IdleTo)
		rec.IdleTo = &s
	}
	return rec
}

// Highlight returns text HTML-escaped with every case-insensitive
// occurrence of term wrapped in MarkOpen/MarkClose, and whether any matched.
func Highlight(text, term string) (string, bool) {
	term = strings.TrimSpace(term)
	if term == "" {
		return html.EscapeString(text), false
	}
	return mark(text, regexp.MustCompile("(?i)"+regexp.QuoteMeta(term)))
}

// FormatDate renders t as YYYY-MM-DD, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

func highlights(r models.ResourceRow, re *regexp.Regexp) map[string]string {
	out := map[string]string{}
	for _, f := range queryplan.SearchFields {
		if s, ok := mark(queryplan.FieldValue(r, f), re); ok {
			out[string(f)] = s
		}
	}
	return out
}

func mark(text string, re *regexp.Regexp) (string, bool) {
	idx := re.FindAllStringIndex(text, -1)
	if len(idx) == 0 {
		return html.EscapeString(text), false
	}
	var b strings.Builder
	last := 0
	for _, m := range idx {
		b.WriteString(html.EscapeString(text[last:m[0]]))
		b.WriteString(MarkOpen)
		b.WriteString(html.EscapeString(text[m[0]:m[1]]))
		b.WriteString(MarkClose)
		last = m[1]
	}
	b.WriteString(html.EscapeString(text[last:]))
	return b.String(), true
}
