// Package criteria turns raw query parameters into a typed, defaulted
// search request.
//
// Parameter names (aliases in parentheses):
//
//	searchTerm (search)   free-text term; non-empty switches to search mode
//	departmentId          positive integer
//	status                idle | assigned | processing | unavailable (labels accepted)
//	idleFromStart         YYYY-MM-DD, inclusive
//	idleFromEnd           YYYY-MM-DD, inclusive
//	urgentOnly (urgent)   "true" or "1"
//	position              partial match
//	skills                repeated or comma-separated; all must be present
//	page                  [1, 1000000], default 1
//	pageSize (limit)      clamped to [1, 100], default 20
//	sortBy                allow-listed field, default updatedAt
//	sortOrder             ASC | DESC, default DESC
package criteria

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/idlehub/internal/domain/models"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxPage bounds page so (page-1)*MaxPageSize stays far from int overflow.
	MaxPage = 1_000_000

	// DateLayout is the only accepted date format for filters.
	DateLayout = "2006-01-02"
)

// SortField is an allow-listed sort key.
type SortField string

const (
	SortFullName       SortField = "fullName"
	SortEmployeeCode   SortField = "employeeCode"
	SortDepartmentName SortField = "departmentName"
	SortPosition       SortField = "position"
	SortStatus         SortField = "status"
	SortIdleFrom       SortField = "idleFrom"
	SortRate           SortField = "rate"
	SortCreatedAt      SortField = "createdAt"
	SortUpdatedAt      SortField = "updatedAt"
)

var sortFields = map[string]SortField{}

func init() {
	for _, f := range []SortField{
		SortFullName, SortEmployeeCode, SortDepartmentName, SortPosition,
		SortStatus, SortIdleFrom, SortRate, SortCreatedAt, SortUpdatedAt,
	} {
		sortFields[strings.ToLower(string(f))] = f
	}
}

// Criteria is one normalized search request.
type Criteria struct {
	Page     int
	PageSize int

	Search        string
	DepartmentID  *int64
	Status        *models.ResourceStatus
	IdleFromStart *time.Time
	IdleFromEnd   *time.Time
	UrgentOnly    bool
	Position      string
	Skills        []string

	SortField SortField
	SortDesc  bool
}

// SearchMode reports whether relevance ranking applies.
func (c Criteria) SearchMode() bool {
	return c.Search != ""
}

// Default returns the criteria of a request with no parameters.
func Default() Criteria {
	return Criteria{
		Page:      DefaultPage,
		PageSize:  DefaultPageSize,
		SortField: SortUpdatedAt,
		SortDesc:  true,
	}
}

// ValidationError names the parameter that could not be accepted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Parse normalizes v. Unknown parameters are ignored.
func Parse(v url.Values) (Criteria, error) {
	c := Default()

	if raw := strings.TrimSpace(v.Get("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-"), err == nil && n > MaxPage:
			return Criteria{}, &ValidationError{Field: "page", Reason: fmt.Sprintf("must be at most %d", MaxPage)}
		case err == nil && n >= 1:
			c.Page = n
		}
	}
	if raw := first(v, "pageSize", "limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			c.PageSize = clamp(n, 1, MaxPageSize)
		}
	}

	c.Search = first(v, "searchTerm", "search")
	c.Position = strings.TrimSpace(v.Get("position"))
	c.Skills = splitList(v["skills"])
	c.UrgentOnly = truthy(first(v, "urgentOnly", "urgent"))

	if raw := strings.TrimSpace(v.Get("departmentId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			return Criteria{}, &ValidationError{Field: "departmentId", Reason: "must be a positive integer"}
		}
		c.DepartmentID = &id
	}

	if raw := strings.TrimSpace(v.Get("status")); raw != "" {
		st, ok := models.ParseStatus(raw)
		if !ok {
			return Criteria{}, &ValidationError{Field: "status", Reason: "must be one of idle, assigned, processing, unavailable"}
		}
		c.Status = &st
	}

	var err error
	if c.IdleFromStart, err = parseDate(v, "idleFromStart"); err != nil {
		return Criteria{}, err
	}
	if c.IdleFromEnd, err = parseDate(v, "idleFromEnd"); err != nil {
		return Criteria{}, err
	}
	if c.IdleFromStart != nil && c.IdleFromEnd != nil && c.IdleFromStart.After(*c.IdleFromEnd) {
		return Criteria{}, &ValidationError{Field: "idleFromEnd", Reason: "must not be before idleFromStart"}
	}

	if f, ok := sortFields[strings.ToLower(strings.TrimSpace(v.Get("sortBy")))]; ok {
		c.SortField = f
	}
	if strings.EqualFold(strings.TrimSpace(v.Get("sortOrder")), "ASC") {
		c.SortDesc = false
	}

	return c, nil
}

func parseDate(v url.Values, key string) (*time.Time, error) {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return nil, &ValidationError{Field: key, Reason: "expected date in YYYY-MM-DD format"}
	}
	return &t, nil
}

func first(v url.Values, keys ...string) string {
	for _, k := range keys {
		if s := strings.TrimSpace(v.Get(k)); s != "" {
			return s
		}
	}
	return ""
}

func splitList(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, s := range strings.Split(r, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func truthy(s string) bool {
	return strings.EqualFold(s, "true") || s == "1"
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
