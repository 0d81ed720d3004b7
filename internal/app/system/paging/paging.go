// internal/app/system/paging/paging.go
package paging

import "math"

// Offset returns the number of rows to skip for a 1-based page.
// Pages below 1 are treated as page 1. A product that would overflow
// saturates at math.MaxInt, which yields an empty page.
func Offset(page, pageSize int) int {
	if page < 1 || pageSize < 1 {
		return 0
	}
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}

// TotalPages returns ceil(total/pageSize), 0 when there are no rows.
func TotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize < 1 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// Meta is the page envelope returned alongside a page of rows.
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewMeta computes the envelope for page of pageSize over total rows.
func NewMeta(total int64, page, pageSize int) Meta {
	pages := TotalPages(total, pageSize)
	return Meta{
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pages,
		HasNext:    page < pages,
		HasPrev:    page > 1,
	}
}
