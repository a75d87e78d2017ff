package domain

import "math"

// PaginationParams carries page/limit values from the HTTP layer to the services.
// Page is 1-indexed. Limit is capped at 100 by NewPaginationParams.
type PaginationParams struct {
	// Page is the current page number, starting at 1.
	Page int
	// Limit is the maximum number of items to return.
	Limit int
}

// NewPaginationParams builds a PaginationParams from optional HTTP query params.
// Nil pointers fall back to defaults (page=1, limit=20).
// The limit is capped at 100.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: 20}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = *limit
		if p.Limit > 100 {
			p.Limit = 100
		}
	}
	return p
}

// Offset returns the zero-based index of the first item on the page.
// A page too far out to address saturates at math.MaxInt, which Paginate
// treats as past the end.
func (p PaginationParams) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Paginate returns the page of items selected by p. Pages past the end are
// empty, never nil.
func Paginate[T any](items []T, p PaginationParams) []T {
	start := min(max(p.Offset(), 0), len(items))
	end := min(start+max(p.Limit, 0), len(items))
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}
