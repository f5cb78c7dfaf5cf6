// Package pagination parses page/limit query parameters.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultLimit = 20
	MaxLimit     = 50
)

// Params is a page request. Page is 1-based.
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// DefaultParams returns the first page at DefaultLimit.
func DefaultParams() Params {
	return Params{Page: 1, Limit: DefaultLimit}
}

// FromRequest reads ?page= and ?limit=. Missing or invalid values fall back
// to the defaults; limit is capped at MaxLimit.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()
	q := r.URL.Query()

	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		p.Limit = min(v, MaxLimit)
	}

	p.Offset = (p.Page - 1) * p.Limit
	return p
}

// Page is one page of items plus totals.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
}

// NewPage builds a Page. A nil items slice is reported as empty.
func NewPage[T any](items []T, total int, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	pages := (total + limit - 1) / limit
	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       p.Page,
		Limit:      limit,
		TotalPages: pages,
		HasNext:    p.Page < pages,
	}
}
