// Package pagination implements the page/per_page contract shared by every
// listing and ranking endpoint.
package pagination

import (
	"fmt"
	"math"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Params is a page request. Page is 1-based.
type Params struct {
	Page    int
	PerPage int
}

// New builds Params and rejects out-of-range values.
func New(page, perPage, maxPerPage int) (Params, error) {
	if maxPerPage < 1 {
		maxPerPage = MaxPerPage
	}
	if page < 1 {
		return Params{}, fmt.Errorf("page deve ser maior ou igual a 1")
	}
	if perPage < 1 || perPage > maxPerPage {
		return Params{}, fmt.Errorf("per_page deve estar entre 1 e %d", maxPerPage)
	}
	// the offset must fit in an int
	if page-1 > math.MaxInt/perPage {
		return Params{}, fmt.Errorf("page deve ser no máximo %d", math.MaxInt/perPage+1)
	}
	return Params{Page: page, PerPage: perPage}, nil
}

// Offset is the number of rows to skip.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Limit is the number of rows to fetch.
func (p Params) Limit() int {
	return p.PerPage
}

// Page is the response envelope.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
}

// NewPage wraps one page of items. total must come from the same filtered
// query the items were read from, before offset/limit.
func NewPage[T any](items []T, total int, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalPages: TotalPages(total, p.PerPage),
	}
}

// TotalPages is ceil(total/perPage), or 0 when there is nothing to page.
func TotalPages(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
