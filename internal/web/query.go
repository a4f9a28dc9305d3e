package web

import (
	"net/url"
	"strconv"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// PageQuery is the parsed paging portion of a list request.
type PageQuery struct {
	Page  int
	Limit int
}

// Skip returns the number of documents to skip for this page.
func (p PageQuery) Skip() int {
	return (p.Page - 1) * p.Limit
}

// ParsePage reads page and limit from the query string. Absent or
// non-numeric values fall back to 1 and 10.
func ParsePage(q url.Values) PageQuery {
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = defaultPage
	}
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	return PageQuery{Page: page, Limit: limit}
}

// Pagination is the paging block returned alongside list results.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	Limit       int   `json:"limit"`
}

// NewPagination computes totalPages = ceil(total/limit).
func NewPagination(p PageQuery, total int64) Pagination {
	pages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Pagination{
		CurrentPage: p.Page,
		TotalPages:  pages,
		TotalItems:  total,
		Limit:       p.Limit,
	}
}
