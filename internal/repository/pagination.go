package repository

import (
	"strings"
)

// ListQuery is the uniform pagination/sort input shared by all list queries.
type ListQuery struct {
	Page   int
	Limit  int
	SortBy string
	Order  string // ASC/DESC, case-insensitive
}

// normalize clamps page/limit and resolves the ORDER BY clause against the
// per-resource whitelist. Unknown sort fields silently fall back to
// defaultSort; raw field names are never interpolated into SQL.
func (q ListQuery) normalize(defaultLimit int, allowed []string, defaultSort string) (page, limit int, orderBy string) {
	page = q.Page
	if page <= 0 {
		page = 1
	}
	limit = q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	sortBy := defaultSort
	for _, f := range allowed {
		if f == q.SortBy {
			sortBy = q.SortBy
			break
		}
	}
	order := "DESC"
	if strings.EqualFold(q.Order, "ASC") {
		order = "ASC"
	}
	return page, limit, sortBy + " " + order
}

// offset converts a 1-based page to a row offset.
func offset(page, limit int) int {
	return (page - 1) * limit
}
