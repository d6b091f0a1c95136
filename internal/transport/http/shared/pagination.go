package shared

import (
	"net/http"
	"strconv"
)

type Pagination struct {
	Page  int
	Limit int
}

// ParsePagination reads page and limit from the query string. Pages start at 1.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) Pagination {
	page := 1
	limit := defaultLimit
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return Pagination{Page: page, Limit: limit}
}

// Skip is the offset of the first row on the page.
func (p Pagination) Skip() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}
