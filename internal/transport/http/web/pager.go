package web

import (
	"net/http"
	"strconv"
)

// Pager links the previous and next pages of a list, keeping the other
// query parameters.
type Pager struct {
	Page       int
	TotalPages int
	Total      int
	PrevURL    string
	NextURL    string
}

func NewPager(r *http.Request, page, totalPages, total int) Pager {
	if page < 1 {
		page = 1
	}
	if totalPages < 1 {
		totalPages = 1
	}
	p := Pager{Page: page, TotalPages: totalPages, Total: total}
	if page > 1 {
		p.PrevURL = pageURL(r, page-1)
	}
	if page < totalPages {
		p.NextURL = pageURL(r, page+1)
	}
	return p
}

func pageURL(r *http.Request, page int) string {
	q := r.URL.Query()
	q.Set("page", strconv.Itoa(page))
	return r.URL.Path + "?" + q.Encode()
}
