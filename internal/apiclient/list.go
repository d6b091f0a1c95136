package apiclient

import (
	"bytes"
	"encoding/json"
)

const DefaultLimit = 10

// Page is a paginated list response. The backend sends the rows under
// `items` or `data`, and `data` may itself wrap `items`.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type pageWire struct {
	Items      json.RawMessage `json:"items"`
	Data       json.RawMessage `json:"data"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	Total      int             `json:"total"`
	TotalPages int             `json:"totalPages"`
}

func (p *Page[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		*p = Page[T]{}
		return json.Unmarshal(b, &p.Items)
	}
	var w pageWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	out := Page[T]{Page: w.Page, Limit: w.Limit, Total: w.Total, TotalPages: w.TotalPages}
	switch {
	case isArray(w.Items):
		if err := json.Unmarshal(w.Items, &out.Items); err != nil {
			return err
		}
	case isArray(w.Data):
		if err := json.Unmarshal(w.Data, &out.Items); err != nil {
			return err
		}
	case len(w.Data) > 0 && w.Data[0] == '{':
		var nested Page[T]
		if err := json.Unmarshal(w.Data, &nested); err != nil {
			return err
		}
		out.Items = nested.Items
		if out.Total == 0 {
			out.Total = nested.Total
		}
		if out.Page == 0 {
			out.Page = nested.Page
		}
		if out.Limit == 0 {
			out.Limit = nested.Limit
		}
		if out.TotalPages == 0 {
			out.TotalPages = nested.TotalPages
		}
	}
	*p = out
	return nil
}

// Normalize fills paging defaults: page 1, the given limit, total from the
// row count and totalPages = ceil(total/limit) with a minimum of 1.
func (p Page[T]) Normalize(limit int) Page[T] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = limit
	}
	if p.Total <= 0 {
		p.Total = len(p.Items)
	}
	p.TotalPages = TotalPages(p.Total, p.Limit)
	return p
}

func (p Page[T]) Len() int { return len(p.Items) }

func TotalPages(total, limit int) int {
	if limit <= 0 {
		limit = DefaultLimit
	}
	pages := (total + limit - 1) / limit
	if pages < 1 {
		return 1
	}
	return pages
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

// Data unwraps `{data: T}` responses and also accepts a bare T.
type Data[T any] struct {
	Value T
}

func (d *Data[T]) UnmarshalJSON(b []byte) error {
	var w struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &w); err == nil {
		raw := bytes.TrimSpace(w.Data)
		if len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
			return json.Unmarshal(raw, &d.Value)
		}
		if len(raw) > 0 {
			return nil
		}
	}
	return json.Unmarshal(b, &d.Value)
}

// Message reads the optional human-readable `message` of an action response.
type Message struct {
	Message string `json:"message"`
}
