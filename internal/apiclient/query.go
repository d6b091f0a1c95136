package apiclient

import (
	"net/url"
	"strconv"
)

// Query builds a query string from defined parameters only.
type Query struct {
	values url.Values
}

func NewQuery() *Query {
	return &Query{values: url.Values{}}
}

// Set adds key when value is not empty.
func (q *Query) Set(key, value string) *Query {
	if value != "" {
		q.values.Set(key, value)
	}
	return q
}

// Int adds key when value is positive.
func (q *Query) Int(key string, value int) *Query {
	if value > 0 {
		q.values.Set(key, strconv.Itoa(value))
	}
	return q
}

// Skip adds key when value is zero or more, for offsets where 0 is meaningful.
func (q *Query) Skip(key string, value int) *Query {
	if value >= 0 {
		q.values.Set(key, strconv.Itoa(value))
	}
	return q
}

func (q *Query) Values() url.Values {
	if q == nil {
		return nil
	}
	return q.values
}

func (q *Query) Encode() string {
	if q == nil {
		return ""
	}
	return q.values.Encode()
}
