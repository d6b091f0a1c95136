// Package geo resolves the coordinates submitted with clock actions.
package geo

import (
	"math"
	"strconv"
	"strings"
)

// DefaultFallback is used when the browser cannot provide a position.
var DefaultFallback = Point{Lat: 12.9716, Lng: 77.5946}

type Point struct {
	Lat float64 `json:"latitude"`
	Lng float64 `json:"longitude"`
}

func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

type Resolver struct {
	Fallback Point
}

func NewResolver(lat, lng float64) Resolver {
	p := Point{Lat: lat, Lng: lng}
	if !p.Valid() {
		p = DefaultFallback
	}
	return Resolver{Fallback: p}
}

// Resolve parses the submitted latitude/longitude pair. The second result is
// false when the fallback coordinate was used.
func (r Resolver) Resolve(lat, lng string) (Point, bool) {
	lat, lng = strings.TrimSpace(lat), strings.TrimSpace(lng)
	if lat == "" || lng == "" {
		return r.Fallback, false
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return r.Fallback, false
	}
	ln, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return r.Fallback, false
	}
	p := Point{Lat: la, Lng: ln}
	if !p.Valid() {
		return r.Fallback, false
	}
	return p, true
}
