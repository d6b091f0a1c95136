package geo

import "testing"

func TestResolve(t *testing.T) {
	r := NewResolver(12.9716, 77.5946)
	tests := []struct {
		name       string
		lat, lng   string
		want       Point
		fromDevice bool
	}{
		{name: "device position", lat: "28.6139", lng: "77.2090", want: Point{Lat: 28.6139, Lng: 77.2090}, fromDevice: true},
		{name: "denied", lat: "", lng: "", want: DefaultFallback},
		{name: "garbage", lat: "abc", lng: "77", want: DefaultFallback},
		{name: "out of range", lat: "91", lng: "0", want: DefaultFallback},
		{name: "nan", lat: "NaN", lng: "0", want: DefaultFallback},
		{name: "whitespace", lat: " 1.5 ", lng: " 2.5", want: Point{Lat: 1.5, Lng: 2.5}, fromDevice: true},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, ok := r.Resolve(tc.lat, tc.lng)
			if got != tc.want || ok != tc.fromDevice {
				t.Fatalf("expected %+v/%v, got %+v/%v", tc.want, tc.fromDevice, got, ok)
			}
		})
	}
}

func TestNewResolverRejectsInvalidFallback(t *testing.T) {
	r := NewResolver(200, 0)
	if r.Fallback != DefaultFallback {
		t.Fatalf("expected default fallback, got %+v", r.Fallback)
	}
}
