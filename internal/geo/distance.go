// Package geo provides the great-circle math behind the marketplace radius
// filter.
package geo

import "math"

const earthRadiusKm = 6371.0

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64
	Lng float64
}

// DistanceKm returns the haversine distance between two points in
// kilometers.
func DistanceKm(a, b Point) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// WithinRadius reports whether b lies within radiusKm of a.
func WithinRadius(a, b Point, radiusKm float64) bool {
	return DistanceKm(a, b) <= radiusKm
}

// RadiusOptions is the fixed set of selectable directory radii, in km.
var RadiusOptions = []float64{5, 10, 25, 50, 75, 100, 150, 200}

// ValidRadius checks a requested radius against the fixed option set.
func ValidRadius(radiusKm float64) bool {
	for _, r := range RadiusOptions {
		if r == radiusKm {
			return true
		}
	}
	return false
}
