package geo

import (
	"math"
	"testing"
)

func TestDistanceKmZero(t *testing.T) {
	p := Point{Lat: 52.52, Lng: 13.405}
	if d := DistanceKm(p, p); d != 0 {
		t.Fatalf("expected zero distance to self, got %f", d)
	}
}

func TestDistanceKmKnownPair(t *testing.T) {
	// Berlin -> Hamburg, roughly 255 km
	berlin := Point{Lat: 52.52, Lng: 13.405}
	hamburg := Point{Lat: 53.5511, Lng: 9.9937}

	d := DistanceKm(berlin, hamburg)
	if d < 250 || d > 260 {
		t.Fatalf("Berlin-Hamburg distance out of range: %f", d)
	}

	// Symmetric
	if back := DistanceKm(hamburg, berlin); math.Abs(back-d) > 1e-9 {
		t.Fatalf("distance not symmetric: %f vs %f", d, back)
	}
}

func TestWithinRadiusBoundary(t *testing.T) {
	center := Point{Lat: 40.0, Lng: -74.0}

	if !WithinRadius(center, center, 0) {
		t.Fatal("point at distance 0 must be included at radius 0")
	}

	// Roughly 1 degree of latitude is 111 km; a point ~111 km north must be
	// outside a 100 km radius but inside 150 km.
	north := Point{Lat: 41.0, Lng: -74.0}
	if WithinRadius(center, north, 100) {
		t.Fatal("point past the radius must be excluded")
	}
	if !WithinRadius(center, north, 150) {
		t.Fatal("point inside the radius must be included")
	}
}

func TestValidRadius(t *testing.T) {
	for _, r := range RadiusOptions {
		if !ValidRadius(r) {
			t.Fatalf("option %f should be valid", r)
		}
	}
	for _, r := range []float64{0, 3, 42, 201} {
		if ValidRadius(r) {
			t.Fatalf("radius %f should be invalid", r)
		}
	}
}
