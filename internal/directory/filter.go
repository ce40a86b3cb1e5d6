// Package directory implements the marketplace search: free-text and
// specialty filtering plus the optional location-aware radius filter and
// ordering. Pure functions over in-memory trainer lists; distances are
// recomputed per call, never cached.
package directory

import (
	"math"
	"sort"
	"strings"

	"github.com/juicefit/juice-platform/internal/domain"
	"github.com/juicefit/juice-platform/internal/geo"
)

// AllSpecialties is the sentinel selector value that disables the specialty
// filter.
const AllSpecialties = "All Specialties"

// Query is one directory search. Location nil means the visitor has not
// shared a position: no geo filter and insertion order.
type Query struct {
	Text      string
	Specialty string
	Location  *geo.Point
	RadiusKm  float64
}

// Apply returns the visible subset of trainers in display order.
func Apply(trainers []domain.Trainer, q Query) []domain.Trainer {
	text := strings.ToLower(strings.TrimSpace(q.Text))
	specialty := strings.TrimSpace(q.Specialty)
	filterSpecialty := specialty != "" && !strings.EqualFold(specialty, AllSpecialties)

	out := make([]domain.Trainer, 0, len(trainers))
	for _, t := range trainers {
		if text != "" && !matchesText(&t, text) {
			continue
		}
		if filterSpecialty && !t.HasSpecialty(specialty) {
			continue
		}
		if q.Location != nil && !passesGeo(&t, *q.Location, q.RadiusKm) {
			continue
		}
		out = append(out, t)
	}

	if q.Location != nil {
		sortByProximity(out, *q.Location)
	}
	return out
}

func matchesText(t *domain.Trainer, loweredQuery string) bool {
	if strings.Contains(strings.ToLower(t.Name), loweredQuery) ||
		strings.Contains(strings.ToLower(t.City), loweredQuery) ||
		strings.Contains(strings.ToLower(t.Country), loweredQuery) {
		return true
	}
	for _, s := range t.Specialties {
		if strings.Contains(strings.ToLower(s), loweredQuery) {
			return true
		}
	}
	return false
}

// passesGeo keeps remote trainers and trainers without coordinates
// regardless of radius; everyone else must be inside it.
func passesGeo(t *domain.Trainer, loc geo.Point, radiusKm float64) bool {
	if t.RemoteAvailable {
		return true
	}
	if !t.HasCoordinates() {
		return true
	}
	return geo.WithinRadius(loc, geo.Point{Lat: *t.Latitude, Lng: *t.Longitude}, radiusKm)
}

// sortByProximity orders remote trainers last, the rest by ascending
// distance, falling back to descending rating when a distance is unknown
// or tied.
func sortByProximity(trainers []domain.Trainer, loc geo.Point) {
	dist := func(t *domain.Trainer) float64 {
		if !t.HasCoordinates() {
			return math.NaN()
		}
		return geo.DistanceKm(loc, geo.Point{Lat: *t.Latitude, Lng: *t.Longitude})
	}

	sort.SliceStable(trainers, func(i, j int) bool {
		a, b := &trainers[i], &trainers[j]
		if a.RemoteAvailable != b.RemoteAvailable {
			return !a.RemoteAvailable
		}
		da, db := dist(a), dist(b)
		if !math.IsNaN(da) && !math.IsNaN(db) && da != db {
			return da < db
		}
		return a.Rating > b.Rating
	})
}
