package directory

import (
	"testing"

	"github.com/juicefit/juice-platform/internal/domain"
	"github.com/juicefit/juice-platform/internal/geo"
)

func ptr(f float64) *float64 { return &f }

// trainerAt places a trainer roughly kmNorth kilometers north of the origin
// point (1 degree of latitude ~ 111.19 km on this sphere model).
func trainerAt(name string, kmNorth float64, rating float64) domain.Trainer {
	return domain.Trainer{
		Name:        name,
		City:        "Berlin",
		Country:     "Germany",
		Specialties: []string{"Strength Training"},
		Rating:      rating,
		Latitude:    ptr(52.0 + kmNorth/111.19),
		Longitude:   ptr(13.0),
	}
}

var origin = geo.Point{Lat: 52.0, Lng: 13.0}

func TestTextFilter(t *testing.T) {
	trainers := []domain.Trainer{
		{Name: "Anna Schmidt", City: "Berlin", Country: "Germany", Specialties: []string{"Yoga"}},
		{Name: "Bob Miller", City: "Munich", Country: "Germany", Specialties: []string{"CrossFit"}},
	}

	for _, tc := range []struct {
		query string
		want  int
	}{
		{"", 2},          // empty query matches everything
		{"anna", 1},      // name, case-insensitive
		{"MUNICH", 1},    // city
		{"germany", 2},   // country
		{"yoga", 1},      // specialty tag
		{"pilates", 0},   // no match
	} {
		got := Apply(trainers, Query{Text: tc.query})
		if len(got) != tc.want {
			t.Errorf("query %q: expected %d trainers, got %d", tc.query, tc.want, len(got))
		}
	}
}

func TestSpecialtyFilter(t *testing.T) {
	trainers := []domain.Trainer{
		{Name: "A", Specialties: []string{"Yoga", "Mobility"}},
		{Name: "B", Specialties: []string{"CrossFit"}},
	}

	got := Apply(trainers, Query{Specialty: "yoga"})
	if len(got) != 1 || got[0].Name != "A" {
		t.Fatalf("specialty filter failed: %+v", got)
	}

	// Sentinel disables the filter
	if got := Apply(trainers, Query{Specialty: AllSpecialties}); len(got) != 2 {
		t.Fatalf("sentinel should match everything, got %d", len(got))
	}
}

func TestGeoFilterRadius(t *testing.T) {
	near := trainerAt("near", 4, 4.0)
	far := trainerAt("far", 30, 5.0)
	remote := domain.Trainer{Name: "remote", RemoteAvailable: true, Rating: 3.0}
	noCoords := domain.Trainer{Name: "nocoords", Rating: 2.0}

	got := Apply([]domain.Trainer{near, far, remote, noCoords}, Query{Location: &origin, RadiusKm: 5})

	names := map[string]bool{}
	for _, tr := range got {
		names[tr.Name] = true
	}
	if !names["near"] || names["far"] {
		t.Fatalf("radius filter wrong: %v", names)
	}
	// Remote and coordinate-less trainers always pass
	if !names["remote"] || !names["nocoords"] {
		t.Fatalf("remote/no-coords must pass the geo filter: %v", names)
	}
}

func TestZeroDistanceIncludedAtAnyRadius(t *testing.T) {
	here := trainerAt("here", 0, 4.0)
	got := Apply([]domain.Trainer{here}, Query{Location: &origin, RadiusKm: 5})
	if len(got) != 1 {
		t.Fatal("trainer at the user's exact coordinates must be included")
	}
}

func TestProximityOrdering(t *testing.T) {
	fifty := trainerAt("fifty", 50, 4.0)
	ten := trainerAt("ten", 10, 3.0)
	remote := domain.Trainer{Name: "remote", RemoteAvailable: true, Rating: 5.0}

	got := Apply([]domain.Trainer{fifty, ten, remote}, Query{Location: &origin, RadiusKm: 200})
	if len(got) != 3 {
		t.Fatalf("expected 3 trainers, got %d", len(got))
	}
	want := []string{"ten", "fifty", "remote"}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("order mismatch at %d: want %s, got %s", i, name, got[i].Name)
		}
	}
}

func TestRatingTiebreak(t *testing.T) {
	a := domain.Trainer{Name: "low", Rating: 2.0}
	b := domain.Trainer{Name: "high", Rating: 4.5}

	// Neither has coordinates, so the distance is unknown for both and
	// rating decides.
	got := Apply([]domain.Trainer{a, b}, Query{Location: &origin, RadiusKm: 50})
	if got[0].Name != "high" || got[1].Name != "low" {
		t.Fatalf("rating tiebreak failed: %s, %s", got[0].Name, got[1].Name)
	}
}

func TestInsertionOrderWithoutLocation(t *testing.T) {
	a := trainerAt("a", 80, 1.0)
	b := trainerAt("b", 5, 2.0)

	got := Apply([]domain.Trainer{a, b}, Query{})
	if got[0].Name != "a" || got[1].Name != "b" {
		t.Fatal("without a location the list must keep insertion order")
	}
}
