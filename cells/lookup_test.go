package cells

import "testing"

func TestCityTable(t *testing.T) {
	t.Parallel()

	l, err := Open("")
	if err != nil {
		t.Fatalf("Open without DB: %v", err)
	}
	defer l.Close()

	lat, lon, ok := l.City("  Bhopal ")
	if !ok || lat != 23.2599 || lon != 77.4126 {
		t.Fatalf("City(Bhopal) = %v %v %v", lat, lon, ok)
	}
	if _, _, ok := l.City("Atlantis"); ok {
		t.Fatalf("unknown city must miss the table")
	}
}

func TestCoordinatesAlwaysUsable(t *testing.T) {
	t.Parallel()

	l, _ := Open("")
	defer l.Close()

	if lat, lon := l.Coordinates("Mumbai"); lat != 19.0760 || lon != 72.8777 {
		t.Fatalf("known city should hit the table: %v %v", lat, lon)
	}

	lat, lon := l.Coordinates("nowhere in particular")
	if lat < defaultAnchor[0]-2 || lat > defaultAnchor[0]+2 ||
		lon < defaultAnchor[1]-2 || lon > defaultAnchor[1]+2 {
		t.Fatalf("fallback coordinates drifted from the anchor: %v %v", lat, lon)
	}
}

func TestLookupWithoutDatabase(t *testing.T) {
	t.Parallel()

	l, _ := Open("")
	defer l.Close()
	if _, ok := l.Cell("404011234"); ok {
		t.Fatalf("cell lookup without a DB must miss")
	}

	var nilLookup *Lookup
	if _, ok := nilLookup.Cell("404011234"); ok {
		t.Fatalf("nil lookup must miss, not panic")
	}
	nilLookup.Coordinates("anywhere")
	if err := nilLookup.Close(); err != nil {
		t.Fatalf("nil lookup close: %v", err)
	}
}
