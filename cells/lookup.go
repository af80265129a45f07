// Package cells resolves cell tower IDs to addresses and rough coordinates.
// A read-only SQLite tower database gives real answers when present; without
// it the lookup degrades to a static city table and finally to randomized
// coordinates near a default anchor. Real geocoding is out of scope.
package cells

import (
	"database/sql"
	"fmt"
	"math/rand"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Info is what the lookup knows about one tower.
type Info struct {
	Address string
	City    string
	Lat     float64
	Lon     float64
}

// Lookup answers tower and city queries. The zero value (and a Lookup opened
// without a database) still answers, just less precisely.
type Lookup struct {
	db  *sql.DB
	rng *rand.Rand
}

// Open opens the tower database at path read-only. An empty path returns a
// Lookup that only uses the static tables.
func Open(path string) (*Lookup, error) {
	l := &Lookup{rng: rand.New(rand.NewSource(1))}
	if path == "" {
		return l, nil
	}
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, fmt.Errorf("open cell DB %s: %w", path, err)
	}
	l.db = db
	return l, nil
}

// Close releases the database handle, if any.
func (l *Lookup) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Cell returns tower info for a cell ID. IDs are matched with and without
// hyphens, the way the carrier dumps write them.
func (l *Lookup) Cell(id string) (Info, bool) {
	if l == nil || l.db == nil || id == "" {
		return Info{}, false
	}
	const q = `
        SELECT address, city, latitude, longitude
          FROM cellids
         WHERE cellid=? OR REPLACE(cellid,'-','')=?
         LIMIT 1`
	var info Info
	plain := strings.ReplaceAll(id, "-", "")
	err := l.db.QueryRow(q, id, plain).Scan(&info.Address, &info.City, &info.Lat, &info.Lon)
	if err != nil {
		return Info{}, false
	}
	return info, true
}

// cityCoords is the hardcoded city anchor table. Deliberately small; it is a
// display aid, not geocoding.
var cityCoords = map[string][2]float64{
	"delhi":      {28.6139, 77.2090},
	"new delhi":  {28.6139, 77.2090},
	"mumbai":     {19.0760, 72.8777},
	"kolkata":    {22.5726, 88.3639},
	"chennai":    {13.0827, 80.2707},
	"bengaluru":  {12.9716, 77.5946},
	"bangalore":  {12.9716, 77.5946},
	"hyderabad":  {17.3850, 78.4867},
	"pune":       {18.5204, 73.8567},
	"ahmedabad":  {23.0225, 72.5714},
	"jaipur":     {26.9124, 75.7873},
	"lucknow":    {26.8467, 80.9462},
	"bhopal":     {23.2599, 77.4126},
	"indore":     {22.7196, 75.8577},
	"patna":      {25.5941, 85.1376},
	"chandigarh": {30.7333, 76.7794},
}

// defaultAnchor centres the random fallback; roughly central India.
var defaultAnchor = [2]float64{23.0, 78.0}

// City returns coordinates for a city name from the static table.
func (l *Lookup) City(name string) (lat, lon float64, ok bool) {
	c, ok := cityCoords[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, 0, false
	}
	return c[0], c[1], true
}

// Coordinates always returns a usable lat/lon for a city name: the static
// table when the city is known, otherwise a jittered point near the default
// anchor so map output never collapses onto one pixel.
func (l *Lookup) Coordinates(city string) (lat, lon float64) {
	if la, lo, ok := l.City(city); ok {
		return la, lo
	}
	var rng *rand.Rand
	if l != nil {
		rng = l.rng
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return defaultAnchor[0] + (rng.Float64()-0.5)*4,
		defaultAnchor[1] + (rng.Float64()-0.5)*4
}
