// Package analysis holds the tunable constants behind the heuristic parts of
// the pipeline. Historic builds disagreed on several of these values (night
// window, influence weights, role thresholds), so they live in one struct
// instead of being scattered through the logic.
package analysis

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Calibration groups every heuristic constant used by normalization, report
// generation and role classification.
type Calibration struct {
	// Night window: a call is "night" when hour >= NightStartHour or
	// hour < NightEndHour. Defaults to 18:00-05:59.
	NightStartHour int
	NightEndHour   int

	// TopN bounds the ranked report tables (top contacts, max stay).
	TopN int

	// LocationGuesses bounds the likely home/work candidates.
	LocationGuesses int

	// Influence score weights. Calibrated against the proxy centrality
	// formulas in package network, not against textbook centrality.
	DegreeWeight      float64
	BetweennessWeight float64
	ClosenessWeight   float64
	EigenvectorWeight float64

	// Leader gate: top fraction of internal nodes by influence rank,
	// plus incoming/night/contact floors.
	LeaderTopFraction       float64
	LeaderMinIncomingRatio  float64
	LeaderMinNightRatio     float64
	LeaderMinUniqueContacts int

	// Broker gate.
	BrokerMinBetweenness    float64
	BrokerMinIncomingRatio  float64
	BrokerMaxIncomingRatio  float64
	BrokerMinUniqueContacts int

	// Edge time-of-day bands: above High the edge is "night", below Low
	// it is "day", in between "mixed".
	EdgeNightRatioHigh float64
	EdgeNightRatioLow  float64
}

// Default returns the compiled-in calibration.
func Default() Calibration {
	return Calibration{
		NightStartHour: 18,
		NightEndHour:   6,

		TopN:            10,
		LocationGuesses: 5,

		DegreeWeight:      0.25,
		BetweennessWeight: 0.25,
		ClosenessWeight:   0.20,
		EigenvectorWeight: 0.30,

		LeaderTopFraction:       0.15,
		LeaderMinIncomingRatio:  0.5,
		LeaderMinNightRatio:     0.4,
		LeaderMinUniqueContacts: 5,

		BrokerMinBetweenness:    2.0,
		BrokerMinIncomingRatio:  0.3,
		BrokerMaxIncomingRatio:  0.7,
		BrokerMinUniqueContacts: 3,

		EdgeNightRatioHigh: 0.7,
		EdgeNightRatioLow:  0.3,
	}
}

// Load returns Default overridden by environment variables, reading a .env
// file first when one is present. Unset or malformed variables keep the
// default value.
func Load() Calibration {
	_ = godotenv.Load()

	c := Default()
	envInt(&c.NightStartHour, "CDR_NIGHT_START_HOUR")
	envInt(&c.NightEndHour, "CDR_NIGHT_END_HOUR")
	envInt(&c.TopN, "CDR_TOP_N")
	envInt(&c.LocationGuesses, "CDR_LOCATION_GUESSES")
	envFloat(&c.DegreeWeight, "CDR_WEIGHT_DEGREE")
	envFloat(&c.BetweennessWeight, "CDR_WEIGHT_BETWEENNESS")
	envFloat(&c.ClosenessWeight, "CDR_WEIGHT_CLOSENESS")
	envFloat(&c.EigenvectorWeight, "CDR_WEIGHT_EIGENVECTOR")
	envFloat(&c.LeaderTopFraction, "CDR_LEADER_TOP_FRACTION")
	envFloat(&c.LeaderMinIncomingRatio, "CDR_LEADER_MIN_INCOMING")
	envFloat(&c.LeaderMinNightRatio, "CDR_LEADER_MIN_NIGHT")
	envInt(&c.LeaderMinUniqueContacts, "CDR_LEADER_MIN_CONTACTS")
	envFloat(&c.BrokerMinBetweenness, "CDR_BROKER_MIN_BETWEENNESS")
	envFloat(&c.BrokerMinIncomingRatio, "CDR_BROKER_MIN_INCOMING")
	envFloat(&c.BrokerMaxIncomingRatio, "CDR_BROKER_MAX_INCOMING")
	envInt(&c.BrokerMinUniqueContacts, "CDR_BROKER_MIN_CONTACTS")
	envFloat(&c.EdgeNightRatioHigh, "CDR_EDGE_NIGHT_HIGH")
	envFloat(&c.EdgeNightRatioLow, "CDR_EDGE_NIGHT_LOW")
	return c
}

// IsNightHour reports whether an hour of day falls inside the night window.
// The window may wrap midnight (the default 18..6 does).
func (c Calibration) IsNightHour(hour int) bool {
	if c.NightStartHour > c.NightEndHour {
		return hour >= c.NightStartHour || hour < c.NightEndHour
	}
	return hour >= c.NightStartHour && hour < c.NightEndHour
}

func envInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
