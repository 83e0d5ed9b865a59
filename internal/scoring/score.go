// Package scoring ranks route candidates by environmental impact.
//
// The eco-score is a 0-100 heuristic combining trip length, duration,
// and a bonus for the vehicle or travel mode. Savings are computed
// relative to the worst candidate in a comparison set.
package scoring

import (
	"math"

	"github.com/greenroute/greenroute/internal/emission"
)

// Eco-score weights and caps.
const (
	baseScore        = 100.0
	distanceWeight   = 0.5 // points per km
	distancePenalty  = 30.0
	durationWeight   = 10.0 // points per hour
	durationPenalty  = 20.0
)

// vehicleBonuses reward cleaner vehicle choices. A listed vehicle profile
// takes precedence over the mode bonus.
var vehicleBonuses = map[string]float64{
	"electric":          20,
	"hybrid":            15,
	"petrol_small":      10,
	"diesel_small":      8,
	"petrol_medium":     5,
	"diesel_medium":     3,
	"petrol_large":      0,
	"diesel_large":      -2,
	"electric_scooter":  25,
	"petrol_scooter":    12,
	"petrol_motorcycle": 8,
	"city_bus":          15,
	"intercity_bus":     12,
	"electric_bus":      20,
}

// modeBonuses reward low-impact travel modes when no vehicle profile applies.
var modeBonuses = map[emission.Mode]float64{
	emission.ModeWalking:   20,
	emission.ModeBicycling: 15,
	emission.ModeTransit:   10,
}

// EcoScore computes the 0-100 environmental score for a route candidate.
// Longer and slower routes score lower; cleaner vehicles and active modes
// score higher. The result is rounded to the nearest integer.
func EcoScore(distanceMeters, durationSeconds float64, mode emission.Mode, vehicleProfileID string) int {
	km := distanceMeters / 1000
	hours := durationSeconds / 3600

	score := baseScore
	score -= math.Min(km*distanceWeight, distancePenalty)
	score -= math.Min(hours*durationWeight, durationPenalty)
	score += bonus(mode, vehicleProfileID)

	score = math.Max(0, math.Min(100, score))
	return int(math.Round(score))
}

// bonus resolves the score bonus. The vehicle bonus and the mode bonus are
// mutually exclusive: a recognized vehicle profile always wins.
func bonus(mode emission.Mode, vehicleProfileID string) float64 {
	if b, ok := vehicleBonuses[vehicleProfileID]; ok {
		return b
	}
	return modeBonuses[mode]
}
