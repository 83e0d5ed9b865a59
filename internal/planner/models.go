// Package planner composes geocoding, routing, emission estimation, and
// scoring into route comparison sets.
//
// A route set holds up to three candidates for one origin/destination/mode
// query, each annotated with its CO2 emission, eco-score, and savings
// relative to the worst candidate. When live routing is unavailable the
// planner can fall back to synthetic candidates so the comparison surface
// stays usable.
package planner

import (
	"errors"

	"github.com/greenroute/greenroute/internal/emission"
	"github.com/greenroute/greenroute/internal/routing"
)

// Sentinel errors for planner operations.
var (
	// ErrInvalidMode indicates an unsupported travel mode.
	ErrInvalidMode = errors.New("invalid travel mode")
	// ErrUnknownVehicleProfile indicates the vehicle profile ID is not in the profile table.
	ErrUnknownVehicleProfile = errors.New("unknown vehicle profile")
	// ErrPlaceNotFound indicates an endpoint query could not be resolved.
	ErrPlaceNotFound = errors.New("place not found")
	// ErrNoRoutes indicates no candidate could be produced, live or mock.
	ErrNoRoutes = errors.New("no routes available")
)

// RouteSetSource tags how a route set was produced.
type RouteSetSource string

const (
	// SourceLive means candidates came from the routing provider.
	SourceLive RouteSetSource = "live"
	// SourceMock means candidates are synthetic fallbacks.
	SourceMock RouteSetSource = "mock"
)

// Place is a resolved trip endpoint.
type Place struct {
	Query       string
	DisplayName string
	Lat         float64
	Lon         float64
}

// RouteCandidate is one routing option, fully annotated.
type RouteCandidate struct {
	// ID is unique within the route set.
	ID string

	DistanceMeters  float64
	DurationSeconds float64

	// Mode is the travel mode of the original query.
	Mode emission.Mode

	// Profile is the routing profile that produced this candidate.
	Profile routing.RouteProfile

	// VehicleProfileID is the vehicle used for emission and scoring, if any.
	VehicleProfileID string

	// GeometryPolyline is the encoded route geometry (precision 5).
	GeometryPolyline string

	// Summary is a short human-readable route description.
	Summary string

	// Instructions holds turn-by-turn steps for live candidates.
	Instructions []routing.Instruction

	// EmissionKg is the estimated CO2 mass for this candidate.
	EmissionKg float64

	// EmissionSource records whether the estimate is remote or local.
	EmissionSource emission.Source

	// EcoScore is the 0-100 environmental score.
	EcoScore int

	// SavingsKg and SavingsPercent are relative to the worst candidate
	// in the set. Zero for the worst candidate itself.
	SavingsKg      float64
	SavingsPercent float64
}

// Comparison identifies the extremes of a route set, with the emission
// gap between them.
type Comparison struct {
	MostEfficientID  string
	LeastEfficientID string

	// TotalSavingsKg is leastEfficient minus mostEfficient emission.
	TotalSavingsKg float64

	// SavingsPercent is TotalSavingsKg relative to the least efficient
	// candidate's emission. Zero when it emits nothing.
	SavingsPercent float64
}

// RouteSet is the result of a route comparison query.
type RouteSet struct {
	Origin      Place
	Destination Place
	Mode        emission.Mode
	Routes      []RouteCandidate
	Comparison  *Comparison
	Source      RouteSetSource
}
