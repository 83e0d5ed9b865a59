// Package trip provides trip persistence and carbon aggregation services.
package trip

import (
	"errors"
	"time"

	"github.com/greenroute/greenroute/internal/emission"
)

// Repository errors.
var (
	ErrTripNotFound = errors.New("trip not found")
)

// Status represents the lifecycle state of a saved trip.
type Status string

const (
	StatusPlanned   Status = "planned"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known trip status.
func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Place is a trip endpoint: the name the user searched for plus the
// coordinate it resolved to. Stored as JSONB.
type Place struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Instruction is one turn-by-turn step kept with the selected route.
type Instruction struct {
	Text           string `json:"text"`
	DistanceMeters int    `json:"distanceMeters"`
}

// SelectedRoute is the full snapshot of the candidate the user chose,
// frozen at save time. Stored as JSONB.
type SelectedRoute struct {
	RouteID          string        `json:"routeId"`
	Profile          string        `json:"profile,omitempty"`
	DistanceMeters   float64       `json:"distanceMeters"`
	DurationSeconds  float64       `json:"durationSeconds"`
	EmissionKg       float64       `json:"emissionKg"`
	EcoScore         int           `json:"ecoScore"`
	GeometryPolyline string        `json:"geometryPolyline,omitempty"`
	Instructions     []Instruction `json:"instructions,omitempty"`
}

// AlternativeRoute is an abbreviated non-selected candidate from the same
// route set, kept for later display. No geometry or instructions.
type AlternativeRoute struct {
	RouteID         string  `json:"routeId"`
	Profile         string  `json:"profile,omitempty"`
	DistanceMeters  float64 `json:"distanceMeters"`
	DurationSeconds float64 `json:"durationSeconds"`
	EmissionKg      float64 `json:"emissionKg"`
	EcoScore        int     `json:"ecoScore"`
}

// EmissionSavings is the saving of the selected route against the worst
// candidate in its route set.
type EmissionSavings struct {
	AmountKg float64 `json:"amountKg"`
	Percent  float64 `json:"percent"`
}

// Trip represents a saved trip.
type Trip struct {
	ID                string
	UserID            string
	Origin            Place
	Destination       Place
	Mode              emission.Mode
	VehicleProfileID  *string
	SelectedRoute     SelectedRoute
	AlternativeRoutes []AlternativeRoute
	Savings           EmissionSavings
	Status            Status
	TakenAt           time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// clone returns a deep copy, so repository callers cannot alias stored
// alternative-route or instruction slices.
func (t *Trip) clone() *Trip {
	cpy := *t
	if t.SelectedRoute.Instructions != nil {
		cpy.SelectedRoute.Instructions = append([]Instruction(nil), t.SelectedRoute.Instructions...)
	}
	if t.AlternativeRoutes != nil {
		cpy.AlternativeRoutes = append([]AlternativeRoute(nil), t.AlternativeRoutes...)
	}
	return &cpy
}
