// Package emission estimates CO2 emissions for routes.
//
// Estimates are resolved remote-first: an external estimation endpoint is
// consulted, and on any failure a deterministic local factor model takes
// over. Callers always receive a usable estimate together with a
// provenance tag.
package emission

import (
	"context"
	"errors"
)

// Sentinel errors for emission operations.
var (
	// ErrEstimateUnavailable indicates the remote endpoint returned no usable value.
	ErrEstimateUnavailable = errors.New("remote emission estimate unavailable")
	// ErrUnknownVehicle indicates the vehicle profile could not be mapped for the provider.
	ErrUnknownVehicle = errors.New("unknown vehicle profile")
)

// Mode represents a travel mode.
type Mode string

const (
	ModeDriving    Mode = "driving"
	ModeTransit    Mode = "transit"
	ModeBicycling  Mode = "bicycling"
	ModeWalking    Mode = "walking"
	ModeMotorcycle Mode = "motorcycle"
	ModeBus        Mode = "bus"
)

// Modes lists all supported travel modes.
func Modes() []Mode {
	return []Mode{ModeDriving, ModeTransit, ModeBicycling, ModeWalking, ModeMotorcycle, ModeBus}
}

// Valid reports whether the mode is one of the supported travel modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeDriving, ModeTransit, ModeBicycling, ModeWalking, ModeMotorcycle, ModeBus:
		return true
	}
	return false
}

// Source tags where an emission value came from.
type Source string

const (
	// SourceRemote means the value came from the external estimation endpoint.
	SourceRemote Source = "remote"
	// SourceLocal means the value came from the local factor model.
	SourceLocal Source = "local"
)

// EstimateRequest describes a single emission estimation.
type EstimateRequest struct {
	DistanceMeters float64

	// Mode is the travel mode (required).
	Mode Mode

	// VehicleProfileID selects a specific vehicle; empty means a
	// mode-derived default is used.
	VehicleProfileID string

	// OriginHint and DestinationHint are free-text location hints
	// forwarded to the remote estimator. Optional.
	OriginHint      string
	DestinationHint string
}

// Estimate is the result of an emission estimation.
type Estimate struct {
	// EmissionKg is the estimated CO2 mass in kilograms.
	EmissionKg float64

	// Source tags the provenance of the value (remote or local).
	Source Source
}

// RemoteEstimator is implemented by clients of the external estimation endpoint.
type RemoteEstimator interface {
	// EstimateEmission requests a remote emission estimate.
	// Returns ErrEstimateUnavailable (possibly wrapped) on any failure.
	EstimateEmission(ctx context.Context, req RemoteRequest) (float64, error)

	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// RemoteRequest is the provider-facing shape of an estimation request.
type RemoteRequest struct {
	DistanceKm  float64
	VehicleType string
	FuelType    string
	Origin      string
	Destination string
	Mode        Mode
}
