// Package models provides request and response models for the GreenRoute API.
package models

import "time"

// Point represents a geographic coordinate.
type Point struct {
	Lat float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"required,gte=-180,lte=180"`
}

// Mode represents a transportation mode.
type Mode string

const (
	ModeDriving    Mode = "driving"
	ModeTransit    Mode = "transit"
	ModeBicycling  Mode = "bicycling"
	ModeWalking    Mode = "walking"
	ModeMotorcycle Mode = "motorcycle"
	ModeBus        Mode = "bus"
)

// Modes lists all transportation modes accepted by the API.
func Modes() []Mode {
	return []Mode{ModeDriving, ModeTransit, ModeBicycling, ModeWalking, ModeMotorcycle, ModeBus}
}

// TripStatus represents the lifecycle state of a saved trip.
type TripStatus string

const (
	TripStatusPlanned   TripStatus = "planned"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

// TripStatuses lists all trip statuses accepted by the API.
func TripStatuses() []TripStatus {
	return []TripStatus{TripStatusPlanned, TripStatusCompleted, TripStatusCancelled}
}

// RouteSource tags how a route set was produced.
type RouteSource string

const (
	RouteSourceLive RouteSource = "live"
	RouteSourceMock RouteSource = "mock"
)

// EmissionSource tags the provenance of an emission estimate.
type EmissionSource string

const (
	EmissionSourceRemote EmissionSource = "remote"
	EmissionSourceLocal  EmissionSource = "local"
)

// PagedResponseMeta contains pagination metadata.
type PagedResponseMeta struct {
	Limit      int     `json:"limit"`
	NextCursor *string `json:"nextCursor,omitempty"`
}

// HealthStatus represents the health status of a service.
type HealthStatus string

const (
	HealthStatusOK       HealthStatus = "OK"
	HealthStatusDegraded HealthStatus = "DEGRADED"
	HealthStatusFail     HealthStatus = "FAIL"
)

// Timestamp is a helper type for time.Time with custom JSON formatting.
type Timestamp time.Time

// MarshalJSON implements json.Marshaler for Timestamp.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(t).Format(time.RFC3339) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for Timestamp.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	// Remove quotes
	s := string(data[1 : len(data)-1])
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	*t = Timestamp(parsed)
	return nil
}

// Time returns the underlying time.Time.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}
