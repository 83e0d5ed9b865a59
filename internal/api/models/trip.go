package models

// TripPlace is a trip endpoint: the searched name and, when known, the
// coordinate it resolved to.
type TripPlace struct {
	Name  string `json:"name"`
	Point *Point `json:"point,omitempty"`
}

// TripSelectedRoute is the full snapshot of the chosen route candidate.
type TripSelectedRoute struct {
	ID               string        `json:"id"`
	Profile          string        `json:"profile,omitempty"`
	DistanceMeters   float64       `json:"distanceMeters"`
	DurationSeconds  float64       `json:"durationSeconds"`
	EmissionKg       float64       `json:"emissionKg"`
	EcoScore         int           `json:"ecoScore"`
	GeometryPolyline string        `json:"geometryPolyline,omitempty"`
	Instructions     []Instruction `json:"instructions,omitempty"`
}

// TripAlternativeRoute is an abbreviated non-selected candidate retained
// with the trip.
type TripAlternativeRoute struct {
	ID              string  `json:"id"`
	Profile         string  `json:"profile,omitempty"`
	DistanceMeters  float64 `json:"distanceMeters"`
	DurationSeconds float64 `json:"durationSeconds"`
	EmissionKg      float64 `json:"emissionKg"`
	EcoScore        int     `json:"ecoScore"`
}

// TripEmissionSavings is the saving of the selected route against the
// worst candidate in its route set.
type TripEmissionSavings struct {
	AmountKg float64 `json:"amountKg"`
	Percent  float64 `json:"percent"`
}

// Trip represents a saved trip.
type Trip struct {
	ID                string                 `json:"id"`
	Origin            TripPlace              `json:"origin"`
	Destination       TripPlace              `json:"destination"`
	Mode              Mode                   `json:"mode"`
	VehicleProfileID  *string                `json:"vehicleProfileId,omitempty"`
	SelectedRoute     TripSelectedRoute      `json:"selectedRoute"`
	AlternativeRoutes []TripAlternativeRoute `json:"alternativeRoutes"`
	EmissionSavings   TripEmissionSavings    `json:"emissionSavings"`
	Status            TripStatus             `json:"status"`
	TakenAt           Timestamp              `json:"takenAt"`
	CreatedAt         Timestamp              `json:"createdAt"`
	UpdatedAt         Timestamp              `json:"updatedAt"`
}

// TripCreateRequest is the request body for saving a trip.
type TripCreateRequest struct {
	Origin            TripPlace              `json:"origin" validate:"required"`
	Destination       TripPlace              `json:"destination" validate:"required"`
	Mode              Mode                   `json:"mode" validate:"required"`
	VehicleProfileID  *string                `json:"vehicleProfileId,omitempty"`
	SelectedRoute     TripSelectedRoute      `json:"selectedRoute" validate:"required"`
	AlternativeRoutes []TripAlternativeRoute `json:"alternativeRoutes,omitempty"`
	EmissionSavings   TripEmissionSavings    `json:"emissionSavings"`
	TakenAt           *Timestamp             `json:"takenAt,omitempty"`
}

// TripUpdateStatusRequest is the request body for updating a trip's status.
type TripUpdateStatusRequest struct {
	Status TripStatus `json:"status" validate:"required,oneof=planned completed cancelled"`
}

// PagedTrips is a paginated list of trips.
type PagedTrips struct {
	Items []Trip            `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}

// CarbonSummary aggregates emission and savings figures across a user's trips.
type CarbonSummary struct {
	TotalTrips          int           `json:"totalTrips"`
	TotalDistanceMeters float64       `json:"totalDistanceMeters"`
	TotalEmissionKg     float64       `json:"totalEmissionKg"`
	TotalSavingsKg      float64       `json:"totalSavingsKg"`
	AverageEcoScore     float64       `json:"averageEcoScore"`
	CurrentMonth        MonthSummary  `json:"currentMonth"`
	ByMode              []ModeSummary `json:"byMode"`
	GeneratedAt         Timestamp     `json:"generatedAt"`
}

// MonthSummary aggregates trips within a single calendar month.
type MonthSummary struct {
	Month          string  `json:"month"`
	Trips          int     `json:"trips"`
	DistanceMeters float64 `json:"distanceMeters"`
	EmissionKg     float64 `json:"emissionKg"`
	SavingsKg      float64 `json:"savingsKg"`
}

// ModeSummary aggregates trips taken with a single transportation mode.
type ModeSummary struct {
	Mode           Mode    `json:"mode"`
	Trips          int     `json:"trips"`
	DistanceMeters float64 `json:"distanceMeters"`
	EmissionKg     float64 `json:"emissionKg"`
	SavingsKg      float64 `json:"savingsKg"`
}
