package models

// RouteComputeRequest is the request body for computing route comparisons.
type RouteComputeRequest struct {
	Origin           string  `json:"origin" validate:"required"`
	Destination      string  `json:"destination" validate:"required"`
	Mode             Mode    `json:"mode" validate:"required,oneof=driving transit bicycling walking motorcycle bus"`
	VehicleProfileID *string `json:"vehicleProfileId,omitempty"`
}

// RouteComputeResponse is the response for route computation.
type RouteComputeResponse struct {
	Origin      ResolvedPlace    `json:"origin"`
	Destination ResolvedPlace    `json:"destination"`
	Mode        Mode             `json:"mode"`
	Source      RouteSource      `json:"source"`
	Routes      []RouteOption    `json:"routes"`
	Comparison  *RouteComparison `json:"comparison,omitempty"`
	GeneratedAt Timestamp        `json:"generatedAt"`
}

// ResolvedPlace is a geocoded trip endpoint.
type ResolvedPlace struct {
	Query       string `json:"query"`
	DisplayName string `json:"displayName"`
	Point       *Point `json:"point,omitempty"`
}

// RouteOption represents a single route alternative.
type RouteOption struct {
	ID               string         `json:"id"`
	Profile          string         `json:"profile"`
	DistanceMeters   float64        `json:"distanceMeters"`
	DurationSeconds  float64        `json:"durationSeconds"`
	GeometryPolyline string         `json:"geometryPolyline,omitempty"`
	Summary          string         `json:"summary,omitempty"`
	Instructions     []Instruction  `json:"instructions,omitempty"`
	EmissionKg       float64        `json:"emissionKg"`
	EmissionSource   EmissionSource `json:"emissionSource"`
	EcoScore         int            `json:"ecoScore"`
	SavingsKg        float64        `json:"savingsKg"`
	SavingsPercent   float64        `json:"savingsPercent"`
}

// Instruction represents a turn-by-turn instruction.
type Instruction struct {
	Text           string `json:"text"`
	DistanceMeters int    `json:"distanceMeters"`
}

// RouteComparison identifies the extremes of a route set.
type RouteComparison struct {
	MostEfficientID  string  `json:"mostEfficientId"`
	LeastEfficientID string  `json:"leastEfficientId"`
	TotalSavingsKg   float64 `json:"totalSavingsKg"`
	SavingsPercent   float64 `json:"savingsPercent"`
}
