package mapbox

// Mapbox Directions API response structures.

type directionsResponse struct {
	Code    string        `json:"code"`
	Message string        `json:"message,omitempty"`
	Routes  []mapboxRoute `json:"routes"`
}

type mapboxRoute struct {
	Distance float64     `json:"distance"` // meters
	Duration float64     `json:"duration"` // seconds
	Geometry string      `json:"geometry"` // encoded polyline (precision 5)
	Legs     []mapboxLeg `json:"legs"`
}

type mapboxLeg struct {
	Summary string       `json:"summary"`
	Steps   []mapboxStep `json:"steps"`
}

type mapboxStep struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
	Maneuver struct {
		Instruction string `json:"instruction"`
	} `json:"maneuver"`
}
