package models

// VehicleProfile describes a selectable vehicle emission profile.
type VehicleProfile struct {
	ID            string  `json:"id"`
	DisplayName   string  `json:"displayName"`
	Description   string  `json:"description,omitempty"`
	Category      string  `json:"category"`
	FactorKgPerKm float64 `json:"factorKgPerKm"`
	Electric      bool    `json:"electric"`
}

// VehicleProfileList represents the vehicle profile catalogue.
type VehicleProfileList struct {
	Items []VehicleProfile `json:"items"`
}

// Enums represents the enum values used by the API.
type Enums struct {
	Modes        []Mode       `json:"modes"`
	TripStatuses []TripStatus `json:"tripStatuses"`
}
