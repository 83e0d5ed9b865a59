package models

// Units represents the user's preferred unit system.
type Units string

const (
	UnitsMetric   Units = "METRIC"
	UnitsImperial Units = "IMPERIAL"
)

// Me represents the authenticated user's account summary.
type Me struct {
	UserID      string      `json:"userId"`
	Email       string      `json:"email,omitempty"`
	Name        string      `json:"name,omitempty"`
	Locale      string      `json:"locale"`
	Units       Units       `json:"units"`
	Preferences Preferences `json:"preferences"`
	CreatedAt   Timestamp   `json:"createdAt"`
}

// MeInput is the request body for updating user settings.
type MeInput struct {
	Locale *string `json:"locale,omitempty" validate:"omitempty,bcp47_language_tag"`
	Units  *Units  `json:"units,omitempty" validate:"omitempty,oneof=METRIC IMPERIAL"`
}

// Preferences represents the user's route planning defaults.
type Preferences struct {
	DefaultMode             Mode      `json:"defaultMode"`
	DefaultVehicleProfileID *string   `json:"defaultVehicleProfileId,omitempty"`
	UpdatedAt               Timestamp `json:"updatedAt"`
}

// PreferencesInput is the request body for updating route planning defaults.
type PreferencesInput struct {
	DefaultMode             *Mode   `json:"defaultMode,omitempty" validate:"omitempty,oneof=driving transit bicycling walking motorcycle bus"`
	DefaultVehicleProfileID *string `json:"defaultVehicleProfileId,omitempty"`
}
