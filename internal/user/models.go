// Package user provides user profile and settings management.
//
// Account identity (email, password hash) lives in the auth package. This
// package stores only the display and planning preferences hanging off a
// user ID: locale, units, default travel mode, and default vehicle profile.
package user

import (
	"time"

	"github.com/greenroute/greenroute/internal/api/models"
	"github.com/greenroute/greenroute/internal/emission"
)

// User represents a user's profile and settings.
type User struct {
	// ID is the unique user identifier (format: usr_XXXX).
	ID string

	// Locale is the user's preferred language/region (BCP 47 format, e.g., "en-IN").
	Locale string

	// Units is the user's preferred unit system for distances.
	Units models.Units

	// Preferences contains the user's route planning defaults.
	Preferences *Preferences

	// CreatedAt is when the user was created.
	CreatedAt time.Time

	// UpdatedAt is when the user was last updated.
	UpdatedAt time.Time
}

// Preferences represents the user's route planning defaults.
type Preferences struct {
	// DefaultMode is pre-selected when the user plans a route.
	DefaultMode emission.Mode

	// DefaultVehicleProfileID refines emission estimates for driving and
	// motorcycle modes. Nil means mode-level factors apply.
	DefaultVehicleProfileID *string

	// UpdatedAt is when the preferences were last updated.
	UpdatedAt time.Time
}

// DefaultUser returns a new user with default settings.
func DefaultUser(id string) *User {
	now := time.Now()
	return &User{
		ID:          id,
		Locale:      "en-IN",
		Units:       models.UnitsMetric,
		Preferences: DefaultPreferences(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// DefaultPreferences returns preferences with default settings.
func DefaultPreferences() *Preferences {
	return &Preferences{
		DefaultMode: emission.ModeDriving,
		UpdatedAt:   time.Now(),
	}
}
