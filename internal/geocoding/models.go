// Package geocoding resolves free-text place queries to coordinates.
package geocoding

import (
	"context"
	"errors"
)

// Sentinel errors for geocoding operations.
var (
	// ErrNoResults indicates the query matched no known place.
	ErrNoResults = errors.New("no geocoding results for query")
	// ErrProviderUnavailable indicates the geocoding provider is down or the circuit breaker is open.
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")
	// ErrEmptyQuery indicates the query was blank.
	ErrEmptyQuery = errors.New("empty geocoding query")
)

// Place is a resolved location.
type Place struct {
	// Query is the text that was resolved.
	Query string

	// DisplayName is the provider's canonical place name.
	DisplayName string

	Lat float64
	Lon float64
}

// Provider defines the interface for geocoding providers.
type Provider interface {
	// Geocode resolves a free-text query to its best-matching place.
	// Returns ErrNoResults when nothing matches.
	Geocode(ctx context.Context, query string) (*Place, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}
