package routing

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the routing service.
type ServiceConfig struct {
	// Provider is the routing data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache routing data (default: 5 minutes).
	CacheTTL time.Duration

	// CacheGridSize is the size of cache grid cells in degrees (default: 0.01 ~ 1.1km).
	// Points within the same grid cell share cached data.
	CacheGridSize float64

	// StaleIfErrorTTL allows serving stale data on provider errors (default: 15 minutes).
	StaleIfErrorTTL time.Duration

	// CleanupInterval is how often to clean up expired entries (default: 5 minutes).
	CleanupInterval time.Duration
}

// Service provides directions with a grid-quantized cache. Origin and
// destination are snapped to grid cells so queries from nearby points
// share an entry, which matters for repeated commute corridors.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	cacheGridSize   float64
	staleIfErrorTTL time.Duration
	cleanupInterval time.Duration

	mu          sync.RWMutex
	cache       map[string]*cachedDirections
	lastCleanup time.Time
}

type cachedDirections struct {
	response  *DirectionsResponse
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new routing service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}

	cacheGridSize := cfg.CacheGridSize
	if cacheGridSize == 0 {
		cacheGridSize = 0.01 // ~1.1km at the equator
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 15 * time.Minute
	}

	cleanupInterval := cfg.CleanupInterval
	if cleanupInterval == 0 {
		cleanupInterval = 5 * time.Minute
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		cacheGridSize:   cacheGridSize,
		staleIfErrorTTL: staleIfErrorTTL,
		cleanupInterval: cleanupInterval,
		cache:           make(map[string]*cachedDirections),
	}
}

// GetDirections returns route alternatives between two points, from
// cache when a fresh entry exists.
func (s *Service) GetDirections(ctx context.Context, req DirectionsRequest) (*DirectionsResponse, error) {
	if !validCoordinate(req.Origin) {
		return nil, &Error{
			Provider: s.provider.Name(),
			Code:     "INVALID_ORIGIN",
			Message:  "invalid origin coordinates",
			Err:      ErrInvalidCoordinates,
		}
	}
	if !validCoordinate(req.Destination) {
		return nil, &Error{
			Provider: s.provider.Name(),
			Code:     "INVALID_DESTINATION",
			Message:  "invalid destination coordinates",
			Err:      ErrInvalidCoordinates,
		}
	}

	key := s.cacheKey(req)

	s.mu.RLock()
	if entry, ok := s.cache[key]; ok && time.Now().Before(entry.expiresAt) {
		s.mu.RUnlock()
		s.logger.Debug().
			Str("cache_key", key).
			Msg("directions cache hit")
		return entry.response, nil
	}
	s.mu.RUnlock()

	return s.fetchDirections(ctx, req, key)
}

// fetchDirections asks the provider and updates the cache. The write
// lock is held across the provider call so concurrent misses for the
// same corridor collapse into one upstream request.
func (s *Service) fetchDirections(ctx context.Context, req DirectionsRequest, key string) (*DirectionsResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check under the write lock: another goroutine may have
	// populated the entry while we waited.
	if entry, ok := s.cache[key]; ok && time.Now().Before(entry.expiresAt) {
		return entry.response, nil
	}

	s.logger.Debug().
		Float64("origin_lat", req.Origin.Lat).
		Float64("origin_lon", req.Origin.Lon).
		Float64("dest_lat", req.Destination.Lat).
		Float64("dest_lon", req.Destination.Lon).
		Str("profile", string(req.Profile)).
		Str("provider", s.provider.Name()).
		Msg("fetching directions from provider")

	resp, err := s.provider.GetDirections(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).
			Str("profile", string(req.Profile)).
			Str("cache_key", key).
			Msg("directions fetch failed")

		// Stale-if-error: an expired entry still within the stale
		// window beats a hard failure.
		if entry, ok := s.cache[key]; ok {
			if time.Now().Before(entry.fetchedAt.Add(s.staleIfErrorTTL)) {
				s.logger.Warn().
					Time("fetched_at", entry.fetchedAt).
					Str("cache_key", key).
					Msg("serving stale directions after provider error")
				return entry.response, nil
			}
		}

		return nil, err
	}

	now := time.Now()
	s.cache[key] = &cachedDirections{
		response:  resp,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	s.logger.Debug().
		Str("cache_key", key).
		Int("route_count", len(resp.Routes)).
		Msg("cached directions response")

	s.cleanupIfNeeded()

	return resp, nil
}

// cacheKey builds {profile}:{originCell}:{destCell} with both endpoints
// snapped to the cache grid.
func (s *Service) cacheKey(req DirectionsRequest) string {
	oLat, oLon := s.snap(req.Origin)
	dLat, dLon := s.snap(req.Destination)
	return fmt.Sprintf("%s:%.2f,%.2f:%.2f,%.2f", req.Profile, oLat, oLon, dLat, dLon)
}

// snap quantizes a coordinate to the south-west corner of its grid cell.
func (s *Service) snap(c Coordinate) (lat, lon float64) {
	lat = math.Floor(c.Lat/s.cacheGridSize) * s.cacheGridSize
	lon = math.Floor(c.Lon/s.cacheGridSize) * s.cacheGridSize
	return lat, lon
}

// cleanupIfNeeded drops entries past the stale window. Called with the
// write lock held.
func (s *Service) cleanupIfNeeded() {
	now := time.Now()
	if now.Sub(s.lastCleanup) < s.cleanupInterval {
		return
	}
	s.lastCleanup = now

	dropped := 0
	for key, entry := range s.cache {
		if now.After(entry.fetchedAt.Add(s.staleIfErrorTTL)) {
			delete(s.cache, key)
			dropped++
		}
	}

	if dropped > 0 {
		s.logger.Debug().
			Int("expired_entries", dropped).
			Msg("cleaned up expired routing cache entries")
	}
}

// InvalidateCache clears all cached data.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedDirections)
}

// CacheStats returns cache statistics.
func (s *Service) CacheStats() CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	fresh := 0
	stale := 0

	for _, entry := range s.cache {
		switch {
		case now.Before(entry.expiresAt):
			fresh++
		case now.Before(entry.fetchedAt.Add(s.staleIfErrorTTL)):
			stale++
		}
	}

	return CacheStats{
		TotalEntries: len(s.cache),
		FreshEntries: fresh,
		StaleEntries: stale,
		Provider:     s.provider.Name(),
	}
}

// CacheStats contains cache statistics.
type CacheStats struct {
	TotalEntries int
	FreshEntries int
	StaleEntries int
	Provider     string
}

// ProviderName returns the name of the underlying provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

func validCoordinate(c Coordinate) bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}
