package geocoding

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the geocoding service.
type ServiceConfig struct {
	// Provider is the geocoding data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache resolved places (default: 1 hour).
	// Place names change far less often than traffic, so the TTL is long.
	CacheTTL time.Duration

	// CleanupInterval is how often to clean up expired entries (default: 10 minutes).
	CleanupInterval time.Duration

	// CachedOnly, when it returns true, makes Resolve serve cache hits only
	// and report ErrNoResults on a miss instead of calling the provider.
	// Used to shed provider load during incidents or quota exhaustion.
	CachedOnly func() bool
}

// Service resolves place queries with caching. Queries are normalized
// (lowercased, whitespace-trimmed) so trivially different spellings share
// a cache entry.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	cleanupInterval time.Duration
	cachedOnly      func() bool

	mu          sync.RWMutex
	cache       map[string]*cachedPlace
	lastCleanup time.Time
}

type cachedPlace struct {
	place     *Place
	expiresAt time.Time
}

// NewService creates a new geocoding service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}

	cleanupInterval := cfg.CleanupInterval
	if cleanupInterval == 0 {
		cleanupInterval = 10 * time.Minute
	}

	cachedOnly := cfg.CachedOnly
	if cachedOnly == nil {
		cachedOnly = func() bool { return false }
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		cleanupInterval: cleanupInterval,
		cachedOnly:      cachedOnly,
		cache:           make(map[string]*cachedPlace),
	}
}

// Resolve resolves a free-text query to a place.
// Uses cached data if available and not expired.
func (s *Service) Resolve(ctx context.Context, query string) (*Place, error) {
	key := normalizeQuery(query)
	if key == "" {
		return nil, ErrEmptyQuery
	}

	// Check cache (read lock)
	s.mu.RLock()
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		s.logger.Debug().
			Str("query", key).
			Msg("cache hit for geocoding query")
		return cached.place, nil
	}
	s.mu.RUnlock()

	if s.cachedOnly() {
		s.logger.Warn().
			Str("query", key).
			Msg("cache miss while geocoding is cached-only")
		return nil, ErrNoResults
	}

	return s.resolveFromProvider(ctx, query, key)
}

// resolveFromProvider fetches the place from the provider and updates the cache.
func (s *Service) resolveFromProvider(ctx context.Context, query, key string) (*Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check cache (prevents thundering herd)
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		return cached.place, nil
	}

	s.logger.Debug().
		Str("query", key).
		Str("provider", s.provider.Name()).
		Msg("resolving place from provider")

	place, err := s.provider.Geocode(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).
			Str("query", key).
			Msg("failed to resolve place")
		return nil, err
	}

	s.cache[key] = &cachedPlace{
		place:     place,
		expiresAt: time.Now().Add(s.cacheTTL),
	}

	s.cleanupIfNeeded()

	return place, nil
}

// cleanupIfNeeded removes expired entries if cleanup interval has passed.
func (s *Service) cleanupIfNeeded() {
	now := time.Now()
	if now.Sub(s.lastCleanup) < s.cleanupInterval {
		return
	}

	s.lastCleanup = now
	expired := 0

	for key, cached := range s.cache {
		if now.After(cached.expiresAt) {
			delete(s.cache, key)
			expired++
		}
	}

	if expired > 0 {
		s.logger.Debug().
			Int("expired_entries", expired).
			Msg("cleaned up expired geocoding cache entries")
	}
}

// InvalidateCache clears all cached data.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedPlace)
}

// CacheStats returns cache statistics.
func (s *Service) CacheStats() CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	fresh := 0
	for _, c := range s.cache {
		if now.Before(c.expiresAt) {
			fresh++
		}
	}

	return CacheStats{
		TotalEntries: len(s.cache),
		FreshEntries: fresh,
		Provider:     s.provider.Name(),
	}
}

// CacheStats contains cache statistics.
type CacheStats struct {
	TotalEntries int
	FreshEntries int
	Provider     string
}

// ProviderName returns the name of the underlying provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// normalizeQuery canonicalizes a query for cache keying.
func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}
