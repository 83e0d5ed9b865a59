package geocoding_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenroute/greenroute/internal/geocoding"
)

type stubProvider struct {
	place *geocoding.Place
	err   error
	calls int
}

func (s *stubProvider) Geocode(_ context.Context, query string) (*geocoding.Place, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	p := *s.place
	p.Query = query
	return &p, nil
}

func (s *stubProvider) Name() string { return "stub" }

func newService(p geocoding.Provider) *geocoding.Service {
	return geocoding.NewService(geocoding.ServiceConfig{
		Provider: p,
		Logger:   zerolog.Nop(),
	})
}

func TestService_Resolve(t *testing.T) {
	provider := &stubProvider{place: &geocoding.Place{DisplayName: "Connaught Place, New Delhi", Lat: 28.6315, Lon: 77.2167}}
	svc := newService(provider)

	place, err := svc.Resolve(context.Background(), "Connaught Place")
	require.NoError(t, err)
	assert.Equal(t, "Connaught Place, New Delhi", place.DisplayName)
	assert.InDelta(t, 28.6315, place.Lat, 1e-9)
}

func TestService_Resolve_CachesByNormalizedQuery(t *testing.T) {
	provider := &stubProvider{place: &geocoding.Place{DisplayName: "India Gate"}}
	svc := newService(provider)

	_, err := svc.Resolve(context.Background(), "India Gate")
	require.NoError(t, err)

	// Different casing and spacing hit the same cache entry.
	_, err = svc.Resolve(context.Background(), "  india   GATE ")
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls)
}

func TestService_Resolve_EmptyQuery(t *testing.T) {
	provider := &stubProvider{place: &geocoding.Place{}}
	svc := newService(provider)

	_, err := svc.Resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, geocoding.ErrEmptyQuery)
	assert.Zero(t, provider.calls)
}

func TestService_Resolve_ProviderError(t *testing.T) {
	provider := &stubProvider{err: geocoding.ErrNoResults}
	svc := newService(provider)

	_, err := svc.Resolve(context.Background(), "nowhere")
	assert.ErrorIs(t, err, geocoding.ErrNoResults)
}

func TestService_Resolve_ErrorsAreNotCached(t *testing.T) {
	provider := &stubProvider{err: geocoding.ErrProviderUnavailable}
	svc := newService(provider)

	_, _ = svc.Resolve(context.Background(), "somewhere")
	_, _ = svc.Resolve(context.Background(), "somewhere")

	assert.Equal(t, 2, provider.calls)
}

func TestService_Resolve_CachedOnlyMiss(t *testing.T) {
	provider := &stubProvider{place: &geocoding.Place{DisplayName: "Lalbagh, Bangalore"}}
	svc := geocoding.NewService(geocoding.ServiceConfig{
		Provider:   provider,
		Logger:     zerolog.Nop(),
		CachedOnly: func() bool { return true },
	})

	_, err := svc.Resolve(context.Background(), "Lalbagh")
	assert.ErrorIs(t, err, geocoding.ErrNoResults)
	assert.Zero(t, provider.calls)
}

func TestService_Resolve_CachedOnlyServesWarmEntries(t *testing.T) {
	provider := &stubProvider{place: &geocoding.Place{DisplayName: "Lalbagh, Bangalore"}}

	cachedOnly := false
	svc := geocoding.NewService(geocoding.ServiceConfig{
		Provider:   provider,
		Logger:     zerolog.Nop(),
		CachedOnly: func() bool { return cachedOnly },
	})

	// Warm the cache while the provider is still reachable.
	_, err := svc.Resolve(context.Background(), "Lalbagh")
	require.NoError(t, err)

	cachedOnly = true

	place, err := svc.Resolve(context.Background(), "Lalbagh")
	require.NoError(t, err)
	assert.Equal(t, "Lalbagh, Bangalore", place.DisplayName)
	assert.Equal(t, 1, provider.calls)

	// Unknown queries still fail rather than reaching the provider.
	_, err = svc.Resolve(context.Background(), "Cubbon Park")
	assert.ErrorIs(t, err, geocoding.ErrNoResults)
	assert.Equal(t, 1, provider.calls)
}

func TestService_InvalidateCache(t *testing.T) {
	provider := &stubProvider{place: &geocoding.Place{DisplayName: "Gateway of India"}}
	svc := newService(provider)

	_, err := svc.Resolve(context.Background(), "Gateway of India")
	require.NoError(t, err)

	svc.InvalidateCache()

	_, err = svc.Resolve(context.Background(), "Gateway of India")
	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls)
}

func TestService_CacheStats(t *testing.T) {
	provider := &stubProvider{place: &geocoding.Place{DisplayName: "Marine Drive"}}
	svc := geocoding.NewService(geocoding.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
		CacheTTL: time.Minute,
	})

	_, err := svc.Resolve(context.Background(), "Marine Drive")
	require.NoError(t, err)

	stats := svc.CacheStats()
	assert.Equal(t, 1, stats.TotalEntries)
	assert.Equal(t, 1, stats.FreshEntries)
	assert.Equal(t, "stub", stats.Provider)
}
