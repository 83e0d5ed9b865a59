package mapbox_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenroute/greenroute/internal/geocoding"
	"github.com/greenroute/greenroute/internal/geocoding/mapbox"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *mapbox.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return mapbox.NewClient(mapbox.ClientConfig{
		AccessToken: "test-token",
		BaseURL:     server.URL,
		HTTPClient:  server.Client(),
		Logger:      zerolog.Nop(),
	})
}

func TestClient_Geocode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Connaught%20Place.json", r.URL.EscapedPath())

		q := r.URL.Query()
		assert.Equal(t, "test-token", q.Get("access_token"))
		assert.Equal(t, "in", q.Get("country"))
		assert.Equal(t, "1", q.Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"features": [
				{"place_name": "Connaught Place, New Delhi, Delhi, India", "center": [77.2167, 28.6315]}
			]
		}`))
	})

	place, err := client.Geocode(context.Background(), "Connaught Place")
	require.NoError(t, err)
	assert.Equal(t, "Connaught Place, New Delhi, Delhi, India", place.DisplayName)
	assert.InDelta(t, 28.6315, place.Lat, 1e-9)
	assert.InDelta(t, 77.2167, place.Lon, 1e-9)
	assert.Equal(t, "Connaught Place", place.Query)
}

func TestClient_Geocode_NoResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"features": []}`))
	})

	_, err := client.Geocode(context.Background(), "xyzzy")
	assert.ErrorIs(t, err, geocoding.ErrNoResults)
}

func TestClient_Geocode_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Geocode(context.Background(), "anywhere")
	assert.ErrorIs(t, err, geocoding.ErrProviderUnavailable)
}

func TestClient_Geocode_EmptyQuery(t *testing.T) {
	client := mapbox.NewClient(mapbox.ClientConfig{AccessToken: "t", Logger: zerolog.Nop()})

	_, err := client.Geocode(context.Background(), "")
	assert.ErrorIs(t, err, geocoding.ErrEmptyQuery)
}

func TestClient_Name(t *testing.T) {
	client := mapbox.NewClient(mapbox.ClientConfig{AccessToken: "t", Logger: zerolog.Nop()})
	assert.Equal(t, mapbox.ProviderName, client.Name())
}
