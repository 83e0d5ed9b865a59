package emissionapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenroute/greenroute/internal/emission"
	"github.com/greenroute/greenroute/internal/emission/emissionapi"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *emissionapi.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return emissionapi.NewClient(emissionapi.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
		Logger:     zerolog.Nop(),
	})
}

func TestClient_EstimateEmission(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/calculate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.InDelta(t, 12.5, body["distance"].(float64), 1e-9)
		assert.Equal(t, "car", body["vehicle_type"])
		assert.Equal(t, "petrol", body["fuel_type"])
		assert.Equal(t, "driving", body["mode"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"emission": 2.4, "unit": "kg"}`))
	})

	kg, err := client.EstimateEmission(context.Background(), emission.RemoteRequest{
		DistanceKm:  12.5,
		VehicleType: "car",
		FuelType:    "petrol",
		Mode:        emission.ModeDriving,
	})
	require.NoError(t, err)
	assert.InDelta(t, 2.4, kg, 1e-9)
}

func TestClient_EstimateEmission_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.EstimateEmission(context.Background(), emission.RemoteRequest{
		DistanceKm: 5,
		Mode:       emission.ModeDriving,
	})
	assert.True(t, errors.Is(err, emission.ErrEstimateUnavailable))
}

func TestClient_EstimateEmission_MalformedPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := client.EstimateEmission(context.Background(), emission.RemoteRequest{
		DistanceKm: 5,
		Mode:       emission.ModeDriving,
	})
	assert.True(t, errors.Is(err, emission.ErrEstimateUnavailable))
}

func TestClient_EstimateEmission_NonPositiveValue(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"emission": 0}`))
	})

	_, err := client.EstimateEmission(context.Background(), emission.RemoteRequest{
		DistanceKm: 5,
		Mode:       emission.ModeDriving,
	})
	assert.True(t, errors.Is(err, emission.ErrEstimateUnavailable))
}

func TestClient_Name(t *testing.T) {
	client := emissionapi.NewClient(emissionapi.ClientConfig{Logger: zerolog.Nop()})
	assert.Equal(t, emissionapi.ProviderName, client.Name())
}
