package mapbox

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/greenroute/greenroute/internal/routing"
)

func TestClient_GetDirections_Success(t *testing.T) {
	// Load test fixture
	respBody, err := os.ReadFile("testdata/directions_response.json")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}

		// Verify URL path contains profile and lon,lat;lon,lat coordinates
		if !strings.HasPrefix(r.URL.Path, "/directions/v5/mapbox/driving/") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if !strings.Contains(r.URL.Path, "77.603300,12.975700;77.706400,13.198900") {
			t.Errorf("expected lon,lat coordinate pairs in path, got %s", r.URL.Path)
		}

		q := r.URL.Query()
		if q.Get("access_token") != "mock123" {
			t.Errorf("expected access_token 'mock123', got '%s'", q.Get("access_token"))
		}
		if q.Get("alternatives") != "true" {
			t.Errorf("expected alternatives=true, got '%s'", q.Get("alternatives"))
		}
		if q.Get("geometries") != "polyline" {
			t.Errorf("expected geometries=polyline, got '%s'", q.Get("geometries"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(respBody)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		AccessToken: "mock123",
		BaseURL:     server.URL,
		HTTPClient:  &mockHTTPClient{client: server.Client()},
		Logger:      zerolog.Nop(),
	})

	resp, err := client.GetDirections(context.Background(), routing.DirectionsRequest{
		Origin:          routing.Coordinate{Lat: 12.9757, Lon: 77.6033},
		Destination:     routing.Coordinate{Lat: 13.1989, Lon: 77.7064},
		Profile:         routing.ProfileDriving,
		MaxAlternatives: 2,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Provider != ProviderName {
		t.Errorf("expected provider %s, got %s", ProviderName, resp.Provider)
	}
	if len(resp.Routes) != 3 {
		t.Fatalf("expected 3 routes, got %d", len(resp.Routes))
	}

	// Verify first route
	route := resp.Routes[0]
	if route.DistanceMeters != 12345 {
		t.Errorf("expected distance 12345, got %d", route.DistanceMeters)
	}
	if route.DurationSeconds != 2456 {
		t.Errorf("expected duration 2456, got %d", route.DurationSeconds)
	}
	if route.GeometryPolyline == "" {
		t.Error("expected non-empty geometry polyline")
	}
	if route.Summary != "NH 48, Outer Ring Road" {
		t.Errorf("unexpected summary %q", route.Summary)
	}
	if len(route.Instructions) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(route.Instructions))
	}
	if route.Instructions[0].Text != "Drive north on MG Road." {
		t.Errorf("unexpected instruction %q", route.Instructions[0].Text)
	}
}

func TestClient_GetDirections_AlternativeLimit(t *testing.T) {
	respBody, err := os.ReadFile("testdata/directions_response.json")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write(respBody)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		AccessToken: "mock123",
		BaseURL:     server.URL,
		HTTPClient:  &mockHTTPClient{client: server.Client()},
		Logger:      zerolog.Nop(),
	})

	resp, err := client.GetDirections(context.Background(), routing.DirectionsRequest{
		Origin:          routing.Coordinate{Lat: 12.9757, Lon: 77.6033},
		Destination:     routing.Coordinate{Lat: 13.1989, Lon: 77.7064},
		Profile:         routing.ProfileDriving,
		MaxAlternatives: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Primary route plus one alternative.
	if len(resp.Routes) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(resp.Routes))
	}
}

func TestClient_GetDirections_NoRouteFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Mapbox reports NoRoute with HTTP 200
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"code":"NoRoute","message":"No route found","routes":[]}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		AccessToken: "mock123",
		BaseURL:     server.URL,
		HTTPClient:  &mockHTTPClient{client: server.Client()},
		Logger:      zerolog.Nop(),
	})

	_, err := client.GetDirections(context.Background(), routing.DirectionsRequest{
		Origin:      routing.Coordinate{Lat: 12.9757, Lon: 77.6033},
		Destination: routing.Coordinate{Lat: 13.1989, Lon: 77.7064},
		Profile:     routing.ProfileDriving,
	})

	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var routingErr *routing.Error
	if !errors.As(err, &routingErr) {
		t.Fatalf("expected routing.Error, got %T", err)
	}
	if !errors.Is(routingErr.Err, routing.ErrNoRouteFound) {
		t.Errorf("expected ErrNoRouteFound, got %v", routingErr.Err)
	}
}

func TestClient_GetDirections_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message":"Too Many Requests"}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		AccessToken: "mock123",
		BaseURL:     server.URL,
		HTTPClient:  &mockHTTPClient{client: server.Client()},
		Logger:      zerolog.Nop(),
	})

	_, err := client.GetDirections(context.Background(), routing.DirectionsRequest{
		Origin:      routing.Coordinate{Lat: 12.9757, Lon: 77.6033},
		Destination: routing.Coordinate{Lat: 13.1989, Lon: 77.7064},
		Profile:     routing.ProfileDriving,
	})

	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var routingErr *routing.Error
	if !errors.As(err, &routingErr) {
		t.Fatalf("expected routing.Error, got %T", err)
	}
	if !errors.Is(routingErr.Err, routing.ErrRateLimitExceeded) {
		t.Errorf("expected ErrRateLimitExceeded, got %v", routingErr.Err)
	}
}

func TestClient_GetDirections_InvalidCoordinates(t *testing.T) {
	tests := []struct {
		name        string
		origin      routing.Coordinate
		destination routing.Coordinate
	}{
		{
			name:        "latitude out of range",
			origin:      routing.Coordinate{Lat: 91.0, Lon: 77.6},
			destination: routing.Coordinate{Lat: 13.0, Lon: 77.7},
		},
		{
			name:        "longitude out of range",
			origin:      routing.Coordinate{Lat: 12.9, Lon: 77.6},
			destination: routing.Coordinate{Lat: 13.0, Lon: 181.0},
		},
	}

	client := NewClient(ClientConfig{
		AccessToken: "mock123",
		Logger:      zerolog.Nop(),
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.GetDirections(context.Background(), routing.DirectionsRequest{
				Origin:      tt.origin,
				Destination: tt.destination,
				Profile:     routing.ProfileDriving,
			})

			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var routingErr *routing.Error
			if !errors.As(err, &routingErr) {
				t.Fatalf("expected routing.Error, got %T", err)
			}
			if !errors.Is(routingErr.Err, routing.ErrInvalidCoordinates) {
				t.Errorf("expected ErrInvalidCoordinates, got %v", routingErr.Err)
			}
		})
	}
}

func TestClient_GetDirections_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"Internal server error"}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		AccessToken: "mock123",
		BaseURL:     server.URL,
		HTTPClient:  &mockHTTPClient{client: server.Client()},
		Logger:      zerolog.Nop(),
	})

	_, err := client.GetDirections(context.Background(), routing.DirectionsRequest{
		Origin:      routing.Coordinate{Lat: 12.9757, Lon: 77.6033},
		Destination: routing.Coordinate{Lat: 13.1989, Lon: 77.7064},
		Profile:     routing.ProfileDriving,
	})

	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var routingErr *routing.Error
	if !errors.As(err, &routingErr) {
		t.Fatalf("expected routing.Error, got %T", err)
	}
	if !errors.Is(routingErr.Err, routing.ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", routingErr.Err)
	}
}

func TestClient_GetDirections_NetworkError(t *testing.T) {
	client := NewClient(ClientConfig{
		AccessToken: "mock123",
		HTTPClient:  &mockFailingClient{},
		Logger:      zerolog.Nop(),
	})

	_, err := client.GetDirections(context.Background(), routing.DirectionsRequest{
		Origin:      routing.Coordinate{Lat: 12.9757, Lon: 77.6033},
		Destination: routing.Coordinate{Lat: 13.1989, Lon: 77.7064},
		Profile:     routing.ProfileDriving,
	})

	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var routingErr *routing.Error
	if !errors.As(err, &routingErr) {
		t.Fatalf("expected routing.Error, got %T", err)
	}
	if !errors.Is(routingErr.Err, routing.ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", routingErr.Err)
	}
}

func TestClient_Name(t *testing.T) {
	client := NewClient(ClientConfig{
		AccessToken: "test",
		Logger:      zerolog.Nop(),
	})

	if client.Name() != ProviderName {
		t.Errorf("expected %s, got %s", ProviderName, client.Name())
	}
}

func TestClient_SupportedProfiles(t *testing.T) {
	client := NewClient(ClientConfig{
		AccessToken: "test",
		Logger:      zerolog.Nop(),
	})

	profiles := client.SupportedProfiles()
	if len(profiles) != 4 {
		t.Fatalf("expected 4 profiles, got %d", len(profiles))
	}

	want := map[routing.RouteProfile]bool{
		routing.ProfileDriving:        false,
		routing.ProfileDrivingTraffic: false,
		routing.ProfileWalking:        false,
		routing.ProfileCycling:        false,
	}
	for _, p := range profiles {
		want[p] = true
	}
	for p, found := range want {
		if !found {
			t.Errorf("expected %s in supported profiles", p)
		}
	}
}

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		coord   routing.Coordinate
		wantErr bool
	}{
		{"valid Bengaluru", routing.Coordinate{Lat: 12.9716, Lon: 77.5946}, false},
		{"valid equator", routing.Coordinate{Lat: 0, Lon: 0}, false},
		{"valid extreme lat", routing.Coordinate{Lat: 90, Lon: 0}, false},
		{"valid extreme lon", routing.Coordinate{Lat: 0, Lon: 180}, false},
		{"invalid lat too high", routing.Coordinate{Lat: 90.1, Lon: 0}, true},
		{"invalid lat too low", routing.Coordinate{Lat: -90.1, Lon: 0}, true},
		{"invalid lon too high", routing.Coordinate{Lat: 0, Lon: 180.1}, true},
		{"invalid lon too low", routing.Coordinate{Lat: 0, Lon: -180.1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCoordinates(tt.coord)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateCoordinates() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// mockHTTPClient wraps http.Client to implement HTTPDoer interface.
type mockHTTPClient struct {
	client *http.Client
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.client.Do(req)
}

// mockFailingClient simulates network errors.
type mockFailingClient struct{}

func (m *mockFailingClient) Do(req *http.Request) (*http.Response, error) {
	return nil, errors.New("network error")
}
