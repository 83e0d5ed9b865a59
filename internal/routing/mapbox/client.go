// Package mapbox provides a client for the Mapbox Directions v5 API.
package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/greenroute/greenroute/internal/provider/resilience"
	"github.com/greenroute/greenroute/internal/routing"
)

const (
	// ProviderName identifies this routing provider.
	ProviderName = "mapbox-directions"

	// DefaultBaseURL is the Mapbox API base URL.
	DefaultBaseURL = "https://api.mapbox.com"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Mapbox directions client.
type ClientConfig struct {
	// AccessToken is the Mapbox access token (required).
	AccessToken string

	// BaseURL is the API base URL (optional, defaults to Mapbox API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Mapbox Directions API client.
type Client struct {
	accessToken string
	baseURL     string
	httpClient  HTTPDoer
	logger      zerolog.Logger
}

// NewClient creates a new Mapbox directions client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		if cfg.Registry != nil {
			clientCfg.Registry = cfg.Registry
		}
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		accessToken: cfg.AccessToken,
		baseURL:     baseURL,
		httpClient:  httpClient,
		logger:      cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// SupportedProfiles returns the supported routing profiles.
func (c *Client) SupportedProfiles() []routing.RouteProfile {
	return []routing.RouteProfile{
		routing.ProfileDriving,
		routing.ProfileDrivingTraffic,
		routing.ProfileWalking,
		routing.ProfileCycling,
	}
}

// GetDirections retrieves route directions between two points.
func (c *Client) GetDirections(ctx context.Context, req routing.DirectionsRequest) (*routing.DirectionsResponse, error) {
	if err := validateCoordinates(req.Origin); err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "INVALID_ORIGIN",
			Message:  "invalid origin coordinates",
			Err:      routing.ErrInvalidCoordinates,
		}
	}
	if err := validateCoordinates(req.Destination); err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "INVALID_DESTINATION",
			Message:  "invalid destination coordinates",
			Err:      routing.ErrInvalidCoordinates,
		}
	}

	// Mapbox uses {lon},{lat};{lon},{lat} coordinate pairs in the path.
	coords := fmt.Sprintf("%.6f,%.6f;%.6f,%.6f",
		req.Origin.Lon, req.Origin.Lat,
		req.Destination.Lon, req.Destination.Lat)

	query := url.Values{}
	query.Set("access_token", c.accessToken)
	query.Set("alternatives", "true")
	query.Set("geometries", "polyline")
	query.Set("overview", "full")
	query.Set("steps", "true")

	reqURL := fmt.Sprintf("%s/directions/v5/mapbox/%s/%s?%s",
		c.baseURL, req.Profile, coords, query.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	c.logger.Debug().
		Str("profile", string(req.Profile)).
		Float64("origin_lat", req.Origin.Lat).
		Float64("origin_lon", req.Origin.Lon).
		Float64("dest_lat", req.Destination.Lat).
		Float64("dest_lon", req.Destination.Lon).
		Msg("requesting directions from Mapbox")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach routing provider",
			Err:      routing.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp.StatusCode, respBody)
	}

	var mbResp directionsResponse
	if err := json.Unmarshal(respBody, &mbResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	// Mapbox reports route-level failures with HTTP 200 and a code field.
	if mbResp.Code != codeOK {
		return nil, c.handleResponseCode(mbResp.Code, mbResp.Message)
	}

	result := c.toDirectionsResponse(&mbResp, req.MaxAlternatives)

	c.logger.Debug().
		Int("route_count", len(result.Routes)).
		Msg("received directions from Mapbox")

	return result, nil
}

// Mapbox response codes.
const (
	codeOK           = "Ok"
	codeNoRoute      = "NoRoute"
	codeNoSegment    = "NoSegment"
	codeInvalidInput = "InvalidInput"
)

// handleResponseCode maps Mapbox response codes to domain errors.
func (c *Client) handleResponseCode(code, message string) error {
	switch code {
	case codeNoRoute, codeNoSegment:
		return &routing.Error{
			Provider: ProviderName,
			Code:     "NO_ROUTE",
			Message:  "no route found between the given points",
			Err:      routing.ErrNoRouteFound,
		}
	case codeInvalidInput:
		return &routing.Error{
			Provider: ProviderName,
			Code:     "BAD_REQUEST",
			Message:  message,
			Err:      routing.ErrInvalidCoordinates,
		}
	default:
		return &routing.Error{
			Provider: ProviderName,
			Code:     code,
			Message:  message,
			Err:      routing.ErrProviderUnavailable,
		}
	}
}

// handleErrorResponse maps HTTP error responses to domain errors.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	var mbErr directionsResponse
	_ = json.Unmarshal(body, &mbErr)

	switch {
	case statusCode == http.StatusTooManyRequests:
		return &routing.Error{
			Provider: ProviderName,
			Code:     "RATE_LIMIT",
			Message:  "API rate limit exceeded, please try again later",
			Err:      routing.ErrRateLimitExceeded,
		}
	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden:
		return &routing.Error{
			Provider: ProviderName,
			Code:     "FORBIDDEN",
			Message:  "API access denied - check access token configuration",
			Err:      routing.ErrProviderUnavailable,
		}
	case statusCode == http.StatusUnprocessableEntity:
		return &routing.Error{
			Provider: ProviderName,
			Code:     "BAD_REQUEST",
			Message:  mbErr.Message,
			Err:      routing.ErrInvalidCoordinates,
		}
	case statusCode >= 500:
		return &routing.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("SERVER_%d", statusCode),
			Message:  "routing provider is temporarily unavailable",
			Err:      routing.ErrProviderUnavailable,
		}
	default:
		return &routing.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", statusCode),
			Message:  mbErr.Message,
			Err:      routing.ErrProviderUnavailable,
		}
	}
}

// toDirectionsResponse converts a Mapbox response to the domain model.
func (c *Client) toDirectionsResponse(resp *directionsResponse, maxAlternatives int) *routing.DirectionsResponse {
	// The first route plus up to maxAlternatives alternatives.
	limit := len(resp.Routes)
	if maxAlternatives > 0 && maxAlternatives+1 < limit {
		limit = maxAlternatives + 1
	}

	routes := make([]routing.Route, 0, limit)
	for i := 0; i < limit; i++ {
		mbRoute := &resp.Routes[i]
		route := routing.Route{
			GeometryPolyline: mbRoute.Geometry,
			DistanceMeters:   int(mbRoute.Distance),
			DurationSeconds:  int(mbRoute.Duration),
		}

		for j := range mbRoute.Legs {
			leg := &mbRoute.Legs[j]
			if route.Summary == "" {
				route.Summary = leg.Summary
			}
			for k := range leg.Steps {
				step := &leg.Steps[k]
				route.Instructions = append(route.Instructions, routing.Instruction{
					Text:           step.Maneuver.Instruction,
					DistanceMeters: int(step.Distance),
					DurationSecs:   int(step.Duration),
				})
			}
		}

		routes = append(routes, route)
	}

	return &routing.DirectionsResponse{
		Routes:    routes,
		Provider:  ProviderName,
		FetchedAt: time.Now(),
	}
}

// validateCoordinates checks if coordinates are within valid ranges.
func validateCoordinates(c routing.Coordinate) error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %f out of range [-90, 90]", c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("longitude %f out of range [-180, 180]", c.Lon)
	}
	return nil
}
