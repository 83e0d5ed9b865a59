// Package emissionapi provides a client for the external emission
// estimation endpoint.
package emissionapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/greenroute/greenroute/internal/emission"
	"github.com/greenroute/greenroute/internal/provider/resilience"
)

const (
	// ProviderName identifies this estimation provider.
	ProviderName = "emissionapi"

	// DefaultBaseURL is the estimation API base URL.
	DefaultBaseURL = "https://emissionapi.onrender.com"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the estimation client.
type ClientConfig struct {
	// BaseURL is the API base URL (optional).
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

// Client calls the external emission estimation endpoint.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new estimation client.
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
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// calculateRequest is the wire shape of an estimation request.
type calculateRequest struct {
	Distance    float64 `json:"distance"`
	VehicleType string  `json:"vehicle_type"`
	FuelType    string  `json:"fuel_type"`
	Origin      string  `json:"origin,omitempty"`
	Destination string  `json:"destination,omitempty"`
	Mode        string  `json:"mode"`
}

// calculateResponse is the wire shape of an estimation response.
type calculateResponse struct {
	Emission float64 `json:"emission"`
	Unit     string  `json:"unit,omitempty"`
}

// EstimateEmission requests a remote emission estimate.
// Any transport failure, non-2xx status, or non-positive payload is
// reported as emission.ErrEstimateUnavailable so the caller can fall back.
func (c *Client) EstimateEmission(ctx context.Context, req emission.RemoteRequest) (float64, error) {
	body, err := json.Marshal(calculateRequest{
		Distance:    req.DistanceKm,
		VehicleType: req.VehicleType,
		FuelType:    req.FuelType,
		Origin:      req.Origin,
		Destination: req.Destination,
		Mode:        string(req.Mode),
	})
	if err != nil {
		return 0, fmt.Errorf("marshaling request: %w", err)
	}

	url := c.baseURL + "/calculate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug().
		Float64("distance_km", req.DistanceKm).
		Str("vehicle_type", req.VehicleType).
		Str("fuel_type", req.FuelType).
		Str("mode", string(req.Mode)).
		Msg("requesting remote emission estimate")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", emission.ErrEstimateUnavailable, err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("%w: reading response body", emission.ErrEstimateUnavailable)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: status %d", emission.ErrEstimateUnavailable, resp.StatusCode)
	}

	var apiResp calculateResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return 0, fmt.Errorf("%w: malformed payload", emission.ErrEstimateUnavailable)
	}

	if apiResp.Emission <= 0 {
		return 0, fmt.Errorf("%w: non-positive emission value", emission.ErrEstimateUnavailable)
	}

	return apiResp.Emission, nil
}
