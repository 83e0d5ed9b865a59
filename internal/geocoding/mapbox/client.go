// Package mapbox implements geocoding against the Mapbox Geocoding v5 API.
package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/greenroute/greenroute/internal/geocoding"
	"github.com/greenroute/greenroute/internal/provider/resilience"
)

const (
	// ProviderName identifies this geocoding provider.
	ProviderName = "mapbox-geocoding"

	// DefaultBaseURL is the Mapbox Geocoding v5 base URL.
	DefaultBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

	// DefaultCountry scopes queries to a single country.
	DefaultCountry = "in"
)

// ClientConfig holds configuration for the Mapbox geocoding client.
type ClientConfig struct {
	// AccessToken is the Mapbox access token (required).
	AccessToken string

	// BaseURL is the API base URL (optional, defaults to Mapbox Geocoding v5).
	BaseURL string

	// Country restricts results to a country code (optional, defaults to "in").
	Country string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a Mapbox Geocoding API client.
type Client struct {
	accessToken string
	baseURL     string
	country     string
	httpClient  HTTPDoer
	logger      zerolog.Logger
}

// NewClient creates a new Mapbox geocoding client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	country := cfg.Country
	if country == "" {
		country = DefaultCountry
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		if cfg.Registry != nil {
			clientCfg.Registry = cfg.Registry
		}
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		accessToken: cfg.AccessToken,
		baseURL:     baseURL,
		country:     country,
		httpClient:  httpClient,
		logger:      cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// geocodeResponse is the subset of the Mapbox response we consume.
type geocodeResponse struct {
	Features []struct {
		PlaceName string    `json:"place_name"`
		Center    []float64 `json:"center"` // [lon, lat]
	} `json:"features"`
}

// Geocode resolves a free-text query to its best match.
// Requests are limited to one result and scoped to the configured country.
func (c *Client) Geocode(ctx context.Context, query string) (*geocoding.Place, error) {
	if query == "" {
		return nil, geocoding.ErrEmptyQuery
	}

	reqURL := fmt.Sprintf("%s/%s.json?access_token=%s&country=%s&limit=1",
		c.baseURL, url.PathEscape(query), url.QueryEscape(c.accessToken), c.country)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", geocoding.ErrProviderUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: status %d", geocoding.ErrProviderUnavailable, resp.StatusCode)
		}
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var mbResp geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&mbResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(mbResp.Features) == 0 {
		return nil, fmt.Errorf("%w: %q", geocoding.ErrNoResults, query)
	}

	feature := mbResp.Features[0]
	if len(feature.Center) < 2 {
		return nil, fmt.Errorf("%w: malformed feature center", geocoding.ErrNoResults)
	}

	c.logger.Debug().
		Str("query", query).
		Str("place_name", feature.PlaceName).
		Msg("resolved place")

	return &geocoding.Place{
		Query:       query,
		DisplayName: feature.PlaceName,
		Lon:         feature.Center[0],
		Lat:         feature.Center[1],
	}, nil
}
