package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/greenroute/greenroute/internal/api"
	"github.com/greenroute/greenroute/internal/api/models"
	"github.com/greenroute/greenroute/internal/auth"
	"github.com/greenroute/greenroute/internal/emission"
	"github.com/greenroute/greenroute/internal/featureflags"
	"github.com/greenroute/greenroute/internal/geocoding"
	"github.com/greenroute/greenroute/internal/planner"
	"github.com/greenroute/greenroute/internal/trip"
	"github.com/greenroute/greenroute/internal/user"
)

// failingGeocoder always misses, forcing the planner's synthetic fallback.
type failingGeocoder struct{}

func (failingGeocoder) Resolve(_ context.Context, _ string) (*geocoding.Place, error) {
	return nil, geocoding.ErrNoResults
}

// testAuthService creates an auth service for testing.
func testAuthService() *auth.Service {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "https://api.greenroute.in",
		Audience:   "greenroute-api",
	})

	return auth.NewService(auth.ServiceConfig{
		JWTService:  jwtService,
		UserRepo:    auth.NewInMemoryUserRepository(),
		RefreshRepo: auth.NewInMemoryRefreshTokenRepository(),
		BcryptCost:  bcrypt.MinCost,
	})
}

func newTestRouter() http.Handler {
	logger := zerolog.New(io.Discard)

	authService := testAuthService()
	userService := user.NewService(user.NewInMemoryRepository())
	tripService := trip.NewService(trip.NewInMemoryRepository())
	flagService := featureflags.NewService(featureflags.ServiceConfig{
		Repository: featureflags.NewInMemoryRepository(),
		Logger:     logger,
	})

	estimator := emission.NewService(emission.ServiceConfig{Logger: logger})
	plannerService := planner.NewService(planner.ServiceConfig{
		Geocoder:  failingGeocoder{},
		Estimator: estimator,
		MockSeed:  7,
		Logger:    logger,
	})

	return api.NewRouter(api.RouterConfig{
		Version:            "test",
		BuildTime:          "2026-01-01T00:00:00Z",
		Logger:             logger,
		AuthService:        authService,
		UserService:        userService,
		FeatureFlagService: flagService,
		PlannerService:     plannerService,
		TripService:        tripService,
	})
}

// signupTestUser registers a user through the API and returns its tokens.
func signupTestUser(t *testing.T, router http.Handler) *auth.TokenResponse {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"email":    "rider@example.com",
		"password": "correct-horse-battery",
		"name":     "Test Rider",
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, "signup failed: %s", w.Body.String())

	var tokens auth.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokens))
	require.NotEmpty(t, tokens.AccessToken)
	return &tokens
}

func authedRequest(t *testing.T, router http.Handler, method, target string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader = http.NoBody
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	tokens := signupTestUser(t, router)
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.NotEmpty(t, health.Time)
}

func TestRouter_ReadinessCheck(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
}

func TestRouter_SystemStatus(t *testing.T) {
	router := newTestRouter()

	w := authedRequest(t, router, http.MethodGet, "/v1/ops/status", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var status models.SystemStatus
	err := json.Unmarshal(w.Body.Bytes(), &status)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, status.Status)
}

func TestRouter_SystemStatus_RequiresAuth(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/status", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_SignupAndLogin(t *testing.T) {
	router := newTestRouter()

	tokens := signupTestUser(t, router)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, "rider@example.com", tokens.User.Email)

	body, _ := json.Marshal(map[string]string{
		"email":    "rider@example.com",
		"password": "correct-horse-battery",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_Signup_DuplicateEmail(t *testing.T) {
	router := newTestRouter()

	signupTestUser(t, router)

	body, _ := json.Marshal(map[string]string{
		"email":    "rider@example.com",
		"password": "another-password-123",
		"name":     "Second Rider",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestRouter_GetMe(t *testing.T) {
	router := newTestRouter()

	tokens := signupTestUser(t, router)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var me models.Me
	err := json.Unmarshal(w.Body.Bytes(), &me)
	require.NoError(t, err)

	assert.Equal(t, tokens.User.ID, me.UserID)
	assert.Equal(t, "rider@example.com", me.Email)
	assert.Equal(t, "en-IN", me.Locale)
}

func TestRouter_UpdatePreferences(t *testing.T) {
	router := newTestRouter()

	tokens := signupTestUser(t, router)

	body, _ := json.Marshal(map[string]string{
		"defaultMode":             "transit",
		"defaultVehicleProfileId": "electric",
	})
	req := httptest.NewRequest(http.MethodPut, "/v1/me/preferences", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var prefs models.Preferences
	err := json.Unmarshal(w.Body.Bytes(), &prefs)
	require.NoError(t, err)

	assert.Equal(t, models.ModeTransit, prefs.DefaultMode)
	require.NotNil(t, prefs.DefaultVehicleProfileID)
	assert.Equal(t, "electric", *prefs.DefaultVehicleProfileID)
}

// computeRoutes posts a comparison query without credentials; the endpoint
// is public.
func computeRoutes(t *testing.T, router http.Handler, input models.RouteComputeRequest) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(input)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/routes:compute", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_ComputeRoutes(t *testing.T) {
	router := newTestRouter()

	w := computeRoutes(t, router, models.RouteComputeRequest{
		Origin:      "Koramangala, Bangalore",
		Destination: "Whitefield, Bangalore",
		Mode:        models.ModeDriving,
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.RouteComputeResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	// Geocoding is stubbed to fail, so candidates are synthetic.
	assert.Equal(t, models.RouteSourceMock, resp.Source)
	assert.Len(t, resp.Routes, 3)
	require.NotNil(t, resp.Comparison)
	assert.NotEmpty(t, resp.Comparison.MostEfficientID)

	var low, high float64
	for i, opt := range resp.Routes {
		assert.NotEmpty(t, opt.ID)
		assert.Positive(t, opt.DistanceMeters)
		assert.GreaterOrEqual(t, opt.EcoScore, 0)
		assert.LessOrEqual(t, opt.EcoScore, 100)

		if i == 0 || opt.EmissionKg < low {
			low = opt.EmissionKg
		}
		if opt.EmissionKg > high {
			high = opt.EmissionKg
		}
	}

	// The comparison block carries the emission gap between the extremes.
	assert.InDelta(t, high-low, resp.Comparison.TotalSavingsKg, 1e-9)
	assert.InDelta(t, (high-low)/high*100, resp.Comparison.SavingsPercent, 1e-9)
}

func TestRouter_ComputeRoutes_ValidationError(t *testing.T) {
	router := newTestRouter()

	w := computeRoutes(t, router, models.RouteComputeRequest{Mode: models.ModeDriving})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var problem models.Problem
	err := json.Unmarshal(w.Body.Bytes(), &problem)
	require.NoError(t, err)

	assert.Equal(t, models.ProblemTypeValidation, problem.Type)
	assert.NotEmpty(t, problem.TraceID)
	assert.NotEmpty(t, problem.Errors)
}

func TestRouter_TripLifecycle(t *testing.T) {
	router := newTestRouter()

	tokens := signupTestUser(t, router)

	do := func(method, target string, payload interface{}) *httptest.ResponseRecorder {
		var body io.Reader = http.NoBody
		if payload != nil {
			raw, err := json.Marshal(payload)
			require.NoError(t, err)
			body = bytes.NewReader(raw)
		}
		req := httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// Create: the chosen candidate is stored in full, the rest of its
	// route set as abbreviated alternatives.
	w := do(http.MethodPost, "/v1/trips", models.TripCreateRequest{
		Origin: models.TripPlace{
			Name:  "Koramangala",
			Point: &models.Point{Lat: 12.9352, Lon: 77.6245},
		},
		Destination: models.TripPlace{
			Name:  "Whitefield",
			Point: &models.Point{Lat: 12.9698, Lon: 77.7500},
		},
		Mode: models.ModeDriving,
		SelectedRoute: models.TripSelectedRoute{
			ID:              "rte_chosen",
			Profile:         "driving",
			DistanceMeters:  18200,
			DurationSeconds: 3240,
			EmissionKg:      3.49,
			EcoScore:        71,
		},
		AlternativeRoutes: []models.TripAlternativeRoute{
			{ID: "rte_other", Profile: "driving-traffic", DistanceMeters: 19600, DurationSeconds: 3060, EmissionKg: 4.09, EcoScore: 68},
		},
		EmissionSavings: models.TripEmissionSavings{AmountKg: 0.6, Percent: 14.7},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("Location"))

	var created models.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, models.TripStatusPlanned, created.Status)

	// The persisted shape keeps the whole route set context.
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Contains(t, raw, "selectedRoute")
	assert.Contains(t, raw, "alternativeRoutes")
	assert.Contains(t, raw, "emissionSavings")
	assert.Equal(t, "rte_chosen", created.SelectedRoute.ID)
	require.Len(t, created.AlternativeRoutes, 1)
	assert.Equal(t, "rte_other", created.AlternativeRoutes[0].ID)
	require.NotNil(t, created.Origin.Point)
	assert.InDelta(t, 12.9352, created.Origin.Point.Lat, 1e-9)
	assert.InDelta(t, 0.6, created.EmissionSavings.AmountKg, 1e-9)

	// Get
	w = do(http.MethodGet, "/v1/trips/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Complete
	w = do(http.MethodPatch, "/v1/trips/"+created.ID, models.TripUpdateStatusRequest{
		Status: models.TripStatusCompleted,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, models.TripStatusCompleted, updated.Status)

	// List
	w = do(http.MethodGet, "/v1/trips", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page models.PagedTrips
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Items, 1)

	// Summary
	w = do(http.MethodGet, "/v1/trips/carbon-summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary models.CarbonSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.TotalTrips)
	assert.InDelta(t, 3.49, summary.TotalEmissionKg, 1e-9)
	assert.InDelta(t, 18200, summary.CurrentMonth.DistanceMeters, 1e-9)

	// Delete
	w = do(http.MethodDelete, "/v1/trips/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(http.MethodGet, "/v1/trips/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_GetEnums(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/metadata/enums", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var enums models.Enums
	err := json.Unmarshal(w.Body.Bytes(), &enums)
	require.NoError(t, err)

	assert.Contains(t, enums.Modes, models.ModeDriving)
	assert.Contains(t, enums.Modes, models.ModeBicycling)
	assert.Contains(t, enums.TripStatuses, models.TripStatusCompleted)
}

func TestRouter_ListVehicleProfiles(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/metadata/vehicle-profiles", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var list models.VehicleProfileList
	err := json.Unmarshal(w.Body.Bytes(), &list)
	require.NoError(t, err)

	require.NotEmpty(t, list.Items)

	ids := make(map[string]bool, len(list.Items))
	for _, p := range list.Items {
		ids[p.ID] = true
	}
	assert.True(t, ids["electric"])
	assert.True(t, ids["petrol_medium"])
}

func TestRouter_FeatureFlags_Admin(t *testing.T) {
	router := newTestRouter()

	w := authedRequest(t, router, http.MethodGet, "/v1/admin/feature-flags", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var list featureflags.FlagList
	err := json.Unmarshal(w.Body.Bytes(), &list)
	require.NoError(t, err)

	assert.NotEmpty(t, list.Items)
}

func TestRouter_RequestID_Generated(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	requestID := w.Header().Get("X-Request-Id")
	assert.NotEmpty(t, requestID)
	assert.Contains(t, requestID, "req_")
}

func TestRouter_RequestID_Preserved(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	req.Header.Set("X-Request-Id", "custom_request_id")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, "custom_request_id", w.Header().Get("X-Request-Id"))
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/nonexistent", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
