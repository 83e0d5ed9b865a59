// Package main provides the entrypoint for the GreenRoute API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/greenroute/greenroute/internal/api"
	"github.com/greenroute/greenroute/internal/api/middleware"
	"github.com/greenroute/greenroute/internal/auth"
	"github.com/greenroute/greenroute/internal/database"
	"github.com/greenroute/greenroute/internal/emission"
	"github.com/greenroute/greenroute/internal/emission/emissionapi"
	"github.com/greenroute/greenroute/internal/featureflags"
	"github.com/greenroute/greenroute/internal/geocoding"
	geomapbox "github.com/greenroute/greenroute/internal/geocoding/mapbox"
	"github.com/greenroute/greenroute/internal/planner"
	"github.com/greenroute/greenroute/internal/provider/resilience"
	"github.com/greenroute/greenroute/internal/routing"
	routemapbox "github.com/greenroute/greenroute/internal/routing/mapbox"
	"github.com/greenroute/greenroute/internal/telemetry"
	"github.com/greenroute/greenroute/internal/trip"
	"github.com/greenroute/greenroute/internal/user"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "greenroute-api"

	// Load .env if present (local development convenience).
	_ = godotenv.Load()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting GreenRoute API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize auth repositories and service
	authUserRepo := auth.NewPostgresUserRepository(pool)
	authRefreshRepo := auth.NewPostgresRefreshTokenRepository(pool)

	// Initialize JWT service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
		Issuer:     "https://api.greenroute.in",
		Audience:   "greenroute-api",
	})

	authService := auth.NewService(auth.ServiceConfig{
		JWTService:  jwtService,
		UserRepo:    authUserRepo,
		RefreshRepo: authRefreshRepo,
	})
	log.Info().Msg("auth service initialized")

	// Initialize user repository and service
	userRepo := user.NewPostgresRepository(pool)
	userService := user.NewService(userRepo)
	log.Info().Msg("user service initialized")

	// Initialize trip repository and service
	tripRepo := trip.NewPostgresRepository(pool)
	tripService := trip.NewService(tripRepo)
	log.Info().Msg("trip service initialized")

	// Initialize feature flags repository and service
	ffRepo := featureflags.NewPostgresRepository(pool)
	ffService := featureflags.NewService(featureflags.ServiceConfig{
		Repository: ffRepo,
		Logger:     log,
		CacheTTL:   1 * time.Minute,
	})
	log.Info().Msg("feature flags service initialized")

	// Provider registry tracks upstream health for the status endpoint.
	registry := resilience.NewRegistry()

	// Initialize geocoding and routing providers (Mapbox)
	mapboxToken := os.Getenv("MAPBOX_ACCESS_TOKEN")
	if mapboxToken == "" {
		log.Warn().Msg("MAPBOX_ACCESS_TOKEN not set - route planning will fall back to synthetic candidates")
	}

	geocodingClient := geomapbox.NewClient(geomapbox.ClientConfig{
		AccessToken: mapboxToken,
		Registry:    registry,
		Logger:      log,
	})
	geocodingService := geocoding.NewService(geocoding.ServiceConfig{
		Provider: geocodingClient,
		Logger:   log,
		CachedOnly: func() bool {
			return ffService.IsGeocodingCachedOnly(context.Background())
		},
	})

	routingClient := routemapbox.NewClient(routemapbox.ClientConfig{
		AccessToken: mapboxToken,
		Registry:    registry,
		Logger:      log,
	})
	routingService := routing.NewService(routing.ServiceConfig{
		Provider: routingClient,
		Logger:   log,
	})
	log.Info().Msg("geocoding and routing services initialized")

	// Initialize emission estimation (remote-first with local fallback)
	emissionClient := emissionapi.NewClient(emissionapi.ClientConfig{
		BaseURL:  os.Getenv("EMISSION_API_URL"),
		Registry: registry,
		Logger:   log,
	})
	emissionService := emission.NewService(emission.ServiceConfig{
		Remote: emissionClient,
		RemoteEnabled: func() bool {
			return ffService.IsRemoteEmissionEnabled(context.Background())
		},
		Logger: log,
	})

	// Initialize the route planner
	plannerService := planner.NewService(planner.ServiceConfig{
		Geocoder:   geocodingService,
		Directions: routingService,
		Estimator:  emissionService,
		TrafficProfilesEnabled: func() bool {
			return ffService.IsTrafficProfilesEnabled(context.Background())
		},
		MockFallbackEnabled: func() bool {
			return ffService.IsMockFallbackEnabled(context.Background())
		},
		Logger: log,
	})
	log.Info().Msg("planner service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:            Version,
		BuildTime:          BuildTime,
		Logger:             log,
		ServiceName:        serviceName,
		Metrics:            metrics,
		AuthService:        authService,
		UserService:        userService,
		FeatureFlagService: ffService,
		PlannerService:     plannerService,
		TripService:        tripService,
		Pool:               pool,
		ProviderRegistry:   registry,
		GeocodingService:   geocodingService,
		RoutingService:     routingService,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
