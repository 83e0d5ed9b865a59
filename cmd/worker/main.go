// Package main provides the entrypoint for the GreenRoute background worker.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/greenroute/greenroute/internal/database"
	"github.com/greenroute/greenroute/internal/geocoding"
	geomapbox "github.com/greenroute/greenroute/internal/geocoding/mapbox"
	"github.com/greenroute/greenroute/internal/routing"
	routemapbox "github.com/greenroute/greenroute/internal/routing/mapbox"
	"github.com/greenroute/greenroute/internal/trip"
	"github.com/greenroute/greenroute/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "greenroute-worker"

	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting GreenRoute worker")

	// Worker also exposes a health endpoint for Cloud Run.
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize geocoding and routing services for cache warming
	mapboxToken := os.Getenv("MAPBOX_ACCESS_TOKEN")
	if mapboxToken == "" {
		log.Warn().Msg("MAPBOX_ACCESS_TOKEN not set - cache refresh jobs will fail")
	}

	geocodingClient := geomapbox.NewClient(geomapbox.ClientConfig{
		AccessToken: mapboxToken,
		Logger:      log,
	})
	geocodingService := geocoding.NewService(geocoding.ServiceConfig{
		Provider: geocodingClient,
		Logger:   log,
	})

	routingClient := routemapbox.NewClient(routemapbox.ClientConfig{
		AccessToken: mapboxToken,
		Logger:      log,
	})
	routingService := routing.NewService(routing.ServiceConfig{
		Provider: routingClient,
		Logger:   log,
	})

	refreshJob := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config:           worker.DefaultRefreshConfig(),
		Logger:           log,
		GeocodingService: geocodingService,
		RoutingService:   routingService,
	})

	// Summary refresh needs the trips database. When it is unreachable the
	// worker still runs cache refresh jobs.
	var summaryJob *worker.SummaryJob
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	pool, err := database.Connect(dbCtx, database.ConfigFromEnv())
	dbCancel()
	if err != nil {
		log.Warn().Err(err).Msg("database unavailable - summary refresh disabled")
	} else {
		defer pool.Close()
		summaryJob = worker.NewSummaryJob(worker.SummaryJobConfig{
			Trips:  trip.NewPostgresRepository(pool),
			Store:  trip.NewPostgresSummaryCache(pool),
			Logger: log,
		})
	}

	// Create HTTP server for health checks
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":"%s"}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health check server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	// Subscribe to cache refresh jobs when Pub/Sub is configured.
	// Without it the worker falls back to a local timer loop.
	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	subscription := os.Getenv("PUBSUB_SUBSCRIPTION")
	if subscription == "" {
		subscription = "cache-refresh-jobs"
	}

	if projectID != "" {
		handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        projectID,
			SubscriptionName: subscription,
			RefreshJob:       refreshJob,
			SummaryJob:       summaryJob,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer func() {
			if closeErr := handler.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close pubsub handler")
			}
		}()

		go func() {
			log.Info().
				Str("project", projectID).
				Str("subscription", subscription).
				Msg("listening for refresh jobs")

			if err := handler.Start(ctx); err != nil {
				log.Error().Err(err).Msg("pubsub receive stopped")
				cancel()
			}
		}()
	} else {
		log.Warn().Msg("PUBSUB_PROJECT_ID not set - running refresh on a local timer")

		go func() {
			interval := 30 * time.Minute
			if v := os.Getenv("REFRESH_INTERVAL"); v != "" {
				if d, err := time.ParseDuration(v); err == nil {
					interval = d
				}
			}

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					result := refreshJob.Run(ctx)
					log.Info().
						Int("successful", result.Successful).
						Int("failed", result.Failed).
						Dur("duration", result.Duration).
						Msg("scheduled refresh completed")

					if summaryJob != nil {
						if sres, err := summaryJob.Run(ctx); err != nil {
							log.Error().Err(err).Msg("scheduled summary refresh failed")
						} else {
							log.Info().
								Int("refreshed", sres.Refreshed).
								Int("failed", sres.Failed).
								Dur("duration", sres.Duration).
								Msg("scheduled summary refresh completed")
						}
					}
				}
			}
		}()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
