package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/greenroute/greenroute/internal/geocoding"
	"github.com/greenroute/greenroute/internal/routing"
)

// RefreshJob keeps the geocoding and routing caches warm for popular
// commute corridors so interactive queries hit fresh cache entries.
type RefreshJob struct {
	config RefreshConfig
	logger zerolog.Logger

	// Services (optional, nil if not configured)
	geocodingService *geocoding.Service
	routingService   *routing.Service

	// Metrics
	metrics *RefreshMetrics
}

// RefreshMetrics tracks refresh job statistics.
type RefreshMetrics struct {
	mu sync.RWMutex

	// Counters
	TotalRefreshes    int64
	SuccessfulRefresh int64
	FailedRefreshes   int64
	GeocodingRefresh  int64
	RoutesRefresh     int64

	// Timings
	LastRefreshAt       time.Time
	LastRefreshDuration time.Duration
	TotalDuration       time.Duration
}

// RefreshJobConfig holds configuration for creating a RefreshJob.
type RefreshJobConfig struct {
	Config           RefreshConfig
	Logger           zerolog.Logger
	GeocodingService *geocoding.Service
	RoutingService   *routing.Service
}

// NewRefreshJob creates a new refresh job processor.
func NewRefreshJob(cfg RefreshJobConfig) *RefreshJob {
	config := cfg.Config
	if len(config.Targets) == 0 {
		config = DefaultRefreshConfig()
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 3
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if len(config.Profiles) == 0 {
		config.Profiles = []routing.RouteProfile{routing.ProfileDriving}
	}

	return &RefreshJob{
		config:           config,
		logger:           cfg.Logger,
		geocodingService: cfg.GeocodingService,
		routingService:   cfg.RoutingService,
		metrics:          &RefreshMetrics{},
	}
}

// RefreshResult contains the result of a refresh operation.
type RefreshResult struct {
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalCorridors int
	Successful     int
	Failed         int
	Errors         []RefreshError
}

// RefreshError represents an error during refresh.
type RefreshError struct {
	Provider string
	Corridor Corridor
	Error    string
}

// Run executes the refresh job for all configured targets.
func (j *RefreshJob) Run(ctx context.Context) *RefreshResult {
	startTime := time.Now()
	result := &RefreshResult{
		StartTime:      startTime,
		TotalCorridors: j.config.TotalCorridors(),
	}

	j.logger.Info().
		Int("total_corridors", result.TotalCorridors).
		Int("concurrency", j.config.Concurrency).
		Msg("starting cache refresh job")

	corridors := j.config.AllCorridors()

	corridorsChan := make(chan Corridor, len(corridors))
	resultsChan := make(chan corridorResult, len(corridors))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.refreshWorker(ctx, corridorsChan, resultsChan)
		}()
	}

	for _, c := range corridors {
		corridorsChan <- c
	}
	close(corridorsChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for cr := range resultsChan {
		if cr.success {
			result.Successful++
		} else {
			result.Failed++
		}
		result.Errors = append(result.Errors, cr.errors...)
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("cache refresh job completed")

	return result
}

type corridorResult struct {
	corridor Corridor
	success  bool
	errors   []RefreshError
}

func (j *RefreshJob) refreshWorker(ctx context.Context, corridors <-chan Corridor, results chan<- corridorResult) {
	for corridor := range corridors {
		select {
		case <-ctx.Done():
			return
		default:
			results <- j.refreshCorridor(ctx, corridor)
		}
	}
}

// refreshCorridor resolves both endpoints and prefetches directions for
// each configured profile. Routing is skipped when either endpoint fails
// to resolve.
func (j *RefreshJob) refreshCorridor(ctx context.Context, corridor Corridor) corridorResult {
	result := corridorResult{
		corridor: corridor,
		success:  true,
	}

	corridorCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	var origin, dest *geocoding.Place

	if j.config.RefreshGeocoding && j.geocodingService != nil {
		var err error
		origin, dest, err = j.refreshGeocoding(corridorCtx, corridor)
		if err != nil {
			result.errors = append(result.errors, RefreshError{
				Provider: "geocoding",
				Corridor: corridor,
				Error:    err.Error(),
			})
			result.success = false
			return result
		}
		atomic.AddInt64(&j.metrics.GeocodingRefresh, 1)
	}

	if j.config.RefreshRoutes && j.routingService != nil && origin != nil && dest != nil {
		if err := j.refreshRoutes(corridorCtx, origin, dest); err != nil {
			result.errors = append(result.errors, RefreshError{
				Provider: "routing",
				Corridor: corridor,
				Error:    err.Error(),
			})
			result.success = false
		} else {
			atomic.AddInt64(&j.metrics.RoutesRefresh, 1)
		}
	}

	return result
}

func (j *RefreshJob) refreshGeocoding(ctx context.Context, corridor Corridor) (*geocoding.Place, *geocoding.Place, error) {
	origin, err := j.geocodingService.Resolve(ctx, corridor.Origin)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving %q: %w", corridor.Origin, err)
	}

	dest, err := j.geocodingService.Resolve(ctx, corridor.Destination)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving %q: %w", corridor.Destination, err)
	}

	return origin, dest, nil
}

func (j *RefreshJob) refreshRoutes(ctx context.Context, origin, dest *geocoding.Place) error {
	for _, profile := range j.config.Profiles {
		_, err := j.routingService.GetDirections(ctx, routing.DirectionsRequest{
			Origin:      routing.Coordinate{Lat: origin.Lat, Lon: origin.Lon},
			Destination: routing.Coordinate{Lat: dest.Lat, Lon: dest.Lon},
			Profile:     profile,
		})
		if err != nil {
			return fmt.Errorf("directions %s: %w", profile, err)
		}
	}
	return nil
}

func (j *RefreshJob) updateMetrics(result *RefreshResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRefreshes++
	j.metrics.SuccessfulRefresh += int64(result.Successful)
	j.metrics.FailedRefreshes += int64(result.Failed)
	j.metrics.LastRefreshAt = result.EndTime
	j.metrics.LastRefreshDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *RefreshJob) GetMetrics() RefreshMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return RefreshMetrics{
		TotalRefreshes:      j.metrics.TotalRefreshes,
		SuccessfulRefresh:   j.metrics.SuccessfulRefresh,
		FailedRefreshes:     j.metrics.FailedRefreshes,
		GeocodingRefresh:    atomic.LoadInt64(&j.metrics.GeocodingRefresh),
		RoutesRefresh:       atomic.LoadInt64(&j.metrics.RoutesRefresh),
		LastRefreshAt:       j.metrics.LastRefreshAt,
		LastRefreshDuration: j.metrics.LastRefreshDuration,
		TotalDuration:       j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *RefreshJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_refreshes":       m.TotalRefreshes,
		"successful_refreshes":  m.SuccessfulRefresh,
		"failed_refreshes":      m.FailedRefreshes,
		"geocoding_refreshes":   m.GeocodingRefresh,
		"routes_refreshes":      m.RoutesRefresh,
		"last_refresh_at":       m.LastRefreshAt,
		"last_refresh_duration": m.LastRefreshDuration.String(),
		"total_duration":        m.TotalDuration.String(),
	}
}
