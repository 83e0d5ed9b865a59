package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/greenroute/greenroute/internal/api/models"
	"github.com/greenroute/greenroute/internal/trip"
)

// TripSource lists trip owners and loads their trips for aggregation.
type TripSource interface {
	ListUserIDs(ctx context.Context) ([]string, error)
	ListAllByUser(ctx context.Context, userID string) ([]*trip.Trip, error)
}

// SummaryStore persists precomputed carbon summaries.
type SummaryStore interface {
	Put(ctx context.Context, userID string, summary *models.CarbonSummary) error
}

// SummaryJob precomputes per-user carbon summaries into the cache store.
// The cached rows are disposable; the API recomputes authoritative values
// on demand.
type SummaryJob struct {
	trips  TripSource
	store  SummaryStore
	logger zerolog.Logger
	now    func() time.Time
}

// SummaryJobConfig holds configuration for creating a SummaryJob.
type SummaryJobConfig struct {
	Trips  TripSource
	Store  SummaryStore
	Logger zerolog.Logger
}

// NewSummaryJob creates a new summary refresh job.
func NewSummaryJob(cfg SummaryJobConfig) *SummaryJob {
	return &SummaryJob{
		trips:  cfg.Trips,
		store:  cfg.Store,
		logger: cfg.Logger,
		now:    time.Now,
	}
}

// SummaryResult contains the result of a summary refresh run.
type SummaryResult struct {
	StartTime time.Time
	Duration  time.Duration
	Users     int
	Refreshed int
	Failed    int
}

// Run recomputes and stores the summary for every user with trips.
// A failure for one user does not stop the others.
func (j *SummaryJob) Run(ctx context.Context) (*SummaryResult, error) {
	result := &SummaryResult{StartTime: j.now()}

	userIDs, err := j.trips.ListUserIDs(ctx)
	if err != nil {
		return nil, err
	}
	result.Users = len(userIDs)

	j.logger.Info().
		Int("users", result.Users).
		Msg("starting summary refresh job")

	for _, userID := range userIDs {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		trips, err := j.trips.ListAllByUser(ctx, userID)
		if err != nil {
			j.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load trips")
			result.Failed++
			continue
		}

		summary := trip.Summarize(trips, j.now())
		if err := j.store.Put(ctx, userID, summary); err != nil {
			j.logger.Error().Err(err).Str("user_id", userID).Msg("failed to store summary")
			result.Failed++
			continue
		}
		result.Refreshed++
	}

	result.Duration = time.Since(result.StartTime)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("refreshed", result.Refreshed).
		Int("failed", result.Failed).
		Msg("summary refresh job completed")

	return result, nil
}
