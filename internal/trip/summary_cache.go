package trip

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenroute/greenroute/internal/api/models"
)

// PostgresSummaryCache stores precomputed carbon summaries, one row per
// user. The cache is disposable: the API always recomputes summaries from
// the trips table, so a stale or missing row is never authoritative.
type PostgresSummaryCache struct {
	pool *pgxpool.Pool
}

// NewPostgresSummaryCache creates a new summary cache backed by Postgres.
func NewPostgresSummaryCache(pool *pgxpool.Pool) *PostgresSummaryCache {
	return &PostgresSummaryCache{pool: pool}
}

// Put upserts a user's precomputed summary.
func (c *PostgresSummaryCache) Put(ctx context.Context, userID string, summary *models.CarbonSummary) error {
	query := `
		INSERT INTO carbon_summary_cache (user_id, summary, refreshed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			summary = EXCLUDED.summary,
			refreshed_at = EXCLUDED.refreshed_at
	`

	_, err := c.pool.Exec(ctx, query, userID, summary, time.Now())
	return err
}
