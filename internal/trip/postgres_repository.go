package trip

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
// Origin, destination, the selected-route snapshot, and the alternative
// routes live in JSONB columns; savings figures are plain columns so they
// stay queryable.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL trip repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const tripColumns = `
	id, user_id, origin, destination, mode, vehicle_profile_id,
	selected_route, alternative_routes, savings_kg, savings_percent,
	status, taken_at, created_at, updated_at
`

// Get retrieves a trip by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	return r.scanTrip(ctx, query, id)
}

// GetByUserAndID retrieves a trip by user ID and trip ID.
func (r *PostgresRepository) GetByUserAndID(ctx context.Context, userID, tripID string) (*Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1 AND user_id = $2`
	return r.scanTrip(ctx, query, tripID, userID)
}

// scanTrip scans a trip from a query result.
func (r *PostgresRepository) scanTrip(ctx context.Context, query string, args ...interface{}) (*Trip, error) {
	var trip Trip

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&trip.ID,
		&trip.UserID,
		&trip.Origin,
		&trip.Destination,
		&trip.Mode,
		&trip.VehicleProfileID,
		&trip.SelectedRoute,
		&trip.AlternativeRoutes,
		&trip.Savings.AmountKg,
		&trip.Savings.Percent,
		&trip.Status,
		&trip.TakenAt,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	return &trip, nil
}

// List retrieves trips for a user with pagination, newest first.
func (r *PostgresRepository) List(ctx context.Context, userID string, opts ListOptions) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	// Fetch one extra to determine if there are more results
	fetchLimit := limit + 1

	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE user_id = $1
			AND ($2 = '' OR status = $2)
			AND ($3 = '' OR created_at < (SELECT created_at FROM trips WHERE id = $3))
		ORDER BY created_at DESC
		LIMIT $4
	`

	rows, err := r.pool.Query(ctx, query, userID, string(opts.Status), opts.Cursor, fetchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips, err := r.collectTrips(rows)
	if err != nil {
		return nil, err
	}

	result := &ListResult{
		Items: trips,
	}

	// If we got more results than the limit, there are more pages
	if len(trips) > limit {
		result.Items = trips[:limit]
		// Use the last item's ID as the cursor for the next page
		result.NextCursor = trips[limit-1].ID
	}

	return result, nil
}

// ListAllByUser retrieves every trip for a user, for aggregation.
func (r *PostgresRepository) ListAllByUser(ctx context.Context, userID string) ([]*Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collectTrips(rows)
}

// ListUserIDs retrieves the IDs of every user with at least one trip.
func (r *PostgresRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT user_id FROM trips ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, rows.Err()
}

// collectTrips scans all rows into trips.
func (r *PostgresRepository) collectTrips(rows pgx.Rows) ([]*Trip, error) {
	var trips []*Trip
	for rows.Next() {
		var trip Trip
		err := rows.Scan(
			&trip.ID,
			&trip.UserID,
			&trip.Origin,
			&trip.Destination,
			&trip.Mode,
			&trip.VehicleProfileID,
			&trip.SelectedRoute,
			&trip.AlternativeRoutes,
			&trip.Savings.AmountKg,
			&trip.Savings.Percent,
			&trip.Status,
			&trip.TakenAt,
			&trip.CreatedAt,
			&trip.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		trips = append(trips, &trip)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return trips, nil
}

// Create creates a new trip.
func (r *PostgresRepository) Create(ctx context.Context, trip *Trip) error {
	query := `
		INSERT INTO trips (
			id, user_id, origin, destination, mode, vehicle_profile_id,
			selected_route, alternative_routes, savings_kg, savings_percent,
			status, taken_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.pool.Exec(ctx, query,
		trip.ID,
		trip.UserID,
		trip.Origin,
		trip.Destination,
		trip.Mode,
		trip.VehicleProfileID,
		trip.SelectedRoute,
		trip.AlternativeRoutes,
		trip.Savings.AmountKg,
		trip.Savings.Percent,
		trip.Status,
		trip.TakenAt,
		trip.CreatedAt,
		trip.UpdatedAt,
	)
	return err
}

// Update updates an existing trip.
func (r *PostgresRepository) Update(ctx context.Context, trip *Trip) error {
	query := `
		UPDATE trips SET
			origin = $2,
			destination = $3,
			mode = $4,
			vehicle_profile_id = $5,
			selected_route = $6,
			alternative_routes = $7,
			savings_kg = $8,
			savings_percent = $9,
			status = $10,
			taken_at = $11,
			updated_at = $12
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		trip.ID,
		trip.Origin,
		trip.Destination,
		trip.Mode,
		trip.VehicleProfileID,
		trip.SelectedRoute,
		trip.AlternativeRoutes,
		trip.Savings.AmountKg,
		trip.Savings.Percent,
		trip.Status,
		trip.TakenAt,
		trip.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrTripNotFound
	}

	return nil
}

// Delete deletes a trip by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM trips WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
