package trip

import "context"

// ListOptions contains options for listing trips.
type ListOptions struct {
	Limit int
	// Cursor is the ID of the last trip from the previous page.
	Cursor string
	// Status filters the list to a single status when set.
	Status Status
}

// ListResult contains the results of listing trips.
type ListResult struct {
	Items      []*Trip
	NextCursor string
}

// Repository defines the interface for trip data persistence.
type Repository interface {
	// Get retrieves a trip by ID.
	Get(ctx context.Context, id string) (*Trip, error)

	// GetByUserAndID retrieves a trip by user ID and trip ID.
	// Returns ErrTripNotFound if the trip doesn't exist or doesn't belong to the user.
	GetByUserAndID(ctx context.Context, userID, tripID string) (*Trip, error)

	// List retrieves trips for a user with pagination, newest first.
	List(ctx context.Context, userID string, opts ListOptions) (*ListResult, error)

	// ListAllByUser retrieves every trip for a user, for aggregation.
	ListAllByUser(ctx context.Context, userID string) ([]*Trip, error)

	// ListUserIDs retrieves the IDs of every user with at least one trip.
	ListUserIDs(ctx context.Context) ([]string, error)

	// Create creates a new trip.
	Create(ctx context.Context, trip *Trip) error

	// Update updates an existing trip.
	Update(ctx context.Context, trip *Trip) error

	// Delete deletes a trip by ID.
	Delete(ctx context.Context, id string) error
}
