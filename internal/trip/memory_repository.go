package trip

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu    sync.RWMutex
	trips map[string]*Trip
}

// NewInMemoryRepository creates a new in-memory trip repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		trips: make(map[string]*Trip),
	}
}

// Get retrieves a trip by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trips[id]
	if !ok {
		return nil, ErrTripNotFound
	}

	return t.clone(), nil
}

// GetByUserAndID retrieves a trip by user ID and trip ID.
func (r *InMemoryRepository) GetByUserAndID(_ context.Context, userID, tripID string) (*Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trips[tripID]
	if !ok {
		return nil, ErrTripNotFound
	}

	if t.UserID != userID {
		return nil, ErrTripNotFound
	}

	return t.clone(), nil
}

// List retrieves trips for a user with pagination, newest first.
func (r *InMemoryRepository) List(_ context.Context, userID string, opts ListOptions) (*ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	trips := r.sortedByUser(userID)

	if opts.Status != "" {
		filtered := trips[:0]
		for _, t := range trips {
			if t.Status == opts.Status {
				filtered = append(filtered, t)
			}
		}
		trips = filtered
	}

	if opts.Cursor != "" {
		for i, t := range trips {
			if t.ID == opts.Cursor {
				trips = trips[i+1:]
				break
			}
		}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	result := &ListResult{
		Items: trips,
	}

	if len(trips) > limit {
		result.Items = trips[:limit]
		result.NextCursor = trips[limit-1].ID
	}

	return result, nil
}

// ListAllByUser retrieves every trip for a user, for aggregation.
func (r *InMemoryRepository) ListAllByUser(_ context.Context, userID string) ([]*Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedByUser(userID), nil
}

// sortedByUser copies a user's trips sorted newest first. Callers must hold
// at least a read lock.
func (r *InMemoryRepository) sortedByUser(userID string) []*Trip {
	var trips []*Trip
	for _, t := range r.trips {
		if t.UserID == userID {
			trips = append(trips, t.clone())
		}
	}

	sort.Slice(trips, func(i, j int) bool {
		if !trips[i].CreatedAt.Equal(trips[j].CreatedAt) {
			return trips[i].CreatedAt.After(trips[j].CreatedAt)
		}
		return trips[i].ID < trips[j].ID
	})

	return trips
}

// ListUserIDs retrieves the IDs of every user with at least one trip.
func (r *InMemoryRepository) ListUserIDs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var userIDs []string
	for _, t := range r.trips {
		if !seen[t.UserID] {
			seen[t.UserID] = true
			userIDs = append(userIDs, t.UserID)
		}
	}
	sort.Strings(userIDs)
	return userIDs, nil
}

// Create creates a new trip.
func (r *InMemoryRepository) Create(_ context.Context, t *Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.trips[t.ID] = t.clone()
	return nil
}

// Update updates an existing trip.
func (r *InMemoryRepository) Update(_ context.Context, t *Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.trips[t.ID]; !ok {
		return ErrTripNotFound
	}

	r.trips[t.ID] = t.clone()
	return nil
}

// Delete deletes a trip by ID.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.trips, id)
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
