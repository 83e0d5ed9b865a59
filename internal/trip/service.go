package trip

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/greenroute/greenroute/internal/api/models"
	"github.com/greenroute/greenroute/internal/emission"
)

// Service errors.
var (
	ErrNotAuthorized = errors.New("not authorized to access this trip")
)

// Validation constants.
const (
	MaxPlaceLength       = 200
	MaxAlternativeRoutes = 5
)

// Service provides trip operations.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new trip service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List retrieves trips for a user, newest first. An empty status lists all.
func (s *Service) List(ctx context.Context, userID string, limit int, cursor string, status string) (*models.PagedTrips, error) {
	if status != "" && !Status(status).Valid() {
		return nil, &ValidationError{Errors: []models.FieldError{
			{Field: "status", Message: "must be one of planned, completed, cancelled"},
		}}
	}

	result, err := s.repo.List(ctx, userID, ListOptions{
		Limit:  limit,
		Cursor: cursor,
		Status: Status(status),
	})
	if err != nil {
		return nil, err
	}

	items := make([]models.Trip, 0, len(result.Items))
	for _, t := range result.Items {
		items = append(items, s.toAPITrip(t))
	}

	var nextCursor *string
	if result.NextCursor != "" {
		nextCursor = &result.NextCursor
	}

	return &models.PagedTrips{
		Items: items,
		Meta: models.PagedResponseMeta{
			Limit:      limit,
			NextCursor: nextCursor,
		},
	}, nil
}

// Get retrieves a trip by ID for a user.
func (s *Service) Get(ctx context.Context, userID, tripID string) (*models.Trip, error) {
	trip, err := s.repo.GetByUserAndID(ctx, userID, tripID)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	result := s.toAPITrip(trip)
	return &result, nil
}

// Create saves a new trip for a user. The selected route is stored as a
// full snapshot, the other candidates from its route set as abbreviated
// alternatives. New trips start as planned.
func (s *Service) Create(ctx context.Context, userID string, input *models.TripCreateRequest) (*models.Trip, error) {
	// Validate input
	if fieldErrors := s.validateCreateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	now := s.now()
	tripID := "trp_" + uuid.New().String()[:22]

	takenAt := now
	if input.TakenAt != nil {
		takenAt = input.TakenAt.Time()
	}

	selected := SelectedRoute{
		RouteID:          input.SelectedRoute.ID,
		Profile:          input.SelectedRoute.Profile,
		DistanceMeters:   input.SelectedRoute.DistanceMeters,
		DurationSeconds:  input.SelectedRoute.DurationSeconds,
		EmissionKg:       input.SelectedRoute.EmissionKg,
		EcoScore:         input.SelectedRoute.EcoScore,
		GeometryPolyline: input.SelectedRoute.GeometryPolyline,
	}
	for _, step := range input.SelectedRoute.Instructions {
		selected.Instructions = append(selected.Instructions, Instruction{
			Text:           step.Text,
			DistanceMeters: step.DistanceMeters,
		})
	}

	alternatives := make([]AlternativeRoute, 0, len(input.AlternativeRoutes))
	for _, alt := range input.AlternativeRoutes {
		alternatives = append(alternatives, AlternativeRoute{
			RouteID:         alt.ID,
			Profile:         alt.Profile,
			DistanceMeters:  alt.DistanceMeters,
			DurationSeconds: alt.DurationSeconds,
			EmissionKg:      alt.EmissionKg,
			EcoScore:        alt.EcoScore,
		})
	}

	trip := &Trip{
		ID:                tripID,
		UserID:            userID,
		Origin:            toPlace(input.Origin),
		Destination:       toPlace(input.Destination),
		Mode:              emission.Mode(input.Mode),
		VehicleProfileID:  input.VehicleProfileID,
		SelectedRoute:     selected,
		AlternativeRoutes: alternatives,
		Savings: EmissionSavings{
			AmountKg: input.EmissionSavings.AmountKg,
			Percent:  input.EmissionSavings.Percent,
		},
		Status:    StatusPlanned,
		TakenAt:   takenAt,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, trip); err != nil {
		return nil, err
	}

	result := s.toAPITrip(trip)
	return &result, nil
}

// UpdateStatus transitions a trip to a new lifecycle status.
func (s *Service) UpdateStatus(ctx context.Context, userID, tripID string, input *models.TripUpdateStatusRequest) (*models.Trip, error) {
	if !Status(input.Status).Valid() {
		return nil, &ValidationError{Errors: []models.FieldError{
			{Field: "status", Message: "must be one of planned, completed, cancelled"},
		}}
	}

	trip, err := s.repo.GetByUserAndID(ctx, userID, tripID)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	trip.Status = Status(input.Status)
	trip.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, trip); err != nil {
		return nil, err
	}

	result := s.toAPITrip(trip)
	return &result, nil
}

// Delete deletes a trip for a user.
func (s *Service) Delete(ctx context.Context, userID, tripID string) error {
	// Verify ownership
	_, err := s.repo.GetByUserAndID(ctx, userID, tripID)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			return ErrTripNotFound
		}
		return err
	}

	return s.repo.Delete(ctx, tripID)
}

// CarbonSummary aggregates emission and savings figures across all of a
// user's trips.
func (s *Service) CarbonSummary(ctx context.Context, userID string) (*models.CarbonSummary, error) {
	trips, err := s.repo.ListAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return Summarize(trips, s.now()), nil
}

// validateCreateInput validates the create trip input.
func (s *Service) validateCreateInput(input *models.TripCreateRequest) []models.FieldError {
	var errs []models.FieldError

	errs = append(errs, validatePlace("origin", input.Origin)...)
	errs = append(errs, validatePlace("destination", input.Destination)...)

	if !emission.Mode(input.Mode).Valid() {
		errs = append(errs, models.FieldError{Field: "mode", Message: "must be a supported transportation mode"})
	}

	if input.VehicleProfileID != nil {
		if _, ok := emission.LookupProfile(*input.VehicleProfileID); !ok {
			errs = append(errs, models.FieldError{Field: "vehicleProfileId", Message: "must be a known vehicle profile"})
		}
	}

	if input.SelectedRoute.DistanceMeters <= 0 {
		errs = append(errs, models.FieldError{Field: "selectedRoute.distanceMeters", Message: "must be greater than zero"})
	}

	if input.SelectedRoute.DurationSeconds <= 0 {
		errs = append(errs, models.FieldError{Field: "selectedRoute.durationSeconds", Message: "must be greater than zero"})
	}

	if input.SelectedRoute.EmissionKg < 0 {
		errs = append(errs, models.FieldError{Field: "selectedRoute.emissionKg", Message: "cannot be negative"})
	}

	if input.SelectedRoute.EcoScore < 0 || input.SelectedRoute.EcoScore > 100 {
		errs = append(errs, models.FieldError{Field: "selectedRoute.ecoScore", Message: "must be between 0 and 100"})
	}

	if len(input.AlternativeRoutes) > MaxAlternativeRoutes {
		errs = append(errs, models.FieldError{Field: "alternativeRoutes", Message: "at most 5 alternatives may be stored"})
	}
	for _, alt := range input.AlternativeRoutes {
		if alt.DistanceMeters < 0 || alt.EmissionKg < 0 {
			errs = append(errs, models.FieldError{Field: "alternativeRoutes", Message: "distance and emission cannot be negative"})
			break
		}
	}

	if input.EmissionSavings.AmountKg < 0 {
		errs = append(errs, models.FieldError{Field: "emissionSavings.amountKg", Message: "cannot be negative"})
	}

	if input.EmissionSavings.Percent < 0 || input.EmissionSavings.Percent > 100 {
		errs = append(errs, models.FieldError{Field: "emissionSavings.percent", Message: "must be between 0 and 100"})
	}

	return errs
}

// validatePlace checks one trip endpoint.
func validatePlace(field string, p models.TripPlace) []models.FieldError {
	if p.Name == "" {
		return []models.FieldError{{Field: field + ".name", Message: "is required"}}
	}
	if len(p.Name) > MaxPlaceLength {
		return []models.FieldError{{Field: field + ".name", Message: "must be at most 200 characters"}}
	}
	if p.Point != nil {
		if p.Point.Lat < -90 || p.Point.Lat > 90 || p.Point.Lon < -180 || p.Point.Lon > 180 {
			return []models.FieldError{{Field: field + ".point", Message: "must be a valid WGS84 coordinate"}}
		}
	}
	return nil
}

func toPlace(p models.TripPlace) Place {
	place := Place{Name: p.Name}
	if p.Point != nil {
		place.Lat = p.Point.Lat
		place.Lon = p.Point.Lon
	}
	return place
}

// toAPITrip converts a domain Trip to an API Trip.
func (s *Service) toAPITrip(t *Trip) models.Trip {
	selected := models.TripSelectedRoute{
		ID:               t.SelectedRoute.RouteID,
		Profile:          t.SelectedRoute.Profile,
		DistanceMeters:   t.SelectedRoute.DistanceMeters,
		DurationSeconds:  t.SelectedRoute.DurationSeconds,
		EmissionKg:       t.SelectedRoute.EmissionKg,
		EcoScore:         t.SelectedRoute.EcoScore,
		GeometryPolyline: t.SelectedRoute.GeometryPolyline,
	}
	for _, step := range t.SelectedRoute.Instructions {
		selected.Instructions = append(selected.Instructions, models.Instruction{
			Text:           step.Text,
			DistanceMeters: step.DistanceMeters,
		})
	}

	alternatives := make([]models.TripAlternativeRoute, 0, len(t.AlternativeRoutes))
	for _, alt := range t.AlternativeRoutes {
		alternatives = append(alternatives, models.TripAlternativeRoute{
			ID:              alt.RouteID,
			Profile:         alt.Profile,
			DistanceMeters:  alt.DistanceMeters,
			DurationSeconds: alt.DurationSeconds,
			EmissionKg:      alt.EmissionKg,
			EcoScore:        alt.EcoScore,
		})
	}

	return models.Trip{
		ID:                t.ID,
		Origin:            toAPIPlace(t.Origin),
		Destination:       toAPIPlace(t.Destination),
		Mode:              models.Mode(t.Mode),
		VehicleProfileID:  t.VehicleProfileID,
		SelectedRoute:     selected,
		AlternativeRoutes: alternatives,
		EmissionSavings: models.TripEmissionSavings{
			AmountKg: t.Savings.AmountKg,
			Percent:  t.Savings.Percent,
		},
		Status:    models.TripStatus(t.Status),
		TakenAt:   models.Timestamp(t.TakenAt),
		CreatedAt: models.Timestamp(t.CreatedAt),
		UpdatedAt: models.Timestamp(t.UpdatedAt),
	}
}

func toAPIPlace(p Place) models.TripPlace {
	place := models.TripPlace{Name: p.Name}
	if p.Lat != 0 || p.Lon != 0 {
		place.Point = &models.Point{Lat: p.Lat, Lon: p.Lon}
	}
	return place
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
