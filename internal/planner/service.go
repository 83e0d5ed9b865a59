package planner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/greenroute/greenroute/internal/emission"
	"github.com/greenroute/greenroute/internal/geocoding"
	"github.com/greenroute/greenroute/internal/routing"
	"github.com/greenroute/greenroute/internal/scoring"
)

// Geocoder resolves free-text place queries.
type Geocoder interface {
	Resolve(ctx context.Context, query string) (*geocoding.Place, error)
}

// Directions fetches route alternatives between two coordinates.
type Directions interface {
	GetDirections(ctx context.Context, req routing.DirectionsRequest) (*routing.DirectionsResponse, error)
}

// Estimator resolves CO2 estimates for route candidates.
type Estimator interface {
	Estimate(ctx context.Context, req emission.EstimateRequest) emission.Estimate
}

// ServiceConfig holds configuration for the planner service.
type ServiceConfig struct {
	Geocoder   Geocoder
	Directions Directions
	Estimator  Estimator

	// TrafficProfilesEnabled gates the driving-traffic routing profile.
	// Consulted per query so a feature flag can flip it at runtime.
	TrafficProfilesEnabled func() bool

	// MockFallbackEnabled gates synthetic candidates when live routing
	// fails. Consulted per query.
	MockFallbackEnabled func() bool

	// MockSeed seeds the synthetic route generator. Zero means
	// nondeterministic seeding.
	MockSeed int64

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service builds annotated route comparison sets.
type Service struct {
	geocoder       Geocoder
	directions     Directions
	estimator      Estimator
	trafficEnabled func() bool
	mockEnabled    func() bool
	mock           *mockGenerator
	logger         zerolog.Logger
}

// NewService creates a new planner service.
func NewService(cfg ServiceConfig) *Service {
	trafficEnabled := cfg.TrafficProfilesEnabled
	if trafficEnabled == nil {
		trafficEnabled = func() bool { return true }
	}

	mockEnabled := cfg.MockFallbackEnabled
	if mockEnabled == nil {
		mockEnabled = func() bool { return true }
	}

	return &Service{
		geocoder:       cfg.Geocoder,
		directions:     cfg.Directions,
		estimator:      cfg.Estimator,
		trafficEnabled: trafficEnabled,
		mockEnabled:    mockEnabled,
		mock:           newMockGenerator(cfg.MockSeed),
		logger:         cfg.Logger,
	}
}

// FindRoutesRequest describes a route comparison query.
type FindRoutesRequest struct {
	OriginQuery      string
	DestinationQuery string
	Mode             emission.Mode
	VehicleProfileID string
}

// profilesFor maps a travel mode to the routing profiles tried for it, in
// candidate order. Repeated profiles consume successive route alternatives.
func (s *Service) profilesFor(mode emission.Mode) []routing.RouteProfile {
	switch mode {
	case emission.ModeDriving:
		traffic := routing.ProfileDrivingTraffic
		if !s.trafficEnabled() {
			traffic = routing.ProfileDriving
		}
		return []routing.RouteProfile{routing.ProfileDriving, traffic, routing.ProfileDriving}
	case emission.ModeTransit:
		return []routing.RouteProfile{routing.ProfileWalking, routing.ProfileCycling, routing.ProfileDriving}
	case emission.ModeBicycling:
		return []routing.RouteProfile{routing.ProfileCycling, routing.ProfileWalking, routing.ProfileDriving}
	case emission.ModeWalking:
		return []routing.RouteProfile{routing.ProfileWalking, routing.ProfileCycling, routing.ProfileDriving}
	default:
		// Motorcycle and bus ride the road network.
		return []routing.RouteProfile{routing.ProfileDriving, routing.ProfileDriving, routing.ProfileDriving}
	}
}

// FindRoutes resolves both endpoints, fans out across routing profiles, and
// returns an annotated, distance-sorted route set. When geocoding or routing
// fails entirely and the mock fallback is enabled, a synthetic set tagged
// SourceMock is returned instead of an error.
func (s *Service) FindRoutes(ctx context.Context, req FindRoutesRequest) (*RouteSet, error) {
	if !req.Mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, req.Mode)
	}
	if req.VehicleProfileID != "" {
		if _, ok := emission.LookupProfile(req.VehicleProfileID); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownVehicleProfile, req.VehicleProfileID)
		}
	}

	origin, destination, err := s.resolveEndpoints(ctx, req.OriginQuery, req.DestinationQuery)
	if err != nil {
		if s.mockEnabled() {
			s.logger.Warn().Err(err).
				Str("origin", req.OriginQuery).
				Str("destination", req.DestinationQuery).
				Msg("geocoding failed, serving synthetic routes")
			return s.mockSet(ctx, req)
		}
		return nil, err
	}

	candidates := s.fetchCandidates(ctx, req, origin, destination)
	if len(candidates) == 0 {
		if s.mockEnabled() {
			s.logger.Warn().
				Str("origin", origin.DisplayName).
				Str("destination", destination.DisplayName).
				Str("mode", string(req.Mode)).
				Msg("no live routes, serving synthetic routes")
			set, err := s.mockSet(ctx, req)
			if err != nil {
				return nil, err
			}
			// Keep the resolved endpoints even for synthetic candidates.
			set.Origin = toPlace(origin)
			set.Destination = toPlace(destination)
			return set, nil
		}
		return nil, ErrNoRoutes
	}

	annotate(candidates)

	set := &RouteSet{
		Origin:      toPlace(origin),
		Destination: toPlace(destination),
		Mode:        req.Mode,
		Routes:      candidates,
		Comparison:  compare(candidates),
		Source:      SourceLive,
	}
	return set, nil
}

// resolveEndpoints geocodes both endpoints concurrently.
func (s *Service) resolveEndpoints(ctx context.Context, originQuery, destQuery string) (*geocoding.Place, *geocoding.Place, error) {
	var wg sync.WaitGroup
	var origin, dest *geocoding.Place
	var oErr, dErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		origin, oErr = s.geocoder.Resolve(ctx, originQuery)
	}()
	go func() {
		defer wg.Done()
		dest, dErr = s.geocoder.Resolve(ctx, destQuery)
	}()
	wg.Wait()

	if oErr != nil {
		return nil, nil, endpointError("origin", originQuery, oErr)
	}
	if dErr != nil {
		return nil, nil, endpointError("destination", destQuery, dErr)
	}
	return origin, dest, nil
}

func endpointError(role, query string, err error) error {
	if errors.Is(err, geocoding.ErrNoResults) || errors.Is(err, geocoding.ErrEmptyQuery) {
		return fmt.Errorf("%w: %s %q", ErrPlaceNotFound, role, query)
	}
	return fmt.Errorf("resolving %s %q: %w", role, query, err)
}

// fetchCandidates queries each distinct routing profile once and assembles
// one candidate per profile slot. Slot order is stable regardless of which
// goroutine finishes first.
func (s *Service) fetchCandidates(ctx context.Context, req FindRoutesRequest, origin, dest *geocoding.Place) []RouteCandidate {
	profiles := s.profilesFor(req.Mode)

	distinct := make([]routing.RouteProfile, 0, len(profiles))
	seen := make(map[routing.RouteProfile]bool, len(profiles))
	for _, p := range profiles {
		if !seen[p] {
			seen[p] = true
			distinct = append(distinct, p)
		}
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		responses = make(map[routing.RouteProfile]*routing.DirectionsResponse, len(distinct))
	)

	for _, profile := range distinct {
		wg.Add(1)
		go func(p routing.RouteProfile) {
			defer wg.Done()
			resp, err := s.directions.GetDirections(ctx, routing.DirectionsRequest{
				Origin:          routing.Coordinate{Lat: origin.Lat, Lon: origin.Lon},
				Destination:     routing.Coordinate{Lat: dest.Lat, Lon: dest.Lon},
				Profile:         p,
				MaxAlternatives: 2,
			})
			if err != nil {
				s.logger.Warn().Err(err).
					Str("profile", string(p)).
					Msg("routing profile failed")
				return
			}
			mu.Lock()
			responses[p] = resp
			mu.Unlock()
		}(profile)
	}
	wg.Wait()

	// Assemble candidates in slot order. A repeated profile consumes the
	// next unused alternative; exhausted profiles contribute nothing.
	used := make(map[routing.RouteProfile]int, len(distinct))
	geometries := make(map[string]bool)

	var candidates []RouteCandidate
	for _, profile := range profiles {
		resp := responses[profile]
		if resp == nil {
			continue
		}
		idx := used[profile]
		if idx >= len(resp.Routes) {
			continue
		}
		used[profile]++

		route := resp.Routes[idx]
		if route.GeometryPolyline != "" && geometries[route.GeometryPolyline] {
			continue
		}
		geometries[route.GeometryPolyline] = true

		est := s.estimator.Estimate(ctx, emission.EstimateRequest{
			DistanceMeters:   float64(route.DistanceMeters),
			Mode:             req.Mode,
			VehicleProfileID: req.VehicleProfileID,
			OriginHint:       origin.DisplayName,
			DestinationHint:  dest.DisplayName,
		})

		candidates = append(candidates, RouteCandidate{
			ID:               newRouteID(),
			DistanceMeters:   float64(route.DistanceMeters),
			DurationSeconds:  float64(route.DurationSeconds),
			Mode:             req.Mode,
			Profile:          profile,
			VehicleProfileID: req.VehicleProfileID,
			GeometryPolyline: route.GeometryPolyline,
			Summary:          route.Summary,
			Instructions:     route.Instructions,
			EmissionKg:       est.EmissionKg,
			EmissionSource:   est.Source,
			EcoScore:         scoring.EcoScore(float64(route.DistanceMeters), float64(route.DurationSeconds), req.Mode, req.VehicleProfileID),
		})
	}

	return candidates
}

// mockSet produces an annotated synthetic route set.
func (s *Service) mockSet(ctx context.Context, req FindRoutesRequest) (*RouteSet, error) {
	candidates := s.mock.Generate(ctx, req, s.estimator)
	annotate(candidates)

	return &RouteSet{
		Origin:      Place{Query: req.OriginQuery, DisplayName: req.OriginQuery},
		Destination: Place{Query: req.DestinationQuery, DisplayName: req.DestinationQuery},
		Mode:        req.Mode,
		Routes:      candidates,
		Comparison:  compare(candidates),
		Source:      SourceMock,
	}, nil
}

// annotate sorts candidates by distance and fills in savings relative to
// the worst emitter. Sorting is stable so equal-distance candidates keep
// their profile slot order.
func annotate(candidates []RouteCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].DistanceMeters < candidates[j].DistanceMeters
	})

	emissions := make([]float64, len(candidates))
	for i := range candidates {
		emissions[i] = candidates[i].EmissionKg
	}

	for i, s := range scoring.AnnotateSavings(emissions) {
		candidates[i].SavingsKg = s.Kg
		candidates[i].SavingsPercent = s.Percent
	}
}

// compare builds the most/least efficient summary for a candidate set.
func compare(candidates []RouteCandidate) *Comparison {
	emissions := make([]float64, len(candidates))
	for i := range candidates {
		emissions[i] = candidates[i].EmissionKg
	}

	cmp := scoring.Compare(emissions)
	if cmp == nil {
		return nil
	}
	return &Comparison{
		MostEfficientID:  candidates[cmp.MostEfficientIndex].ID,
		LeastEfficientID: candidates[cmp.LeastEfficientIndex].ID,
		TotalSavingsKg:   cmp.TotalSavingsKg,
		SavingsPercent:   cmp.SavingsPercent,
	}
}

func toPlace(p *geocoding.Place) Place {
	return Place{
		Query:       p.Query,
		DisplayName: p.DisplayName,
		Lat:         p.Lat,
		Lon:         p.Lon,
	}
}

// newRouteID generates a unique route candidate ID with prefix.
func newRouteID() string {
	return "rte_" + uuid.New().String()[:22]
}
