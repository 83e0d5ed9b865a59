package emission

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the emission service.
type ServiceConfig struct {
	// Remote is the external estimation client. Optional; when nil the
	// service always uses the local factor model.
	Remote RemoteEstimator

	// RemoteEnabled gates the remote call. Consulted per estimate so a
	// feature flag can flip it at runtime.
	RemoteEnabled func() bool

	// Timeout bounds the remote call (default: 10 seconds).
	Timeout time.Duration

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service resolves emission estimates remote-first with a local fallback.
// It never returns an error: every request produces a usable estimate and
// the Source tag records which path produced it.
type Service struct {
	remote        RemoteEstimator
	remoteEnabled func() bool
	timeout       time.Duration
	logger        zerolog.Logger
}

// NewService creates a new emission service.
func NewService(cfg ServiceConfig) *Service {
	timeout := cfg.Timeout
	if timeout == 0 || timeout > 10*time.Second {
		timeout = 10 * time.Second
	}

	enabled := cfg.RemoteEnabled
	if enabled == nil {
		enabled = func() bool { return true }
	}

	return &Service{
		remote:        cfg.Remote,
		remoteEnabled: enabled,
		timeout:       timeout,
		logger:        cfg.Logger,
	}
}

// Estimate resolves the emission for a single route candidate.
func (s *Service) Estimate(ctx context.Context, req EstimateRequest) Estimate {
	if s.remote != nil && s.remoteEnabled() {
		if est, err := s.estimateRemote(ctx, req); err == nil {
			return est
		}
	}

	est := EstimateLocal(req.DistanceMeters, req.Mode, req.VehicleProfileID)

	s.logger.Debug().
		Float64("distance_m", req.DistanceMeters).
		Str("mode", string(req.Mode)).
		Str("vehicle_profile", req.VehicleProfileID).
		Float64("emission_kg", est.EmissionKg).
		Msg("using local emission estimate")

	return est
}

// estimateRemote attempts the external estimation endpoint.
func (s *Service) estimateRemote(ctx context.Context, req EstimateRequest) (Estimate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	mapping := MappingFor(req.VehicleProfileID, req.Mode)

	kg, err := s.remote.EstimateEmission(ctx, RemoteRequest{
		DistanceKm:  req.DistanceMeters / 1000,
		VehicleType: mapping.VehicleType,
		FuelType:    mapping.FuelType,
		Origin:      req.OriginHint,
		Destination: req.DestinationHint,
		Mode:        req.Mode,
	})
	if err != nil {
		s.logger.Warn().Err(err).
			Str("provider", s.remote.Name()).
			Str("mode", string(req.Mode)).
			Msg("remote emission estimate failed, falling back to local model")
		return Estimate{}, err
	}

	return Estimate{EmissionKg: kg, Source: SourceRemote}, nil
}
