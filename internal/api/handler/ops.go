// Package handler provides HTTP handlers for the GreenRoute API.
package handler

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sony/gobreaker/v2"

	"github.com/greenroute/greenroute/internal/api/models"
	"github.com/greenroute/greenroute/internal/api/response"
	"github.com/greenroute/greenroute/internal/geocoding"
	"github.com/greenroute/greenroute/internal/provider/resilience"
	"github.com/greenroute/greenroute/internal/routing"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string

	pool      *pgxpool.Pool
	registry  *resilience.Registry
	geocoding *geocoding.Service
	routing   *routing.Service
}

// OpsHandlerConfig holds the dependencies surfaced by the ops endpoints.
// Any field may be nil, the corresponding check is then skipped.
type OpsHandlerConfig struct {
	Version   string
	BuildTime string
	Pool      *pgxpool.Pool
	Registry  *resilience.Registry
	Geocoding *geocoding.Service
	Routing   *routing.Service
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(cfg OpsHandlerConfig) *OpsHandler {
	return &OpsHandler{
		version:   cfg.Version,
		buildTime: cfg.BuildTime,
		pool:      cfg.Pool,
		registry:  cfg.Registry,
		geocoding: cfg.Geocoding,
		routing:   cfg.Routing,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
// Fails when the database is unreachable.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	if h.pool != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.pool.Ping(ctx); err != nil {
			health.Status = models.HealthStatusFail
			health.Details = map[string]interface{}{"database": err.Error()}
			response.JSON(w, r, http.StatusServiceUnavailable, health)
			return
		}
	}

	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - provider and subsystem status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())
	status := models.SystemStatus{
		Status: models.HealthStatusOK,
		Time:   now,
	}

	status.Subsystems = h.subsystemStatus(r.Context())
	status.Providers = h.providerStatus()

	for _, s := range status.Subsystems {
		if s.Status == models.HealthStatusFail {
			status.Status = models.HealthStatusFail
			break
		}
		if s.Status == models.HealthStatusDegraded {
			status.Status = models.HealthStatusDegraded
		}
	}
	for _, p := range status.Providers {
		if status.Status == models.HealthStatusOK && p.Status != models.HealthStatusOK {
			status.Status = models.HealthStatusDegraded
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}

// subsystemStatus checks the database and reports service cache fill.
func (h *OpsHandler) subsystemStatus(ctx context.Context) []models.SubsystemStatus {
	var subsystems []models.SubsystemStatus

	if h.pool != nil {
		dbStatus := models.HealthStatusOK
		var detail *string
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := h.pool.Ping(pingCtx); err != nil {
			dbStatus = models.HealthStatusFail
			msg := err.Error()
			detail = &msg
		}
		cancel()
		subsystems = append(subsystems, models.SubsystemStatus{
			Name:   "postgres",
			Status: dbStatus,
			Detail: detail,
		})
	}

	if h.geocoding != nil {
		stats := h.geocoding.CacheStats()
		detail := cacheDetail(stats.FreshEntries, stats.TotalEntries)
		subsystems = append(subsystems, models.SubsystemStatus{
			Name:   "geocoding-cache",
			Status: models.HealthStatusOK,
			Detail: &detail,
		})
	}

	if h.routing != nil {
		stats := h.routing.CacheStats()
		detail := cacheDetail(stats.FreshEntries, stats.TotalEntries)
		subsystems = append(subsystems, models.SubsystemStatus{
			Name:   "routing-cache",
			Status: models.HealthStatusOK,
			Detail: &detail,
		})
	}

	return subsystems
}

// providerStatus maps circuit breaker states onto provider health.
func (h *OpsHandler) providerStatus() []models.ProviderStatus {
	if h.registry == nil {
		return nil
	}

	all := h.registry.GetAllHealth()
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	providers := make([]models.ProviderStatus, 0, len(all))
	for _, p := range all {
		status := models.HealthStatusOK
		switch p.CircuitState {
		case gobreaker.StateOpen:
			status = models.HealthStatusFail
		case gobreaker.StateHalfOpen:
			status = models.HealthStatusDegraded
		}

		ps := models.ProviderStatus{
			Provider: p.Name,
			Status:   status,
		}
		if p.LastSuccessAt != nil {
			ts := models.Timestamp(*p.LastSuccessAt)
			ps.LastSuccessAt = &ts
		}
		if p.LastFailureAt != nil {
			ts := models.Timestamp(*p.LastFailureAt)
			ps.LastFailureAt = &ts
		}
		if p.LastError != "" {
			msg := p.LastError
			ps.Message = &msg
		}
		providers = append(providers, ps)
	}

	return providers
}

func cacheDetail(fresh, total int) string {
	return fmt.Sprintf("fresh %d/%d", fresh, total)
}
