package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/greenroute/greenroute/internal/api/models"
	"github.com/greenroute/greenroute/internal/api/response"
	"github.com/greenroute/greenroute/internal/emission"
	"github.com/greenroute/greenroute/internal/planner"
)

// RouteHandler handles route comparison endpoints.
type RouteHandler struct {
	planner *planner.Service
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(plannerService *planner.Service) *RouteHandler {
	return &RouteHandler{planner: plannerService}
}

// ComputeRoutes handles POST /v1/routes:compute - compute route options with
// emission estimates for an origin/destination/mode query.
func (h *RouteHandler) ComputeRoutes(w http.ResponseWriter, r *http.Request) {
	var input models.RouteComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	var fieldErrs []models.FieldError
	if strings.TrimSpace(input.Origin) == "" {
		fieldErrs = append(fieldErrs, models.FieldError{Field: "origin", Message: "origin is required", Code: "required"})
	}
	if strings.TrimSpace(input.Destination) == "" {
		fieldErrs = append(fieldErrs, models.FieldError{Field: "destination", Message: "destination is required", Code: "required"})
	}
	if len(fieldErrs) > 0 {
		response.BadRequest(w, r, "validation error", fieldErrs)
		return
	}

	req := planner.FindRoutesRequest{
		OriginQuery:      strings.TrimSpace(input.Origin),
		DestinationQuery: strings.TrimSpace(input.Destination),
		Mode:             emission.Mode(input.Mode),
	}
	if req.Mode == "" {
		req.Mode = emission.ModeDriving
	}
	if input.VehicleProfileID != nil {
		req.VehicleProfileID = *input.VehicleProfileID
	}

	set, err := h.planner.FindRoutes(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, planner.ErrInvalidMode):
			response.BadRequest(w, r, "invalid travel mode", []models.FieldError{
				{Field: "mode", Message: "unknown travel mode", Code: "invalid_enum"},
			})
		case errors.Is(err, planner.ErrUnknownVehicleProfile):
			response.BadRequest(w, r, "unknown vehicle profile", []models.FieldError{
				{Field: "vehicleProfileId", Message: "unknown vehicle profile", Code: "invalid_enum"},
			})
		case errors.Is(err, planner.ErrPlaceNotFound):
			response.BadRequest(w, r, err.Error(), nil)
		case errors.Is(err, planner.ErrNoRoutes):
			response.ServiceUnavailable(w, r, "no routes available for this query")
		default:
			response.InternalError(w, r, "route computation failed")
		}
		return
	}

	resp := toRouteComputeResponse(set)

	w.Header().Set("Cache-Control", "private, max-age=60")
	response.JSON(w, r, http.StatusOK, resp)
}

// toRouteComputeResponse maps a planner route set to the API shape.
func toRouteComputeResponse(set *planner.RouteSet) *models.RouteComputeResponse {
	resp := &models.RouteComputeResponse{
		Origin:      toResolvedPlace(set.Origin),
		Destination: toResolvedPlace(set.Destination),
		Mode:        models.Mode(set.Mode),
		Source:      models.RouteSource(set.Source),
		Routes:      make([]models.RouteOption, 0, len(set.Routes)),
		GeneratedAt: models.Timestamp(time.Now()),
	}

	for _, c := range set.Routes {
		opt := models.RouteOption{
			ID:               c.ID,
			Profile:          string(c.Profile),
			DistanceMeters:   c.DistanceMeters,
			DurationSeconds:  c.DurationSeconds,
			GeometryPolyline: c.GeometryPolyline,
			Summary:          c.Summary,
			EmissionKg:       c.EmissionKg,
			EmissionSource:   models.EmissionSource(c.EmissionSource),
			EcoScore:         c.EcoScore,
			SavingsKg:        c.SavingsKg,
			SavingsPercent:   c.SavingsPercent,
		}
		for _, step := range c.Instructions {
			opt.Instructions = append(opt.Instructions, models.Instruction{
				Text:           step.Text,
				DistanceMeters: step.DistanceMeters,
			})
		}
		resp.Routes = append(resp.Routes, opt)
	}

	if set.Comparison != nil {
		resp.Comparison = &models.RouteComparison{
			MostEfficientID:  set.Comparison.MostEfficientID,
			LeastEfficientID: set.Comparison.LeastEfficientID,
			TotalSavingsKg:   set.Comparison.TotalSavingsKg,
			SavingsPercent:   set.Comparison.SavingsPercent,
		}
	}

	return resp
}

func toResolvedPlace(p planner.Place) models.ResolvedPlace {
	place := models.ResolvedPlace{
		Query:       p.Query,
		DisplayName: p.DisplayName,
	}
	if p.Lat != 0 || p.Lon != 0 {
		place.Point = &models.Point{Lat: p.Lat, Lon: p.Lon}
	}
	return place
}
