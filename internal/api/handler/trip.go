package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/greenroute/greenroute/internal/api/models"
	"github.com/greenroute/greenroute/internal/api/response"
	"github.com/greenroute/greenroute/internal/trip"
)

// List pagination bounds.
const (
	defaultTripListLimit = 20
	maxTripListLimit     = 100
)

// TripHandler handles trip persistence endpoints.
type TripHandler struct {
	tripService *trip.Service
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *trip.Service) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// ListTrips handles GET /v1/trips - list the user's saved trips.
func (h *TripHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	limit := defaultTripListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.BadRequest(w, r, "limit must be a positive integer", []models.FieldError{
				{Field: "limit", Message: "must be a positive integer", Code: "invalid_value"},
			})
			return
		}
		limit = parsed
		if limit > maxTripListLimit {
			limit = maxTripListLimit
		}
	}

	cursor := r.URL.Query().Get("cursor")
	status := r.URL.Query().Get("status")

	page, err := h.tripService.List(r.Context(), userID, limit, cursor, status)
	if err != nil {
		var verr *trip.ValidationError
		if errors.As(err, &verr) {
			response.BadRequest(w, r, "validation error", verr.Errors)
			return
		}
		response.InternalError(w, r, "failed to list trips")
		return
	}

	response.JSON(w, r, http.StatusOK, page)
}

// CreateTrip handles POST /v1/trips - save a planned trip.
func (h *TripHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	var input models.TripCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	created, err := h.tripService.Create(r.Context(), userID, &input)
	if err != nil {
		var verr *trip.ValidationError
		if errors.As(err, &verr) {
			response.BadRequest(w, r, "validation error", verr.Errors)
			return
		}
		response.InternalError(w, r, "failed to create trip")
		return
	}

	response.Created(w, r, "/v1/trips/"+created.ID, created)
}

// GetTrip handles GET /v1/trips/{tripId} - fetch a single trip.
func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	tripID := chi.URLParam(r, "tripId")
	found, err := h.tripService.Get(r.Context(), userID, tripID)
	if err != nil {
		h.writeTripError(w, r, err, "failed to load trip")
		return
	}

	response.JSON(w, r, http.StatusOK, found)
}

// UpdateTripStatus handles PATCH /v1/trips/{tripId} - update trip status.
func (h *TripHandler) UpdateTripStatus(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	var input models.TripUpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	tripID := chi.URLParam(r, "tripId")
	updated, err := h.tripService.UpdateStatus(r.Context(), userID, tripID, &input)
	if err != nil {
		var verr *trip.ValidationError
		if errors.As(err, &verr) {
			response.BadRequest(w, r, "validation error", verr.Errors)
			return
		}
		h.writeTripError(w, r, err, "failed to update trip")
		return
	}

	response.JSON(w, r, http.StatusOK, updated)
}

// DeleteTrip handles DELETE /v1/trips/{tripId} - delete a trip.
func (h *TripHandler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	tripID := chi.URLParam(r, "tripId")
	if err := h.tripService.Delete(r.Context(), userID, tripID); err != nil {
		h.writeTripError(w, r, err, "failed to delete trip")
		return
	}

	response.NoContent(w, r)
}

// CarbonSummary handles GET /v1/trips/carbon-summary - aggregated savings.
func (h *TripHandler) CarbonSummary(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	summary, err := h.tripService.CarbonSummary(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "failed to compute carbon summary")
		return
	}

	response.JSON(w, r, http.StatusOK, summary)
}

// writeTripError maps trip domain errors onto problem responses. Ownership
// failures surface as 404 so trip IDs are not enumerable.
func (h *TripHandler) writeTripError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, trip.ErrTripNotFound), errors.Is(err, trip.ErrNotAuthorized):
		response.NotFound(w, r, "trip not found")
	default:
		response.InternalError(w, r, fallback)
	}
}
