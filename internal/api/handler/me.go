package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/greenroute/greenroute/internal/api/models"
	"github.com/greenroute/greenroute/internal/api/response"
	"github.com/greenroute/greenroute/internal/auth"
	"github.com/greenroute/greenroute/internal/user"
)

// MeHandler handles user account and preference endpoints.
type MeHandler struct {
	userService *user.Service
	authService *auth.Service
}

// NewMeHandler creates a new MeHandler.
func NewMeHandler(userService *user.Service, authService *auth.Service) *MeHandler {
	return &MeHandler{
		userService: userService,
		authService: authService,
	}
}

// GetMe handles GET /v1/me - get current user account summary.
func (h *MeHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	me, err := h.userService.GetMe(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			// Provision lazily for accounts created before profiles existed.
			if _, cerr := h.userService.CreateUser(r.Context(), userID, ""); cerr != nil {
				response.InternalError(w, r, "failed to load account")
				return
			}
			me, err = h.userService.GetMe(r.Context(), userID)
		}
		if err != nil {
			response.InternalError(w, r, "failed to load account")
			return
		}
	}

	h.attachIdentity(r, userID, me)
	response.JSON(w, r, http.StatusOK, me)
}

// UpdateMe handles PATCH /v1/me - update account settings.
func (h *MeHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	var input models.MeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if input.Units != nil && *input.Units != models.UnitsMetric && *input.Units != models.UnitsImperial {
		response.BadRequest(w, r, "units must be METRIC or IMPERIAL", []models.FieldError{
			{Field: "units", Message: "must be METRIC or IMPERIAL", Code: "invalid_enum"},
		})
		return
	}

	me, err := h.userService.UpdateMe(r.Context(), userID, &input)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, r, "account not found")
			return
		}
		response.InternalError(w, r, "failed to update account")
		return
	}

	h.attachIdentity(r, userID, me)
	response.JSON(w, r, http.StatusOK, me)
}

// GetPreferences handles GET /v1/me/preferences - get route planning defaults.
func (h *MeHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	prefs, err := h.userService.GetPreferences(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, r, "account not found")
			return
		}
		response.InternalError(w, r, "failed to load preferences")
		return
	}

	response.JSON(w, r, http.StatusOK, prefs)
}

// UpdatePreferences handles PUT /v1/me/preferences - update route planning defaults.
func (h *MeHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	var input models.PreferencesInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	prefs, err := h.userService.UpdatePreferences(r.Context(), userID, &input)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidMode):
			response.BadRequest(w, r, "invalid travel mode", []models.FieldError{
				{Field: "defaultMode", Message: "unknown travel mode", Code: "invalid_enum"},
			})
		case errors.Is(err, user.ErrUnknownVehicleProfile):
			response.BadRequest(w, r, "unknown vehicle profile", []models.FieldError{
				{Field: "defaultVehicleProfileId", Message: "unknown vehicle profile", Code: "invalid_enum"},
			})
		case errors.Is(err, user.ErrUserNotFound):
			response.NotFound(w, r, "account not found")
		default:
			response.InternalError(w, r, "failed to update preferences")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, prefs)
}

// attachIdentity fills email and name from the auth store. Profile storage
// only carries settings, identity lives with the credentials.
func (h *MeHandler) attachIdentity(r *http.Request, userID string, me *models.Me) {
	if h.authService == nil || me == nil {
		return
	}
	account, err := h.authService.GetUser(r.Context(), userID)
	if err != nil {
		return
	}
	me.Email = account.Email
	me.Name = account.Name
}
