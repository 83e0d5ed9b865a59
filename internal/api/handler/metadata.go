package handler

import (
	"net/http"

	"github.com/greenroute/greenroute/internal/api/models"
	"github.com/greenroute/greenroute/internal/api/response"
	"github.com/greenroute/greenroute/internal/emission"
)

// MetadataHandler handles metadata endpoints.
type MetadataHandler struct{}

// NewMetadataHandler creates a new MetadataHandler.
func NewMetadataHandler() *MetadataHandler {
	return &MetadataHandler{}
}

// ListVehicleProfiles handles GET /v1/metadata/vehicle-profiles - the
// catalogue of selectable vehicle emission profiles.
func (h *MetadataHandler) ListVehicleProfiles(w http.ResponseWriter, r *http.Request) {
	profiles := emission.Profiles()

	list := models.VehicleProfileList{
		Items: make([]models.VehicleProfile, 0, len(profiles)),
	}
	for _, p := range profiles {
		list.Items = append(list.Items, models.VehicleProfile{
			ID:            p.ID,
			DisplayName:   p.DisplayName,
			Description:   p.Description,
			Category:      string(p.Category),
			FactorKgPerKm: p.FactorKgPerKm,
			Electric:      p.Electric,
		})
	}

	w.Header().Set("Cache-Control", "public, max-age=86400")
	response.JSON(w, r, http.StatusOK, list)
}

// GetEnums handles GET /v1/metadata/enums - get enum values used by the API.
func (h *MetadataHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	enums := models.Enums{
		Modes:        models.Modes(),
		TripStatuses: models.TripStatuses(),
	}

	w.Header().Set("Cache-Control", "public, max-age=86400")
	response.JSON(w, r, http.StatusOK, enums)
}
