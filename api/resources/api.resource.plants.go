// FilePath: api/resources/api.resource.plants.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hitarthombre/SoilSageServer/internal/errors"
	"github.com/hitarthombre/SoilSageServer/internal/models"
	"github.com/hitarthombre/SoilSageServer/internal/soilservice"
	nuts "github.com/vaudience/go-nuts"
)

// PlantHandlers encapsulates the plant-profile HTTP handlers
type PlantHandlers struct {
	service *soilservice.SoilService
}

// @Summary List plants
// @Description Get all known plant names
// @Tags plants
// @Produce json
// @Success 200 {array} string
// @Router /plants [get]
// @Security BearerAuth
func (h *PlantHandlers) List(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	names, err := h.service.ListPlants(r.Context())
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, names)
}

// @Summary Get plant growth stages
// @Description Get the ordered growth stages for a plant
// @Tags plants
// @Produce json
// @Param name path string true "Plant name"
// @Success 200 {array} models.GrowthStage
// @Failure 404 {object} errors.APIError
// @Router /plants/{name}/stages [get]
// @Security BearerAuth
func (h *PlantHandlers) GetStages(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	name := mux.Vars(r)["name"]

	stages, err := h.service.GetPlantStages(r.Context(), name)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, stages)
}

// @Summary Get one growth stage
// @Description Get a named growth stage of a plant
// @Tags plants
// @Produce json
// @Param name path string true "Plant name"
// @Param stage path string true "Stage name"
// @Success 200 {object} models.GrowthStage
// @Failure 404 {object} errors.APIError
// @Router /plants/{name}/stages/{stage} [get]
// @Security BearerAuth
func (h *PlantHandlers) GetStage(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	vars := mux.Vars(r)

	stage, err := h.service.GetPlantStage(r.Context(), vars["name"], vars["stage"])
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, stage)
}

// @Summary Create or replace a plant profile
// @Description Upsert a plant profile with its growth stages
// @Tags plants
// @Accept json
// @Produce json
// @Param profile body models.PlantProfile true "Plant profile"
// @Success 200 {object} models.PlantProfile
// @Failure 400 {object} errors.APIError
// @Router /plants [put]
// @Security BearerAuth
func (h *PlantHandlers) Upsert(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var profile models.PlantProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	if err := h.service.UpsertPlant(r.Context(), &profile); err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}
