// FilePath: api/resources/api.resource.calibration.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/hitarthombre/SoilSageServer/internal/errors"
	"github.com/hitarthombre/SoilSageServer/internal/soilservice"
	nuts "github.com/vaudience/go-nuts"
)

// CalibrationHandlers encapsulates the calibration HTTP handlers
type CalibrationHandlers struct {
	service *soilservice.SoilService
}

type calibrateRequest struct {
	Days     int     `json:"days"`
	Strategy string  `json:"strategy"`
	Fruit    *string `json:"fruit"`
}

// @Summary Run calibration
// @Description Compute and persist new targets from the trailing reading window
// @Tags calibration
// @Accept json
// @Produce json
// @Param options body calibrateRequest false "Calibration options"
// @Success 201 {object} models.Calibration
// @Failure 400 {object} errors.APIError
// @Router /calibration [post]
// @Security BearerAuth
func (h *CalibrationHandlers) Calibrate(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	req := calibrateRequest{
		Days:     h.service.Config.Calibration.DefaultDays,
		Strategy: h.service.Config.Calibration.DefaultStrategy,
	}
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
			return
		}
	}

	calibration, err := h.service.Calibration.Calibrate(r.Context(), req.Fruit, req.Days, req.Strategy)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusCreated, calibration)
}

// @Summary Get latest calibration
// @Description Get the most recent calibration, optionally scoped to a plant
// @Tags calibration
// @Produce json
// @Param fruit query string false "Plant name"
// @Success 200 {object} models.Calibration
// @Failure 404 {object} errors.APIError
// @Router /calibration/latest [get]
// @Security BearerAuth
func (h *CalibrationHandlers) GetLatest(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	calibration, err := h.service.Calibration.GetLatest(r.Context(), fruitParam(r))
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, calibration)
}
