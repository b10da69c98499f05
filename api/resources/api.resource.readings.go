// FilePath: api/resources/api.resource.readings.go
package resources

import (
	"net/http"

	"github.com/hitarthombre/SoilSageServer/internal/soilservice"
	nuts "github.com/vaudience/go-nuts"
)

// ReadingHandlers encapsulates the live-telemetry HTTP handlers
type ReadingHandlers struct {
	service *soilservice.SoilService
}

// @Summary Get current conditions
// @Description Get the most recent sensor reading
// @Tags sensors
// @Produce json
// @Success 200 {object} models.SensorReading
// @Failure 404 {object} errors.APIError
// @Router /sensors/current [get]
// @Security BearerAuth
func (h *ReadingHandlers) GetCurrent(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	reading, err := h.service.GetCurrentReading(r.Context())
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, reading)
}

// @Summary Get battery status
// @Description Get the sensor unit's battery state from the latest reading
// @Tags sensors
// @Produce json
// @Success 200 {object} soilservice.BatteryStatus
// @Failure 404 {object} errors.APIError
// @Router /sensors/battery [get]
// @Security BearerAuth
func (h *ReadingHandlers) GetBattery(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	status, err := h.service.GetBatteryStatus(r.Context())
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, status)
}
