// FilePath: api/resources/api.resource.status.go
package resources

import (
	"net/http"

	"github.com/hitarthombre/SoilSageServer/internal/soilservice"
	nuts "github.com/vaudience/go-nuts"
)

// StatusHandlers encapsulates the system-status HTTP handlers
type StatusHandlers struct {
	service *soilservice.SoilService
}

// @Summary Get system status
// @Description Get pipeline health: counts, reading bounds, collector state
// @Tags status
// @Produce json
// @Success 200 {object} soilservice.SystemStatus
// @Router /status [get]
// @Security BearerAuth
func (h *StatusHandlers) Get(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	status, err := h.service.GetSystemStatus(r.Context())
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, status)
}

// @Summary Get collection history
// @Description Get the most recent readings, newest first
// @Tags status
// @Produce json
// @Param limit query int false "Maximum readings to return"
// @Success 200 {array} models.SensorReading
// @Router /status/history [get]
// @Security BearerAuth
func (h *StatusHandlers) History(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	readings, err := h.service.GetCollectionHistory(r.Context(), getLimitParam(r, 50))
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, readings)
}

// @Summary Get collection logs
// @Description Get hourly-grouped collection counts for the trailing hours
// @Tags status
// @Produce json
// @Param hours query int false "Hours to cover (default 24)"
// @Success 200 {array} soilservice.HourlyLog
// @Router /status/logs [get]
// @Security BearerAuth
func (h *StatusHandlers) Logs(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	hours := getLimitParamNamed(r, "hours", 24)
	logs, err := h.service.GetCollectionLogs(r.Context(), hours)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, logs)
}

// @Summary Trigger collection
// @Description Perform one out-of-band collection tick
// @Tags status
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errors.APIError
// @Router /status/collect [post]
// @Security BearerAuth
func (h *StatusHandlers) Collect(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	if err := h.service.TriggerCollection(r.Context()); err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "collected"})
}
