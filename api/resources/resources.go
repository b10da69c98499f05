// FilePath: api/resources/resources.go
package resources

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/hitarthombre/SoilSageServer/internal/errors"
	"github.com/hitarthombre/SoilSageServer/internal/soilservice"
	nuts "github.com/vaudience/go-nuts"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Auth        *AuthHandlers
	Readings    *ReadingHandlers
	Plants      *PlantHandlers
	Calibration *CalibrationHandlers
	Reports     *ReportHandlers
	Status      *StatusHandlers
}

// NewResources creates a new Resources instance
func NewResources(svc *soilservice.SoilService) *Resources {
	return &Resources{
		Auth:        &AuthHandlers{service: svc},
		Readings:    &ReadingHandlers{service: svc},
		Plants:      &PlantHandlers{service: svc},
		Calibration: &CalibrationHandlers{service: svc},
		Reports:     &ReportHandlers{service: svc},
		Status:      &StatusHandlers{service: svc},
	}
}

// HealthCheck reports liveness.
func (r *Resources) HealthCheck(w http.ResponseWriter, req *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": nuts.GetVersion(),
	})
}

// KeepAlive exists for uptime pingers that expect a cheap 200.
func (r *Resources) KeepAlive(w http.ResponseWriter, req *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Helper functions

func getLimitParam(r *http.Request, fallback int) int {
	return getLimitParamNamed(r, "limit", fallback)
}

func getLimitParamNamed(r *http.Request, name string, fallback int) int {
	value, _ := strconv.Atoi(r.URL.Query().Get(name))
	if value <= 0 {
		return fallback
	}
	return value
}

// fruitParam returns the optional plant scope from the query string.
func fruitParam(r *http.Request) *string {
	fruit := r.URL.Query().Get("fruit")
	if fruit == "" {
		return nil
	}
	return &fruit
}

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	nuts.L.Errorf("[API] %s", err.Error())
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// respondWithAPIError maps any error to its APIError form, defaulting to an
// internal error for plain errors.
func respondWithAPIError(w http.ResponseWriter, err error, requestID string) {
	if apiErr, ok := err.(*errors.APIError); ok {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}
	respondWithError(w, errors.NewInternalError("internal error", err).WithRequestID(requestID))
}
