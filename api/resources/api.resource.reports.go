// FilePath: api/resources/api.resource.reports.go
package resources

import (
	"net/http"
	"reflect"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/hitarthombre/SoilSageServer/internal/errors"
	"github.com/hitarthombre/SoilSageServer/internal/soilservice"
	nuts "github.com/vaudience/go-nuts"
)

// ReportHandlers encapsulates the report and scoring HTTP handlers
type ReportHandlers struct {
	service *soilservice.SoilService
}

// queryDecoder decodes query strings into typed parameter structs.
var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.RegisterConverter(time.Time{}, func(value string) reflect.Value {
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			return reflect.ValueOf(t)
		}
		if t, err := time.Parse("2006-01-02", value); err == nil {
			return reflect.ValueOf(t)
		}
		return reflect.Value{}
	})
	return d
}

type rangeParams struct {
	Start time.Time `schema:"start"`
	End   time.Time `schema:"end"`
}

func (p *rangeParams) defaults() {
	if p.End.IsZero() {
		p.End = time.Now()
	}
	if p.Start.IsZero() {
		p.Start = p.End.Add(-24 * time.Hour)
	}
}

// @Summary Get report data
// @Description Get readings, aggregates and summary for a time range
// @Tags reports
// @Produce json
// @Param start query string false "Range start (RFC3339 or YYYY-MM-DD)"
// @Param end query string false "Range end (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} report.Data
// @Router /reports/data [get]
// @Security BearerAuth
func (h *ReportHandlers) GetData(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var params rangeParams
	if err := queryDecoder.Decode(&params, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}
	params.defaults()

	data, err := h.service.Reports.ReportData(r.Context(), params.Start, params.End)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, data)
}

// @Summary Get last 24 hours
// @Description Get the trailing day of readings and aggregates
// @Tags reports
// @Produce json
// @Success 200 {object} report.Data
// @Router /reports/last24h [get]
// @Security BearerAuth
func (h *ReportHandlers) GetLast24Hours(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	data, err := h.service.Reports.Last24Hours(r.Context())
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, data)
}

type generateParams struct {
	Start time.Time `schema:"start"`
	End   time.Time `schema:"end"`
	Type  string    `schema:"type"`
}

func (p *generateParams) defaults() {
	if p.End.IsZero() {
		p.End = time.Now()
	}
	if p.Start.IsZero() {
		p.Start = p.End.Add(-24 * time.Hour)
	}
}

// @Summary Generate a report
// @Description Render and store a report document for a time range
// @Tags reports
// @Produce json
// @Param start query string false "Range start"
// @Param end query string false "Range end"
// @Param type query string false "Report type: daily or detailed (default detailed)"
// @Success 201 {object} map[string]string
// @Router /reports/generate [post]
// @Security BearerAuth
func (h *ReportHandlers) Generate(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var params generateParams
	if err := queryDecoder.Decode(&params, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}
	params.defaults()

	filename, err := h.service.Reports.Generate(r.Context(), params.Start, params.End, params.Type)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"filename": filename})
}

// @Summary Download a report
// @Description Stream a previously generated report document
// @Tags reports
// @Produce octet-stream
// @Param filename path string true "Report filename"
// @Success 200
// @Failure 404 {object} errors.APIError
// @Router /reports/download/{filename} [get]
// @Security BearerAuth
func (h *ReportHandlers) Download(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	filename := mux.Vars(r)["filename"]

	document, err := h.service.Reports.Open(filename)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	w.Write(document)
}

type scoreParams struct {
	Day   time.Time `schema:"day"`
	Fruit string    `schema:"fruit"`
}

// @Summary Score a day
// @Description Grade a day's readings against resolved targets, bucketed hourly
// @Tags reports
// @Produce json
// @Param day query string false "Day (YYYY-MM-DD, default today)"
// @Param fruit query string false "Plant name"
// @Success 200 {object} scoring.DayScore
// @Router /reports/score [get]
// @Security BearerAuth
func (h *ReportHandlers) Score(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var params scoreParams
	if err := queryDecoder.Decode(&params, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}
	if params.Day.IsZero() {
		params.Day = time.Now()
	}
	var fruit *string
	if params.Fruit != "" {
		fruit = &params.Fruit
	}

	score, err := h.service.Scorer.ScoreDay(r.Context(), params.Day, fruit)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, score)
}

// @Summary Resolve targets
// @Description Get the effective condition targets for a plant
// @Tags reports
// @Produce json
// @Param fruit query string false "Plant name"
// @Success 200 {object} scoring.Targets
// @Router /reports/targets [get]
// @Security BearerAuth
func (h *ReportHandlers) Targets(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	targets, err := h.service.Scorer.ResolveTargets(r.Context(), fruitParam(r))
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, targets)
}
