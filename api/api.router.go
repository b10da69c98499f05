// FilePath: api/api.router.go
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hitarthombre/SoilSageServer/api/middleware"
	"github.com/hitarthombre/SoilSageServer/api/resources"
	"github.com/hitarthombre/SoilSageServer/internal/config"
	"github.com/hitarthombre/SoilSageServer/internal/soilservice"
)

type Router struct {
	router    *mux.Router
	auth      *middleware.JWTMiddleware
	resources *resources.Resources
}

func NewRouter(svc *soilservice.SoilService, authConfig config.AuthConfig) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		auth:      middleware.NewJWTMiddleware(authConfig),
		resources: resources.NewResources(svc),
	}

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	// API version prefix
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/health", r.resources.HealthCheck).Methods(http.MethodGet)
	api.HandleFunc("/keepalive", r.resources.KeepAlive).Methods(http.MethodGet)
	api.HandleFunc("/auth/register", r.resources.Auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", r.resources.Auth.Login).Methods(http.MethodPost)

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(r.auth.Authenticate)

	protected.HandleFunc("/auth/me", r.resources.Auth.Me).Methods(http.MethodGet)

	// Live sensor state
	sensors := protected.PathPrefix("/sensors").Subrouter()
	sensors.HandleFunc("/current", r.resources.Readings.GetCurrent).Methods(http.MethodGet)
	sensors.HandleFunc("/battery", r.resources.Readings.GetBattery).Methods(http.MethodGet)

	// Plant profiles
	plants := protected.PathPrefix("/plants").Subrouter()
	plants.HandleFunc("", r.resources.Plants.List).Methods(http.MethodGet)
	plants.HandleFunc("", r.resources.Plants.Upsert).Methods(http.MethodPut)
	plants.HandleFunc("/{name}/stages", r.resources.Plants.GetStages).Methods(http.MethodGet)
	plants.HandleFunc("/{name}/stages/{stage}", r.resources.Plants.GetStage).Methods(http.MethodGet)

	// Calibration
	calibration := protected.PathPrefix("/calibration").Subrouter()
	calibration.HandleFunc("", r.resources.Calibration.Calibrate).Methods(http.MethodPost)
	calibration.HandleFunc("/latest", r.resources.Calibration.GetLatest).Methods(http.MethodGet)

	// Reports and scoring
	reports := protected.PathPrefix("/reports").Subrouter()
	reports.HandleFunc("/data", r.resources.Reports.GetData).Methods(http.MethodGet)
	reports.HandleFunc("/last24h", r.resources.Reports.GetLast24Hours).Methods(http.MethodGet)
	reports.HandleFunc("/generate", r.resources.Reports.Generate).Methods(http.MethodPost)
	reports.HandleFunc("/download/{filename}", r.resources.Reports.Download).Methods(http.MethodGet)
	reports.HandleFunc("/score", r.resources.Reports.Score).Methods(http.MethodGet)
	reports.HandleFunc("/targets", r.resources.Reports.Targets).Methods(http.MethodGet)

	// System status
	status := protected.PathPrefix("/status").Subrouter()
	status.HandleFunc("", r.resources.Status.Get).Methods(http.MethodGet)
	status.HandleFunc("/history", r.resources.Status.History).Methods(http.MethodGet)
	status.HandleFunc("/logs", r.resources.Status.Logs).Methods(http.MethodGet)
	status.HandleFunc("/collect", r.resources.Status.Collect).Methods(http.MethodPost)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
