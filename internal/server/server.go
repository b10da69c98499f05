// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/hitarthombre/SoilSageServer/api"
	"github.com/hitarthombre/SoilSageServer/internal/aggregator"
	"github.com/hitarthombre/SoilSageServer/internal/cache"
	"github.com/hitarthombre/SoilSageServer/internal/calibration"
	"github.com/hitarthombre/SoilSageServer/internal/collector"
	"github.com/hitarthombre/SoilSageServer/internal/config"
	"github.com/hitarthombre/SoilSageServer/internal/database"
	"github.com/hitarthombre/SoilSageServer/internal/monitoring"
	"github.com/hitarthombre/SoilSageServer/internal/report"
	"github.com/hitarthombre/SoilSageServer/internal/repository/postgres"
	"github.com/hitarthombre/SoilSageServer/internal/scoring"
	"github.com/hitarthombre/SoilSageServer/internal/soilservice"
	"github.com/hitarthombre/SoilSageServer/internal/source"
	nuts "github.com/vaudience/go-nuts"
)

// Server represents our HTTP server
type Server struct {
	config      *config.Config
	srv         *http.Server
	soilservice *soilservice.SoilService
	monitoring  *monitoring.Service
	events      *nuts.EventEmitter
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	return &Server{
		config:     cfg,
		monitoring: monitoring.NewService(),
		events:     nuts.NewEventEmitter(),
	}
}

// Start wires the pipeline, begins the timers and listens for requests.
func (s *Server) Start() error {
	svc, err := s.initializeSoilService()
	if err != nil {
		return err
	}
	s.soilservice = svc
	if err := svc.Validate(); err != nil {
		return err
	}

	s.setupEventHandlers()

	router := api.NewRouter(svc, s.config.Auth)
	cors := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins([]string{s.config.Server.CORSOrigin}),
		gorillahandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	s.srv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port),
		Handler:      cors(router),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
	}

	svc.Collector.Start()
	svc.Aggregator.Start()

	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	s.soilservice.Collector.Stop()
	s.soilservice.Aggregator.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	if s.soilservice.Snapshots != nil {
		s.soilservice.Snapshots.Close()
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

// setupEventHandlers forwards pipeline events to monitoring.
func (s *Server) setupEventHandlers() {
	s.events.On("reading.collected", "monitoring_handler", func(args ...interface{}) {
		if len(args) > 0 {
			if id, ok := args[0].(string); ok {
				s.monitoring.RecordEvent("reading_collected", map[string]string{"reading_id": id})
			}
		}
	})

	s.events.On("day.aggregated", "monitoring_handler", func(args ...interface{}) {
		if len(args) > 0 {
			if id, ok := args[0].(string); ok {
				s.monitoring.RecordEvent("day_aggregated", map[string]string{"aggregate_id": id})
			}
		}
	})
}

// initializeSoilService creates and wires the full pipeline.
func (s *Server) initializeSoilService() (*soilservice.SoilService, error) {
	db := initDB(s.config.Database)

	readings, err := postgres.NewSensorDataRepository(db)
	if err != nil {
		return nil, err
	}
	aggregates, err := postgres.NewDailyAggregateRepository(db)
	if err != nil {
		return nil, err
	}
	calibrations, err := postgres.NewCalibrationRepository(db)
	if err != nil {
		return nil, err
	}
	plants, err := postgres.NewPlantProfileRepository(db)
	if err != nil {
		return nil, err
	}
	users, err := postgres.NewUserRepository(db)
	if err != nil {
		return nil, err
	}

	adapter, err := source.NewFirebaseSource(s.config.Source)
	if err != nil {
		return nil, err
	}

	// The cache is an optimization; a missing redis only costs store reads.
	snapshots, err := cache.NewSnapshotCache(s.config.Redis)
	if err != nil {
		nuts.L.Warnf("[Server] Snapshot cache disabled: %v", err)
		snapshots = nil
	}

	col := collector.New(adapter, readings, snapshots, s.events, s.config.Collector)
	agg := aggregator.New(readings, aggregates, s.events, s.config.Aggregator)
	cal := calibration.NewEngine(readings, calibrations)
	scorer := scoring.NewScorer(readings, calibrations, plants, s.config.Targets)

	reports, err := report.NewService(readings, aggregates, report.NewTextRenderer(), s.config.Reports.Dir)
	if err != nil {
		return nil, err
	}

	return soilservice.New(
		s.config,
		readings, aggregates, calibrations, plants, users,
		col, agg, cal, scorer, reports, snapshots,
	), nil
}

func initDB(cfg config.DatabaseConfig) database.DB {
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to connect to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.Ping(ctx); err != nil {
		nuts.L.Fatalf("[Server] Failed to ping database: %v", err)
	}
	return db
}
