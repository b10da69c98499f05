// FilePath: internal/soilservice/soilservice.go
package soilservice

import (
	"context"

	"github.com/hitarthombre/SoilSageServer/internal/aggregator"
	"github.com/hitarthombre/SoilSageServer/internal/cache"
	"github.com/hitarthombre/SoilSageServer/internal/calibration"
	"github.com/hitarthombre/SoilSageServer/internal/collector"
	"github.com/hitarthombre/SoilSageServer/internal/config"
	"github.com/hitarthombre/SoilSageServer/internal/errors"
	"github.com/hitarthombre/SoilSageServer/internal/report"
	"github.com/hitarthombre/SoilSageServer/internal/repository"
	"github.com/hitarthombre/SoilSageServer/internal/scoring"
)

// SoilService contains all repositories, engines and service-wide dependencies
type SoilService struct {
	Readings     repository.SensorDataRepository
	Aggregates   repository.DailyAggregateRepository
	Calibrations repository.CalibrationRepository
	Plants       repository.PlantProfileRepository
	Users        repository.UserRepository

	Collector   *collector.Collector
	Aggregator  *aggregator.Aggregator
	Calibration *calibration.Engine
	Scorer      *scoring.Scorer
	Reports     *report.Service
	Snapshots   *cache.SnapshotCache

	Config *config.Config
}

// New creates a new SoilService instance
func New(
	cfg *config.Config,
	readings repository.SensorDataRepository,
	aggregates repository.DailyAggregateRepository,
	calibrations repository.CalibrationRepository,
	plants repository.PlantProfileRepository,
	users repository.UserRepository,
	col *collector.Collector,
	agg *aggregator.Aggregator,
	cal *calibration.Engine,
	scorer *scoring.Scorer,
	reports *report.Service,
	snapshots *cache.SnapshotCache,
) *SoilService {
	return &SoilService{
		Config:       cfg,
		Readings:     readings,
		Aggregates:   aggregates,
		Calibrations: calibrations,
		Plants:       plants,
		Users:        users,
		Collector:    col,
		Aggregator:   agg,
		Calibration:  cal,
		Scorer:       scorer,
		Reports:      reports,
		Snapshots:    snapshots,
	}
}

// Validate checks if all required dependencies are initialized
func (s *SoilService) Validate() error {
	if s.Readings == nil {
		return ErrMissingDependency("readings")
	}
	if s.Aggregates == nil {
		return ErrMissingDependency("aggregates")
	}
	if s.Calibrations == nil {
		return ErrMissingDependency("calibrations")
	}
	if s.Plants == nil {
		return ErrMissingDependency("plants")
	}
	if s.Users == nil {
		return ErrMissingDependency("users")
	}
	if s.Collector == nil {
		return ErrMissingDependency("collector")
	}
	if s.Aggregator == nil {
		return ErrMissingDependency("aggregator")
	}
	return nil
}

func ErrMissingDependency(name string) error {
	return errors.NewInternalError("missing dependency: "+name, nil)
}

type contextKey string

const userRolesKey contextKey = "user_roles"

// WithUserRoles stores the caller's roles in the request context.
func WithUserRoles(ctx context.Context, roles []string) context.Context {
	return context.WithValue(ctx, userRolesKey, roles)
}

// GetUserRoles retrieves user roles from context
func GetUserRoles(ctx context.Context) []string {
	if roles, ok := ctx.Value(userRolesKey).([]string); ok {
		return roles
	}
	return []string{"user"}
}
