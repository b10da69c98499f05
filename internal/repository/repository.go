// FilePath: internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/hitarthombre/SoilSageServer/internal/database"
	"github.com/hitarthombre/SoilSageServer/internal/models"
)

var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicate indicates that a resource already exists
	ErrDuplicate = errors.New("resource already exists")
	// ErrInvalidInput indicates that the input data is invalid
	ErrInvalidInput = errors.New("invalid input")
)

// SensorDataRepository defines the interface for raw telemetry readings.
// Readings are append-only; the store expires them past the retention window.
type SensorDataRepository interface {
	database.Repository
	Insert(ctx context.Context, reading *models.SensorReading) error
	ListRange(ctx context.Context, start, end time.Time) ([]models.SensorReading, error)
	ListRecent(ctx context.Context, limit int) ([]models.SensorReading, error)
	Latest(ctx context.Context) (*models.SensorReading, error)
	Oldest(ctx context.Context) (*models.SensorReading, error)
	Count(ctx context.Context) (int64, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// DailyAggregateRepository defines the interface for per-day rollups.
// The day key is unique; Insert returns ErrDuplicate on a second aggregate
// for the same day.
type DailyAggregateRepository interface {
	database.Repository
	Insert(ctx context.Context, aggregate *models.DailyAggregate) error
	Get(ctx context.Context, day time.Time) (*models.DailyAggregate, error)
	ListRange(ctx context.Context, start, end time.Time) ([]models.DailyAggregate, error)
	ListRecent(ctx context.Context, limit int) ([]models.DailyAggregate, error)
	Count(ctx context.Context) (int64, error)
}

// CalibrationRepository defines the interface for calibration snapshots.
// A nil fruit addresses the global calibration history.
type CalibrationRepository interface {
	database.Repository
	Insert(ctx context.Context, calibration *models.Calibration) error
	GetLatest(ctx context.Context, fruit *string) (*models.Calibration, error)
}

// PlantProfileRepository defines the interface for curated plant reference data.
type PlantProfileRepository interface {
	database.Repository
	GetByName(ctx context.Context, name string) (*models.PlantProfile, error)
	ListNames(ctx context.Context) ([]string, error)
	Upsert(ctx context.Context, profile *models.PlantProfile) error
}

// UserRepository defines the interface for account storage.
type UserRepository interface {
	database.Repository
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
