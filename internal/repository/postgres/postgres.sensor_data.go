// FilePath: internal/repository/postgres/postgres.sensor_data.go
package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/hitarthombre/SoilSageServer/internal/database"
	"github.com/hitarthombre/SoilSageServer/internal/errors"
	"github.com/hitarthombre/SoilSageServer/internal/models"
	"github.com/hitarthombre/SoilSageServer/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

type SensorDataRepo struct {
	PostgresBaseRepo
}

func NewSensorDataRepository(db database.DB) (*SensorDataRepo, error) {
	repo := &SensorDataRepo{PostgresBaseRepo{db: db}}
	if err := repo.initializeSchema(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *SensorDataRepo) initializeSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sensor_readings (
			id TEXT PRIMARY KEY,
			timestamp TIMESTAMPTZ NOT NULL,
			battery_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
			battery_voltage DOUBLE PRECISION NOT NULL DEFAULT 0,
			humidity DOUBLE PRECISION NOT NULL DEFAULT 0,
			irradiance DOUBLE PRECISION NOT NULL DEFAULT 0,
			lux DOUBLE PRECISION NOT NULL DEFAULT 0,
			moisture_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
			moisture_percent_2 DOUBLE PRECISION,
			moisture_percent_3 DOUBLE PRECISION,
			moisture_raw DOUBLE PRECISION NOT NULL DEFAULT 0,
			temperature DOUBLE PRECISION NOT NULL DEFAULT 0,
			uv_index DOUBLE PRECISION NOT NULL DEFAULT 0,
			uv_intensity DOUBLE PRECISION NOT NULL DEFAULT 0,
			uv_raw DOUBLE PRECISION NOT NULL DEFAULT 0,
			uv_voltage DOUBLE PRECISION NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sensor_readings_timestamp
			ON sensor_readings(timestamp)`,
	}

	for _, query := range queries {
		if _, err := r.db.GetDB().Exec(query); err != nil {
			return errors.NewDatabaseError("failed to initialize sensor_readings schema", err)
		}
	}
	return nil
}

func (r *SensorDataRepo) Insert(ctx context.Context, reading *models.SensorReading) error {
	if reading.ID == "" {
		reading.ID = nuts.NID("sr", 12)
	}
	query := `
		INSERT INTO sensor_readings (
			id, timestamp, battery_percent, battery_voltage, humidity, irradiance,
			lux, moisture_percent, moisture_percent_2, moisture_percent_3,
			moisture_raw, temperature, uv_index, uv_intensity, uv_raw, uv_voltage
		) VALUES (
			:id, :timestamp, :battery_percent, :battery_voltage, :humidity, :irradiance,
			:lux, :moisture_percent, :moisture_percent_2, :moisture_percent_3,
			:moisture_raw, :temperature, :uv_index, :uv_intensity, :uv_raw, :uv_voltage
		)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, reading)
	if err != nil {
		return errors.NewDatabaseError("failed to insert sensor reading", err)
	}
	return nil
}

// ListRange returns readings with timestamp in [start, end), oldest first.
func (r *SensorDataRepo) ListRange(ctx context.Context, start, end time.Time) ([]models.SensorReading, error) {
	readings := []models.SensorReading{}
	query := `
		SELECT * FROM sensor_readings
		WHERE timestamp >= $1 AND timestamp < $2
		ORDER BY timestamp ASC`

	err := r.db.GetDB().SelectContext(ctx, &readings, query, start, end)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list sensor readings", err)
	}
	return readings, nil
}

// ListRecent returns the most recent readings, newest first.
func (r *SensorDataRepo) ListRecent(ctx context.Context, limit int) ([]models.SensorReading, error) {
	readings := []models.SensorReading{}
	query := `
		SELECT * FROM sensor_readings
		ORDER BY timestamp DESC
		LIMIT $1`

	err := r.db.GetDB().SelectContext(ctx, &readings, query, limit)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list recent sensor readings", err)
	}
	return readings, nil
}

func (r *SensorDataRepo) Latest(ctx context.Context) (*models.SensorReading, error) {
	return r.edge(ctx, "DESC")
}

func (r *SensorDataRepo) Oldest(ctx context.Context) (*models.SensorReading, error) {
	return r.edge(ctx, "ASC")
}

func (r *SensorDataRepo) edge(ctx context.Context, order string) (*models.SensorReading, error) {
	reading := &models.SensorReading{}
	query := `SELECT * FROM sensor_readings ORDER BY timestamp ` + order + ` LIMIT 1`

	err := r.db.GetDB().GetContext(ctx, reading, query)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get sensor reading", err)
	}
	return reading, nil
}

func (r *SensorDataRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetDB().GetContext(ctx, &count, `SELECT COUNT(*) FROM sensor_readings`)
	if err != nil {
		return 0, errors.NewDatabaseError("failed to count sensor readings", err)
	}
	return count, nil
}

// DeleteExpired removes readings older than the retention cutoff and returns
// the number of rows removed.
func (r *SensorDataRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.GetDB().ExecContext(ctx,
		`DELETE FROM sensor_readings WHERE timestamp < $1`, before)
	if err != nil {
		return 0, errors.NewDatabaseError("failed to delete expired readings", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows > 0 {
		nuts.L.Infof("[SensorDataRepo] Expired %d readings older than %v", rows, before)
	}
	return rows, nil
}
