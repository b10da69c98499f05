// FilePath: internal/repository/postgres/postgres.calibration.go
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

type CalibrationRepo struct {
	PostgresBaseRepo
}

// calibrationRow flattens the nested target set for sqlx scanning.
type calibrationRow struct {
	ID                     string    `db:"id"`
	Fruit                  *string   `db:"fruit"`
	SourceDays             int       `db:"source_days"`
	Strategy               string    `db:"strategy"`
	CalculatedAt           time.Time `db:"calculated_at"`
	TargetSunlightLux      *float64  `db:"target_sunlight_lux"`
	TargetMoisturePercent  *float64  `db:"target_moisture_percent"`
	TargetMoisturePercent2 *float64  `db:"target_moisture_percent_2"`
	TargetMoisturePercent3 *float64  `db:"target_moisture_percent_3"`
	TargetTemperatureC     *float64  `db:"target_temperature_c"`
	TargetHumidityPercent  *float64  `db:"target_humidity_percent"`
	TargetUVIndex          *float64  `db:"target_uv_index"`
	CreatedAt              time.Time `db:"created_at"`
}

func NewCalibrationRepository(db database.DB) (*CalibrationRepo, error) {
	repo := &CalibrationRepo{PostgresBaseRepo{db: db}}
	if err := repo.initializeSchema(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *CalibrationRepo) initializeSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS calibrations (
			id TEXT PRIMARY KEY,
			fruit TEXT,
			source_days INTEGER NOT NULL DEFAULT 7,
			strategy TEXT NOT NULL DEFAULT 'median',
			calculated_at TIMESTAMPTZ NOT NULL,
			target_sunlight_lux DOUBLE PRECISION,
			target_moisture_percent DOUBLE PRECISION,
			target_moisture_percent_2 DOUBLE PRECISION,
			target_moisture_percent_3 DOUBLE PRECISION,
			target_temperature_c DOUBLE PRECISION,
			target_humidity_percent DOUBLE PRECISION,
			target_uv_index DOUBLE PRECISION,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_calibrations_fruit_calculated_at
			ON calibrations(fruit, calculated_at DESC)`,
	}

	for _, query := range queries {
		if _, err := r.db.GetDB().Exec(query); err != nil {
			return errors.NewDatabaseError("failed to initialize calibrations schema", err)
		}
	}
	return nil
}

func (r *CalibrationRepo) Insert(ctx context.Context, calibration *models.Calibration) error {
	if calibration.ID == "" {
		calibration.ID = nuts.NID("cal", 12)
	}
	if calibration.CreatedAt.IsZero() {
		calibration.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO calibrations (
			id, fruit, source_days, strategy, calculated_at,
			target_sunlight_lux, target_moisture_percent, target_moisture_percent_2,
			target_moisture_percent_3, target_temperature_c, target_humidity_percent,
			target_uv_index, created_at
		) VALUES (
			:id, :fruit, :source_days, :strategy, :calculated_at,
			:target_sunlight_lux, :target_moisture_percent, :target_moisture_percent_2,
			:target_moisture_percent_3, :target_temperature_c, :target_humidity_percent,
			:target_uv_index, :created_at
		)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, toCalibrationRow(calibration))
	if err != nil {
		return errors.NewDatabaseError("failed to insert calibration", err)
	}
	return nil
}

// GetLatest returns the most recent calibration for the fruit key. A nil fruit
// matches global calibrations only.
func (r *CalibrationRepo) GetLatest(ctx context.Context, fruit *string) (*models.Calibration, error) {
	row := calibrationRow{}
	var err error
	if fruit == nil {
		query := `
			SELECT * FROM calibrations
			WHERE fruit IS NULL
			ORDER BY calculated_at DESC
			LIMIT 1`
		err = r.db.GetDB().GetContext(ctx, &row, query)
	} else {
		query := `
			SELECT * FROM calibrations
			WHERE fruit = $1
			ORDER BY calculated_at DESC
			LIMIT 1`
		err = r.db.GetDB().GetContext(ctx, &row, query, *fruit)
	}

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get latest calibration", err)
	}
	return fromCalibrationRow(&row), nil
}

func toCalibrationRow(c *models.Calibration) *calibrationRow {
	return &calibrationRow{
		ID:                     c.ID,
		Fruit:                  c.Fruit,
		SourceDays:             c.SourceDays,
		Strategy:               c.Strategy,
		CalculatedAt:           c.CalculatedAt,
		TargetSunlightLux:      c.Targets.SunlightLux,
		TargetMoisturePercent:  c.Targets.MoisturePercent,
		TargetMoisturePercent2: c.Targets.MoisturePercent2,
		TargetMoisturePercent3: c.Targets.MoisturePercent3,
		TargetTemperatureC:     c.Targets.TemperatureC,
		TargetHumidityPercent:  c.Targets.HumidityPercent,
		TargetUVIndex:          c.Targets.UVIndex,
		CreatedAt:              c.CreatedAt,
	}
}

func fromCalibrationRow(row *calibrationRow) *models.Calibration {
	return &models.Calibration{
		ID:           row.ID,
		Fruit:        row.Fruit,
		SourceDays:   row.SourceDays,
		Strategy:     row.Strategy,
		CalculatedAt: row.CalculatedAt,
		Targets: models.CalibrationTargets{
			SunlightLux:      row.TargetSunlightLux,
			MoisturePercent:  row.TargetMoisturePercent,
			MoisturePercent2: row.TargetMoisturePercent2,
			MoisturePercent3: row.TargetMoisturePercent3,
			TemperatureC:     row.TargetTemperatureC,
			HumidityPercent:  row.TargetHumidityPercent,
			UVIndex:          row.TargetUVIndex,
		},
		CreatedAt: row.CreatedAt,
	}
}
