// FilePath: internal/repository/postgres/postgres.daily_aggregate.go
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

type DailyAggregateRepo struct {
	PostgresBaseRepo
}

// dailyAggregateRow flattens the nested min/max/avg triples for sqlx scanning.
type dailyAggregateRow struct {
	ID                 string    `db:"id"`
	Day                time.Time `db:"day"`
	SunlightHours      float64   `db:"sunlight_hours"`
	WaterLevelAvg      float64   `db:"water_level_avg"`
	UVExposureHours    float64   `db:"uv_exposure_hours"`
	UVThreshold        float64   `db:"uv_threshold"`
	TemperatureMin     float64   `db:"temperature_min"`
	TemperatureMax     float64   `db:"temperature_max"`
	TemperatureAvg     float64   `db:"temperature_avg"`
	HumidityMin        float64   `db:"humidity_min"`
	HumidityMax        float64   `db:"humidity_max"`
	HumidityAvg        float64   `db:"humidity_avg"`
	MoisturePercentMin float64   `db:"moisture_percent_min"`
	MoisturePercentMax float64   `db:"moisture_percent_max"`
	MoisturePercentAvg float64   `db:"moisture_percent_avg"`
	UVIndexMin         float64   `db:"uv_index_min"`
	UVIndexMax         float64   `db:"uv_index_max"`
	UVIndexAvg         float64   `db:"uv_index_avg"`
	LuxMin             float64   `db:"lux_min"`
	LuxMax             float64   `db:"lux_max"`
	LuxAvg             float64   `db:"lux_avg"`
	TotalReadings      int       `db:"total_readings"`
	CollectionStart    time.Time `db:"collection_start"`
	CollectionEnd      time.Time `db:"collection_end"`
	CreatedAt          time.Time `db:"created_at"`
}

func NewDailyAggregateRepository(db database.DB) (*DailyAggregateRepo, error) {
	repo := &DailyAggregateRepo{PostgresBaseRepo{db: db}}
	if err := repo.initializeSchema(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *DailyAggregateRepo) initializeSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS daily_aggregates (
			id TEXT PRIMARY KEY,
			day TIMESTAMPTZ NOT NULL UNIQUE,
			sunlight_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
			water_level_avg DOUBLE PRECISION NOT NULL DEFAULT 0,
			uv_exposure_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
			uv_threshold DOUBLE PRECISION NOT NULL DEFAULT 3.0,
			temperature_min DOUBLE PRECISION NOT NULL,
			temperature_max DOUBLE PRECISION NOT NULL,
			temperature_avg DOUBLE PRECISION NOT NULL,
			humidity_min DOUBLE PRECISION NOT NULL,
			humidity_max DOUBLE PRECISION NOT NULL,
			humidity_avg DOUBLE PRECISION NOT NULL,
			moisture_percent_min DOUBLE PRECISION NOT NULL,
			moisture_percent_max DOUBLE PRECISION NOT NULL,
			moisture_percent_avg DOUBLE PRECISION NOT NULL,
			uv_index_min DOUBLE PRECISION NOT NULL,
			uv_index_max DOUBLE PRECISION NOT NULL,
			uv_index_avg DOUBLE PRECISION NOT NULL,
			lux_min DOUBLE PRECISION NOT NULL,
			lux_max DOUBLE PRECISION NOT NULL,
			lux_avg DOUBLE PRECISION NOT NULL,
			total_readings INTEGER NOT NULL DEFAULT 0,
			collection_start TIMESTAMPTZ NOT NULL,
			collection_end TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_daily_aggregates_day ON daily_aggregates(day)`,
	}

	for _, query := range queries {
		if _, err := r.db.GetDB().Exec(query); err != nil {
			return errors.NewDatabaseError("failed to initialize daily_aggregates schema", err)
		}
	}
	return nil
}

func (r *DailyAggregateRepo) Insert(ctx context.Context, aggregate *models.DailyAggregate) error {
	if aggregate.ID == "" {
		aggregate.ID = nuts.NID("da", 12)
	}
	if aggregate.CreatedAt.IsZero() {
		aggregate.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO daily_aggregates (
			id, day, sunlight_hours, water_level_avg, uv_exposure_hours, uv_threshold,
			temperature_min, temperature_max, temperature_avg,
			humidity_min, humidity_max, humidity_avg,
			moisture_percent_min, moisture_percent_max, moisture_percent_avg,
			uv_index_min, uv_index_max, uv_index_avg,
			lux_min, lux_max, lux_avg,
			total_readings, collection_start, collection_end, created_at
		) VALUES (
			:id, :day, :sunlight_hours, :water_level_avg, :uv_exposure_hours, :uv_threshold,
			:temperature_min, :temperature_max, :temperature_avg,
			:humidity_min, :humidity_max, :humidity_avg,
			:moisture_percent_min, :moisture_percent_max, :moisture_percent_avg,
			:uv_index_min, :uv_index_max, :uv_index_avg,
			:lux_min, :lux_max, :lux_avg,
			:total_readings, :collection_start, :collection_end, :created_at
		)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, toAggregateRow(aggregate))
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return errors.NewDatabaseError("failed to insert daily aggregate", err)
	}
	return nil
}

func (r *DailyAggregateRepo) Get(ctx context.Context, day time.Time) (*models.DailyAggregate, error) {
	row := dailyAggregateRow{}
	query := `SELECT * FROM daily_aggregates WHERE day = $1`

	err := r.db.GetDB().GetContext(ctx, &row, query, day)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get daily aggregate", err)
	}
	return fromAggregateRow(&row), nil
}

// ListRange returns aggregates with day in [start, end], oldest first.
func (r *DailyAggregateRepo) ListRange(ctx context.Context, start, end time.Time) ([]models.DailyAggregate, error) {
	rows := []dailyAggregateRow{}
	query := `
		SELECT * FROM daily_aggregates
		WHERE day >= $1 AND day <= $2
		ORDER BY day ASC`

	err := r.db.GetDB().SelectContext(ctx, &rows, query, start, end)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list daily aggregates", err)
	}
	return fromAggregateRows(rows), nil
}

// ListRecent returns the most recent aggregates, newest first.
func (r *DailyAggregateRepo) ListRecent(ctx context.Context, limit int) ([]models.DailyAggregate, error) {
	rows := []dailyAggregateRow{}
	query := `
		SELECT * FROM daily_aggregates
		ORDER BY day DESC
		LIMIT $1`

	err := r.db.GetDB().SelectContext(ctx, &rows, query, limit)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list recent daily aggregates", err)
	}
	return fromAggregateRows(rows), nil
}

func (r *DailyAggregateRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetDB().GetContext(ctx, &count, `SELECT COUNT(*) FROM daily_aggregates`)
	if err != nil {
		return 0, errors.NewDatabaseError("failed to count daily aggregates", err)
	}
	return count, nil
}

func toAggregateRow(a *models.DailyAggregate) *dailyAggregateRow {
	return &dailyAggregateRow{
		ID:                 a.ID,
		Day:                a.Day,
		SunlightHours:      a.SunlightHours,
		WaterLevelAvg:      a.WaterLevelAvg,
		UVExposureHours:    a.UVExposureHours,
		UVThreshold:        a.UVThreshold,
		TemperatureMin:     a.Temperature.Min,
		TemperatureMax:     a.Temperature.Max,
		TemperatureAvg:     a.Temperature.Avg,
		HumidityMin:        a.Humidity.Min,
		HumidityMax:        a.Humidity.Max,
		HumidityAvg:        a.Humidity.Avg,
		MoisturePercentMin: a.MoisturePercent.Min,
		MoisturePercentMax: a.MoisturePercent.Max,
		MoisturePercentAvg: a.MoisturePercent.Avg,
		UVIndexMin:         a.UVIndex.Min,
		UVIndexMax:         a.UVIndex.Max,
		UVIndexAvg:         a.UVIndex.Avg,
		LuxMin:             a.Lux.Min,
		LuxMax:             a.Lux.Max,
		LuxAvg:             a.Lux.Avg,
		TotalReadings:      a.TotalReadings,
		CollectionStart:    a.CollectionStart,
		CollectionEnd:      a.CollectionEnd,
		CreatedAt:          a.CreatedAt,
	}
}

func fromAggregateRow(row *dailyAggregateRow) *models.DailyAggregate {
	return &models.DailyAggregate{
		ID:              row.ID,
		Day:             row.Day,
		SunlightHours:   row.SunlightHours,
		WaterLevelAvg:   row.WaterLevelAvg,
		UVExposureHours: row.UVExposureHours,
		UVThreshold:     row.UVThreshold,
		Temperature:     models.MetricStats{Min: row.TemperatureMin, Max: row.TemperatureMax, Avg: row.TemperatureAvg},
		Humidity:        models.MetricStats{Min: row.HumidityMin, Max: row.HumidityMax, Avg: row.HumidityAvg},
		MoisturePercent: models.MetricStats{Min: row.MoisturePercentMin, Max: row.MoisturePercentMax, Avg: row.MoisturePercentAvg},
		UVIndex:         models.MetricStats{Min: row.UVIndexMin, Max: row.UVIndexMax, Avg: row.UVIndexAvg},
		Lux:             models.MetricStats{Min: row.LuxMin, Max: row.LuxMax, Avg: row.LuxAvg},
		TotalReadings:   row.TotalReadings,
		CollectionStart: row.CollectionStart,
		CollectionEnd:   row.CollectionEnd,
		CreatedAt:       row.CreatedAt,
	}
}

func fromAggregateRows(rows []dailyAggregateRow) []models.DailyAggregate {
	aggregates := make([]models.DailyAggregate, 0, len(rows))
	for i := range rows {
		aggregates = append(aggregates, *fromAggregateRow(&rows[i]))
	}
	return aggregates
}
