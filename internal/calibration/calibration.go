// FilePath: internal/calibration/calibration.go
package calibration

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/hitarthombre/SoilSageServer/internal/errors"
	"github.com/hitarthombre/SoilSageServer/internal/models"
	"github.com/hitarthombre/SoilSageServer/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// Engine derives per-metric target values from the trailing window of raw
// readings and persists them as calibration snapshots.
type Engine struct {
	readings     repository.SensorDataRepository
	calibrations repository.CalibrationRepository
}

func NewEngine(readings repository.SensorDataRepository, calibrations repository.CalibrationRepository) *Engine {
	return &Engine{readings: readings, calibrations: calibrations}
}

// Calibrate computes a new calibration over the last days*24h of readings
// using the given strategy ("median" or "avg"). A non-nil fruit scopes the
// calibration to that plant; nil writes the global calibration.
func (e *Engine) Calibrate(ctx context.Context, fruit *string, days int, strategy string) (*models.Calibration, error) {
	if days < 1 {
		return nil, errors.NewValidationError("days must be at least 1", nil)
	}
	if strategy != models.StrategyMedian && strategy != models.StrategyAvg {
		return nil, errors.NewValidationError("strategy must be median or avg", nil)
	}

	now := time.Now()
	readings, err := e.readings.ListRange(ctx, now.Add(-time.Duration(days)*24*time.Hour), now)
	if err != nil {
		return nil, err
	}

	calibration := &models.Calibration{
		Fruit:        fruit,
		SourceDays:   days,
		Strategy:     strategy,
		CalculatedAt: now,
		Targets:      computeTargets(readings, strategy),
	}

	if err := e.calibrations.Insert(ctx, calibration); err != nil {
		return nil, err
	}

	scope := "global"
	if fruit != nil {
		scope = *fruit
	}
	nuts.L.Infof("[Calibration] Calibrated %s over %d readings (%d days, %s)",
		scope, len(readings), days, strategy)
	return calibration, nil
}

// GetLatest returns the most recent calibration for the fruit scope.
func (e *Engine) GetLatest(ctx context.Context, fruit *string) (*models.Calibration, error) {
	calibration, err := e.calibrations.GetLatest(ctx, fruit)
	if err == repository.ErrNotFound {
		return nil, errors.NewNotFoundError("no calibration found", err)
	}
	if err != nil {
		return nil, err
	}
	return calibration, nil
}

func computeTargets(readings []models.SensorReading, strategy string) models.CalibrationTargets {
	return models.CalibrationTargets{
		SunlightLux: computeStat(collect(readings, func(r *models.SensorReading) (float64, bool) {
			return r.Lux, true
		}), strategy),
		MoisturePercent: computeStat(collect(readings, func(r *models.SensorReading) (float64, bool) {
			return r.MoisturePercent, true
		}), strategy),
		MoisturePercent2: computeStat(collect(readings, func(r *models.SensorReading) (float64, bool) {
			if r.MoisturePercent2 == nil {
				return 0, false
			}
			return *r.MoisturePercent2, true
		}), strategy),
		MoisturePercent3: computeStat(collect(readings, func(r *models.SensorReading) (float64, bool) {
			if r.MoisturePercent3 == nil {
				return 0, false
			}
			return *r.MoisturePercent3, true
		}), strategy),
		TemperatureC: computeStat(collect(readings, func(r *models.SensorReading) (float64, bool) {
			return r.Temperature, true
		}), strategy),
		HumidityPercent: computeStat(collect(readings, func(r *models.SensorReading) (float64, bool) {
			return r.Humidity, true
		}), strategy),
		UVIndex: computeStat(collect(readings, func(r *models.SensorReading) (float64, bool) {
			return r.UVIndex, true
		}), strategy),
	}
}

func collect(readings []models.SensorReading, value func(*models.SensorReading) (float64, bool)) []float64 {
	values := make([]float64, 0, len(readings))
	for i := range readings {
		if v, ok := value(&readings[i]); ok {
			values = append(values, v)
		}
	}
	return values
}

// computeStat reduces the values with the strategy, or returns nil when there
// is nothing to reduce. Metrics with no data contribute no target.
func computeStat(values []float64, strategy string) *float64 {
	if len(values) == 0 {
		return nil
	}
	var result float64
	if strategy == models.StrategyMedian {
		result = median(values)
	} else {
		result = average(values)
	}
	result = math.Round(result*100) / 100
	return &result
}

// median sorts a copy and takes the midpoint; the mean of the two middle
// values for an even count.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func average(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
