// FilePath: internal/calibration/calibration_test.go
package calibration

import (
	"context"
	"testing"
	"time"

	"github.com/hitarthombre/SoilSageServer/internal/database"
	"github.com/hitarthombre/SoilSageServer/internal/errors"
	"github.com/hitarthombre/SoilSageServer/internal/models"
	"github.com/hitarthombre/SoilSageServer/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReadingRepo struct {
	readings []models.SensorReading
}

func (m *mockReadingRepo) BeginTx(ctx context.Context) (database.Transaction, error) { return nil, nil }
func (m *mockReadingRepo) Insert(ctx context.Context, r *models.SensorReading) error { return nil }
func (m *mockReadingRepo) ListRange(ctx context.Context, start, end time.Time) ([]models.SensorReading, error) {
	return m.readings, nil
}
func (m *mockReadingRepo) ListRecent(ctx context.Context, limit int) ([]models.SensorReading, error) {
	return nil, nil
}
func (m *mockReadingRepo) Latest(ctx context.Context) (*models.SensorReading, error) {
	return nil, repository.ErrNotFound
}
func (m *mockReadingRepo) Oldest(ctx context.Context) (*models.SensorReading, error) {
	return nil, repository.ErrNotFound
}
func (m *mockReadingRepo) Count(ctx context.Context) (int64, error) { return 0, nil }
func (m *mockReadingRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type mockCalibrationRepo struct {
	inserted []*models.Calibration
	latest   *models.Calibration
}

func (m *mockCalibrationRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	return nil, nil
}
func (m *mockCalibrationRepo) Insert(ctx context.Context, c *models.Calibration) error {
	m.inserted = append(m.inserted, c)
	return nil
}
func (m *mockCalibrationRepo) GetLatest(ctx context.Context, fruit *string) (*models.Calibration, error) {
	if m.latest == nil {
		return nil, repository.ErrNotFound
	}
	return m.latest, nil
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 3.0, median([]float64{1, 2, 3, 4, 5}))
	assert.Equal(t, 2.5, median([]float64{1, 2, 3, 4}))
	assert.Equal(t, 7.0, median([]float64{7}))
}

func TestMedian_ReorderInvariant(t *testing.T) {
	assert.Equal(t, median([]float64{5, 1, 4, 2, 3}), median([]float64{1, 2, 3, 4, 5}))
	assert.Equal(t, median([]float64{4, 1, 3, 2}), median([]float64{1, 2, 3, 4}))
}

func TestMedian_DoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	median(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestAverage(t *testing.T) {
	assert.Equal(t, 3.0, average([]float64{1, 2, 3, 4, 5}))
	assert.Equal(t, average([]float64{5, 1, 4, 2, 3}), average([]float64{1, 2, 3, 4, 5}))
}

func TestCalibrate_MedianOverIdenticalReadings(t *testing.T) {
	readings := []models.SensorReading{}
	for i := 0; i < 7; i++ {
		readings = append(readings, models.SensorReading{
			Timestamp:       time.Now().Add(-time.Duration(i) * time.Hour),
			MoisturePercent: 45,
		})
	}
	repo := &mockCalibrationRepo{}
	engine := NewEngine(&mockReadingRepo{readings: readings}, repo)

	result, err := engine.Calibrate(context.Background(), nil, 7, models.StrategyMedian)
	require.NoError(t, err)
	require.NotNil(t, result.Targets.MoisturePercent)
	assert.Equal(t, 45.0, *result.Targets.MoisturePercent)
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, models.StrategyMedian, result.Strategy)
	assert.Equal(t, 7, result.SourceDays)
	assert.Nil(t, result.Fruit)
}

func TestCalibrate_AvgStrategy(t *testing.T) {
	readings := []models.SensorReading{
		{Temperature: 20}, {Temperature: 30},
	}
	engine := NewEngine(&mockReadingRepo{readings: readings}, &mockCalibrationRepo{})

	result, err := engine.Calibrate(context.Background(), nil, 7, models.StrategyAvg)
	require.NoError(t, err)
	require.NotNil(t, result.Targets.TemperatureC)
	assert.Equal(t, 25.0, *result.Targets.TemperatureC)
}

func TestCalibrate_MissingChannelsYieldNilTargets(t *testing.T) {
	readings := []models.SensorReading{
		{MoisturePercent: 45, Lux: 8000},
	}
	engine := NewEngine(&mockReadingRepo{readings: readings}, &mockCalibrationRepo{})

	result, err := engine.Calibrate(context.Background(), nil, 7, models.StrategyMedian)
	require.NoError(t, err)

	// Secondary and tertiary moisture channels were never reported.
	assert.Nil(t, result.Targets.MoisturePercent2)
	assert.Nil(t, result.Targets.MoisturePercent3)
	require.NotNil(t, result.Targets.SunlightLux)
	assert.Equal(t, 8000.0, *result.Targets.SunlightLux)
}

func TestCalibrate_OptionalChannelsWhenPresent(t *testing.T) {
	m2 := 33.0
	readings := []models.SensorReading{
		{MoisturePercent: 45, MoisturePercent2: &m2},
	}
	engine := NewEngine(&mockReadingRepo{readings: readings}, &mockCalibrationRepo{})

	result, err := engine.Calibrate(context.Background(), nil, 7, models.StrategyMedian)
	require.NoError(t, err)
	require.NotNil(t, result.Targets.MoisturePercent2)
	assert.Equal(t, 33.0, *result.Targets.MoisturePercent2)
}

func TestCalibrate_PlantScoped(t *testing.T) {
	fruit := "tomato"
	repo := &mockCalibrationRepo{}
	engine := NewEngine(&mockReadingRepo{readings: []models.SensorReading{{MoisturePercent: 50}}}, repo)

	result, err := engine.Calibrate(context.Background(), &fruit, 3, models.StrategyAvg)
	require.NoError(t, err)
	require.NotNil(t, result.Fruit)
	assert.Equal(t, "tomato", *result.Fruit)
}

func TestCalibrate_ValidatesInput(t *testing.T) {
	engine := NewEngine(&mockReadingRepo{}, &mockCalibrationRepo{})

	_, err := engine.Calibrate(context.Background(), nil, 0, models.StrategyMedian)
	assert.True(t, errors.IsValidation(err))

	_, err = engine.Calibrate(context.Background(), nil, 7, "mode")
	assert.True(t, errors.IsValidation(err))
}

func TestGetLatest_NotFound(t *testing.T) {
	engine := NewEngine(&mockReadingRepo{}, &mockCalibrationRepo{})

	_, err := engine.GetLatest(context.Background(), nil)
	assert.True(t, errors.IsNotFound(err))
}
