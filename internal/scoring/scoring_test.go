// FilePath: internal/scoring/scoring_test.go
package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/hitarthombre/SoilSageServer/internal/config"
	"github.com/hitarthombre/SoilSageServer/internal/database"
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
	result := []models.SensorReading{}
	for _, r := range m.readings {
		if !r.Timestamp.Before(start) && r.Timestamp.Before(end) {
			result = append(result, r)
		}
	}
	return result, nil
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
	byFruit map[string]*models.Calibration
	global  *models.Calibration
}

func (m *mockCalibrationRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	return nil, nil
}
func (m *mockCalibrationRepo) Insert(ctx context.Context, c *models.Calibration) error { return nil }
func (m *mockCalibrationRepo) GetLatest(ctx context.Context, fruit *string) (*models.Calibration, error) {
	if fruit == nil {
		if m.global == nil {
			return nil, repository.ErrNotFound
		}
		return m.global, nil
	}
	if c, ok := m.byFruit[*fruit]; ok {
		return c, nil
	}
	return nil, repository.ErrNotFound
}

type mockProfileRepo struct {
	profiles map[string]*models.PlantProfile
}

func (m *mockProfileRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	return nil, nil
}
func (m *mockProfileRepo) GetByName(ctx context.Context, name string) (*models.PlantProfile, error) {
	if p, ok := m.profiles[name]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}
func (m *mockProfileRepo) ListNames(ctx context.Context) ([]string, error)            { return nil, nil }
func (m *mockProfileRepo) Upsert(ctx context.Context, p *models.PlantProfile) error   { return nil }

func testDefaults() config.TargetDefaults {
	return config.TargetDefaults{
		SunlightLux:     10000,
		MoisturePercent: 45,
		TemperatureC:    24,
		HumidityPercent: 60,
		UVIndex:         4,
	}
}

func newTestScorer(readings *mockReadingRepo, calibrations *mockCalibrationRepo, profiles *mockProfileRepo) *Scorer {
	if readings == nil {
		readings = &mockReadingRepo{}
	}
	if calibrations == nil {
		calibrations = &mockCalibrationRepo{}
	}
	if profiles == nil {
		profiles = &mockProfileRepo{}
	}
	return NewScorer(readings, calibrations, profiles, testDefaults())
}

func TestDeviationScore(t *testing.T) {
	// Exact match scores top marks.
	assert.Equal(t, 4, DeviationScore(100, 100))
	// 60% off scores zero.
	assert.Equal(t, 0, DeviationScore(160, 100))
	// Band edges: 10% is still top, just over drops to 3.
	assert.Equal(t, 4, DeviationScore(110, 100))
	assert.Equal(t, 3, DeviationScore(111, 100))
	assert.Equal(t, 2, DeviationScore(125, 100))
	assert.Equal(t, 1, DeviationScore(135, 100))
	assert.Equal(t, 0, DeviationScore(151, 100))
	// Deviation is symmetric.
	assert.Equal(t, DeviationScore(80, 100), DeviationScore(120, 100))
}

func TestDeviationScore_ZeroTarget(t *testing.T) {
	// With a zero target the absolute observation is the deviation.
	assert.Equal(t, 4, DeviationScore(0, 0))
	assert.Equal(t, 0, DeviationScore(0.6, 0))
}

func TestConditionLabel(t *testing.T) {
	assert.Equal(t, "N/A", ConditionLabel(nil))
	assert.Equal(t, "Good", ConditionLabel(ptr(4.0)))
	assert.Equal(t, "Good", ConditionLabel(ptr(3.6)))
	assert.Equal(t, "Favourable", ConditionLabel(ptr(3.59)))
	assert.Equal(t, "Favourable", ConditionLabel(ptr(2.6)))
	assert.Equal(t, "Average", ConditionLabel(ptr(1.6)))
	assert.Equal(t, "Poor", ConditionLabel(ptr(0.6)))
	assert.Equal(t, "Worst", ConditionLabel(ptr(0.5)))
	assert.Equal(t, "Worst", ConditionLabel(ptr(0.0)))
}

func TestScoreDay_PerfectConditions(t *testing.T) {
	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	readings := &mockReadingRepo{readings: []models.SensorReading{
		{Timestamp: day.Add(10 * time.Minute), Lux: 10000, MoisturePercent: 45, Temperature: 24, Humidity: 60, UVIndex: 4},
		{Timestamp: day.Add(20 * time.Minute), Lux: 10000, MoisturePercent: 45, Temperature: 24, Humidity: 60, UVIndex: 4},
	}}
	scorer := newTestScorer(readings, nil, nil)

	result, err := scorer.ScoreDay(context.Background(), day, nil)
	require.NoError(t, err)
	require.NotNil(t, result.Score)
	assert.Equal(t, 4.0, *result.Score)
	assert.Equal(t, "Good", result.Condition)
	assert.Empty(t, result.Suggestions)
	assert.Len(t, result.Buckets, 24)

	// Only hour 0 has readings; every other bucket is N/A.
	require.NotNil(t, result.Buckets[0].Score)
	assert.Equal(t, 4.0, *result.Buckets[0].Score)
	assert.Nil(t, result.Buckets[1].Score)
	assert.Equal(t, "N/A", result.Buckets[1].Condition)
}

func TestScoreDay_FarOffConditions(t *testing.T) {
	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	// Every metric more than 60% away from its default target.
	readings := &mockReadingRepo{readings: []models.SensorReading{
		{Timestamp: day.Add(5 * time.Minute), Lux: 100, MoisturePercent: 5, Temperature: 60, Humidity: 10, UVIndex: 11},
	}}
	scorer := newTestScorer(readings, nil, nil)

	result, err := scorer.ScoreDay(context.Background(), day, nil)
	require.NoError(t, err)
	require.NotNil(t, result.Score)
	assert.Equal(t, 0.0, *result.Score)
	assert.Equal(t, "Worst", result.Condition)
	assert.NotEmpty(t, result.Suggestions)
}

func TestScoreDay_EmptyDay(t *testing.T) {
	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	scorer := newTestScorer(nil, nil, nil)

	result, err := scorer.ScoreDay(context.Background(), day, nil)
	require.NoError(t, err)
	assert.Nil(t, result.Score)
	assert.Equal(t, "N/A", result.Condition)
	assert.Empty(t, result.Suggestions)
}

func TestSuggestions_Bands(t *testing.T) {
	targets := &Targets{
		SunlightLux:     ptr(10000.0),
		MoisturePercent: ptr(45.0),
		TemperatureC:    ptr(24.0),
		HumidityPercent: ptr(60.0),
		UVIndex:         ptr(4.0),
	}

	// Every metric violates its band.
	observed := MetricAverages{
		Lux:             ptr(5000.0), // -50% relative
		MoisturePercent: ptr(30.0),   // -15 absolute
		Temperature:     ptr(30.0),   // +6 absolute
		Humidity:        ptr(80.0),   // +20 absolute
		UVIndex:         ptr(6.0),    // +2 over
	}
	assert.Len(t, suggestions(observed, targets), 5)

	// Everything inside its band stays quiet.
	observed = MetricAverages{
		Lux:             ptr(9000.0),
		MoisturePercent: ptr(47.0),
		Temperature:     ptr(25.0),
		Humidity:        ptr(65.0),
		UVIndex:         ptr(4.5),
	}
	assert.Empty(t, suggestions(observed, targets))
}

func TestSuggestions_MissingDataIsSilent(t *testing.T) {
	targets := &Targets{MoisturePercent: ptr(45.0)}
	assert.Empty(t, suggestions(MetricAverages{}, targets))
}

func TestConditionScore_ExcludesUnscorableMetrics(t *testing.T) {
	// Only moisture has both a target and data; the score is moisture's alone.
	targets := &Targets{MoisturePercent: ptr(45.0)}
	observed := MetricAverages{
		MoisturePercent: ptr(45.0),
		Temperature:     ptr(60.0), // no target, excluded
	}
	score := conditionScore(observed, targets)
	require.NotNil(t, score)
	assert.Equal(t, 4.0, *score)
}

func TestConditionScore_NoScorableMetric(t *testing.T) {
	assert.Nil(t, conditionScore(MetricAverages{}, &Targets{}))
}
