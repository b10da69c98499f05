// FilePath: internal/aggregator/aggregator_test.go
package aggregator

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
	rangeErr error
}

func (m *mockReadingRepo) BeginTx(ctx context.Context) (database.Transaction, error) { return nil, nil }
func (m *mockReadingRepo) Insert(ctx context.Context, r *models.SensorReading) error { return nil }
func (m *mockReadingRepo) ListRange(ctx context.Context, start, end time.Time) ([]models.SensorReading, error) {
	if m.rangeErr != nil {
		return nil, m.rangeErr
	}
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

type mockAggregateRepo struct {
	inserted  []*models.DailyAggregate
	insertErr error
}

func (m *mockAggregateRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	return nil, nil
}
func (m *mockAggregateRepo) Insert(ctx context.Context, a *models.DailyAggregate) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, a)
	return nil
}
func (m *mockAggregateRepo) Get(ctx context.Context, day time.Time) (*models.DailyAggregate, error) {
	return nil, repository.ErrNotFound
}
func (m *mockAggregateRepo) ListRange(ctx context.Context, start, end time.Time) ([]models.DailyAggregate, error) {
	return nil, nil
}
func (m *mockAggregateRepo) ListRecent(ctx context.Context, limit int) ([]models.DailyAggregate, error) {
	return nil, nil
}
func (m *mockAggregateRepo) Count(ctx context.Context) (int64, error) { return 0, nil }

func testConfig() config.AggregatorConfig {
	return config.AggregatorConfig{SunlightLuxThreshold: 1000, UVIndexThreshold: 3.0}
}

func day(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
}

func reading(ts time.Time, lux, uv float64) models.SensorReading {
	return models.SensorReading{
		Timestamp: ts,
		Lux:       lux,
		UVIndex:   uv,
	}
}

func TestAggregateDay_SunlightHalfHour(t *testing.T) {
	d := day(t)
	readings := &mockReadingRepo{readings: []models.SensorReading{
		reading(d, 1200, 0),
		reading(d.Add(30*time.Minute), 1200, 0),
		reading(d.Add(60*time.Minute), 500, 0),
	}}
	aggregates := &mockAggregateRepo{}
	agg := New(readings, aggregates, nil, testConfig())

	result, err := agg.AggregateDay(context.Background(), d)
	require.NoError(t, err)
	require.NotNil(t, result)

	// 00:00 and 00:30 are above threshold and each bound a 30min interval;
	// the 01:00 reading has no successor.
	assert.Equal(t, 0.5, result.SunlightHours)
	assert.Equal(t, 3, result.TotalReadings)
	assert.Equal(t, d, result.CollectionStart)
	assert.Equal(t, d.Add(time.Hour), result.CollectionEnd)
}

func TestAggregateDay_NoReadingsAboveThreshold(t *testing.T) {
	d := day(t)
	readings := &mockReadingRepo{readings: []models.SensorReading{
		reading(d, 100, 1.0),
		reading(d.Add(time.Hour), 200, 2.0),
	}}
	aggregates := &mockAggregateRepo{}
	agg := New(readings, aggregates, nil, testConfig())

	result, err := agg.AggregateDay(context.Background(), d)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Zero(t, result.SunlightHours)
	assert.Zero(t, result.UVExposureHours)
}

func TestAggregateDay_UVExposure(t *testing.T) {
	d := day(t)
	readings := &mockReadingRepo{readings: []models.SensorReading{
		reading(d, 0, 4.0),
		reading(d.Add(10*time.Minute), 0, 5.0),
		reading(d.Add(20*time.Minute), 0, 2.0),
		reading(d.Add(30*time.Minute), 0, 6.0),
	}}
	aggregates := &mockAggregateRepo{}
	agg := New(readings, aggregates, nil, testConfig())

	result, err := agg.AggregateDay(context.Background(), d)
	require.NoError(t, err)
	require.NotNil(t, result)

	// Two above-threshold readings with successors, 10 minutes each; the
	// final reading contributes nothing.
	assert.InDelta(t, 0.33, result.UVExposureHours, 0.01)
	assert.Equal(t, 3.0, result.UVThreshold)
}

func TestAggregateDay_MinAvgMaxOrdering(t *testing.T) {
	d := day(t)
	base := []models.SensorReading{}
	for i, temp := range []float64{18.5, 24.0, 31.2, 22.7, 19.9} {
		r := reading(d.Add(time.Duration(i)*time.Hour), 0, 0)
		r.Temperature = temp
		r.Humidity = 40 + float64(i)*5
		r.MoisturePercent = 30 + float64(i)
		base = append(base, r)
	}
	readings := &mockReadingRepo{readings: base}
	aggregates := &mockAggregateRepo{}
	agg := New(readings, aggregates, nil, testConfig())

	result, err := agg.AggregateDay(context.Background(), d)
	require.NoError(t, err)
	require.NotNil(t, result)

	for name, stats := range map[string]models.MetricStats{
		"temperature": result.Temperature,
		"humidity":    result.Humidity,
		"moisture":    result.MoisturePercent,
	} {
		assert.LessOrEqual(t, stats.Min, stats.Avg, name)
		assert.LessOrEqual(t, stats.Avg, stats.Max, name)
	}
	assert.Equal(t, 18.5, result.Temperature.Min)
	assert.Equal(t, 31.2, result.Temperature.Max)
	assert.Equal(t, len(base), result.TotalReadings)
}

func TestAggregateDay_WaterLevelIsMoistureAverage(t *testing.T) {
	d := day(t)
	r1 := reading(d, 0, 0)
	r1.MoisturePercent = 40
	r2 := reading(d.Add(time.Hour), 0, 0)
	r2.MoisturePercent = 60
	readings := &mockReadingRepo{readings: []models.SensorReading{r1, r2}}
	aggregates := &mockAggregateRepo{}
	agg := New(readings, aggregates, nil, testConfig())

	result, err := agg.AggregateDay(context.Background(), d)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 50.0, result.WaterLevelAvg)
}

func TestAggregateDay_EmptyDayIsNoOp(t *testing.T) {
	readings := &mockReadingRepo{}
	aggregates := &mockAggregateRepo{}
	agg := New(readings, aggregates, nil, testConfig())

	result, err := agg.AggregateDay(context.Background(), day(t))
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Empty(t, aggregates.inserted)
}

func TestAggregateDay_DuplicateDayIsBenign(t *testing.T) {
	d := day(t)
	readings := &mockReadingRepo{readings: []models.SensorReading{
		reading(d, 1200, 0),
		reading(d.Add(time.Hour), 1200, 0),
	}}
	aggregates := &mockAggregateRepo{insertErr: repository.ErrDuplicate}
	agg := New(readings, aggregates, nil, testConfig())

	result, err := agg.AggregateDay(context.Background(), d)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestExposureHours_MonotonicallyNonDecreasing(t *testing.T) {
	d := day(t)
	readings := []models.SensorReading{
		reading(d, 1200, 0),
		reading(d.Add(10*time.Minute), 1200, 0),
	}

	previous := 0.0
	lux := func(r *models.SensorReading) float64 { return r.Lux }
	for i := 2; i < 10; i++ {
		readings = append(readings, reading(d.Add(time.Duration(i)*10*time.Minute), 1200, 0))
		current := exposureHours(readings, 1000, lux)
		assert.GreaterOrEqual(t, current, previous)
		previous = current
	}
}

func TestStartStop_Idempotent(t *testing.T) {
	agg := New(&mockReadingRepo{}, &mockAggregateRepo{}, nil, testConfig())

	agg.Start()
	agg.Start() // no-op
	agg.Stop()
	agg.Stop() // no-op
}

func TestUntilNextMidnight(t *testing.T) {
	now := time.Date(2026, 8, 29, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Hour, untilNextMidnight(now))
}
