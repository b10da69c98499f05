// FilePath: internal/collector/collector_test.go
package collector

import (
	"context"
	"testing"
	"time"

	"github.com/hitarthombre/SoilSageServer/internal/config"
	"github.com/hitarthombre/SoilSageServer/internal/database"
	"github.com/hitarthombre/SoilSageServer/internal/errors"
	"github.com/hitarthombre/SoilSageServer/internal/models"
	"github.com/hitarthombre/SoilSageServer/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	snapshot models.Snapshot
	err      error
	calls    int
}

func (m *mockSource) FetchLatest(ctx context.Context) (models.Snapshot, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.snapshot, nil
}

type mockReadingRepo struct {
	inserted     []*models.SensorReading
	insertErr    error
	expiredCalls int
	lastCutoff   time.Time
}

func (m *mockReadingRepo) BeginTx(ctx context.Context) (database.Transaction, error) { return nil, nil }
func (m *mockReadingRepo) Insert(ctx context.Context, r *models.SensorReading) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, r)
	return nil
}
func (m *mockReadingRepo) ListRange(ctx context.Context, start, end time.Time) ([]models.SensorReading, error) {
	return nil, nil
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
	m.expiredCalls++
	m.lastCutoff = before
	return 0, nil
}

func testConfig() config.CollectorConfig {
	return config.CollectorConfig{Interval: 10 * time.Minute, Retention: 24 * time.Hour}
}

func TestCollectOnce_StoresReading(t *testing.T) {
	src := &mockSource{snapshot: models.Snapshot{
		"lux":              12500.0,
		"moisture_percent": 42.0,
		"temperature":      23.5,
	}}
	repo := &mockReadingRepo{}
	c := New(src, repo, nil, nil, testConfig())

	err := c.CollectOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, repo.inserted, 1)

	reading := repo.inserted[0]
	assert.Equal(t, 12500.0, reading.Lux)
	assert.Equal(t, 42.0, reading.MoisturePercent)
	assert.Equal(t, 23.5, reading.Temperature)
	// Fields the source omitted default to zero.
	assert.Zero(t, reading.Humidity)
	assert.Zero(t, reading.UVIndex)
	assert.WithinDuration(t, time.Now(), reading.Timestamp, time.Second)
}

func TestCollectOnce_RunsRetentionSweep(t *testing.T) {
	src := &mockSource{snapshot: models.Snapshot{"lux": 100.0}}
	repo := &mockReadingRepo{}
	c := New(src, repo, nil, nil, testConfig())

	require.NoError(t, c.CollectOnce(context.Background()))
	assert.Equal(t, 1, repo.expiredCalls)
	assert.WithinDuration(t, time.Now().Add(-24*time.Hour), repo.lastCutoff, time.Second)
}

func TestCollectOnce_SourceFailureIsReturned(t *testing.T) {
	src := &mockSource{err: errors.NewUnavailableError("source down", nil)}
	repo := &mockReadingRepo{}
	c := New(src, repo, nil, nil, testConfig())

	err := c.CollectOnce(context.Background())
	require.Error(t, err)
	assert.Empty(t, repo.inserted)
	assert.Zero(t, repo.expiredCalls)

	status := c.Status()
	assert.Equal(t, int64(1), status.Errors)
	assert.NotEmpty(t, status.LastError)
}

func TestCollectOnce_ErrorClearsAfterSuccess(t *testing.T) {
	src := &mockSource{err: errors.NewUnavailableError("source down", nil)}
	repo := &mockReadingRepo{}
	c := New(src, repo, nil, nil, testConfig())

	require.Error(t, c.CollectOnce(context.Background()))

	src.err = nil
	src.snapshot = models.Snapshot{"lux": 100.0}
	require.NoError(t, c.CollectOnce(context.Background()))

	status := c.Status()
	assert.Empty(t, status.LastError)
	assert.Equal(t, int64(2), status.Collections)
}

func TestStartStop_Idempotent(t *testing.T) {
	src := &mockSource{snapshot: models.Snapshot{"lux": 100.0}}
	c := New(src, &mockReadingRepo{}, nil, nil, testConfig())

	c.Start()
	c.Start() // no-op while running
	assert.True(t, c.Status().Running)

	c.Stop()
	c.Stop() // idempotent
	assert.False(t, c.Status().Running)
}

func TestStart_RunsImmediateCollection(t *testing.T) {
	src := &mockSource{snapshot: models.Snapshot{"lux": 100.0}}
	repo := &mockReadingRepo{}
	c := New(src, repo, nil, nil, testConfig())

	c.Start()
	defer c.Stop()

	assert.Eventually(t, func() bool {
		return c.Status().Collections >= 1
	}, time.Second, 10*time.Millisecond)
}
