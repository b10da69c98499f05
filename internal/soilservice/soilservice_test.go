// FilePath: internal/soilservice/soilservice_test.go
package soilservice

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

type mockUserRepo struct {
	users map[string]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[string]*models.User{}}
}

func (m *mockUserRepo) BeginTx(ctx context.Context) (database.Transaction, error) { return nil, nil }
func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if _, exists := m.users[user.Username]; exists {
		return repository.ErrDuplicate
	}
	user.ID = "usr_test"
	m.users[user.Username] = user
	return nil
}
func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if user, ok := m.users[username]; ok {
		return user, nil
	}
	return nil, repository.ErrNotFound
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repository.ErrNotFound
}

type mockReadingRepo struct {
	readings []models.SensorReading
}

func (m *mockReadingRepo) BeginTx(ctx context.Context) (database.Transaction, error) { return nil, nil }
func (m *mockReadingRepo) Insert(ctx context.Context, r *models.SensorReading) error { return nil }
func (m *mockReadingRepo) ListRange(ctx context.Context, start, end time.Time) ([]models.SensorReading, error) {
	return m.readings, nil
}
func (m *mockReadingRepo) ListRecent(ctx context.Context, limit int) ([]models.SensorReading, error) {
	if limit > len(m.readings) {
		limit = len(m.readings)
	}
	return m.readings[:limit], nil
}
func (m *mockReadingRepo) Latest(ctx context.Context) (*models.SensorReading, error) {
	if len(m.readings) == 0 {
		return nil, repository.ErrNotFound
	}
	return &m.readings[len(m.readings)-1], nil
}
func (m *mockReadingRepo) Oldest(ctx context.Context) (*models.SensorReading, error) {
	if len(m.readings) == 0 {
		return nil, repository.ErrNotFound
	}
	return &m.readings[0], nil
}
func (m *mockReadingRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.readings)), nil
}
func (m *mockReadingRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func newAuthService(readings *mockReadingRepo) *SoilService {
	if readings == nil {
		readings = &mockReadingRepo{}
	}
	return &SoilService{
		Readings: readings,
		Users:    newMockUserRepo(),
		Config: &config.Config{
			Auth: config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour},
		},
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(nil)
	ctx := context.Background()

	user, err := svc.Register(ctx, &RegisterRequest{
		Username: "Gardener",
		Email:    "gardener@example.com",
		Password: "longenough",
	})
	require.NoError(t, err)
	assert.Equal(t, "gardener", user.Username)
	// The password hash never leaves the service.
	assert.Empty(t, user.PasswordHash)

	result, err := svc.Login(ctx, "gardener", "longenough")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.True(t, result.ExpiresAt.After(time.Now()))
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newAuthService(nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{
		Username: "gardener", Email: "g@example.com", Password: "longenough",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "gardener", "wrong")
	require.Error(t, err)
	apiErr, ok := err.(*errors.APIError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorTypeAuth, apiErr.Type)
}

func TestRegister_Validation(t *testing.T) {
	svc := newAuthService(nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Username: "x", Email: "x@example.com", Password: "short"})
	assert.True(t, errors.IsValidation(err))

	_, err = svc.Register(ctx, &RegisterRequest{Password: "longenough"})
	assert.True(t, errors.IsValidation(err))
}

func TestRegister_Duplicate(t *testing.T) {
	svc := newAuthService(nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{
		Username: "gardener", Email: "g@example.com", Password: "longenough",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &RegisterRequest{
		Username: "gardener", Email: "other@example.com", Password: "longenough",
	})
	assert.True(t, errors.IsConflict(err))
}

func TestGetCollectionLogs_GroupsByHour(t *testing.T) {
	now := time.Now()
	thisHour := now.Truncate(time.Hour)
	readings := &mockReadingRepo{readings: []models.SensorReading{
		{Timestamp: thisHour.Add(5 * time.Minute)},
		{Timestamp: thisHour.Add(15 * time.Minute)},
		{Timestamp: thisHour.Add(-50 * time.Minute)}, // previous hour
	}}
	svc := newAuthService(readings)

	logs, err := svc.GetCollectionLogs(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, logs, 3)

	// Newest hour first, empty hours included.
	assert.Equal(t, thisHour, logs[0].Hour)
	assert.Equal(t, 2, logs[0].Readings)
	assert.Equal(t, 1, logs[1].Readings)
	assert.Equal(t, 0, logs[2].Readings)
}
