// FilePath: internal/repository/postgres/postgres.plant_profile.go
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

type PlantProfileRepo struct {
	PostgresBaseRepo
}

func NewPlantProfileRepository(db database.DB) (*PlantProfileRepo, error) {
	repo := &PlantProfileRepo{PostgresBaseRepo{db: db}}
	if err := repo.initializeSchema(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *PlantProfileRepo) initializeSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS plant_profiles (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			stages JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_plant_profiles_name
			ON plant_profiles(LOWER(name))`,
	}

	for _, query := range queries {
		if _, err := r.db.GetDB().Exec(query); err != nil {
			return errors.NewDatabaseError("failed to initialize plant_profiles schema", err)
		}
	}
	return nil
}

// GetByName matches the plant name case-insensitively.
func (r *PlantProfileRepo) GetByName(ctx context.Context, name string) (*models.PlantProfile, error) {
	profile := &models.PlantProfile{}
	query := `SELECT * FROM plant_profiles WHERE LOWER(name) = LOWER($1)`

	err := r.db.GetDB().GetContext(ctx, profile, query, name)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get plant profile", err)
	}
	return profile, nil
}

func (r *PlantProfileRepo) ListNames(ctx context.Context) ([]string, error) {
	names := []string{}
	query := `SELECT name FROM plant_profiles ORDER BY name ASC`

	err := r.db.GetDB().SelectContext(ctx, &names, query)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list plant profile names", err)
	}
	return names, nil
}

// Upsert inserts the profile or replaces the stages of an existing profile
// with the same name.
func (r *PlantProfileRepo) Upsert(ctx context.Context, profile *models.PlantProfile) error {
	if profile.ID == "" {
		profile.ID = nuts.NID("pl", 12)
	}
	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	query := `
		INSERT INTO plant_profiles (id, name, stages, created_at, updated_at)
		VALUES (:id, :name, :stages, :created_at, :updated_at)
		ON CONFLICT (LOWER(name)) DO UPDATE SET
			stages = EXCLUDED.stages,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, profile)
	if err != nil {
		return errors.NewDatabaseError("failed to upsert plant profile", err)
	}
	return nil
}
