// FilePath: internal/repository/postgres/postgres.user.go
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

type UserRepo struct {
	PostgresBaseRepo
}

func NewUserRepository(db database.DB) (*UserRepo, error) {
	repo := &UserRepo{PostgresBaseRepo{db: db}}
	if err := repo.initializeSchema(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *UserRepo) initializeSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			surname TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`

	if _, err := r.db.GetDB().Exec(query); err != nil {
		return errors.NewDatabaseError("failed to initialize users schema", err)
	}
	return nil
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = nuts.NID("usr", 12)
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	query := `
		INSERT INTO users (id, username, name, surname, email, password_hash, created_at, updated_at)
		VALUES (:id, :username, :name, :surname, :email, :password_hash, :created_at, :updated_at)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, user)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return errors.NewDatabaseError("failed to create user", err)
	}
	return nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepo) getBy(ctx context.Context, column, value string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT * FROM users WHERE ` + column + ` = $1`

	err := r.db.GetDB().GetContext(ctx, user, query, value)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get user", err)
	}
	return user, nil
}
