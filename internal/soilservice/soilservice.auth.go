// FilePath: internal/soilservice/soilservice.auth.go
package soilservice

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hitarthombre/SoilSageServer/internal/errors"
	"github.com/hitarthombre/SoilSageServer/internal/models"
	"github.com/hitarthombre/SoilSageServer/internal/repository"
	"github.com/itsatony/struccy"
	nuts "github.com/vaudience/go-nuts"
	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest carries a new account registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is a successful authentication: the signed token and the
// field-filtered account.
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Register creates a new account with a bcrypt-hashed password.
func (s *SoilService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if req.Username == "" || req.Email == "" {
		return nil, errors.NewValidationError("username and email are required", nil)
	}
	if len(req.Password) < 8 {
		return nil, errors.NewValidationError("password must be at least 8 characters", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password", err)
	}

	user := &models.User{
		Username:     strings.ToLower(req.Username),
		Name:         req.Name,
		Surname:      req.Surname,
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hash),
	}
	if err := s.Users.Create(ctx, user); err != nil {
		if err == repository.ErrDuplicate {
			return nil, errors.NewConflictError("username or email already registered", err)
		}
		return nil, err
	}

	nuts.L.Infof("[Auth] Registered user %s (%s)", user.Username, user.ID)
	return s.filterUser(ctx, user)
}

// Login verifies the credentials and issues a signed bearer token.
func (s *SoilService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.Users.GetByUsername(ctx, strings.ToLower(username))
	if err == repository.ErrNotFound {
		return nil, errors.NewAuthError("invalid credentials", nil)
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.NewAuthError("invalid credentials", nil)
	}

	expiresAt := time.Now().Add(s.Config.Auth.TokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"exp":      expiresAt.Unix(),
		"iat":      time.Now().Unix(),
	})
	signed, err := token.SignedString([]byte(s.Config.Auth.JWTSecret))
	if err != nil {
		return nil, errors.NewInternalError("failed to sign token", err)
	}

	filtered, err := s.filterUser(ctx, user)
	if err != nil {
		return nil, err
	}

	nuts.L.Infof("[Auth] User %s logged in", user.Username)
	return &LoginResult{Token: signed, ExpiresAt: expiresAt, User: filtered}, nil
}

// GetUser returns the account with role-filtered fields.
func (s *SoilService) GetUser(ctx context.Context, username string) (*models.User, error) {
	user, err := s.Users.GetByUsername(ctx, strings.ToLower(username))
	if err == repository.ErrNotFound {
		return nil, errors.NewNotFoundError("user not found", err)
	}
	if err != nil {
		return nil, err
	}
	return s.filterUser(ctx, user)
}

// filterUser strips fields the caller's roles may not read. The password hash
// only survives for the system role.
func (s *SoilService) filterUser(ctx context.Context, user *models.User) (*models.User, error) {
	roles := GetUserRoles(ctx)

	filteredMap, err := struccy.StructToMapFieldsWithReadXS(user, roles)
	if err != nil {
		return nil, errors.NewInternalError("failed to filter user fields", err)
	}
	filtered := &models.User{}
	if _, err := struccy.MergeMapStringFieldsToStruct(filtered, filteredMap, roles); err != nil {
		return nil, errors.NewInternalError("failed to map filtered fields to user struct", err)
	}
	return filtered, nil
}
