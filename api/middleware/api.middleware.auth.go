// FilePath: api/middleware/api.middleware.auth.go
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hitarthombre/SoilSageServer/internal/config"
	"github.com/hitarthombre/SoilSageServer/internal/errors"
	"github.com/hitarthombre/SoilSageServer/internal/soilservice"
	nuts "github.com/vaudience/go-nuts"
)

// UserContext carries the authenticated caller through the request context.
type UserContext struct {
	ID       string
	Username string
	Roles    []string
}

type contextKey string

const userKey contextKey = "user"

// JWTMiddleware validates bearer tokens on protected routes.
type JWTMiddleware struct {
	secret []byte
}

func NewJWTMiddleware(cfg config.AuthConfig) *JWTMiddleware {
	return &JWTMiddleware{secret: []byte(cfg.JWTSecret)}
}

// Authenticate rejects requests without a valid bearer token and stores the
// caller's identity in the context.
func (m *JWTMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondUnauthorized(w, "missing bearer token")
			return
		}

		token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.NewAuthError("unexpected signing method", nil)
			}
			return m.secret, nil
		})
		if err != nil || !token.Valid {
			nuts.L.Warnf("[Auth] Rejected token: %v", err)
			respondUnauthorized(w, "invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			respondUnauthorized(w, "invalid token claims")
			return
		}

		user := &UserContext{Roles: []string{"user"}}
		if sub, ok := claims["sub"].(string); ok {
			user.ID = sub
		}
		if username, ok := claims["username"].(string); ok {
			user.Username = username
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		ctx = soilservice.WithUserRoles(ctx, user.Roles)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUser returns the authenticated caller, or nil on public routes.
func GetUser(ctx context.Context) *UserContext {
	if user, ok := ctx.Value(userKey).(*UserContext); ok {
		return user
	}
	return nil
}

func respondUnauthorized(w http.ResponseWriter, msg string) {
	apiErr := errors.NewAuthError(msg, nil)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Code)
	json.NewEncoder(w).Encode(apiErr)
}
