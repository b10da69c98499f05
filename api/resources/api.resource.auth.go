// FilePath: api/resources/api.resource.auth.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/hitarthombre/SoilSageServer/api/middleware"
	"github.com/hitarthombre/SoilSageServer/internal/errors"
	"github.com/hitarthombre/SoilSageServer/internal/soilservice"
	nuts "github.com/vaudience/go-nuts"
)

// AuthHandlers encapsulates the account-related HTTP handlers
type AuthHandlers struct {
	service *soilservice.SoilService
}

// @Summary Register a new account
// @Description Create a new user account
// @Tags auth
// @Accept json
// @Produce json
// @Param user body soilservice.RegisterRequest true "Account details"
// @Success 201 {object} models.User
// @Failure 400 {object} errors.APIError
// @Failure 409 {object} errors.APIError
// @Router /auth/register [post]
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req soilservice.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusCreated, user)
}

// @Summary Log in
// @Description Exchange credentials for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} soilservice.LoginResult
// @Failure 401 {object} errors.APIError
// @Router /auth/login [post]
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	result, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// @Summary Get own account
// @Description Get the authenticated user's account
// @Tags auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} errors.APIError
// @Router /auth/me [get]
// @Security BearerAuth
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	user := middleware.GetUser(r.Context())
	if user == nil {
		respondWithError(w, errors.NewAuthError("not authenticated", nil).WithRequestID(requestID))
		return
	}

	account, err := h.service.GetUser(r.Context(), user.Username)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, account)
}
