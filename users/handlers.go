package users

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/santhiya1818/vibescape/apperror"
	"github.com/santhiya1818/vibescape/auth"
)

// ProfileResponse wraps an updated profile.
type ProfileResponse struct {
	Message string   `json:"message"`
	Profile *Profile `json:"profile"`
}

// Handlers exposes the account service over HTTP.
type Handlers struct {
	service Service
}

// NewHandlers creates user Handlers.
func NewHandlers(service Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the account routes on an authenticated router.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/api/user/profile", h.handleGetProfile)
	r.Put("/api/user/profile", h.handleUpdateProfile)
	r.Put("/api/user/password", h.handleChangePassword)
}

func claimsFromRequest(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("authentication required", nil))
		return nil, false
	}
	return claims, true
}

// handleGetProfile godoc
// @Summary Get the signed-in user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} users.Profile
// @Router /api/user/profile [get]
func (h *Handlers) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromRequest(w, r)
	if !ok {
		return
	}
	profile, err := h.service.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, profile)
}

// handleUpdateProfile godoc
// @Summary Update username and/or email
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body users.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} users.ProfileResponse
// @Failure 400 {object} apperror.ErrorResponse "Username or email taken"
// @Router /api/user/profile [put]
func (h *Handlers) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromRequest(w, r)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewValidationError("invalid request body", err))
		return
	}
	profile, err := h.service.UpdateProfile(r.Context(), claims.UserID, req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, ProfileResponse{Message: "Profile updated.", Profile: profile})
}

// handleChangePassword godoc
// @Summary Change password after verifying the current one
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body users.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} auth.MessageResponse
// @Failure 400 {object} apperror.ErrorResponse "Wrong current password"
// @Router /api/user/password [put]
func (h *Handlers) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromRequest(w, r)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewValidationError("invalid request body", err))
		return
	}
	if err := h.service.ChangePassword(r.Context(), claims.UserID, req); err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, auth.MessageResponse{Message: "Password changed successfully."})
}
