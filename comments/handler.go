package comments

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/santhiya1818/vibescape/apperror"
	"github.com/santhiya1818/vibescape/auth"
)

// CommentResponse wraps a newly posted comment.
type CommentResponse struct {
	Message string   `json:"message" example:"Comment posted!"`
	Comment *Comment `json:"comment"`
}

// Handler handles HTTP requests for the comment wall.
type Handler struct {
	service Service
}

// NewHandler creates a comment Handler.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the read-only comment routes.
func (h *Handler) RegisterPublicRoutes(router chi.Router) {
	router.Get("/api/comments", h.listComments)
}

// RegisterRoutes mounts the comment routes that require authentication.
func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/api/comments", h.addComment)
	router.Delete("/api/comments/{id}", h.deleteComment)
}

// listComments godoc
// @Summary List all comments, newest first
// @Tags comments
// @Produce json
// @Success 200 {array} comments.Comment
// @Router /api/comments [get]
func (h *Handler) listComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.List(r.Context())
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, comments)
}

// addComment godoc
// @Summary Post a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body comments.NewCommentRequest true "Comment text"
// @Success 201 {object} comments.CommentResponse
// @Failure 400 {object} apperror.ErrorResponse
// @Router /api/comments [post]
func (h *Handler) addComment(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("authentication required", nil))
		return
	}

	var req NewCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewValidationError("invalid request body", err))
		return
	}

	comment, err := h.service.Add(r.Context(), claims.UserID, claims.Username, req.Text)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusCreated, CommentResponse{Message: "Comment posted!", Comment: comment})
}

// deleteComment godoc
// @Summary Delete a comment (author or admin only)
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} auth.MessageResponse
// @Failure 403 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/comments/{id} [delete]
func (h *Handler) deleteComment(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("authentication required", nil))
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		auth.WriteError(w, r, apperror.NewValidationError("invalid comment id", err))
		return
	}

	if err := h.service.Delete(r.Context(), claims, id); err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, auth.MessageResponse{Message: "Comment deleted."})
}
