package collections

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/santhiya1818/vibescape/apperror"
	"github.com/santhiya1818/vibescape/auth"
)

// FavoriteResponse wraps a newly added favorite.
type FavoriteResponse struct {
	Message  string    `json:"message" example:"Song added to favorites!"`
	Favorite *Favorite `json:"favorite"`
}

// PlaylistResponse wraps a created or updated playlist.
type PlaylistResponse struct {
	Message  string    `json:"message"`
	Playlist *Playlist `json:"playlist"`
}

// Handlers exposes favorites, history and playlists over HTTP. All routes
// require an authenticated user; the user ID comes from the session claims.
type Handlers struct {
	service Service
}

// NewHandlers creates collections Handlers.
func NewHandlers(service Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the collection routes on an authenticated router.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/api/favorites", h.handleListFavorites)
	r.Post("/api/favorites", h.handleAddFavorite)
	r.Delete("/api/favorites/{id}", h.handleRemoveFavorite)

	r.Get("/api/history", h.handleListHistory)
	r.Post("/api/history", h.handleRecordHistory)
	r.Delete("/api/history", h.handleDeleteHistoryEntry)
	r.Delete("/api/history/all", h.handleClearHistory)

	r.Get("/api/playlists", h.handleListPlaylists)
	r.Post("/api/playlists", h.handleCreatePlaylist)
	r.Put("/api/playlists/{id}", h.handleUpdatePlaylist)
	r.Delete("/api/playlists/{id}", h.handleDeletePlaylist)
}

func claimsFromRequest(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("authentication required", nil))
		return nil, false
	}
	return claims, true
}

// handleListFavorites godoc
// @Summary List the user's favorite songs
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Success 200 {array} collections.Favorite
// @Router /api/favorites [get]
func (h *Handlers) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromRequest(w, r)
	if !ok {
		return
	}
	favorites, err := h.service.ListFavorites(r.Context(), claims.UserID)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, favorites)
}

// handleAddFavorite godoc
// @Summary Add a song to favorites
// @Tags favorites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body collections.AddFavoriteRequest true "Song to favorite"
// @Success 201 {object} collections.FavoriteResponse
// @Failure 400 {object} apperror.ErrorResponse "Already in favorites"
// @Router /api/favorites [post]
func (h *Handlers) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromRequest(w, r)
	if !ok {
		return
	}
	var req AddFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewValidationError("invalid request body", err))
		return
	}
	favorite, err := h.service.AddFavorite(r.Context(), claims.UserID, claims.Username, req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusCreated, FavoriteResponse{
		Message:  "Song added to favorites!",
		Favorite: favorite,
	})
}

// handleRemoveFavorite godoc
// @Summary Remove a song from favorites
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param id path int true "Favorite ID"
// @Success 200 {object} auth.MessageResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/favorites/{id} [delete]
func (h *Handlers) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromRequest(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		auth.WriteError(w, r, apperror.NewValidationError("invalid favorite id", err))
		return
	}
	if err := h.service.RemoveFavorite(r.Context(), claims.UserID, id); err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, auth.MessageResponse{Message: "Song removed from favorites."})
}

// handleListHistory godoc
// @Summary List recent listening history (newest first, capped at 50)
// @Tags history
// @Produce json
// @Security BearerAuth
// @Success 200 {array} collections.HistoryEntry
// @Router /api/history [get]
func (h *Handlers) handleListHistory(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromRequest(w, r)
	if !ok {
		return
	}
	entries, err := h.service.ListHistory(r.Context(), claims.UserID)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, entries)
}

// handleRecordHistory godoc
// @Summary Record a playback event
// @Description Duplicate plays of the same song within 30 seconds are collapsed into one entry.
// @Tags history
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body collections.RecordHistoryRequest true "Played song"
// @Success 201 {object} auth.MessageResponse
// @Success 200 {object} auth.MessageResponse "Duplicate play within the dedup window"
// @Router /api/history [post]
func (h *Handlers) handleRecordHistory(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromRequest(w, r)
	if !ok {
		return
	}
	var req RecordHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewValidationError("invalid request body", err))
		return
	}
	recorded, err := h.service.RecordHistory(r.Context(), claims.UserID, claims.Username, req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	if !recorded {
		auth.WriteJSON(w, http.StatusOK, auth.MessageResponse{Message: "Song already in recent history."})
		return
	}
	auth.WriteJSON(w, http.StatusCreated, auth.MessageResponse{Message: "History recorded."})
}

// handleDeleteHistoryEntry godoc
// @Summary Delete one history entry
// @Tags history
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body collections.DeleteHistoryEntryRequest true "Entry to delete"
// @Success 200 {object} auth.MessageResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/history [delete]
func (h *Handlers) handleDeleteHistoryEntry(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromRequest(w, r)
	if !ok {
		return
	}
	var req DeleteHistoryEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewValidationError("invalid request body", err))
		return
	}
	playedAt, err := time.Parse(time.RFC3339, req.PlayedAt)
	if err != nil {
		auth.WriteError(w, r, apperror.NewValidationError("playedAt must be an RFC 3339 timestamp", err))
		return
	}
	if err := h.service.DeleteHistoryEntry(r.Context(), claims.UserID, req.Title, playedAt); err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, auth.MessageResponse{Message: "History entry deleted."})
}

// handleClearHistory godoc
// @Summary Clear the user's entire listening history
// @Tags history
// @Produce json
// @Security BearerAuth
// @Success 200 {object} auth.MessageResponse
// @Router /api/history/all [delete]
func (h *Handlers) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromRequest(w, r)
	if !ok {
		return
	}
	if err := h.service.ClearHistory(r.Context(), claims.UserID); err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, auth.MessageResponse{Message: "History cleared."})
}

// handleListPlaylists godoc
// @Summary List the user's playlists
// @Tags playlists
// @Produce json
// @Security BearerAuth
// @Success 200 {array} collections.Playlist
// @Router /api/playlists [get]
func (h *Handlers) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromRequest(w, r)
	if !ok {
		return
	}
	playlists, err := h.service.ListPlaylists(r.Context(), claims.UserID)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, playlists)
}

// handleCreatePlaylist godoc
// @Summary Create a playlist
// @Tags playlists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body collections.CreatePlaylistRequest true "New playlist"
// @Success 201 {object} collections.PlaylistResponse
// @Failure 400 {object} apperror.ErrorResponse "Duplicate name"
// @Router /api/playlists [post]
func (h *Handlers) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromRequest(w, r)
	if !ok {
		return
	}
	var req CreatePlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewValidationError("invalid request body", err))
		return
	}
	playlist, err := h.service.CreatePlaylist(r.Context(), claims.UserID, claims.Username, req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusCreated, PlaylistResponse{
		Message:  "Playlist created!",
		Playlist: playlist,
	})
}

// handleUpdatePlaylist godoc
// @Summary Replace a playlist's songs
// @Tags playlists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Playlist ID"
// @Param request body collections.UpdatePlaylistRequest true "New song list"
// @Success 200 {object} collections.PlaylistResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/playlists/{id} [put]
func (h *Handlers) handleUpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromRequest(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		auth.WriteError(w, r, apperror.NewValidationError("invalid playlist id", err))
		return
	}
	var req UpdatePlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewValidationError("invalid request body", err))
		return
	}
	playlist, err := h.service.UpdatePlaylist(r.Context(), claims.UserID, id, req.Songs)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, PlaylistResponse{
		Message:  "Playlist updated.",
		Playlist: playlist,
	})
}

// handleDeletePlaylist godoc
// @Summary Delete a playlist
// @Tags playlists
// @Produce json
// @Security BearerAuth
// @Param id path int true "Playlist ID"
// @Success 200 {object} auth.MessageResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/playlists/{id} [delete]
func (h *Handlers) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromRequest(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		auth.WriteError(w, r, apperror.NewValidationError("invalid playlist id", err))
		return
	}
	if err := h.service.DeletePlaylist(r.Context(), claims.UserID, id); err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, auth.MessageResponse{Message: "Playlist deleted."})
}
