package catalog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/santhiya1818/vibescape/apperror"
	"github.com/santhiya1818/vibescape/auth"
)

// maxUploadSize bounds the multipart form held in memory plus temp files.
const maxUploadSize = 100 << 20 // 100 MB

// UploadResponse is returned after a successful upload.
type UploadResponse struct {
	Message string `json:"message" example:"Song uploaded successfully!"`
	Song    *Song  `json:"song"`
}

// Handlers exposes the catalog service over HTTP.
type Handlers struct {
	service Service
	media   *MediaStore
}

// NewHandlers creates catalog Handlers.
func NewHandlers(service Service, media *MediaStore) *Handlers {
	return &Handlers{service: service, media: media}
}

// HandleListSongs godoc
// @Summary List the song catalog
// @Tags catalog
// @Produce json
// @Success 200 {array} catalog.Song
// @Failure 500 {object} apperror.ErrorResponse
// @Router /api/songs [get]
func (h *Handlers) HandleListSongs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		songs, err := h.service.List(r.Context())
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, songs)
	}
}

// HandleUpload godoc
// @Summary Upload a song with artwork
// @Description Multipart form: song (audio, required), albumArt, artistImage, plus title/artist/genre/emotion fields. Admin only.
// @Tags catalog
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Success 201 {object} catalog.UploadResponse
// @Failure 400 {object} apperror.ErrorResponse "Audio file is required"
// @Failure 403 {object} apperror.ErrorResponse
// @Router /api/upload [post]
func (h *Handlers) HandleUpload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("invalid multipart form", err))
			return
		}

		audio, audioHeader, err := r.FormFile("song")
		if err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("Audio file is required.", err))
			return
		}
		defer audio.Close()

		fileRef, err := h.media.Save(KindSong, audioHeader.Filename, audio)
		if err != nil {
			auth.WriteError(w, r, apperror.NewInternalError("failed to store audio file", err))
			return
		}

		// Files saved so far are removed again if a later step fails, so a
		// half-finished upload leaves nothing behind on disk.
		saved := []string{fileRef}
		cleanup := func() {
			for _, ref := range saved {
				h.media.Remove(ref)
			}
		}

		artRef := DefaultAlbumArt
		if art, artHeader, err := r.FormFile("albumArt"); err == nil {
			defer art.Close()
			if artRef, err = h.media.Save(KindAlbumArt, artHeader.Filename, art); err != nil {
				cleanup()
				auth.WriteError(w, r, apperror.NewInternalError("failed to store album art", err))
				return
			}
			saved = append(saved, artRef)
		}

		artistArtRef := DefaultArtistArt
		if img, imgHeader, err := r.FormFile("artistImage"); err == nil {
			defer img.Close()
			if artistArtRef, err = h.media.Save(KindArtistArt, imgHeader.Filename, img); err != nil {
				cleanup()
				auth.WriteError(w, r, apperror.NewInternalError("failed to store artist image", err))
				return
			}
			saved = append(saved, artistArtRef)
		}

		song, err := h.service.Create(r.Context(), NewSong{
			Title:     r.FormValue("title"),
			Artist:    r.FormValue("artist"),
			Genre:     r.FormValue("genre"),
			Emotion:   r.FormValue("emotion"),
			File:      fileRef,
			Art:       artRef,
			ArtistArt: artistArtRef,
		})
		if err != nil {
			cleanup()
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusCreated, UploadResponse{Message: "Song uploaded successfully!", Song: song})
	}
}

// HandleDelete godoc
// @Summary Delete a song and its media files
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param id path int true "Song ID"
// @Success 200 {object} auth.MessageResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/songs/{id} [delete]
func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("invalid song id", err))
			return
		}

		if err := h.service.Delete(r.Context(), id); err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, auth.MessageResponse{Message: "Song deleted successfully."})
	}
}
