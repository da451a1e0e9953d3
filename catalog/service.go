package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/santhiya1818/vibescape/apperror"
)

// Service defines catalog operations. Handlers depend on this interface so
// they can be tested against a mock.
type Service interface {
	List(ctx context.Context) ([]Song, error)
	Create(ctx context.Context, song NewSong) (*Song, error)
	Delete(ctx context.Context, id int64) error
}

type serviceImpl struct {
	db     *pgxpool.Pool
	media  *MediaStore
	logger *zap.Logger
}

// NewService creates the catalog service.
func NewService(db *pgxpool.Pool, media *MediaStore, logger *zap.Logger) Service {
	return &serviceImpl{db: db, media: media, logger: logger}
}

func (s *serviceImpl) List(ctx context.Context) ([]Song, error) {
	query := `SELECT id, title, artist, genre, emotion, file, art, artist_art, uploaded_at
	          FROM songs ORDER BY uploaded_at DESC`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to fetch songs", err)
	}
	defer rows.Close()

	songs := []Song{}
	for rows.Next() {
		var song Song
		if err := rows.Scan(&song.ID, &song.Title, &song.Artist, &song.Genre, &song.Emotion,
			&song.File, &song.Art, &song.ArtistArt, &song.UploadedAt); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan song", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read songs", err)
	}
	return songs, nil
}

func (s *serviceImpl) Create(ctx context.Context, song NewSong) (*Song, error) {
	if song.Title == "" || song.Artist == "" {
		return nil, apperror.NewValidationError("title and artist are required", nil)
	}

	created := Song{
		Title:     song.Title,
		Artist:    song.Artist,
		Genre:     song.Genre,
		Emotion:   song.Emotion,
		File:      song.File,
		Art:       song.Art,
		ArtistArt: song.ArtistArt,
	}
	query := `INSERT INTO songs (title, artist, genre, emotion, file, art, artist_art)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, uploaded_at`
	err := s.db.QueryRow(ctx, query, song.Title, song.Artist, song.Genre, song.Emotion,
		song.File, song.Art, song.ArtistArt).Scan(&created.ID, &created.UploadedAt)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create song", err)
	}
	return &created, nil
}

// Delete removes the song row and then its media files. File cleanup is
// best-effort: a failed unlink is logged, the deletion still succeeds.
func (s *serviceImpl) Delete(ctx context.Context, id int64) error {
	var song Song
	query := `DELETE FROM songs WHERE id = $1 RETURNING file, art, artist_art`
	err := s.db.QueryRow(ctx, query, id).Scan(&song.File, &song.Art, &song.ArtistArt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.NewNotFoundError(fmt.Sprintf("song %d not found", id), nil)
		}
		return apperror.NewDatabaseError("failed to delete song", err)
	}

	for _, ref := range []string{song.File, song.Art, song.ArtistArt} {
		if err := s.media.Remove(ref); err != nil {
			s.logger.Warn("failed to remove media file", zap.String("ref", ref), zap.Error(err))
		}
	}
	return nil
}
