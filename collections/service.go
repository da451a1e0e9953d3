package collections

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/santhiya1818/vibescape/apperror"
)

// historyDedupWindow suppresses duplicate history rows for the same song
// recorded in rapid succession (e.g. a retried request or a seek back to
// the start of a track).
const historyDedupWindow = 30 * time.Second

// historyLimit caps how many entries a history fetch returns.
const historyLimit = 50

const pgUniqueViolation = "23505"

// Service bundles the per-user collections: favorites, listening history
// and playlists. Every operation is scoped to the calling user's id; rows
// belonging to other users are invisible by query construction.
type Service interface {
	ListFavorites(ctx context.Context, userID int64) ([]Favorite, error)
	AddFavorite(ctx context.Context, userID int64, username string, req AddFavoriteRequest) (*Favorite, error)
	RemoveFavorite(ctx context.Context, userID, favoriteID int64) error

	ListHistory(ctx context.Context, userID int64) ([]HistoryEntry, error)
	RecordHistory(ctx context.Context, userID int64, username string, req RecordHistoryRequest) (recorded bool, err error)
	DeleteHistoryEntry(ctx context.Context, userID int64, title string, playedAt time.Time) error
	ClearHistory(ctx context.Context, userID int64) error

	ListPlaylists(ctx context.Context, userID int64) ([]Playlist, error)
	CreatePlaylist(ctx context.Context, userID int64, username string, req CreatePlaylistRequest) (*Playlist, error)
	UpdatePlaylist(ctx context.Context, userID, playlistID int64, songs []string) (*Playlist, error)
	DeletePlaylist(ctx context.Context, userID, playlistID int64) error
}

type serviceImpl struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewService creates the collections service.
func NewService(db *pgxpool.Pool, logger *zap.Logger) Service {
	return &serviceImpl{db: db, logger: logger}
}

func (s *serviceImpl) ListFavorites(ctx context.Context, userID int64) ([]Favorite, error) {
	query := `SELECT id, song_title, artist, added_at
	          FROM favorites WHERE user_id = $1 ORDER BY added_at DESC`
	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to fetch favorites", err)
	}
	defer rows.Close()

	favorites := []Favorite{}
	for rows.Next() {
		var f Favorite
		if err := rows.Scan(&f.ID, &f.Title, &f.Artist, &f.AddedAt); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan favorite", err)
		}
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read favorites", err)
	}
	return favorites, nil
}

// AddFavorite inserts the favorite, relying on the unique index on
// (user_id, song_title, artist) instead of a racy check-then-insert.
func (s *serviceImpl) AddFavorite(ctx context.Context, userID int64, username string, req AddFavoriteRequest) (*Favorite, error) {
	if req.Title == "" || req.Artist == "" {
		return nil, apperror.NewValidationError("title and artist are required", nil)
	}

	favorite := Favorite{Title: req.Title, Artist: req.Artist}
	query := `INSERT INTO favorites (user_id, username, song_title, artist)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, added_at`
	err := s.db.QueryRow(ctx, query, userID, username, req.Title, req.Artist).
		Scan(&favorite.ID, &favorite.AddedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperror.NewConflictError("Song is already in favorites.", err)
		}
		return nil, apperror.NewDatabaseError("failed to add favorite", err)
	}
	return &favorite, nil
}

func (s *serviceImpl) RemoveFavorite(ctx context.Context, userID, favoriteID int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM favorites WHERE id = $1 AND user_id = $2`, favoriteID, userID)
	if err != nil {
		return apperror.NewDatabaseError("failed to remove favorite", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("favorite %d not found", favoriteID), nil)
	}
	return nil
}

func (s *serviceImpl) ListHistory(ctx context.Context, userID int64) ([]HistoryEntry, error) {
	query := `SELECT id, song_title, artist, played_at
	          FROM history WHERE user_id = $1 ORDER BY played_at DESC LIMIT $2`
	rows, err := s.db.Query(ctx, query, userID, historyLimit)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to fetch history", err)
	}
	defer rows.Close()

	entries := []HistoryEntry{}
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.Title, &e.Artist, &e.PlayedAt); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan history entry", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read history", err)
	}
	return entries, nil
}

// RecordHistory inserts a playback event unless the same song (title plus
// artist) was already recorded for this user inside the dedup window. It
// reports whether a row was written so the handler can tell the client a
// duplicate was collapsed.
func (s *serviceImpl) RecordHistory(ctx context.Context, userID int64, username string, req RecordHistoryRequest) (bool, error) {
	if req.Title == "" || req.Artist == "" {
		return false, apperror.NewValidationError("title and artist are required", nil)
	}

	query := `INSERT INTO history (user_id, username, song_title, artist)
	          SELECT $1, $2, $3, $4
	          WHERE NOT EXISTS (
	              SELECT 1 FROM history
	              WHERE user_id = $1 AND song_title = $3 AND artist = $4
	                AND played_at > now() - make_interval(secs => $5)
	          )`
	tag, err := s.db.Exec(ctx, query, userID, username, req.Title, req.Artist,
		historyDedupWindow.Seconds())
	if err != nil {
		return false, apperror.NewDatabaseError("failed to record history", err)
	}
	if tag.RowsAffected() == 0 {
		s.logger.Debug("history entry deduplicated",
			zap.Int64("user_id", userID), zap.String("title", req.Title))
		return false, nil
	}
	return true, nil
}

func (s *serviceImpl) DeleteHistoryEntry(ctx context.Context, userID int64, title string, playedAt time.Time) error {
	query := `DELETE FROM history WHERE user_id = $1 AND song_title = $2 AND played_at = $3`
	tag, err := s.db.Exec(ctx, query, userID, title, playedAt)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete history entry", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError("history entry not found", nil)
	}
	return nil
}

func (s *serviceImpl) ClearHistory(ctx context.Context, userID int64) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM history WHERE user_id = $1`, userID); err != nil {
		return apperror.NewDatabaseError("failed to clear history", err)
	}
	return nil
}

func (s *serviceImpl) ListPlaylists(ctx context.Context, userID int64) ([]Playlist, error) {
	query := `SELECT id, name, songs, created_at, updated_at
	          FROM playlists WHERE user_id = $1 ORDER BY updated_at DESC`
	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to fetch playlists", err)
	}
	defer rows.Close()

	playlists := []Playlist{}
	for rows.Next() {
		var p Playlist
		if err := rows.Scan(&p.ID, &p.Name, &p.Songs, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan playlist", err)
		}
		if p.Songs == nil {
			p.Songs = []string{}
		}
		playlists = append(playlists, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read playlists", err)
	}
	return playlists, nil
}

func (s *serviceImpl) CreatePlaylist(ctx context.Context, userID int64, username string, req CreatePlaylistRequest) (*Playlist, error) {
	if req.Name == "" {
		return nil, apperror.NewValidationError("Playlist name is required.", nil)
	}
	songs := req.Songs
	if songs == nil {
		songs = []string{}
	}

	playlist := Playlist{Name: req.Name, Songs: songs}
	query := `INSERT INTO playlists (user_id, username, name, songs)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at, updated_at`
	err := s.db.QueryRow(ctx, query, userID, username, req.Name, songs).
		Scan(&playlist.ID, &playlist.CreatedAt, &playlist.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperror.NewConflictError("A playlist with that name already exists.", err)
		}
		return nil, apperror.NewDatabaseError("failed to create playlist", err)
	}
	return &playlist, nil
}

// UpdatePlaylist replaces the song list wholesale and bumps updated_at.
func (s *serviceImpl) UpdatePlaylist(ctx context.Context, userID, playlistID int64, songs []string) (*Playlist, error) {
	if songs == nil {
		songs = []string{}
	}

	playlist := Playlist{ID: playlistID, Songs: songs}
	query := `UPDATE playlists SET songs = $1, updated_at = now()
	          WHERE id = $2 AND user_id = $3
	          RETURNING name, created_at, updated_at`
	err := s.db.QueryRow(ctx, query, songs, playlistID, userID).
		Scan(&playlist.Name, &playlist.CreatedAt, &playlist.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("playlist %d not found", playlistID), nil)
		}
		return nil, apperror.NewDatabaseError("failed to update playlist", err)
	}
	return &playlist, nil
}

func (s *serviceImpl) DeletePlaylist(ctx context.Context, userID, playlistID int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM playlists WHERE id = $1 AND user_id = $2`, playlistID, userID)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete playlist", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("playlist %d not found", playlistID), nil)
	}
	return nil
}
