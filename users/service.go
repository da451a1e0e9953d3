package users

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/santhiya1818/vibescape/apperror"
)

// minPasswordLength matches the registration rule in the auth package.
const minPasswordLength = 6

const pgUniqueViolation = "23505"

// Service defines account operations for the signed-in user.
type Service interface {
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*Profile, error)
	ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error
}

type serviceImpl struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewService creates the user account service.
func NewService(db *pgxpool.Pool, logger *zap.Logger) Service {
	return &serviceImpl{db: db, logger: logger}
}

func (s *serviceImpl) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	var p Profile
	query := `SELECT id, username, email, role, created_at FROM users WHERE id = $1`
	err := s.db.QueryRow(ctx, query, userID).Scan(&p.ID, &p.Username, &p.Email, &p.Role, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to fetch profile", err)
	}
	return &p, nil
}

// UpdateProfile changes username and/or email. COALESCE keeps the current
// value for fields the client left empty.
func (s *serviceImpl) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*Profile, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" && email == "" {
		return nil, apperror.NewValidationError("nothing to update", nil)
	}

	var p Profile
	query := `UPDATE users
	          SET username = COALESCE(NULLIF($1, ''), username),
	              email = COALESCE(NULLIF($2, ''), email)
	          WHERE id = $3
	          RETURNING id, username, email, role, created_at`
	err := s.db.QueryRow(ctx, query, username, email, userID).
		Scan(&p.ID, &p.Username, &p.Email, &p.Role, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperror.NewConflictError("Username or email is already taken.", err)
		}
		return nil, apperror.NewDatabaseError("failed to update profile", err)
	}

	s.logger.Info("profile updated", zap.Int64("user_id", userID))
	return &p, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *serviceImpl) ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error {
	if len(req.NewPassword) < minPasswordLength {
		return apperror.NewValidationError("New password must be at least 6 characters.", nil)
	}

	var currentHash string
	err := s.db.QueryRow(ctx, `SELECT password FROM users WHERE id = $1`, userID).Scan(&currentHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.NewNotFoundError("user not found", nil)
		}
		return apperror.NewDatabaseError("failed to fetch user", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(currentHash), []byte(req.CurrentPassword)) != nil {
		return apperror.NewInvalidCredentialsError("Current password is incorrect.", nil)
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperror.NewInternalError("failed to hash password", err)
	}

	if _, err := s.db.Exec(ctx, `UPDATE users SET password = $1 WHERE id = $2`, string(newHash), userID); err != nil {
		return apperror.NewDatabaseError("failed to update password", err)
	}

	s.logger.Info("password changed", zap.Int64("user_id", userID))
	return nil
}
