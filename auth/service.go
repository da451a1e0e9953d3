// Package auth implements the credential store and session handling:
// registration, login, password reset, the admin bootstrap, and the JWT
// middleware protecting the rest of the API.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/santhiya1818/vibescape/apperror"
	"github.com/santhiya1818/vibescape/config"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// resetTokenTTL is how long a password-reset token stays redeemable.
const resetTokenTTL = 10 * time.Minute

// minPasswordLength applies to registration and password resets. The users
// package enforces the same bound on password changes.
const minPasswordLength = 6

// Service provides registration, login and password-reset operations.
type Service struct {
	db     *pgxpool.Pool
	cfg    config.AuthConfig
	logger *zap.Logger
}

// NewService creates an auth Service.
func NewService(db *pgxpool.Pool, cfg config.AuthConfig, logger *zap.Logger) *Service {
	return &Service{db: db, cfg: cfg, logger: logger}
}

// Register creates a new user account. Username and email uniqueness is
// enforced by the database indexes; a violation surfaces as a conflict.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, apperror.NewValidationError("username, email, and password are required", nil)
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperror.NewValidationError("Password must be at least 6 characters.", nil)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	user := &User{
		Username:       req.Username,
		Email:          strings.ToLower(req.Email),
		HashedPassword: string(hashed),
		Role:           RoleUser,
	}

	query := `INSERT INTO users (username, email, password, role)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at`
	err = s.db.QueryRow(ctx, query, user.Username, user.Email, user.HashedPassword, user.Role).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperror.NewConflictError("User with that email or username already exists.", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	return user, nil
}

// Login checks credentials and issues a session token. Unknown email and
// wrong password return the same error so account existence is not leaked.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperror.NewValidationError("email and password are required", nil)
	}

	user, err := s.getUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewInvalidCredentialsError("Invalid credentials.", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, apperror.NewInvalidCredentialsError("Invalid credentials.", nil)
	}

	token, err := SignToken(s.cfg.JWTSecret, user, s.cfg.TokenDuration)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue session token", err)
	}

	return &LoginResponse{
		Message:  "Login successful! Redirecting...",
		Token:    token,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

// ForgotPassword stores a hashed reset token for the account, if one exists.
// The response is identical either way; the raw token is handed to the mail
// collaborator (here: the debug log) rather than returned to the caller.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return apperror.NewValidationError("email is required", nil)
	}

	user, err := s.getUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil // generic success, no account-existence oracle
		}
		return apperror.NewDatabaseError("failed to look up user", err)
	}

	raw, hash, err := NewResetToken()
	if err != nil {
		return apperror.NewInternalError("failed to generate reset token", err)
	}

	query := `UPDATE users SET password_reset_token = $1, password_reset_expires = $2 WHERE id = $3`
	if _, err := s.db.Exec(ctx, query, hash, time.Now().Add(resetTokenTTL), user.ID); err != nil {
		return apperror.NewDatabaseError("failed to store reset token", err)
	}

	s.logger.Debug("password reset token generated",
		zap.Int64("user_id", user.ID),
		zap.String("reset_token", raw),
	)
	return nil
}

// ResetPassword redeems a reset token. The token is matched by hash and must
// be unexpired; a successful reset clears the reset fields, making the token
// single-use.
func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if req.Token == "" || req.Password == "" {
		return apperror.NewValidationError("token and password are required", nil)
	}
	if len(req.Password) < minPasswordLength {
		return apperror.NewValidationError("Password must be at least 6 characters.", nil)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperror.NewInternalError("failed to hash password", err)
	}

	query := `UPDATE users
	          SET password = $1, password_reset_token = NULL, password_reset_expires = NULL
	          WHERE password_reset_token = $2 AND password_reset_expires > now()`
	tag, err := s.db.Exec(ctx, query, string(hashed), HashResetToken(req.Token))
	if err != nil {
		return apperror.NewDatabaseError("failed to reset password", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewValidationError("Token is invalid or has expired.", nil)
	}
	return nil
}

// EnsureDefaultAdmin creates the bootstrap admin account on first boot when
// no admin row exists yet. It is a deployment convenience, not an API.
func (s *Service) EnsureDefaultAdmin(ctx context.Context) error {
	var count int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM users WHERE role = $1`, RoleAdmin).Scan(&count); err != nil {
		return apperror.NewDatabaseError("failed to count admin users", err)
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(s.cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperror.NewInternalError("failed to hash admin password", err)
	}

	query := `INSERT INTO users (username, email, password, role) VALUES ($1, $2, $3, $4)`
	if _, err := s.db.Exec(ctx, query, "admin", strings.ToLower(s.cfg.AdminEmail), string(hashed), RoleAdmin); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			// Another instance won the race; that admin serves just as well.
			return nil
		}
		return apperror.NewDatabaseError("failed to create default admin", err)
	}

	s.logger.Warn("default admin user created, change the password after first login",
		zap.String("email", s.cfg.AdminEmail),
	)
	return nil
}

func (s *Service) getUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	query := `SELECT id, username, email, password, role, created_at FROM users WHERE email = $1`
	err := s.db.QueryRow(ctx, query, strings.ToLower(email)).
		Scan(&user.ID, &user.Username, &user.Email, &user.HashedPassword, &user.Role, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID retrieves a user by primary key.
func (s *Service) GetUserByID(ctx context.Context, id int64) (*User, error) {
	var user User
	query := `SELECT id, username, email, password, role, created_at FROM users WHERE id = $1`
	err := s.db.QueryRow(ctx, query, id).
		Scan(&user.ID, &user.Username, &user.Email, &user.HashedPassword, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user with ID %d not found", id), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}
	return &user, nil
}
