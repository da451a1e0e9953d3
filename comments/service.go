package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/santhiya1818/vibescape/apperror"
	"github.com/santhiya1818/vibescape/auth"
)

// maxCommentLength bounds a single comment's text.
const maxCommentLength = 1000

// Service defines comment operations.
type Service interface {
	List(ctx context.Context) ([]Comment, error)
	Add(ctx context.Context, userID int64, username, text string) (*Comment, error)
	Delete(ctx context.Context, claims *auth.Claims, commentID int64) error
}

type serviceImpl struct {
	db *pgxpool.Pool
}

// NewService creates the comment service.
func NewService(db *pgxpool.Pool) Service {
	return &serviceImpl{db: db}
}

func (s *serviceImpl) List(ctx context.Context) ([]Comment, error) {
	query := `SELECT id, username, text, created_at FROM comments ORDER BY created_at DESC`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to fetch comments", err)
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.Username, &c.Text, &c.CreatedAt); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan comment", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read comments", err)
	}
	return comments, nil
}

func (s *serviceImpl) Add(ctx context.Context, userID int64, username, text string) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.NewValidationError("Comment text is required.", nil)
	}
	if len(text) > maxCommentLength {
		return nil, apperror.NewValidationError(
			fmt.Sprintf("comment exceeds the maximum size of %d characters", maxCommentLength), nil)
	}

	comment := Comment{Username: username, Text: text}
	query := `INSERT INTO comments (user_id, username, text)
	          VALUES ($1, $2, $3)
	          RETURNING id, created_at`
	err := s.db.QueryRow(ctx, query, userID, username, text).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to add comment", err)
	}
	return &comment, nil
}

// Delete removes a comment. Only the author or an admin may delete; anyone
// else gets Forbidden even when the comment exists.
func (s *serviceImpl) Delete(ctx context.Context, claims *auth.Claims, commentID int64) error {
	var ownerID int64
	err := s.db.QueryRow(ctx, `SELECT user_id FROM comments WHERE id = $1`, commentID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.NewNotFoundError(fmt.Sprintf("comment %d not found", commentID), nil)
		}
		return apperror.NewDatabaseError("failed to look up comment", err)
	}

	if ownerID != claims.UserID && claims.Role != auth.RoleAdmin {
		return apperror.NewForbiddenError("You can only delete your own comments.", nil)
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, commentID); err != nil {
		return apperror.NewDatabaseError("failed to delete comment", err)
	}
	return nil
}
