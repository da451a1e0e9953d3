package auth

import "time"

// Role values stored on a user row and carried in session tokens.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // never serialized
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}
