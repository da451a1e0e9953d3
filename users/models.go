// Package users covers the signed-in user's own account: profile reads,
// profile updates, and password changes. Registration and login live in the
// auth package.
package users

import "time"

// Profile is the public view of an account.
type Profile struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// UpdateProfileRequest changes username and/or email. Empty fields keep
// their current value.
type UpdateProfileRequest struct {
	Username string `json:"username" example:"santhiya"`
	Email    string `json:"email" example:"santhiya@example.com"`
}

// ChangePasswordRequest swaps the password after verifying the current one.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
