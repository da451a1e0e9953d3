// Request and response payloads for the auth endpoints.
package auth

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Username string `json:"username" example:"newuser"`
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"strongpassword123"`
}

// LoginRequest is the login payload. Login is by email, matching the client.
type LoginRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"strongpassword123"`
}

// LoginResponse carries the session token plus the fields the client caches.
type LoginResponse struct {
	Message  string `json:"message" example:"Login successful! Redirecting..."`
	Token    string `json:"token"`
	Username string `json:"username" example:"newuser"`
	Role     string `json:"role" example:"user"`
}

// ForgotPasswordRequest asks for a password reset token.
type ForgotPasswordRequest struct {
	Email string `json:"email" example:"user@example.com"`
}

// ResetPasswordRequest redeems a reset token for a new password.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password" example:"newstrongpassword"`
}

// MessageResponse is a plain confirmation body.
type MessageResponse struct {
	Message string `json:"message" example:"Registration successful! You can now log in."`
}

// AdminVerifyResponse confirms admin access for the verify endpoint.
type AdminVerifyResponse struct {
	Message string `json:"message" example:"Admin access verified"`
	User    string `json:"user" example:"admin"`
}
