package dto

import "time"

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ResetPasswordRequest carries the new password for a reset token.
type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// RequestPasswordResetRequest asks for a reset link to be mailed.
type RequestPasswordResetRequest struct {
	Email string `json:"email"`
}

// UserResponse is the API view of an account.
type UserResponse struct {
	ID               uint       `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	RegisteredOn     time.Time  `json:"registered_on"`
	EmailConfirmed   bool       `json:"email_confirmed"`
	EmailConfirmedOn *time.Time `json:"email_confirmed_on"`
}
