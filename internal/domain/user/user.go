// Package user defines the user domain model for authentication.
package user

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/agentry-dev/agentry/internal/domain"
)

// User represents a registered account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialized
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateRequest is the input for registering a new user.
type CreateRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"` //nolint:gosec // request field, not a hardcoded secret
}

// Validate checks that the CreateRequest has all required fields.
func (r *CreateRequest) Validate() error {
	if r.Username == "" {
		return fmt.Errorf("username is required: %w", domain.ErrValidation)
	}
	if r.Email == "" {
		return fmt.Errorf("email is required: %w", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return fmt.Errorf("invalid email format: %w", domain.ErrValidation)
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters: %w", domain.ErrValidation)
	}
	return nil
}

// LoginRequest is the input for authentication.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"` //nolint:gosec // request field, not a hardcoded secret
}

// Validate checks that the LoginRequest has all required fields.
func (r *LoginRequest) Validate() error {
	if r.Username == "" {
		return fmt.Errorf("username is required: %w", domain.ErrValidation)
	}
	if r.Password == "" {
		return fmt.Errorf("password is required: %w", domain.ErrValidation)
	}
	return nil
}

// LoginResponse is returned after successful authentication.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"` // seconds until the token expires
	User        User   `json:"user"`
}

// TokenClaims contains the JWT payload fields.
type TokenClaims struct {
	UserID   string `json:"sub"`
	Username string `json:"name"`
	IssuedAt int64  `json:"iat"`
	Expiry   int64  `json:"exp"`
}
