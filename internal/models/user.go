package models

import (
	"errors"
	"time"
)

// Sentinel errors surfaced by the credential store.
var (
	// ErrUserNotFound is returned when a lookup does not match any user row
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when an insert hits the unique email index
	ErrDuplicateEmail = errors.New("email already in use")
)

// User represents a registered account in the system
type User struct {
	ID           int       `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize password hash
	IsVerified   bool      `json:"isVerified"`
	IsAdmin      bool      `json:"isAdmin"`
	IsSuperAdmin bool      `json:"isSuperAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FirstName returns the first word of the user's full name, used to greet
// the user in verification emails.
func (u *User) FirstName() string {
	for i, r := range u.FullName {
		if r == ' ' {
			return u.FullName[:i]
		}
	}
	return u.FullName
}

// RegisterRequest represents a registration request body
type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// FederatedProfile is the subset of an external identity provider's profile
// the core consumes. It is treated as an ordinary registration source.
type FederatedProfile struct {
	Email         string
	FullName      string
	EmailVerified bool
}
