package domain

import (
	"time"
)

// User represents a domain user object
type User struct {
	ID           string
	Email        string
	PasswordHash string
	GoogleID     string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a new User instance
func NewUser(email string) *User {
	now := time.Now()
	return &User{
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate validates the user
func (u *User) Validate() error {
	if u.Email == "" {
		return ValidationErrors{NewMissingFieldError("email")}
	}
	if u.PasswordHash == "" && u.GoogleID == "" {
		return ValidationErrors{NewMissingFieldError("password")}
	}
	return nil
}
