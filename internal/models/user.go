package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultMonthlyLimit is the spending limit applied to users who never set one.
const DefaultMonthlyLimit = 2000

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique). Used for login.
	Email string

	// DisplayName is shown to other group members.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// MonthlyLimit is the user's personal monthly spending target.
	MonthlyLimit float64

	// Currency is the user's preferred display currency.
	Currency string

	CreatedAt int64
	UpdatedAt int64
}

// NewUser builds a user with a fresh ID and default preferences.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		MonthlyLimit: DefaultMonthlyLimit,
		Currency:     "USD",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
