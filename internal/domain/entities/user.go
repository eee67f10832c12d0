// Package entities defines the core domain models for the crime-reporting
// backend. These structs represent the business concepts (User, Report,
// Feedback, LocationPoint) and live in the innermost layer of the architecture;
// they have no dependencies on databases, HTTP, or external services.
//
// Go Learning Note - "internal/" directory:
// Packages under internal/ cannot be imported by code outside this module. Go
// enforces this at the compiler level.
package entities

import "time"

// User is a registered reporter. PasswordHash is never serialized.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewUser(name, email, phone, passwordHash string) *User {
	return &User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
}

// Feedback is an app rating left by a signed-in user.
type Feedback struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	Rating    int       `json:"rating"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func NewFeedback(id string, userID int64, email string, rating int, message string) *Feedback {
	return &Feedback{
		ID:        id,
		UserID:    userID,
		Email:     email,
		Rating:    rating,
		Message:   message,
		CreatedAt: time.Now(),
	}
}
