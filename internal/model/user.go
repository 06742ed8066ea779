package model

import (
	"errors"
	"time"
)

// User represents an account. IsStaff surfaces in the comment API as the
// admin badge.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	PasswordHashed string    `db:"password_hashed" json:"-"`
	IsStaff        bool      `db:"is_staff" json:"is_staff"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// UserSummary is the slim shape embedded in comments and testimonials.
type UserSummary struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

var (
	ErrUserNotFound = errors.New("user not found")

	ErrUsernameExists = errors.New("username already exists")

	ErrInvalidCredentials = errors.New("invalid credentials")
)
