package model

import (
	"errors"
	"time"
)

// Testimonial window sizes for the show-more toggle fragment.
const (
	TestimonialsCollapsed = 6
	TestimonialsExpanded  = 12
)

// Testimonial is a home-page quote. Each user may have at most one.
type Testimonial struct {
	ID        int64        `db:"id" json:"id"`
	UserID    int64        `db:"user_id" json:"-"`
	User      *UserSummary `json:"user,omitempty"`
	Content   string       `db:"content" json:"content"`
	IsActive  bool         `db:"is_active" json:"is_active"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}

var (
	ErrTestimonialNotFound = errors.New("testimonial not found")
	ErrTestimonialExists   = errors.New("user already has a testimonial")
)
