package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Product types. These double as comment content types for the products app.
const (
	ProductTypeKit    = "kit"
	ProductTypeTour   = "tour"
	ProductTypeChurch = "church"
)

// ValidProductType reports whether t names a known catalog section.
func ValidProductType(t string) bool {
	switch t {
	case ProductTypeKit, ProductTypeTour, ProductTypeChurch:
		return true
	}
	return false
}

// Section sizes for the load-more fragment: collapsed shows the lead
// products, expanded shows the full window.
const (
	SectionCollapsedSize = 6
	SectionExpandedSize  = 24
)

type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Slug string `db:"slug" json:"slug"`
}

type Product struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Type         string    `db:"type" json:"type"`
	Name         string    `db:"name" json:"name"`
	Slug         string    `db:"slug" json:"slug"`
	Description  string    `db:"description" json:"description"`
	PriceCents   int64     `db:"price_cents" json:"price_cents"`
	Available    bool      `db:"available" json:"available"`
	OutOfStock   bool      `db:"out_of_stock" json:"out_of_stock"`
	CategoryID   *int64    `db:"category_id" json:"category_id,omitempty"`
	CategorySlug *string   `db:"category_slug" json:"category_slug,omitempty"`
	ImageURL     *string   `db:"image_url" json:"image_url,omitempty"`
	ThumbnailURL *string   `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// CanBePurchased gates add-to-cart.
func (p Product) CanBePurchased() bool {
	return p.Available && !p.OutOfStock
}

// ProductSection feeds the load-more HTML fragment. The data attributes it
// carries must survive into the rendered markup so the client can re-wire
// its handlers after swapping the section.
type ProductSection struct {
	Type     string
	Expanded bool
	Category string
	Products []Product
	HasMore  bool
}

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrUnknownSection   = errors.New("unknown product section")
	ErrCategoryNotFound = errors.New("category not found")
)
