package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Garment sizes accepted on an order entry.
var OrderSizes = []string{"S", "M", "L", "XL", "XXL", "XXXL", "XXXXL"}

// ValidOrderSize reports whether s is one of OrderSizes.
func ValidOrderSize(s string) bool {
	for _, v := range OrderSizes {
		if v == s {
			return true
		}
	}
	return false
}

// CouponsPerLink is how many coupon codes are generated when a link is created.
const CouponsPerLink = 10

// CouponCodeLength is the length of a generated coupon code (A-Z, 0-9).
const CouponCodeLength = 8

// BulkOrderLink is a shareable group-order page. OrganizationName is stored
// uppercased.
type BulkOrderLink struct {
	ID                    uuid.UUID `db:"id" json:"id"`
	OrganizationName      string    `db:"organization_name" json:"organization_name"`
	PricePerItemCents     int64     `db:"price_per_item_cents" json:"price_per_item_cents"`
	CustomBrandingEnabled bool      `db:"custom_branding_enabled" json:"custom_branding_enabled"`
	PaymentDeadline       time.Time `db:"payment_deadline" json:"payment_deadline"`
	CreatedBy             int64     `db:"created_by" json:"created_by"`
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time `db:"updated_at" json:"updated_at"`

	Orders []OrderEntry `json:"orders,omitempty"`
}

// IsExpired reports whether the payment deadline has passed.
func (l *BulkOrderLink) IsExpired() bool {
	return time.Now().After(l.PaymentDeadline)
}

type CouponCode struct {
	ID        uuid.UUID `db:"id" json:"id"`
	LinkID    uuid.UUID `db:"bulk_order_id" json:"bulk_order"`
	Code      string    `db:"code" json:"code"`
	IsUsed    bool      `db:"is_used" json:"is_used"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// OrderEntry is one participant's submission under a link. SerialNumber is
// assigned per link inside a row-locking transaction so it is gapless even
// under concurrent submissions. FullName and CustomName are stored uppercased.
type OrderEntry struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	LinkID           uuid.UUID  `db:"bulk_order_id" json:"bulk_order"`
	SerialNumber     int        `db:"serial_number" json:"serial_number"`
	Email            string     `db:"email" json:"email"`
	FullName         string     `db:"full_name" json:"full_name"`
	Size             string     `db:"size" json:"size"`
	CustomName       string     `db:"custom_name" json:"custom_name,omitempty"`
	CouponUsed       *uuid.UUID `db:"coupon_used_id" json:"coupon_used,omitempty"`
	Paid             bool       `db:"paid" json:"paid"`
	PaymentReference *string    `db:"payment_reference" json:"payment_reference,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// BulkOrderLinkSummary is the public link page payload: the link itself
// plus submission counts, without the entries' personal details.
type BulkOrderLinkSummary struct {
	Link             *BulkOrderLink `json:"link"`
	OrderCount       int            `json:"order_count"`
	PaidCount        int            `json:"paid_count"`
	CouponsRemaining int            `json:"coupons_remaining"`
	Expired          bool           `json:"expired"`
}

// CreateLinkRequest is the POST /bulk-orders/ body.
type CreateLinkRequest struct {
	OrganizationName      string    `json:"organization_name"`
	PricePerItemCents     int64     `json:"price_per_item_cents"`
	CustomBrandingEnabled bool      `json:"custom_branding_enabled"`
	PaymentDeadline       time.Time `json:"payment_deadline"`
}

// CreateEntryRequest is the parsed order-entry form.
type CreateEntryRequest struct {
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	Size       string `json:"size"`
	CustomName string `json:"custom_name"`
	CouponCode string `json:"coupon_code"`
}

// FieldErrors maps field name to its validation messages. It serializes to
// the {"errors": {"field": ["msg", ...]}} shape the bulk-order form helper
// renders beneath each input (first message per field).
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

func (fe FieldErrors) HasErrors() bool {
	return len(fe) > 0
}

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// AsFieldErrors unwraps err into FieldErrors when possible.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

var (
	ErrLinkNotFound   = errors.New("bulk order link not found")
	ErrLinkExpired    = errors.New("bulk order link has expired")
	ErrOrderNotFound  = errors.New("order entry not found")
	ErrDeadlineInPast = errors.New("payment deadline must be in the future")
	ErrCouponNotFound = errors.New("invalid or already used coupon code")
)
