package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Extra-field keys that are canonicalized to uppercase before persistence.
// Downstream matching (order item generation) relies on the canonical form.
const (
	ExtraCallUpNumber   = "call_up_number"
	ExtraCustomNameText = "custom_name_text"
)

// MaxItemQuantity caps a single cart line.
const MaxItemQuantity = 99

// Cart belongs to a user or, for guests, is identified only by the UUID
// carried in a cookie.
type Cart struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	UserID    *int64     `db:"user_id" json:"user,omitempty"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// TotalCents sums the line totals.
func (c *Cart) TotalCents() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.TotalCents()
	}
	return total
}

// Count is the value returned as cartCount after every mutation: the sum of
// quantities across all lines.
func (c *Cart) Count() int {
	var n int
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// CartItem is one product line. (CartID, ProductType, ProductID) is unique;
// duplicate adds merge into the existing line. PriceCents is not stored: it
// is joined from the product on read so lines always price at the current
// product price.
type CartItem struct {
	ID          uuid.UUID   `db:"id" json:"id"`
	CartID      uuid.UUID   `db:"cart_id" json:"cart"`
	ProductType string      `db:"product_type" json:"product_type"`
	ProductID   uuid.UUID   `db:"product_id" json:"product_id"`
	Quantity    int         `db:"quantity" json:"quantity"`
	PriceCents  int64       `db:"price_cents" json:"price_cents"`
	Extra       ExtraFields `db:"extra_fields" json:"extra_fields"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
}

func (i *CartItem) TotalCents() int64 {
	return i.PriceCents * int64(i.Quantity)
}

// ExtraFields is a free-form JSONB column for per-line metadata such as the
// call-up number printed on customized items.
type ExtraFields map[string]string

func (e ExtraFields) Value() (driver.Value, error) {
	if e == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(e)
}

func (e *ExtraFields) Scan(src interface{}) error {
	if src == nil {
		*e = ExtraFields{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("extra_fields: cannot scan %T", src)
	}
	return json.Unmarshal(b, e)
}

// AddToCartRequest is the parsed multipart form for POST /cart/items.
type AddToCartRequest struct {
	ProductType    string
	ProductID      string
	Quantity       int
	CallUpNumber   string
	CustomNameText string
}

// CartStatusResponse is the JSON contract the add-to-cart client consumes:
// {"status":"success","cartCount":N}.
type CartStatusResponse struct {
	Status    string `json:"status"`
	CartCount int    `json:"cartCount"`
	Detail    string `json:"detail,omitempty"`
}

var (
	ErrCartNotFound          = errors.New("cart not found")
	ErrCartItemNotFound      = errors.New("cart item not found")
	ErrInvalidQuantity       = errors.New("quantity must be greater than zero")
	ErrProductNotPurchasable = errors.New("product is not available")
)
