package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"jumewears/internal/model"
)

type cartRepository struct {
	db *sqlx.DB
}

func NewCartRepository(db *sqlx.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Create(ctx context.Context, userID *int64) (*model.Cart, error) {
	cart := model.Cart{ID: uuid.New(), UserID: userID}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO carts (id, user_id) VALUES ($1, $2)
		RETURNING created_at, updated_at
	`, cart.ID, userID).Scan(&cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert cart: %w", err)
	}
	return &cart, nil
}

func (r *cartRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.GetContext(ctx, &cart, `
		SELECT id, user_id, created_at, updated_at FROM carts WHERE id = $1
	`, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return &cart, nil
}

func (r *cartRepository) GetOrCreateForUser(ctx context.Context, userID int64) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.GetContext(ctx, &cart, `
		SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1
	`, userID)
	if err == nil {
		return &cart, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("get user cart: %w", err)
	}
	return r.Create(ctx, &userID)
}

func (r *cartRepository) GetItems(ctx context.Context, cartID uuid.UUID) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.SelectContext(ctx, &items, `
		SELECT ci.id, ci.cart_id, ci.product_type, ci.product_id, ci.quantity,
		       p.price_cents, ci.extra_fields, ci.created_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at ASC
	`, cartID)
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}
	return items, nil
}

func (r *cartRepository) UpsertItem(ctx context.Context, item *model.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	// Duplicate adds replace quantity and extra fields instead of stacking a
	// second line, which keeps re-submissions after a reload harmless.
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO cart_items (id, cart_id, product_type, product_id, quantity, extra_fields)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (cart_id, product_type, product_id) DO UPDATE
		SET quantity = EXCLUDED.quantity, extra_fields = EXCLUDED.extra_fields
		RETURNING id, created_at
	`, item.ID, item.CartID, item.ProductType, item.ProductID, item.Quantity, item.Extra).
		Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}
	return nil
}

func (r *cartRepository) UpdateItemQuantity(ctx context.Context, cartID, productID uuid.UUID, productType string, quantity int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cart_items SET quantity = $1
		WHERE cart_id = $2 AND product_type = $3 AND product_id = $4
	`, quantity, cartID, productType, productID)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrCartItemNotFound
	}
	return nil
}

func (r *cartRepository) RemoveItem(ctx context.Context, cartID, productID uuid.UUID, productType string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE cart_id = $1 AND product_type = $2 AND product_id = $3
	`, cartID, productType, productID)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrCartItemNotFound
	}
	return nil
}

func (r *cartRepository) CountItems(ctx context.Context, cartID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COALESCE(SUM(quantity), 0) FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		return 0, fmt.Errorf("count cart items: %w", err)
	}
	return count, nil
}
