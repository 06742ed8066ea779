package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"jumewears/internal/model"
)

type productRepository struct {
	db *sqlx.DB
}

func NewProductRepository(db *sqlx.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `
	p.id, p.type, p.name, p.slug, p.description, p.price_cents,
	p.available, p.out_of_stock, p.category_id, c.slug AS category_slug,
	p.image_url, p.thumbnail_url, p.created_at
`

func (r *productRepository) GetByID(ctx context.Context, productType string, id uuid.UUID) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1 AND p.type = $2
	`
	var product model.Product
	err := r.db.GetContext(ctx, &product, query, id, productType)
	if err == sql.ErrNoRows {
		return nil, model.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &product, nil
}

func (r *productRepository) Exists(ctx context.Context, productType, objectID string) (bool, error) {
	id, err := uuid.Parse(objectID)
	if err != nil {
		return false, nil
	}
	var exists bool
	err = r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM products WHERE id = $1 AND type = $2)`, id, productType)
	if err != nil {
		return false, fmt.Errorf("check product: %w", err)
	}
	return exists, nil
}

func (r *productRepository) ListSection(ctx context.Context, productType, categorySlug string, limit int) ([]model.Product, bool, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.type = $1 AND p.available = TRUE
	`
	args := []interface{}{productType}
	if categorySlug != "" {
		query += ` AND c.slug = $2`
		args = append(args, categorySlug)
	}
	// Fetch one extra row to learn whether the section can expand further.
	query += fmt.Sprintf(` ORDER BY p.created_at DESC, p.id DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit+1)

	var products []model.Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, false, fmt.Errorf("list section: %w", err)
	}

	hasMore := len(products) > limit
	if hasMore {
		products = products[:limit]
	}
	return products, hasMore, nil
}

func (r *productRepository) Search(ctx context.Context, productType, categorySlug, searchQuery string) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.available = TRUE
	`
	var args []interface{}
	if productType != "" {
		args = append(args, productType)
		query += fmt.Sprintf(` AND p.type = $%d`, len(args))
	}
	if categorySlug != "" {
		args = append(args, categorySlug)
		query += fmt.Sprintf(` AND c.slug = $%d`, len(args))
	}
	if searchQuery != "" {
		args = append(args, "%"+searchQuery+"%")
		query += fmt.Sprintf(` AND (p.name ILIKE $%d OR p.description ILIKE $%d)`, len(args), len(args))
	}
	query += ` ORDER BY p.created_at DESC, p.id DESC`

	var products []model.Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return products, nil
}

func (r *productRepository) UpdateImage(ctx context.Context, id uuid.UUID, imageURL, thumbnailURL string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET image_url = $1, thumbnail_url = $2 WHERE id = $3`,
		imageURL, thumbnailURL, id)
	if err != nil {
		return fmt.Errorf("update product image: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

type blogRepository struct {
	db *sqlx.DB
}

func NewBlogRepository(db *sqlx.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) ExistsPost(ctx context.Context, objectID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM blog_posts WHERE id = $1 AND published = TRUE)`, objectID)
	if err != nil {
		return false, fmt.Errorf("check post: %w", err)
	}
	return exists, nil
}
