package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"jumewears/internal/model"
)

type feedRepository struct {
	db *sqlx.DB
}

func NewFeedRepository(db *sqlx.DB) FeedRepository {
	return &feedRepository{db: db}
}

func (r *feedRepository) ListImages(ctx context.Context, offset, limit int) ([]model.FeedImage, error) {
	var images []model.FeedImage
	err := r.db.SelectContext(ctx, &images, `
		SELECT id, url, upload_date, active
		FROM feed_images
		WHERE active = TRUE
		ORDER BY upload_date DESC
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list feed images: %w", err)
	}
	return images, nil
}

func (r *feedRepository) CreateImage(ctx context.Context, image *model.FeedImage) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO feed_images (id, url, upload_date, active)
		VALUES ($1, $2, NOW(), $3)
	`, image.ID, image.URL, image.Active)
	if err != nil {
		return fmt.Errorf("create feed image: %w", err)
	}
	return nil
}

func (r *feedRepository) DeactivateImage(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE feed_images SET active = FALSE WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("deactivate feed image: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate feed image: %w", err)
	}
	if rows == 0 {
		return model.ErrFeedImageNotFound
	}
	return nil
}
