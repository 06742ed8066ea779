package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"jumewears/internal/model"
)

type testimonialRepository struct {
	db *sqlx.DB
}

func NewTestimonialRepository(db *sqlx.DB) TestimonialRepository {
	return &testimonialRepository{db: db}
}

func (r *testimonialRepository) Create(ctx context.Context, t *model.Testimonial) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO testimonials (user_id, content, is_active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, t.UserID, t.Content, t.IsActive).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert testimonial: %w", err)
	}
	return nil
}

func (r *testimonialRepository) GetByUser(ctx context.Context, userID int64) (*model.Testimonial, error) {
	var t model.Testimonial
	err := r.db.GetContext(ctx, &t, `
		SELECT id, user_id, content, is_active, created_at, updated_at
		FROM testimonials WHERE user_id = $1
	`, userID)
	if err == sql.ErrNoRows {
		return nil, model.ErrTestimonialNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get testimonial: %w", err)
	}
	return &t, nil
}

func (r *testimonialRepository) Update(ctx context.Context, t *model.Testimonial) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE testimonials SET content = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
	`, t.Content, t.ID, t.UserID)
	if err != nil {
		return fmt.Errorf("update testimonial: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrTestimonialNotFound
	}
	return nil
}

func (r *testimonialRepository) Delete(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM testimonials WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete testimonial: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrTestimonialNotFound
	}
	return nil
}

func (r *testimonialRepository) ListActive(ctx context.Context) ([]model.Testimonial, error) {
	type row struct {
		model.Testimonial
		AuthorID       int64  `db:"author_id"`
		AuthorUsername string `db:"author_username"`
	}
	var rows []row
	err := r.db.SelectContext(ctx, &rows, `
		SELECT t.id, t.user_id, t.content, t.is_active, t.created_at, t.updated_at,
		       u.id AS author_id, u.username AS author_username
		FROM testimonials t
		JOIN users u ON u.id = t.user_id
		WHERE t.is_active = TRUE
		ORDER BY t.created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}

	out := make([]model.Testimonial, len(rows))
	for i, r := range rows {
		out[i] = r.Testimonial
		out[i].User = &model.UserSummary{ID: r.AuthorID, Username: r.AuthorUsername}
	}
	return out, nil
}
