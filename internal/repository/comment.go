package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"jumewears/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, userID int64, req model.CreateCommentRequest) (*model.Comment, error) {
	query := `
		INSERT INTO comments (user_id, content, content_type, object_id, parent_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, content, content_type, object_id, parent_id, created_at, updated_at
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query,
		userID, req.Content, req.ContentType, req.ObjectID, req.Parent)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &comment, nil
}

// commentRow carries one flat row with author and parent-author joins.
type commentRow struct {
	ID             int64          `db:"id"`
	UserID         int64          `db:"user_id"`
	Content        string         `db:"content"`
	ContentType    string         `db:"content_type"`
	ObjectID       string         `db:"object_id"`
	ParentID       *int64         `db:"parent_id"`
	ParentUsername sql.NullString `db:"parent_username"`
	CreatedAt      sql.NullTime   `db:"created_at"`
	UpdatedAt      sql.NullTime   `db:"updated_at"`
	AuthorID       int64          `db:"author_id"`
	AuthorUsername string         `db:"author_username"`
	AuthorIsStaff  bool           `db:"author_is_staff"`
}

func (r *commentRepository) GetByTarget(ctx context.Context, contentType, objectID string) ([]model.Comment, error) {
	query := `
		SELECT c.id, c.user_id, c.content, c.content_type, c.object_id, c.parent_id,
		       c.created_at, c.updated_at,
		       u.id AS author_id, u.username AS author_username, u.is_staff AS author_is_staff,
		       pu.username AS parent_username
		FROM comments c
		JOIN users u ON u.id = c.user_id
		LEFT JOIN comments p ON p.id = c.parent_id
		LEFT JOIN users pu ON pu.id = p.user_id
		WHERE c.content_type = $1 AND c.object_id = $2
		ORDER BY c.created_at ASC, c.id ASC
	`
	var rows []commentRow
	if err := r.db.SelectContext(ctx, &rows, query, contentType, objectID); err != nil {
		return nil, fmt.Errorf("get comments: %w", err)
	}

	comments := make([]model.Comment, len(rows))
	for i, row := range rows {
		comments[i] = model.Comment{
			ID:          row.ID,
			UserID:      row.UserID,
			Content:     row.Content,
			ContentType: row.ContentType,
			ObjectID:    row.ObjectID,
			Parent:      row.ParentID,
			CreatedAt:   row.CreatedAt.Time,
			UpdatedAt:   row.UpdatedAt.Time,
			IsAdmin:     row.AuthorIsStaff,
			User: &model.UserSummary{
				ID:       row.AuthorID,
				Username: row.AuthorUsername,
			},
		}
		if row.ParentUsername.Valid {
			comments[i].ParentUsername = row.ParentUsername.String
		}
	}
	return comments, nil
}

func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, `
		SELECT id, user_id, content, content_type, object_id, parent_id, created_at, updated_at
		FROM comments WHERE id = $1
	`, commentID)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}

func (r *commentRepository) HasReplies(ctx context.Context, commentID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM comments WHERE parent_id = $1)`, commentID)
	if err != nil {
		return false, fmt.Errorf("check replies: %w", err)
	}
	return exists, nil
}

func (r *commentRepository) SoftDelete(ctx context.Context, commentID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE comments SET content = $1, updated_at = NOW() WHERE id = $2`,
		model.DeletedContent, commentID)
	if err != nil {
		return fmt.Errorf("soft delete comment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

func (r *commentRepository) HardDelete(ctx context.Context, commentID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}
