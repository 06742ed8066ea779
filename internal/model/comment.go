package model

import (
	"errors"
	"time"
)

// DeletedContent is the sentinel stored when a comment with replies is
// removed. The client renders it distinctly and disables replying to it.
const DeletedContent = "[deleted]"

// CreatedAtLayout is the fixed display format attached to every comment
// ("January 02, 2006 03:04 PM").
const CreatedAtLayout = "January 02, 2006 03:04 PM"

// MaxCommentLength bounds comment bodies.
const MaxCommentLength = 2200

// Comment is one node of a thread attached to a (content_type, object_id)
// target. Replies nest recursively; the full tree is rebuilt from flat rows
// on every load, so no cycle can occur.
type Comment struct {
	ID                 int64        `db:"id" json:"id"`
	User               *UserSummary `json:"user,omitempty"`
	UserID             int64        `db:"user_id" json:"-"`
	IsAdmin            bool         `db:"is_admin" json:"is_admin"`
	Content            string       `db:"content" json:"content"`
	ContentType        string       `db:"content_type" json:"content_type"`
	ObjectID           string       `db:"object_id" json:"object_id"`
	Parent             *int64       `db:"parent_id" json:"parent"`
	ParentUsername     string       `db:"parent_username" json:"parent_username,omitempty"`
	CreatedAt          time.Time    `db:"created_at" json:"created_at"`
	CreatedAtFormatted string       `json:"created_at_formatted"`
	UpdatedAt          time.Time    `db:"updated_at" json:"updated_at"`
	Replies            []*Comment   `json:"replies"`
	ReplyCount         int          `json:"reply_count"`
}

// IsDeleted reports whether the comment has been soft-deleted.
func (c *Comment) IsDeleted() bool {
	return c.Content == DeletedContent
}

// CreateCommentRequest is the POST /api/comments/ body.
type CreateCommentRequest struct {
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
	ObjectID    string `json:"object_id"`
	Parent      *int64 `json:"parent"`
}

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("not the owner of this comment")
	ErrContentRequired = errors.New("comment content is required")
	ErrContentTooLong  = errors.New("comment content too long")
	ErrInvalidTarget   = errors.New("invalid content type or object id")
	ErrParentMismatch  = errors.New("parent comment belongs to a different target")
)
