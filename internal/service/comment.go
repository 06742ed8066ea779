package service

import (
	"context"
	"fmt"
	"strings"

	"jumewears/internal/model"
	"jumewears/internal/repository"
)

// CommentService handles business logic for threaded comments.
//
// Commentable targets are looked up through a small registry: the blog app
// owns "post", the products app owns the catalog types. Writes reject
// unknown pairs before anything touches the comments table; reads never
// validate the target and simply return whatever comments exist for it.
type CommentService struct {
	repo        repository.CommentRepository
	productRepo repository.ProductRepository
	blogRepo    repository.BlogRepository
}

func NewCommentService(repo repository.CommentRepository, productRepo repository.ProductRepository, blogRepo repository.BlogRepository) *CommentService {
	return &CommentService{
		repo:        repo,
		productRepo: productRepo,
		blogRepo:    blogRepo,
	}
}

// targetExists resolves the content-type registry.
func (s *CommentService) targetExists(ctx context.Context, contentType, objectID string) (bool, error) {
	switch contentType {
	case "post":
		return s.blogRepo.ExistsPost(ctx, objectID)
	case model.ProductTypeKit, model.ProductTypeTour, model.ProductTypeChurch:
		return s.productRepo.Exists(ctx, contentType, objectID)
	default:
		return false, nil
	}
}

func commentableType(contentType string) bool {
	switch contentType {
	case "post", model.ProductTypeKit, model.ProductTypeTour, model.ProductTypeChurch:
		return true
	}
	return false
}

// Create validates and stores a comment or reply.
func (s *CommentService) Create(ctx context.Context, userID int64, req model.CreateCommentRequest) (*model.Comment, error) {
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return nil, model.ErrContentRequired
	}
	if len(req.Content) > model.MaxCommentLength {
		return nil, model.ErrContentTooLong
	}

	ok, err := s.targetExists(ctx, req.ContentType, req.ObjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve comment target: %w", err)
	}
	if !ok {
		return nil, model.ErrInvalidTarget
	}

	// A reply must land on the same target as its parent.
	if req.Parent != nil {
		parent, err := s.repo.GetByID(ctx, *req.Parent)
		if err != nil {
			return nil, err
		}
		if parent.ContentType != req.ContentType || parent.ObjectID != req.ObjectID {
			return nil, model.ErrParentMismatch
		}
	}

	comment, err := s.repo.Create(ctx, userID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	comment.CreatedAtFormatted = comment.CreatedAt.Format(model.CreatedAtLayout)
	if comment.Replies == nil {
		comment.Replies = []*model.Comment{}
	}
	return comment, nil
}

// GetThread returns the full comment tree for a target. Top-level comments
// are ordered newest first, replies oldest first at every depth. A target
// with no comments, including one that does not exist, yields an empty
// thread rather than an error.
func (s *CommentService) GetThread(ctx context.Context, contentType, objectID string) ([]*model.Comment, error) {
	if !commentableType(contentType) {
		return []*model.Comment{}, nil
	}

	rows, err := s.repo.GetByTarget(ctx, contentType, objectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	return buildThread(rows), nil
}

// buildThread rebuilds the tree from flat rows. Rows arrive ordered
// created_at ASC so a parent always precedes its replies; orphaned replies
// (parent hard-deleted out of band) are dropped.
func buildThread(rows []model.Comment) []*model.Comment {
	byID := make(map[int64]*model.Comment, len(rows))
	var topLevel []*model.Comment

	for i := range rows {
		c := &rows[i]
		c.CreatedAtFormatted = c.CreatedAt.Format(model.CreatedAtLayout)
		c.Replies = []*model.Comment{}
		byID[c.ID] = c

		if c.Parent == nil {
			topLevel = append(topLevel, c)
			continue
		}

		parent, ok := byID[*c.Parent]
		if !ok {
			continue
		}
		if parent.User != nil {
			c.ParentUsername = parent.User.Username
		}
		parent.Replies = append(parent.Replies, c)
	}

	for _, c := range byID {
		c.ReplyCount = len(c.Replies)
	}

	// Replies keep their oldest-first insertion order; top-level flips to
	// newest first.
	for i, j := 0, len(topLevel)-1; i < j; i, j = i+1, j-1 {
		topLevel[i], topLevel[j] = topLevel[j], topLevel[i]
	}

	if topLevel == nil {
		topLevel = []*model.Comment{}
	}
	return topLevel
}

// Delete removes a comment. The owner or a staff member may delete; a
// comment that has replies is soft-deleted so the thread keeps its shape.
func (s *CommentService) Delete(ctx context.Context, commentID, userID int64, isStaff bool) error {
	comment, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.UserID != userID && !isStaff {
		return model.ErrNotCommentOwner
	}

	hasReplies, err := s.repo.HasReplies(ctx, commentID)
	if err != nil {
		return fmt.Errorf("failed to check replies: %w", err)
	}

	if hasReplies {
		return s.repo.SoftDelete(ctx, commentID)
	}
	return s.repo.HardDelete(ctx, commentID)
}
