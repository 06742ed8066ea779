package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"jumewears/internal/model"
)

func newCommentService(repo *mockCommentRepository, productRepo *mockProductRepository, blogRepo *mockBlogRepository) *CommentService {
	if repo == nil {
		repo = &mockCommentRepository{}
	}
	if productRepo == nil {
		productRepo = &mockProductRepository{existsFn: func(ctx context.Context, productType, objectID string) (bool, error) {
			return true, nil
		}}
	}
	if blogRepo == nil {
		blogRepo = &mockBlogRepository{existsPostFn: func(ctx context.Context, objectID string) (bool, error) {
			return true, nil
		}}
	}
	return NewCommentService(repo, productRepo, blogRepo)
}

// =============================================================================
// CREATE TESTS
// =============================================================================

func TestCommentService_Create_Success(t *testing.T) {
	created := time.Date(2026, time.March, 5, 14, 27, 0, 0, time.UTC)
	mockRepo := &mockCommentRepository{
		createFn: func(ctx context.Context, userID int64, req model.CreateCommentRequest) (*model.Comment, error) {
			return &model.Comment{
				ID:          10,
				UserID:      userID,
				User:        &model.UserSummary{ID: userID, Username: "ada"},
				Content:     req.Content,
				ContentType: req.ContentType,
				ObjectID:    req.ObjectID,
				CreatedAt:   created,
			}, nil
		},
	}
	svc := newCommentService(mockRepo, nil, nil)

	comment, err := svc.Create(context.Background(), 1, model.CreateCommentRequest{
		Content:     "  Great kit!  ",
		ContentType: model.ProductTypeKit,
		ObjectID:    "5c0f1e9e-0000-0000-0000-000000000001",
	})

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if comment.Content != "Great kit!" {
		t.Errorf("content should be trimmed, got %q", comment.Content)
	}
	if comment.CreatedAtFormatted != "March 05, 2026 02:27 PM" {
		t.Errorf("created_at_formatted = %q", comment.CreatedAtFormatted)
	}
	if comment.Replies == nil {
		t.Error("replies should be an empty slice, not nil")
	}
}

func TestCommentService_Create_BlankContent(t *testing.T) {
	svc := newCommentService(nil, nil, nil)

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := svc.Create(context.Background(), 1, model.CreateCommentRequest{
			Content:     content,
			ContentType: "post",
			ObjectID:    "1",
		})
		if !errors.Is(err, model.ErrContentRequired) {
			t.Errorf("content %q: error = %v, want %v", content, err, model.ErrContentRequired)
		}
	}
}

func TestCommentService_Create_ContentTooLong(t *testing.T) {
	svc := newCommentService(nil, nil, nil)

	_, err := svc.Create(context.Background(), 1, model.CreateCommentRequest{
		Content:     strings.Repeat("a", model.MaxCommentLength+1),
		ContentType: "post",
		ObjectID:    "1",
	})
	if !errors.Is(err, model.ErrContentTooLong) {
		t.Errorf("error = %v, want %v", err, model.ErrContentTooLong)
	}
}

func TestCommentService_Create_TargetRegistry(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		blogExists  bool
		prodExists  bool
		wantErr     error
	}{
		{name: "blog post ok", contentType: "post", blogExists: true, wantErr: nil},
		{name: "kit ok", contentType: model.ProductTypeKit, prodExists: true, wantErr: nil},
		{name: "tour ok", contentType: model.ProductTypeTour, prodExists: true, wantErr: nil},
		{name: "church ok", contentType: model.ProductTypeChurch, prodExists: true, wantErr: nil},
		{name: "unknown type", contentType: "banner", wantErr: model.ErrInvalidTarget},
		{name: "missing post", contentType: "post", blogExists: false, wantErr: model.ErrInvalidTarget},
		{name: "missing product", contentType: model.ProductTypeKit, prodExists: false, wantErr: model.ErrInvalidTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blogRepo := &mockBlogRepository{existsPostFn: func(ctx context.Context, objectID string) (bool, error) {
				return tt.blogExists, nil
			}}
			productRepo := &mockProductRepository{existsFn: func(ctx context.Context, productType, objectID string) (bool, error) {
				return tt.prodExists, nil
			}}
			mockRepo := &mockCommentRepository{
				createFn: func(ctx context.Context, userID int64, req model.CreateCommentRequest) (*model.Comment, error) {
					return &model.Comment{ID: 1, Content: req.Content, CreatedAt: time.Now()}, nil
				},
			}
			svc := NewCommentService(mockRepo, productRepo, blogRepo)

			_, err := svc.Create(context.Background(), 1, model.CreateCommentRequest{
				Content:     "hello",
				ContentType: tt.contentType,
				ObjectID:    "1",
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCommentService_Create_ParentMismatch(t *testing.T) {
	parentID := int64(7)
	mockRepo := &mockCommentRepository{
		getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			return &model.Comment{ID: commentID, ContentType: model.ProductTypeTour, ObjectID: "other"}, nil
		},
	}
	svc := newCommentService(mockRepo, nil, nil)

	_, err := svc.Create(context.Background(), 1, model.CreateCommentRequest{
		Content:     "reply",
		ContentType: model.ProductTypeKit,
		ObjectID:    "this",
		Parent:      &parentID,
	})
	if !errors.Is(err, model.ErrParentMismatch) {
		t.Errorf("error = %v, want %v", err, model.ErrParentMismatch)
	}
}

func TestCommentService_Create_ParentNotFound(t *testing.T) {
	parentID := int64(999)
	svc := newCommentService(&mockCommentRepository{}, nil, nil)

	_, err := svc.Create(context.Background(), 1, model.CreateCommentRequest{
		Content:     "reply",
		ContentType: "post",
		ObjectID:    "1",
		Parent:      &parentID,
	})
	if !errors.Is(err, model.ErrCommentNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrCommentNotFound)
	}
}

// =============================================================================
// THREAD TESTS
// =============================================================================

func int64Ptr(v int64) *int64 { return &v }

func TestCommentService_GetThread_TreeShape(t *testing.T) {
	base := time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)
	// Flat rows in created_at ASC order: two top-level comments, the first
	// with two replies and one nested reply.
	rows := []model.Comment{
		{ID: 1, User: &model.UserSummary{ID: 1, Username: "ada"}, Content: "first", CreatedAt: base},
		{ID: 2, User: &model.UserSummary{ID: 2, Username: "bayo"}, Content: "reply one", Parent: int64Ptr(1), CreatedAt: base.Add(1 * time.Minute)},
		{ID: 3, User: &model.UserSummary{ID: 3, Username: "chi"}, Content: "second", CreatedAt: base.Add(2 * time.Minute)},
		{ID: 4, User: &model.UserSummary{ID: 1, Username: "ada"}, Content: "reply two", Parent: int64Ptr(1), CreatedAt: base.Add(3 * time.Minute)},
		{ID: 5, User: &model.UserSummary{ID: 2, Username: "bayo"}, Content: "nested", Parent: int64Ptr(2), CreatedAt: base.Add(4 * time.Minute)},
	}

	mockRepo := &mockCommentRepository{
		getByTargetFn: func(ctx context.Context, contentType, objectID string) ([]model.Comment, error) {
			return rows, nil
		},
	}
	svc := newCommentService(mockRepo, nil, nil)

	thread, err := svc.GetThread(context.Background(), "post", "1")
	if err != nil {
		t.Fatalf("GetThread failed: %v", err)
	}

	// Top-level newest first
	if len(thread) != 2 {
		t.Fatalf("top-level count = %d, want 2", len(thread))
	}
	if thread[0].ID != 3 || thread[1].ID != 1 {
		t.Errorf("top-level order = [%d %d], want [3 1]", thread[0].ID, thread[1].ID)
	}

	// Replies oldest first
	first := thread[1]
	if len(first.Replies) != 2 {
		t.Fatalf("reply count = %d, want 2", len(first.Replies))
	}
	if first.Replies[0].ID != 2 || first.Replies[1].ID != 4 {
		t.Errorf("reply order = [%d %d], want [2 4]", first.Replies[0].ID, first.Replies[1].ID)
	}
	if first.ReplyCount != 2 {
		t.Errorf("reply_count = %d, want 2", first.ReplyCount)
	}

	// Nested reply carries the parent's username
	nested := first.Replies[0].Replies
	if len(nested) != 1 || nested[0].ID != 5 {
		t.Fatalf("nested replies = %v", nested)
	}
	if nested[0].ParentUsername != "bayo" {
		t.Errorf("parent_username = %q, want %q", nested[0].ParentUsername, "bayo")
	}

	// Every node gets the display timestamp
	if thread[0].CreatedAtFormatted != "January 10, 2026 09:02 AM" {
		t.Errorf("created_at_formatted = %q", thread[0].CreatedAtFormatted)
	}
}

func TestCommentService_GetThread_Empty(t *testing.T) {
	svc := newCommentService(&mockCommentRepository{}, nil, nil)

	thread, err := svc.GetThread(context.Background(), "post", "1")
	if err != nil {
		t.Fatalf("GetThread failed: %v", err)
	}
	if thread == nil {
		t.Error("empty thread should be a non-nil slice so it serializes as []")
	}
	if len(thread) != 0 {
		t.Errorf("thread length = %d, want 0", len(thread))
	}
}

func TestCommentService_GetThread_UnknownContentType(t *testing.T) {
	mockRepo := &mockCommentRepository{
		getByTargetFn: func(ctx context.Context, contentType, objectID string) ([]model.Comment, error) {
			t.Error("unknown content types should not reach the repository")
			return nil, nil
		},
	}
	svc := newCommentService(mockRepo, nil, nil)

	thread, err := svc.GetThread(context.Background(), "mystery", "42")
	if err != nil {
		t.Fatalf("GetThread failed: %v", err)
	}
	if thread == nil || len(thread) != 0 {
		t.Errorf("thread = %v, want empty slice", thread)
	}
}

func TestCommentService_GetThread_MissingTarget(t *testing.T) {
	// Reads skip the existence check the write path performs, so a target
	// that does not exist behaves like one nobody has commented on.
	svc := newCommentService(nil, nil, &mockBlogRepository{existsPostFn: func(ctx context.Context, objectID string) (bool, error) {
		return false, nil
	}})

	thread, err := svc.GetThread(context.Background(), "post", "missing")
	if err != nil {
		t.Fatalf("GetThread failed: %v", err)
	}
	if thread == nil || len(thread) != 0 {
		t.Errorf("thread = %v, want empty slice", thread)
	}
}

// =============================================================================
// DELETE TESTS
// =============================================================================

func TestCommentService_Delete(t *testing.T) {
	tests := []struct {
		name       string
		userID     int64
		isStaff    bool
		ownerID    int64
		hasReplies bool
		wantErr    error
		wantSoft   bool
		wantHard   bool
	}{
		{name: "owner hard delete leaf", userID: 1, ownerID: 1, hasReplies: false, wantHard: true},
		{name: "owner soft delete with replies", userID: 1, ownerID: 1, hasReplies: true, wantSoft: true},
		{name: "staff can delete others", userID: 2, isStaff: true, ownerID: 1, wantHard: true},
		{name: "non-owner rejected", userID: 2, ownerID: 1, wantErr: model.ErrNotCommentOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockCommentRepository{
				getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
					return &model.Comment{ID: commentID, UserID: tt.ownerID, Content: "hi"}, nil
				},
				hasRepliesFn: func(ctx context.Context, commentID int64) (bool, error) {
					return tt.hasReplies, nil
				},
			}
			svc := newCommentService(mockRepo, nil, nil)

			err := svc.Delete(context.Background(), 10, tt.userID, tt.isStaff)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantSoft && len(mockRepo.softDeleteCalls) != 1 {
				t.Error("expected SoftDelete to be called")
			}
			if tt.wantHard && len(mockRepo.hardDeleteCalls) != 1 {
				t.Error("expected HardDelete to be called")
			}
			if !tt.wantSoft && len(mockRepo.softDeleteCalls) != 0 {
				t.Error("SoftDelete should not be called")
			}
			if !tt.wantHard && len(mockRepo.hardDeleteCalls) != 0 {
				t.Error("HardDelete should not be called")
			}
		})
	}
}

func TestCommentService_Delete_NotFound(t *testing.T) {
	svc := newCommentService(&mockCommentRepository{}, nil, nil)

	err := svc.Delete(context.Background(), 404, 1, false)
	if !errors.Is(err, model.ErrCommentNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrCommentNotFound)
	}
}
