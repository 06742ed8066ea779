package repository

import (
	"context"

	"github.com/google/uuid"

	"jumewears/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

type CommentRepository interface {
	// Create inserts a comment and returns it with ID and timestamps set.
	Create(ctx context.Context, userID int64, req model.CreateCommentRequest) (*model.Comment, error)
	// GetByTarget returns every comment for a (content_type, object_id) pair
	// as flat rows with author info joined. Ordering: created_at ASC, id ASC,
	// so parents always precede their children.
	GetByTarget(ctx context.Context, contentType, objectID string) ([]model.Comment, error)
	GetByID(ctx context.Context, commentID int64) (*model.Comment, error)
	// HasReplies reports whether any comment references commentID as parent.
	HasReplies(ctx context.Context, commentID int64) (bool, error)
	// SoftDelete replaces the content with the deleted sentinel.
	SoftDelete(ctx context.Context, commentID int64) error
	HardDelete(ctx context.Context, commentID int64) error
}

type ProductRepository interface {
	GetByID(ctx context.Context, productType string, id uuid.UUID) (*model.Product, error)
	// Exists backs the comment content-type registry.
	Exists(ctx context.Context, productType, objectID string) (bool, error)
	// ListSection returns up to limit available products of a type, optionally
	// filtered by category slug, newest first, plus whether more exist.
	ListSection(ctx context.Context, productType, categorySlug string, limit int) ([]model.Product, bool, error)
	// Search backs the products JSON API.
	Search(ctx context.Context, productType, categorySlug, query string) ([]model.Product, error)
	UpdateImage(ctx context.Context, id uuid.UUID, imageURL, thumbnailURL string) error
}

type BlogRepository interface {
	ExistsPost(ctx context.Context, objectID string) (bool, error)
}

type CartRepository interface {
	Create(ctx context.Context, userID *int64) (*model.Cart, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Cart, error)
	GetOrCreateForUser(ctx context.Context, userID int64) (*model.Cart, error)
	GetItems(ctx context.Context, cartID uuid.UUID) ([]model.CartItem, error)
	// UpsertItem inserts a line or, on (cart, product_type, product_id)
	// conflict, replaces quantity and extra fields on the existing line.
	UpsertItem(ctx context.Context, item *model.CartItem) error
	UpdateItemQuantity(ctx context.Context, cartID, productID uuid.UUID, productType string, quantity int) error
	RemoveItem(ctx context.Context, cartID, productID uuid.UUID, productType string) error
	// CountItems sums quantities across the cart's lines.
	CountItems(ctx context.Context, cartID uuid.UUID) (int, error)
}

type BulkOrderRepository interface {
	// CreateLink inserts the link and its coupon codes in one transaction.
	CreateLink(ctx context.Context, link *model.BulkOrderLink, couponCodes []string) error
	GetLink(ctx context.Context, id uuid.UUID) (*model.BulkOrderLink, error)
	GetLinkWithOrders(ctx context.Context, id uuid.UUID) (*model.BulkOrderLink, error)
	ListActiveLinks(ctx context.Context, createdBy int64) ([]model.BulkOrderLink, error)
	// CreateEntry locks the link row, assigns the next serial number, redeems
	// the coupon when set, and inserts the entry, all in one transaction.
	CreateEntry(ctx context.Context, entry *model.OrderEntry, coupon *model.CouponCode) error
	GetEntry(ctx context.Context, id uuid.UUID) (*model.OrderEntry, error)
	// GetUnusedCoupon fetches an unredeemed coupon by code under the link.
	GetUnusedCoupon(ctx context.Context, linkID uuid.UUID, code string) (*model.CouponCode, error)
	// MarkEntryPaid sets paid + reference. Returns false when the entry was
	// already paid (webhook retries are idempotent).
	MarkEntryPaid(ctx context.Context, id uuid.UUID, reference string) (bool, error)
	// CountCoupons counts the link's unredeemed coupons.
	CountCoupons(ctx context.Context, linkID uuid.UUID) (int, error)
}

type FeedRepository interface {
	ListImages(ctx context.Context, offset, limit int) ([]model.FeedImage, error)
	CreateImage(ctx context.Context, image *model.FeedImage) error
	DeactivateImage(ctx context.Context, id uuid.UUID) error
}

type TestimonialRepository interface {
	Create(ctx context.Context, t *model.Testimonial) error
	GetByUser(ctx context.Context, userID int64) (*model.Testimonial, error)
	Update(ctx context.Context, t *model.Testimonial) error
	Delete(ctx context.Context, id, userID int64) error
	ListActive(ctx context.Context) ([]model.Testimonial, error)
}
