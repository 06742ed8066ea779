package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"jumewears/internal/model"
	"jumewears/internal/queue"
)

// Function-field mocks for the repository interfaces. Each test sets only
// the functions it needs; unset functions return not-found style defaults.

type mockUserRepository struct {
	createFn           func(ctx context.Context, user *model.User) error
	getByIDFn          func(ctx context.Context, id int64) (*model.User, error)
	getByUsernameFn    func(ctx context.Context, username string) (*model.User, error)
	existsByUsernameFn func(ctx context.Context, username string) (bool, error)

	createCalls int
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

type mockCommentRepository struct {
	createFn      func(ctx context.Context, userID int64, req model.CreateCommentRequest) (*model.Comment, error)
	getByTargetFn func(ctx context.Context, contentType, objectID string) ([]model.Comment, error)
	getByIDFn     func(ctx context.Context, commentID int64) (*model.Comment, error)
	hasRepliesFn  func(ctx context.Context, commentID int64) (bool, error)
	softDeleteFn  func(ctx context.Context, commentID int64) error
	hardDeleteFn  func(ctx context.Context, commentID int64) error

	softDeleteCalls []int64
	hardDeleteCalls []int64
}

func (m *mockCommentRepository) Create(ctx context.Context, userID int64, req model.CreateCommentRequest) (*model.Comment, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, req)
	}
	return nil, nil
}

func (m *mockCommentRepository) GetByTarget(ctx context.Context, contentType, objectID string) ([]model.Comment, error) {
	if m.getByTargetFn != nil {
		return m.getByTargetFn(ctx, contentType, objectID)
	}
	return nil, nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, commentID)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepository) HasReplies(ctx context.Context, commentID int64) (bool, error) {
	if m.hasRepliesFn != nil {
		return m.hasRepliesFn(ctx, commentID)
	}
	return false, nil
}

func (m *mockCommentRepository) SoftDelete(ctx context.Context, commentID int64) error {
	m.softDeleteCalls = append(m.softDeleteCalls, commentID)
	if m.softDeleteFn != nil {
		return m.softDeleteFn(ctx, commentID)
	}
	return nil
}

func (m *mockCommentRepository) HardDelete(ctx context.Context, commentID int64) error {
	m.hardDeleteCalls = append(m.hardDeleteCalls, commentID)
	if m.hardDeleteFn != nil {
		return m.hardDeleteFn(ctx, commentID)
	}
	return nil
}

type mockProductRepository struct {
	getByIDFn     func(ctx context.Context, productType string, id uuid.UUID) (*model.Product, error)
	existsFn      func(ctx context.Context, productType, objectID string) (bool, error)
	listSectionFn func(ctx context.Context, productType, categorySlug string, limit int) ([]model.Product, bool, error)
	searchFn      func(ctx context.Context, productType, categorySlug, query string) ([]model.Product, error)
	updateImageFn func(ctx context.Context, id uuid.UUID, imageURL, thumbnailURL string) error
}

func (m *mockProductRepository) GetByID(ctx context.Context, productType string, id uuid.UUID) (*model.Product, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, productType, id)
	}
	return nil, model.ErrProductNotFound
}

func (m *mockProductRepository) Exists(ctx context.Context, productType, objectID string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, productType, objectID)
	}
	return false, nil
}

func (m *mockProductRepository) ListSection(ctx context.Context, productType, categorySlug string, limit int) ([]model.Product, bool, error) {
	if m.listSectionFn != nil {
		return m.listSectionFn(ctx, productType, categorySlug, limit)
	}
	return nil, false, nil
}

func (m *mockProductRepository) Search(ctx context.Context, productType, categorySlug, query string) ([]model.Product, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, productType, categorySlug, query)
	}
	return nil, nil
}

func (m *mockProductRepository) UpdateImage(ctx context.Context, id uuid.UUID, imageURL, thumbnailURL string) error {
	if m.updateImageFn != nil {
		return m.updateImageFn(ctx, id, imageURL, thumbnailURL)
	}
	return nil
}

type mockBlogRepository struct {
	existsPostFn func(ctx context.Context, objectID string) (bool, error)
}

func (m *mockBlogRepository) ExistsPost(ctx context.Context, objectID string) (bool, error) {
	if m.existsPostFn != nil {
		return m.existsPostFn(ctx, objectID)
	}
	return false, nil
}

type mockCartRepository struct {
	createFn             func(ctx context.Context, userID *int64) (*model.Cart, error)
	getByIDFn            func(ctx context.Context, id uuid.UUID) (*model.Cart, error)
	getOrCreateForUserFn func(ctx context.Context, userID int64) (*model.Cart, error)
	getItemsFn           func(ctx context.Context, cartID uuid.UUID) ([]model.CartItem, error)
	upsertItemFn         func(ctx context.Context, item *model.CartItem) error
	updateItemQuantityFn func(ctx context.Context, cartID, productID uuid.UUID, productType string, quantity int) error
	removeItemFn         func(ctx context.Context, cartID, productID uuid.UUID, productType string) error
	countItemsFn         func(ctx context.Context, cartID uuid.UUID) (int, error)

	upsertCalls []model.CartItem
	removeCalls int
}

func (m *mockCartRepository) Create(ctx context.Context, userID *int64) (*model.Cart, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID)
	}
	return &model.Cart{ID: uuid.New(), UserID: userID}, nil
}

func (m *mockCartRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Cart, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrCartNotFound
}

func (m *mockCartRepository) GetOrCreateForUser(ctx context.Context, userID int64) (*model.Cart, error) {
	if m.getOrCreateForUserFn != nil {
		return m.getOrCreateForUserFn(ctx, userID)
	}
	return &model.Cart{ID: uuid.New(), UserID: &userID}, nil
}

func (m *mockCartRepository) GetItems(ctx context.Context, cartID uuid.UUID) ([]model.CartItem, error) {
	if m.getItemsFn != nil {
		return m.getItemsFn(ctx, cartID)
	}
	return nil, nil
}

func (m *mockCartRepository) UpsertItem(ctx context.Context, item *model.CartItem) error {
	m.upsertCalls = append(m.upsertCalls, *item)
	if m.upsertItemFn != nil {
		return m.upsertItemFn(ctx, item)
	}
	return nil
}

func (m *mockCartRepository) UpdateItemQuantity(ctx context.Context, cartID, productID uuid.UUID, productType string, quantity int) error {
	if m.updateItemQuantityFn != nil {
		return m.updateItemQuantityFn(ctx, cartID, productID, productType, quantity)
	}
	return nil
}

func (m *mockCartRepository) RemoveItem(ctx context.Context, cartID, productID uuid.UUID, productType string) error {
	m.removeCalls++
	if m.removeItemFn != nil {
		return m.removeItemFn(ctx, cartID, productID, productType)
	}
	return nil
}

func (m *mockCartRepository) CountItems(ctx context.Context, cartID uuid.UUID) (int, error) {
	if m.countItemsFn != nil {
		return m.countItemsFn(ctx, cartID)
	}
	return 0, nil
}

// mockCartCountCache is an in-memory stand-in for the Redis count cache.
type mockCartCountCache struct {
	mu     sync.Mutex
	counts map[uuid.UUID]int
}

func newMockCartCountCache() *mockCartCountCache {
	return &mockCartCountCache{counts: make(map[uuid.UUID]int)}
}

func (m *mockCartCountCache) Get(ctx context.Context, cartID uuid.UUID) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.counts[cartID]
	return n, ok, nil
}

func (m *mockCartCountCache) Set(ctx context.Context, cartID uuid.UUID, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[cartID] = count
	return nil
}

func (m *mockCartCountCache) Invalidate(ctx context.Context, cartID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.counts, cartID)
	return nil
}

type mockBulkOrderRepository struct {
	createLinkFn        func(ctx context.Context, link *model.BulkOrderLink, couponCodes []string) error
	getLinkFn           func(ctx context.Context, id uuid.UUID) (*model.BulkOrderLink, error)
	getLinkWithOrdersFn func(ctx context.Context, id uuid.UUID) (*model.BulkOrderLink, error)
	listActiveLinksFn   func(ctx context.Context, createdBy int64) ([]model.BulkOrderLink, error)
	createEntryFn       func(ctx context.Context, entry *model.OrderEntry, coupon *model.CouponCode) error
	getEntryFn          func(ctx context.Context, id uuid.UUID) (*model.OrderEntry, error)
	getUnusedCouponFn   func(ctx context.Context, linkID uuid.UUID, code string) (*model.CouponCode, error)
	markEntryPaidFn     func(ctx context.Context, id uuid.UUID, reference string) (bool, error)
	countCouponsFn      func(ctx context.Context, linkID uuid.UUID) (int, error)

	createLinkCodes  []string
	createEntryCalls int
}

func (m *mockBulkOrderRepository) CreateLink(ctx context.Context, link *model.BulkOrderLink, couponCodes []string) error {
	m.createLinkCodes = couponCodes
	if m.createLinkFn != nil {
		return m.createLinkFn(ctx, link, couponCodes)
	}
	return nil
}

func (m *mockBulkOrderRepository) GetLink(ctx context.Context, id uuid.UUID) (*model.BulkOrderLink, error) {
	if m.getLinkFn != nil {
		return m.getLinkFn(ctx, id)
	}
	return nil, model.ErrLinkNotFound
}

func (m *mockBulkOrderRepository) GetLinkWithOrders(ctx context.Context, id uuid.UUID) (*model.BulkOrderLink, error) {
	if m.getLinkWithOrdersFn != nil {
		return m.getLinkWithOrdersFn(ctx, id)
	}
	return nil, model.ErrLinkNotFound
}

func (m *mockBulkOrderRepository) ListActiveLinks(ctx context.Context, createdBy int64) ([]model.BulkOrderLink, error) {
	if m.listActiveLinksFn != nil {
		return m.listActiveLinksFn(ctx, createdBy)
	}
	return nil, nil
}

func (m *mockBulkOrderRepository) CreateEntry(ctx context.Context, entry *model.OrderEntry, coupon *model.CouponCode) error {
	m.createEntryCalls++
	if m.createEntryFn != nil {
		return m.createEntryFn(ctx, entry, coupon)
	}
	return nil
}

func (m *mockBulkOrderRepository) GetEntry(ctx context.Context, id uuid.UUID) (*model.OrderEntry, error) {
	if m.getEntryFn != nil {
		return m.getEntryFn(ctx, id)
	}
	return nil, model.ErrOrderNotFound
}

func (m *mockBulkOrderRepository) GetUnusedCoupon(ctx context.Context, linkID uuid.UUID, code string) (*model.CouponCode, error) {
	if m.getUnusedCouponFn != nil {
		return m.getUnusedCouponFn(ctx, linkID, code)
	}
	return nil, model.ErrCouponNotFound
}

func (m *mockBulkOrderRepository) MarkEntryPaid(ctx context.Context, id uuid.UUID, reference string) (bool, error) {
	if m.markEntryPaidFn != nil {
		return m.markEntryPaidFn(ctx, id, reference)
	}
	return false, model.ErrOrderNotFound
}

func (m *mockBulkOrderRepository) CountCoupons(ctx context.Context, linkID uuid.UUID) (int, error) {
	if m.countCouponsFn != nil {
		return m.countCouponsFn(ctx, linkID)
	}
	return 0, nil
}

type mockFeedRepository struct {
	listImagesFn      func(ctx context.Context, offset, limit int) ([]model.FeedImage, error)
	createImageFn     func(ctx context.Context, image *model.FeedImage) error
	deactivateImageFn func(ctx context.Context, id uuid.UUID) error
}

func (m *mockFeedRepository) ListImages(ctx context.Context, offset, limit int) ([]model.FeedImage, error) {
	if m.listImagesFn != nil {
		return m.listImagesFn(ctx, offset, limit)
	}
	return nil, nil
}

func (m *mockFeedRepository) CreateImage(ctx context.Context, image *model.FeedImage) error {
	if m.createImageFn != nil {
		return m.createImageFn(ctx, image)
	}
	return nil
}

func (m *mockFeedRepository) DeactivateImage(ctx context.Context, id uuid.UUID) error {
	if m.deactivateImageFn != nil {
		return m.deactivateImageFn(ctx, id)
	}
	return nil
}

// mockYouTubeCache is an in-memory stand-in for the Redis video cache.
type mockYouTubeCache struct {
	videos []model.FeedVideo
	filled bool
}

func (m *mockYouTubeCache) Get(ctx context.Context) ([]model.FeedVideo, bool, error) {
	return m.videos, m.filled, nil
}

func (m *mockYouTubeCache) Set(ctx context.Context, videos []model.FeedVideo) error {
	m.videos = videos
	m.filled = true
	return nil
}

type mockTestimonialRepository struct {
	createFn     func(ctx context.Context, t *model.Testimonial) error
	getByUserFn  func(ctx context.Context, userID int64) (*model.Testimonial, error)
	updateFn     func(ctx context.Context, t *model.Testimonial) error
	deleteFn     func(ctx context.Context, id, userID int64) error
	listActiveFn func(ctx context.Context) ([]model.Testimonial, error)
}

func (m *mockTestimonialRepository) Create(ctx context.Context, t *model.Testimonial) error {
	if m.createFn != nil {
		return m.createFn(ctx, t)
	}
	return nil
}

func (m *mockTestimonialRepository) GetByUser(ctx context.Context, userID int64) (*model.Testimonial, error) {
	if m.getByUserFn != nil {
		return m.getByUserFn(ctx, userID)
	}
	return nil, model.ErrTestimonialNotFound
}

func (m *mockTestimonialRepository) Update(ctx context.Context, t *model.Testimonial) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, t)
	}
	return nil
}

func (m *mockTestimonialRepository) Delete(ctx context.Context, id, userID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, userID)
	}
	return nil
}

func (m *mockTestimonialRepository) ListActive(ctx context.Context) ([]model.Testimonial, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx)
	}
	return nil, nil
}

// mockPublisher records published mail events.
type mockPublisher struct {
	publishFn func(ctx context.Context, stream string, event queue.MailEvent) (string, error)

	published []queue.MailEvent
}

func (m *mockPublisher) Publish(ctx context.Context, stream string, event queue.MailEvent) (string, error) {
	m.published = append(m.published, event)
	if m.publishFn != nil {
		return m.publishFn(ctx, stream, event)
	}
	return "1-0", nil
}
