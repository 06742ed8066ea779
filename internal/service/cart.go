package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"jumewears/internal/cache"
	"jumewears/internal/model"
	"jumewears/internal/repository"
)

// CartService handles cart resolution and mutation. Guests are identified
// by the cart UUID carried in a cookie; logged-in users get a persistent
// cart keyed by user ID.
type CartService struct {
	repo        repository.CartRepository
	productRepo repository.ProductRepository
	countCache  cache.CartCountCache
}

func NewCartService(repo repository.CartRepository, productRepo repository.ProductRepository, countCache cache.CartCountCache) *CartService {
	return &CartService{
		repo:        repo,
		productRepo: productRepo,
		countCache:  countCache,
	}
}

// Resolve returns the cart for the request: the user's cart when logged in,
// otherwise the cookie cart. A missing or stale cookie gets a fresh cart.
func (s *CartService) Resolve(ctx context.Context, userID *int64, cookieCartID *uuid.UUID) (*model.Cart, error) {
	if userID != nil {
		return s.repo.GetOrCreateForUser(ctx, *userID)
	}

	if cookieCartID != nil {
		cart, err := s.repo.GetByID(ctx, *cookieCartID)
		if err == nil {
			return cart, nil
		}
		if err != model.ErrCartNotFound {
			return nil, err
		}
		// Stale cookie, fall through and start over
	}

	return s.repo.Create(ctx, nil)
}

// AddItem validates the product and upserts the cart line. Repeated adds of
// the same product replace the line rather than stacking, so a double-submit
// is harmless. Returns the new cart count.
func (s *CartService) AddItem(ctx context.Context, cartID uuid.UUID, req model.AddToCartRequest) (int, error) {
	if !model.ValidProductType(req.ProductType) {
		return 0, model.ErrProductNotFound
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return 0, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductType, productID)
	if err != nil {
		return 0, err
	}
	if !product.CanBePurchased() {
		return 0, model.ErrProductNotPurchasable
	}

	quantity := req.Quantity
	if quantity < 1 {
		return 0, model.ErrInvalidQuantity
	}
	if quantity > model.MaxItemQuantity {
		quantity = model.MaxItemQuantity
	}

	item := &model.CartItem{
		CartID:      cartID,
		ProductType: req.ProductType,
		ProductID:   productID,
		Quantity:    quantity,
		Extra:       normalizeExtras(req),
	}

	if err := s.repo.UpsertItem(ctx, item); err != nil {
		return 0, fmt.Errorf("failed to upsert cart item: %w", err)
	}

	return s.refreshCount(ctx, cartID)
}

// normalizeExtras uppercases the customization fields. Order item generation
// matches on the canonical uppercase form.
func normalizeExtras(req model.AddToCartRequest) model.ExtraFields {
	extra := model.ExtraFields{}
	if v := strings.TrimSpace(req.CallUpNumber); v != "" {
		extra[model.ExtraCallUpNumber] = strings.ToUpper(v)
	}
	if v := strings.TrimSpace(req.CustomNameText); v != "" {
		extra[model.ExtraCustomNameText] = strings.ToUpper(v)
	}
	return extra
}

// UpdateQuantity sets a line's quantity. Zero removes the line. Returns the
// new cart count.
func (s *CartService) UpdateQuantity(ctx context.Context, cartID, productID uuid.UUID, productType string, quantity int) (int, error) {
	if quantity < 0 {
		return 0, model.ErrInvalidQuantity
	}
	if quantity > model.MaxItemQuantity {
		quantity = model.MaxItemQuantity
	}

	if quantity == 0 {
		if err := s.repo.RemoveItem(ctx, cartID, productID, productType); err != nil {
			return 0, err
		}
	} else {
		if err := s.repo.UpdateItemQuantity(ctx, cartID, productID, productType, quantity); err != nil {
			return 0, err
		}
	}

	return s.refreshCount(ctx, cartID)
}

// RemoveItem deletes a line and returns the new cart count.
func (s *CartService) RemoveItem(ctx context.Context, cartID, productID uuid.UUID, productType string) (int, error) {
	if err := s.repo.RemoveItem(ctx, cartID, productID, productType); err != nil {
		return 0, err
	}
	return s.refreshCount(ctx, cartID)
}

// GetCart returns the cart with its items loaded.
func (s *CartService) GetCart(ctx context.Context, cartID uuid.UUID) (*model.Cart, error) {
	cart, err := s.repo.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.GetItems(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}
	cart.Items = items
	return cart, nil
}

// Count returns the cart's item count, served from Redis when possible.
func (s *CartService) Count(ctx context.Context, cartID uuid.UUID) (int, error) {
	if n, found, err := s.countCache.Get(ctx, cartID); err == nil && found {
		return n, nil
	}
	return s.refreshCount(ctx, cartID)
}

// refreshCount recomputes the count from the database and rewrites the
// cache entry. Cache failures only log, the count still comes back.
func (s *CartService) refreshCount(ctx context.Context, cartID uuid.UUID) (int, error) {
	count, err := s.repo.CountItems(ctx, cartID)
	if err != nil {
		return 0, fmt.Errorf("failed to count cart items: %w", err)
	}
	if err := s.countCache.Set(ctx, cartID, count); err != nil {
		log.Printf("[CartService] cache set failed: cart=%s err=%v", cartID, err)
	}
	return count, nil
}
