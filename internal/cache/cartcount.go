package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// CartCountPrefix is the key prefix for per-cart item counts.
	CartCountPrefix = "cart:count:"

	// CartCountTTL bounds staleness if an invalidation is ever missed.
	CartCountTTL = 24 * time.Hour
)

// CartCountCache keeps the badge count the client updates after every cart
// mutation. Counts are recomputed from the database on miss and rewritten
// on every cart write.
type CartCountCache interface {
	// Get returns (count, found, error). found=false means the caller
	// should recompute and Set.
	Get(ctx context.Context, cartID uuid.UUID) (int, bool, error)
	Set(ctx context.Context, cartID uuid.UUID, count int) error
	Invalidate(ctx context.Context, cartID uuid.UUID) error
}

type redisCartCountCache struct {
	client *redis.Client
}

func NewCartCountCache(client *redis.Client) CartCountCache {
	return &redisCartCountCache{client: client}
}

func (c *redisCartCountCache) key(cartID uuid.UUID) string {
	return CartCountPrefix + cartID.String()
}

func (c *redisCartCountCache) Get(ctx context.Context, cartID uuid.UUID) (int, bool, error) {
	n, err := c.client.Get(ctx, c.key(cartID)).Int()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get cart count: %w", err)
	}
	return n, true, nil
}

func (c *redisCartCountCache) Set(ctx context.Context, cartID uuid.UUID, count int) error {
	if err := c.client.Set(ctx, c.key(cartID), count, CartCountTTL).Err(); err != nil {
		return fmt.Errorf("set cart count: %w", err)
	}
	return nil
}

func (c *redisCartCountCache) Invalidate(ctx context.Context, cartID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(cartID)).Err(); err != nil {
		return fmt.Errorf("invalidate cart count: %w", err)
	}
	return nil
}
