package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"jumewears/internal/model"
)

const (
	// YouTubeCacheKey holds the channel's upload list.
	YouTubeCacheKey = "youtube:channel_videos"

	// YouTubeCacheTTL keeps API quota usage down; uploads change rarely.
	YouTubeCacheTTL = 12 * time.Hour
)

// YouTubeCache stores the fetched channel uploads so the feed does not hit
// the Data API on every page.
type YouTubeCache interface {
	Get(ctx context.Context) ([]model.FeedVideo, bool, error)
	Set(ctx context.Context, videos []model.FeedVideo) error
}

type redisYouTubeCache struct {
	client *redis.Client
}

func NewYouTubeCache(client *redis.Client) YouTubeCache {
	return &redisYouTubeCache{client: client}
}

func (c *redisYouTubeCache) Get(ctx context.Context) ([]model.FeedVideo, bool, error) {
	data, err := c.client.Get(ctx, YouTubeCacheKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get youtube cache: %w", err)
	}

	var videos []model.FeedVideo
	if err := json.Unmarshal(data, &videos); err != nil {
		return nil, false, fmt.Errorf("decode youtube cache: %w", err)
	}
	return videos, true, nil
}

func (c *redisYouTubeCache) Set(ctx context.Context, videos []model.FeedVideo) error {
	data, err := json.Marshal(videos)
	if err != nil {
		return fmt.Errorf("encode youtube cache: %w", err)
	}
	if err := c.client.Set(ctx, YouTubeCacheKey, data, YouTubeCacheTTL).Err(); err != nil {
		return fmt.Errorf("set youtube cache: %w", err)
	}
	return nil
}
