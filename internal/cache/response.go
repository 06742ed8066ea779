package cache

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// ResponseCachePrefix is the key prefix for cached GET responses.
	ResponseCachePrefix = "apicache:"

	// DefaultResponseTTL matches the original 15 minute page cache.
	DefaultResponseTTL = 15 * time.Minute

	hitCounterKey  = "apicache:stats:hits"
	missCounterKey = "apicache:stats:misses"
)

// ResponseCache stores whole GET response bodies keyed by path+query, with
// hit/miss counters for monitoring. Only 200 responses are cached.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = DefaultResponseTTL
	}
	return &ResponseCache{client: client, ttl: ttl}
}

func (c *ResponseCache) key(r *http.Request) string {
	return ResponseCachePrefix + r.URL.Path + ":" + r.URL.RawQuery
}

// Middleware serves cached bodies for GET requests and captures fresh 200
// responses on miss. Non-GET requests pass through untouched.
func (c *ResponseCache) Middleware(contentType string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := c.key(r)
			cached, err := c.client.Get(r.Context(), key).Bytes()
			if err == nil {
				c.client.Incr(r.Context(), hitCounterKey)
				w.Header().Set("Content-Type", contentType)
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(http.StatusOK)
				w.Write(cached)
				return
			}
			if err != redis.Nil {
				// Cache being down is not a reason to fail the request.
				log.Printf("[ResponseCache] get error key=%s: %v", key, err)
			}
			c.client.Incr(r.Context(), missCounterKey)

			rec := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status == http.StatusOK && rec.body.Len() > 0 {
				if err := c.client.Set(r.Context(), key, rec.body.Bytes(), c.ttl).Err(); err != nil {
					log.Printf("[ResponseCache] set error key=%s: %v", key, err)
				}
			}
		})
	}
}

// Invalidate drops every cached response under a path prefix.
func (c *ResponseCache) Invalidate(ctx context.Context, pathPrefix string) error {
	pattern := ResponseCachePrefix + pathPrefix + "*"
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("invalidate %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan cache keys: %w", err)
	}
	return nil
}

// Stats returns lifetime hit and miss counts.
func (c *ResponseCache) Stats(ctx context.Context) (hits, misses int64, err error) {
	hits, err = c.client.Get(ctx, hitCounterKey).Int64()
	if err != nil && err != redis.Nil {
		return 0, 0, fmt.Errorf("get hit counter: %w", err)
	}
	misses, err = c.client.Get(ctx, missCounterKey).Int64()
	if err != nil && err != redis.Nil {
		return hits, 0, fmt.Errorf("get miss counter: %w", err)
	}
	return hits, misses, nil
}

// recordingWriter tees the response body so it can be stored on the way out.
type recordingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *recordingWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	if w.status == http.StatusOK {
		w.body.Write(b)
	}
	return w.ResponseWriter.Write(b)
}
