package queue

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Message is a single stream entry with its Redis-assigned ID. The ID is
// needed later to acknowledge the entry.
type Message struct {
	ID    string
	Event MailEvent
}

// Consumer reads mail events from a stream on behalf of a consumer group.
type Consumer interface {
	// EnsureGroup creates the consumer group, and the stream itself if it
	// does not exist yet. Safe to call on every startup.
	EnsureGroup(ctx context.Context, stream, group string) error

	// Read blocks up to the given duration waiting for events not yet
	// delivered to any group member.
	Read(ctx context.Context, stream, group, consumer string, count int64, block time.Duration) ([]Message, error)

	// Ack removes delivered entries from the consumer's pending list.
	Ack(ctx context.Context, stream, group string, messageIDs ...string) error

	// Pending reports how many delivered entries the group has not yet
	// acknowledged.
	Pending(ctx context.Context, stream, group string) (int64, error)

	// ReadPending re-reads entries this consumer received but never
	// acknowledged, typically because the process died mid-batch.
	ReadPending(ctx context.Context, stream, group, consumer string, count int64) ([]Message, error)
}

type redisConsumer struct {
	client *redis.Client
}

func NewConsumer(client *redis.Client) Consumer {
	return &redisConsumer{client: client}
}

// EnsureGroup issues XGROUP CREATE with MKSTREAM, starting the group at ID
// "0" so mail queued before the first worker boot is still delivered.
func (c *redisConsumer) EnsureGroup(ctx context.Context, stream, group string) error {
	err := c.client.XGroupCreateMkStream(ctx, stream, group, "0").Err()
	if err != nil {
		if strings.HasPrefix(err.Error(), "BUSYGROUP") {
			return nil
		}
		return fmt.Errorf("create consumer group %s on %s: %w", group, stream, err)
	}

	log.Printf("[Queue] created group=%s stream=%s", group, stream)
	return nil
}

func (c *redisConsumer) Read(ctx context.Context, stream, group, consumer string, count int64, block time.Duration) ([]Message, error) {
	// ">" asks for entries never delivered to any member of the group.
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, ">"},
		Count:    count,
		Block:    block,
	}).Result()

	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("xreadgroup %s: %w", stream, err)
	}

	return c.decode(streams), nil
}

func (c *redisConsumer) Ack(ctx context.Context, stream, group string, messageIDs ...string) error {
	if len(messageIDs) == 0 {
		return nil
	}

	if err := c.client.XAck(ctx, stream, group, messageIDs...).Err(); err != nil {
		return fmt.Errorf("xack %s: %w", stream, err)
	}
	return nil
}

func (c *redisConsumer) Pending(ctx context.Context, stream, group string) (int64, error) {
	info, err := c.client.XPending(ctx, stream, group).Result()
	if err != nil {
		return 0, fmt.Errorf("xpending %s: %w", stream, err)
	}
	return info.Count, nil
}

// ReadPending reads with ID "0" instead of ">", which returns the calling
// consumer's own pending entries from the beginning.
func (c *redisConsumer) ReadPending(ctx context.Context, stream, group, consumer string, count int64) ([]Message, error) {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, "0"},
		Count:    count,
	}).Result()

	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("xreadgroup pending %s: %w", stream, err)
	}

	return c.decode(streams), nil
}

// decode converts raw stream entries into Messages, dropping entries whose
// payload cannot be parsed. A malformed entry would fail on every redelivery
// and block the consumer otherwise.
func (c *redisConsumer) decode(streams []redis.XStream) []Message {
	var out []Message
	for _, s := range streams {
		for _, entry := range s.Messages {
			event, err := EventFromValues(entry.Values)
			if err != nil {
				log.Printf("[Queue] dropping malformed entry %s: %v", entry.ID, err)
				continue
			}
			out = append(out, Message{ID: entry.ID, Event: event})
		}
	}
	return out
}
