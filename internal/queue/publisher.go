package queue

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// Publisher adds mail events to a stream.
type Publisher interface {
	// Publish appends the event and returns the Redis-assigned message ID.
	Publish(ctx context.Context, stream string, event MailEvent) (messageID string, err error)
}

type redisPublisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) Publisher {
	return &redisPublisher{client: client}
}

// Publish uses XADD with "*" so Redis assigns the message ID.
func (p *redisPublisher) Publish(ctx context.Context, stream string, event MailEvent) (string, error) {
	values, err := event.ToMap()
	if err != nil {
		return "", fmt.Errorf("serialize event: %w", err)
	}

	messageID, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}).Result()
	if err != nil {
		return "", fmt.Errorf("xadd %s: %w", stream, err)
	}

	log.Printf("[Queue] queued type=%s stream=%s id=%s", event.Type, stream, messageID)
	return messageID, nil
}
