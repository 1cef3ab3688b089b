package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const (
	// StreamKey is the Redis stream for community events.
	StreamKey = "stream:community_events"

	// MaxStreamLen is the approximate max length of the stream.
	MaxStreamLen = 100000
)

// RedisPublisher appends events to a Redis stream.
type RedisPublisher struct {
	redis  redis.Cmdable
	stream string
	logger *slog.Logger
}

// NewRedisPublisher creates a publisher writing to StreamKey.
func NewRedisPublisher(client redis.Cmdable, logger *slog.Logger) *RedisPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisPublisher{
		redis:  client,
		stream: StreamKey,
		logger: logger.With("component", "events.publisher"),
	}
}

// Publish adds the event to the stream and waits for the entry ID.
func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	streamID, err := p.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: MaxStreamLen,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{
			"type":        event.Type,
			"payload":     string(data),
			"occurred_at": event.OccurredAt.UTC().UnixMilli(),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd: %w", err)
	}

	p.logger.Debug("event published", "type", event.Type, "stream_id", streamID)
	return nil
}

// Ping checks the Redis connection. It backs the readiness probe.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.redis.Ping(ctx).Err()
}
