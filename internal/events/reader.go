package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMalformedRecord is returned for stream entries missing required fields.
var ErrMalformedRecord = errors.New("malformed stream record")

// Record is one entry read back from the event stream.
type Record struct {
	StreamID   string          `json:"stream_id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Reader reads published events back from the stream.
type Reader struct {
	redis  redis.Cmdable
	stream string
}

// NewReader creates a reader over StreamKey.
func NewReader(client redis.Cmdable) *Reader {
	return &Reader{redis: client, stream: StreamKey}
}

// Recent returns up to count entries, newest first.
// Malformed entries are skipped and reported in the second return value.
func (r *Reader) Recent(ctx context.Context, count int64) ([]Record, int, error) {
	if count <= 0 {
		count = 20
	}
	msgs, err := r.redis.XRevRangeN(ctx, r.stream, "+", "-", count).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("xrevrange: %w", err)
	}

	records := make([]Record, 0, len(msgs))
	skipped := 0
	for _, msg := range msgs {
		rec, err := decodeMessage(msg)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

func decodeMessage(msg redis.XMessage) (Record, error) {
	eventType, ok := msg.Values["type"].(string)
	if !ok || eventType == "" {
		return Record{}, fmt.Errorf("%w: %s: type missing", ErrMalformedRecord, msg.ID)
	}
	payload, ok := msg.Values["payload"].(string)
	if !ok || !json.Valid([]byte(payload)) {
		return Record{}, fmt.Errorf("%w: %s: payload missing or not JSON", ErrMalformedRecord, msg.ID)
	}

	rec := Record{StreamID: msg.ID, Type: eventType, Payload: json.RawMessage(payload)}
	if raw, ok := msg.Values["occurred_at"].(string); ok {
		if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
			rec.OccurredAt = time.UnixMilli(ms).UTC()
		}
	}
	return rec, nil
}
