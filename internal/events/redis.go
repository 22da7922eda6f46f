package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// RedisSink publishes events to a Redis pub/sub channel for live
// subscribers such as dashboards. Unlike the queue sink there is no
// durability: subscribers only see events published while they are
// connected.
type RedisSink struct {
	client  *redis.Client
	channel string
}

// NewRedisSink returns a sink publishing on channel via client. The
// client must be non-nil; callers that run without Redis skip
// constructing the sink instead.
func NewRedisSink(client *redis.Client, channel string) *RedisSink {
	return &RedisSink{client: client, channel: channel}
}

// Publish implements Sink.
func (s *RedisSink) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, s.channel, body).Err()
}
