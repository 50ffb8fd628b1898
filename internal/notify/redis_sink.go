package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bankimport-workers/internal/common/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sinkNameRedis = "redis"

// Publisher is satisfied by *redis.Client and database.RedisClient.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Envelope is the JSON message published per fragment.
type Envelope struct {
	ID        string    `json:"id"`
	HTML      string    `json:"html"`
	CreatedAt time.Time `json:"created_at"`
}

// RedisSink publishes each fragment on a pub/sub channel the UI subscribes to.
type RedisSink struct {
	client  Publisher
	channel string
	newID   func() string
	now     func() time.Time
}

type RedisOption func(*RedisSink)

// WithIDFunc replaces the uuid generator.
func WithIDFunc(fn func() string) RedisOption {
	return func(s *RedisSink) { s.newID = fn }
}

func WithClock(fn func() time.Time) RedisOption {
	return func(s *RedisSink) { s.now = fn }
}

func NewRedisSink(client Publisher, channel string, opts ...RedisOption) *RedisSink {
	s := &RedisSink{
		client:  client,
		channel: channel,
		newID:   func() string { return uuid.New().String() },
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisSink) Channel() string { return s.channel }

func (s *RedisSink) Emit(ctx context.Context, fragment string) error {
	payload, err := json.Marshal(Envelope{ID: s.newID(), HTML: fragment, CreatedAt: s.now()})
	if err != nil {
		metrics.RecordEmit(sinkNameRedis, err)
		return fmt.Errorf("encode notification: %w", err)
	}

	err = s.client.Publish(ctx, s.channel, string(payload)).Err()
	metrics.RecordEmit(sinkNameRedis, err)
	if err != nil {
		return fmt.Errorf("publish to %s: %w", s.channel, err)
	}
	return nil
}
