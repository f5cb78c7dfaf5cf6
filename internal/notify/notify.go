// Package notify relays real-time notices to connected users. Delivery is
// best effort: there is no ordering, persistence or acknowledgement.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "servon:user:"

// Notice kinds.
const (
	KindQuotationReceived      = "quotation.received"
	KindQuotationStatusChanged = "quotation.status_changed"
	KindReviewReceived         = "review.received"
)

// Message is one notice pushed to a user.
type Message struct {
	Kind    string    `json:"kind"`
	Title   string    `json:"title"`
	Body    string    `json:"body"`
	Ref     string    `json:"ref,omitempty"`
	SentAt  time.Time `json:"sentAt"`
	Payload any       `json:"payload,omitempty"`
}

// UserChannel is the pub/sub channel a user's sessions subscribe to.
func UserChannel(userID string) string {
	return channelPrefix + userID
}

// Broadcaster pushes a message to every subscriber of channel.
type Broadcaster interface {
	Broadcast(ctx context.Context, channel string, msg Message) error
}

// RedisBroadcaster publishes JSON messages over Redis pub/sub.
type RedisBroadcaster struct {
	client *redis.Client
}

// NewRedisBroadcaster creates a Redis-backed broadcaster.
func NewRedisBroadcaster(client *redis.Client) *RedisBroadcaster {
	return &RedisBroadcaster{client: client}
}

// Broadcast publishes msg on channel. A channel with no subscribers is not an error.
func (b *RedisBroadcaster) Broadcast(ctx context.Context, channel string, msg Message) error {
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now().UTC()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}
	if err := b.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", channel, err)
	}
	return nil
}

// Subscribe listens on a user's channel. Callers must Close the returned
// subscription.
func (b *RedisBroadcaster) Subscribe(ctx context.Context, userID string) *redis.PubSub {
	return b.client.Subscribe(ctx, UserChannel(userID))
}

// Noop drops every message. It stands in when Redis is disabled.
type Noop struct{}

// Broadcast does nothing.
func (Noop) Broadcast(context.Context, string, Message) error { return nil }
