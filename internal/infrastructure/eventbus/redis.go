package eventbus

import (
	"context"
	"encoding/json"
	"log"

	"github.com/odhiambo/posflow/internal/domain/event"
	"github.com/redis/go-redis/v9"
)

// RedisBus implements event.Bus on Redis pub/sub. Redis channels are
// fire-and-forget, which matches the contract: subscribers tolerate missed
// events and reconcile by re-fetching the authoritative order.
type RedisBus struct {
	client *redis.Client
}

// NewRedisBus creates a bus backed by the given Redis client.
func NewRedisBus(client *redis.Client) *RedisBus {
	return &RedisBus{client: client}
}

// NewRedisClient connects to Redis at the given address.
func NewRedisClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
}

func (b *RedisBus) Publish(ctx context.Context, topic string, env event.Envelope) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, topic, raw).Err()
}

func (b *RedisBus) Subscribe(ctx context.Context, topic string) (<-chan event.Envelope, func()) {
	sub := b.client.Subscribe(ctx, topic)
	out := make(chan event.Envelope, 16)

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var env event.Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Printf("eventbus: dropping malformed message on %s: %v", topic, err)
				continue
			}
			select {
			case out <- env:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() { _ = sub.Close() }
	return out, cancel
}
