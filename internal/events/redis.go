package events

import (
	"context"
	"encoding/json"
	"fmt"

	"bomb_royale/internal/domain"
	"bomb_royale/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

const channelPrefix = "bomb_royale:game:"

// Channel is the pub/sub channel carrying the events of one game.
func Channel(token string) string {
	return channelPrefix + token
}

// RedisSink publishes every event as JSON on its game channel so that all
// instances can forward it to their spectators.
type RedisSink struct {
	client *redis.Client
}

func NewRedisSink(client *redis.Client) *RedisSink {
	return &RedisSink{client: client}
}

func (s *RedisSink) Publish(ctx context.Context, evs ...domain.Event) {
	for _, e := range evs {
		b, err := json.Marshal(e)
		if err != nil {
			logger.Warn("marshal event", "event", e.Name, "error", err)
			continue
		}
		if err := s.client.Publish(ctx, Channel(e.Token), b).Err(); err != nil {
			logger.Warn("publish event", "event", e.Name, "token", e.Token, "error", err)
		}
	}
}

// Subscribe delivers every game event published on Redis to handle until ctx
// is cancelled.
func Subscribe(ctx context.Context, client *redis.Client, handle func(domain.Event)) error {
	sub := client.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	// wait for the subscription confirmation
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("psubscribe: %w", err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var e domain.Event
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				logger.Warn("decode event", "channel", msg.Channel, "error", err)
				continue
			}
			handle(e)
		}
	}
}
