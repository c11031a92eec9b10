package events

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"bomb_royale/internal/domain"

	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// Runs only if REDIS_ADDR env is set.
func TestRedisSinkRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}

	client := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD"), DB: db})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got := make(chan domain.Event, 1)
	go func() {
		_ = Subscribe(ctx, client, func(e domain.Event) { got <- e })
	}()

	// give the subscription time to register
	time.Sleep(200 * time.Millisecond)
	NewRedisSink(client).Publish(ctx, domain.Event{ID: "tx1", Name: domain.EventWinGame, Token: "tok", Actor: "hx1"})

	select {
	case e := <-got:
		require.Equal(t, domain.EventWinGame, e.Name)
		require.Equal(t, "tok", e.Token)
	case <-ctx.Done():
		t.Fatalf("no event received")
	}
}
