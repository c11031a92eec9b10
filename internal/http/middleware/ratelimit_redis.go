package middleware

import (
	"context"
	"time"

	"bomb_royale/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedisRateLimiter initializes a shared Redis client used by the middleware.
// Provide addr (host:port), password and db index. If connection fails, redisClient remains nil
// and the limiters count in memory.
func InitRedisRateLimiter(addr, password string, db int) {
	if addr == "" {
		return
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis rate limiter disabled", "addr", addr, "error", err)
		_ = client.Close()
		return
	}
	redisClient = client
}

// UseRedis shares an already connected client with the limiters. nil
// switches them back to in-memory counting.
func UseRedis(client *redis.Client) {
	redisClient = client
}

type redisCounter struct {
	client *redis.Client
}

// Incr uses INCR and sets the expiry on the first hit of the window.
func (r redisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	val, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if val == 1 {
		r.client.Expire(ctx, key, window)
	}
	return val, nil
}

func currentCounter() counter {
	if redisClient == nil {
		return newMemoryCounter()
	}
	return redisCounter{client: redisClient}
}

// RedisRateLimit implements a fixed-window per-IP rate limiter using Redis INCR/EXPIRE.
// key format: rl:<window_seconds>:<ip>
func RedisRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return limit(currentCounter(), "rl", maxRequests, window, clientIP)
}

// ActionRateLimit limits game actions per player (not per IP).
// Requires JWT middleware to run before this.
// key format: action_rl:<window_seconds>:<address>
func ActionRateLimit(maxActions int, window time.Duration) gin.HandlerFunc {
	return limit(currentCounter(), "action_rl", maxActions, window, Address)
}
