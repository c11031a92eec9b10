package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// counter counts hits on a key within a fixed window.
type counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type clientInfo struct {
	last  time.Time
	count int64
}

// memoryCounter is the per-instance fallback when Redis is not configured.
type memoryCounter struct {
	mu      sync.Mutex
	clients map[string]*clientInfo
	now     func() time.Time
}

func newMemoryCounter() *memoryCounter {
	return &memoryCounter{clients: make(map[string]*clientInfo), now: time.Now}
}

func (m *memoryCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	ci, ok := m.clients[key]
	if !ok || now.Sub(ci.last) > window {
		m.clients[key] = &clientInfo{last: now, count: 1}
		return 1, nil
	}
	ci.count++
	return ci.count, nil
}

// SimpleRateLimit blocks clients that send more than maxRequests per window,
// counting in process memory.
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return limit(newMemoryCounter(), "rl", maxRequests, window, clientIP)
}

func clientIP(c *gin.Context) (string, bool) {
	return c.ClientIP(), true
}

// limit is the shared fixed-window limiter. ident returns false when the
// request cannot be attributed, which rejects it.
func limit(cnt counter, prefix string, maxRequests int, window time.Duration, ident func(*gin.Context) (string, bool)) gin.HandlerFunc {
	windowSecs := strconv.FormatInt(int64(window.Seconds()), 10)

	return func(c *gin.Context) {
		id, ok := ident(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		key := prefix + ":" + windowSecs + ":" + id
		val, err := cnt.Incr(c.Request.Context(), key, window)
		if err != nil {
			// fail-open
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(maxRequests)-val), 10))

		if val > int64(maxRequests) {
			RLBlocked.WithLabelValues(prefix + ":" + c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues(prefix + ":" + c.FullPath()).Inc()
		c.Next()
	}
}
