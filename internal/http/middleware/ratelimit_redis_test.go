package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"bomb_royale/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestRedisRateLimitIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	pass := os.Getenv("REDIS_PASSWORD")
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			db = n
		}
	}

	InitRedisRateLimiter(addr, pass, db)
	if redisClient == nil {
		t.Fatal("redis not reachable")
	}
	t.Cleanup(func() { UseRedis(nil) })

	service.InitJWT("test-secret")
	// a fresh player so reruns do not share a window
	token, err := service.GenerateJWT("tg:" + uuid.NewString())
	if err != nil {
		t.Fatal(err)
	}

	w := 2 * time.Second
	max := 2

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/test", JWT(), ActionRateLimit(max, w), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	client := &http.Client{}
	do := func() int {
		req, _ := http.NewRequest("GET", srv.URL+"/test", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		res, err := client.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		res.Body.Close()
		return res.StatusCode
	}

	// do max allowed requests
	for i := 0; i < max; i++ {
		if code := do(); code != 200 {
			t.Fatalf("expected 200 got %d", code)
		}
	}

	// next request should be blocked
	if code := do(); code != 429 {
		t.Fatalf("expected 429 got %d", code)
	}
}
