package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

var (
	up   = pingFunc(func(context.Context) error { return nil })
	down = pingFunc(func(context.Context) error { return errors.New("connection refused") })
)

func readiness(t *testing.T, deps ...Dependency) (int, ReadinessResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/readyz", NewHealthHandler("test", deps...).Readiness)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	var resp ReadinessResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return w.Code, resp
}

func TestReadiness(t *testing.T) {
	cases := []struct {
		name   string
		deps   []Dependency
		code   int
		status string
	}{
		{"all up", []Dependency{{Name: "storage", Pinger: up}, {Name: "redis", Pinger: up, Optional: true}}, 200, "ready"},
		{"redis down", []Dependency{{Name: "storage", Pinger: up}, {Name: "redis", Pinger: down, Optional: true}}, 200, "degraded"},
		{"storage down", []Dependency{{Name: "storage", Pinger: down}, {Name: "redis", Pinger: down, Optional: true}}, 503, "not_ready"},
		{"no redis", []Dependency{{Name: "storage", Pinger: up}, {Name: "redis", Optional: true}}, 200, "ready"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, resp := readiness(t, tc.deps...)
			if code != tc.code || resp.Status != tc.status {
				t.Fatalf("got %d %q, want %d %q (%v)", code, resp.Status, tc.code, tc.status, resp.Checks)
			}
		})
	}
}

func TestHealthPingsStorage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", NewHealthHandler("test", Dependency{Name: "storage", Pinger: down}).Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("code = %d", w.Code)
	}
}
