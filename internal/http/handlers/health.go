package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is a dependency whose availability gates readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependency is one readiness check. An optional dependency only degrades
// the status when it fails.
type Dependency struct {
	Name     string
	Pinger   Pinger
	Optional bool
}

type HealthHandler struct {
	deps    []Dependency
	started time.Time
	version string
}

// NewHealthHandler checks deps in order; the first one is the storage that
// /health also pings. Nil pingers are skipped.
func NewHealthHandler(version string, deps ...Dependency) *HealthHandler {
	h := &HealthHandler{started: time.Now(), version: version}
	for _, d := range deps {
		if d.Pinger != nil {
			h.deps = append(h.deps, d)
		}
	}
	return h
}

type ReadinessResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	UptimeSec int64             `json:"uptime_sec"`
	Checks    map[string]string `json:"checks"`
}

// Liveness answers as long as the process serves requests.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness pings every dependency. 503 when a required one fails.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp := ReadinessResponse{
		Status:    "ready",
		Version:   h.version,
		UptimeSec: int64(time.Since(h.started).Seconds()),
		Checks:    make(map[string]string, len(h.deps)),
	}
	code := http.StatusOK

	for _, d := range h.deps {
		err := d.Pinger.Ping(ctx)
		switch {
		case err == nil:
			resp.Checks[d.Name] = "ok"
		case d.Optional:
			resp.Checks[d.Name] = "degraded: " + err.Error()
			if resp.Status == "ready" {
				resp.Status = "degraded"
			}
		default:
			resp.Checks[d.Name] = "down: " + err.Error()
			resp.Status = "not_ready"
			code = http.StatusServiceUnavailable
		}
	}

	c.JSON(code, resp)
}

// Health pings the storage only.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if len(h.deps) > 0 {
		if err := h.deps[0].Pinger.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  h.deps[0].Name + " unavailable",
			})
			return
		}
	}

	c.Header("X-Uptime", strconv.FormatInt(int64(time.Since(h.started).Seconds()), 10))
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
	})
}
