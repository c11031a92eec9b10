package http

import (
	"context"
	"time"

	"bomb_royale/internal/config"
	"bomb_royale/internal/http/handlers"
	"bomb_royale/internal/http/middleware"
	"bomb_royale/internal/repository"
	"bomb_royale/internal/service"
	"bomb_royale/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
)

// Deps are the collaborators the routes are built on.
type Deps struct {
	Service *service.BombService
	Store   repository.Store
	Hub     *ws.Hub
	// Redis is optional.
	Redis   *redis.Client
	Config  *config.Config
	Version string
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config
	h := handlers.NewHandler(d.Service, cfg.BotToken, cfg.DevMode)

	var redisCheck handlers.Pinger
	if d.Redis != nil {
		redisCheck = redisPinger{d.Redis}
	}
	healthHandler := handlers.NewHealthHandler(d.Version,
		handlers.Dependency{Name: "storage", Pinger: d.Store},
		handlers.Dependency{Name: "redis", Pinger: redisCheck, Optional: true},
	)

	r.Use(middleware.Metrics())

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiRateWindow := time.Duration(cfg.APIRateWindow) * time.Second
	actionRateWindow := time.Duration(cfg.ActionRateWindow) * time.Second

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, apiRateWindow))
	registerAPIRoutes(v1, h, cfg.ActionRateLimit, actionRateWindow)

	// Legacy /api routes
	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit(cfg.APIRateLimit, apiRateWindow))
	api.GET("/health", healthHandler.Health)
	registerAPIRoutes(api, h, cfg.ActionRateLimit, actionRateWindow)

	// WebSocket spectators
	if d.Hub != nil {
		r.GET("/ws", ws.HandleWS(d.Hub, cfg.AllowedOrigin))
	}
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, actionLimit int, actionWindow time.Duration) {
	// Auth
	api.POST("/auth", h.Auth)

	// Game actions, limited per player
	actionRL := middleware.ActionRateLimit(actionLimit, actionWindow)
	g := api.Group("/game", middleware.JWT(), actionRL)
	{
		g.POST("/create", h.CreateGame)
		g.POST("/join", h.JoinGame)
		g.POST("/quit", h.QuitGame)
		g.POST("/ready/ask", h.AskReady)
		g.POST("/ready/ok", h.ConfirmReady)
		g.POST("/start", h.StartGame)
		g.POST("/bomb", h.SendBomb)
		g.POST("/loot", h.LootPlayer)
		g.POST("/win", h.WinGame)
	}

	// Reads
	api.GET("/game/:token", h.GameState)
	api.GET("/games", h.GameStates)
	api.GET("/wagers", h.Wagers)
	api.GET("/rooms/:address", h.PlayerRoom)
	api.GET("/accounts/:address", h.Account)
	api.GET("/operator/fees", h.OperatorFees)

	// Player
	api.PUT("/me/account", middleware.JWT(), h.SetAccountName)
	api.GET("/me/balance", middleware.JWT(), h.Balance)

	// Operator only, checked by the service
	admin := api.Group("/admin", middleware.JWT())
	{
		admin.POST("/games/reset", h.ResetGames)
		admin.POST("/games/:token/reset", h.ResetGame)
		admin.POST("/players/:address/reset", h.ResetPlayer)
		admin.POST("/fees/withdraw", h.WithdrawOperatorFees)
		admin.POST("/fund", h.Fund)
	}
}
