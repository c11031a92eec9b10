package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"bomb_royale/internal/bot"
	"bomb_royale/internal/config"
	"bomb_royale/internal/db"
	"bomb_royale/internal/domain"
	"bomb_royale/internal/events"
	httpServer "bomb_royale/internal/http"
	"bomb_royale/internal/http/middleware"
	"bomb_royale/internal/logger"
	"bomb_royale/internal/repository"
	"bomb_royale/internal/service"
	"bomb_royale/internal/ws"

	"github.com/coder/quartz"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	service.InitJWT(cfg.JWTSecret)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store repository.Store
	if cfg.Storage == config.StorageMemory {
		logger.Warn("using in-memory storage, games are lost on restart")
		store = repository.NewMemoryStore()
	} else {
		dbPool := db.Connect(cfg.DatabaseURL)
		defer dbPool.Close()
		store = repository.NewPostgresStore(dbPool)
	}

	rdb := db.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if rdb != nil {
		defer rdb.Close()
	}
	middleware.UseRedis(rdb)

	// With Redis every instance hears every event through the subscription
	// below; without it the hub is fed directly.
	hub := ws.NewHub()
	sinks := events.Multi{events.LogSink{}, events.MetricsSink{}}
	if rdb != nil {
		sinks = append(sinks, events.NewRedisSink(rdb))
	} else {
		sinks = append(sinks, hub)
	}

	svc := service.NewBombService(store, sinks, quartz.NewReal(), service.Options{
		AllowedWagers: cfg.AllowedWagers,
		MaxGames:      cfg.MaxGames,
		Operator:      cfg.OperatorAddress,
	})

	r := gin.New()
	r.Use(gin.Recovery())

	// CORS for production (frontend on different domain)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	httpServer.RegisterRoutes(r, httpServer.Deps{
		Service: svc,
		Store:   store,
		Hub:     hub,
		Redis:   rdb,
		Config:  cfg,
		Version: version,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server started", "port", cfg.AppPort, "storage", cfg.Storage, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if rdb != nil {
		g.Go(func() error {
			return events.Subscribe(gctx, rdb, func(e domain.Event) {
				hub.Publish(gctx, e)
			})
		})
	}

	if cfg.AdminBotToken != "" {
		opBot, err := bot.NewOperatorBot(cfg.AdminBotToken, bot.NewCommands(svc, cfg.OperatorAddress), cfg.AdminIDs)
		if err != nil {
			logger.Error("operator bot disabled", "error", err)
		} else {
			g.Go(func() error {
				opBot.Start()
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				opBot.Stop()
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		logger.Fatal("server stopped", "error", err)
	}
	logger.Info("server exited")
}
