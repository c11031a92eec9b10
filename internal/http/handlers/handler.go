package handlers

import (
	"errors"
	"net/http"

	"bomb_royale/internal/domain"
	"bomb_royale/internal/game"
	"bomb_royale/internal/http/middleware"
	"bomb_royale/internal/logger"
	"bomb_royale/internal/repository"
	"bomb_royale/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Svc      *service.BombService
	BotToken string
	DevMode  bool
}

func NewHandler(svc *service.BombService, botToken string, devMode bool) *Handler {
	return &Handler{
		Svc:      svc,
		BotToken: botToken,
		DevMode:  devMode,
	}
}

// sender извлекает адрес игрока из контекста Gin
func sender(c *gin.Context) (string, bool) {
	address, ok := middleware.Address(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}
	return address, true
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return false
	}
	return true
}

// fail answers with the stable error code of err.
func fail(c *gin.Context, err error) {
	code := service.ErrorCode(err)
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "internal error", "code": code})
		return
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrGameDoesntExist),
		errors.Is(err, service.ErrPlayerNotRegistered),
		errors.Is(err, game.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotOperator),
		errors.Is(err, game.ErrNotHost),
		errors.Is(err, game.ErrNotTheWinner):
		return http.StatusForbidden
	case errors.Is(err, service.ErrForbiddenCost),
		errors.Is(err, game.ErrInvalidCost),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidAccountName),
		errors.Is(err, game.ErrSuicide):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInsufficientFunds),
		errors.Is(err, repository.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case service.ErrorCode(err) == service.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusConflict
	}
}
