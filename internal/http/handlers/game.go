package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type CreateGameRequest struct {
	Amount int64 `json:"amount" binding:"required,min=1"`
}

type JoinGameRequest struct {
	Token  string `json:"token" binding:"required"`
	Amount int64  `json:"amount" binding:"required,min=1"`
}

type SendBombRequest struct {
	UseShield bool `json:"use_shield"`
}

type LootRequest struct {
	Looted string `json:"looted_address" binding:"required"`
}

func (h *Handler) CreateGame(c *gin.Context) {
	addr, ok := sender(c)
	if !ok {
		return
	}
	var req CreateGameRequest
	if !bind(c, &req) {
		return
	}

	token, err := h.Svc.CreateGame(c.Request.Context(), addr, req.Amount)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token})
}

func (h *Handler) JoinGame(c *gin.Context) {
	addr, ok := sender(c)
	if !ok {
		return
	}
	var req JoinGameRequest
	if !bind(c, &req) {
		return
	}

	if err := h.Svc.JoinGame(c.Request.Context(), addr, req.Token, req.Amount); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": req.Token})
}

// action runs a game call that only needs the sender.
func (h *Handler) action(call func(c *gin.Context, addr string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr, ok := sender(c)
		if !ok {
			return
		}
		if err := call(c, addr); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func (h *Handler) QuitGame(c *gin.Context) {
	h.action(func(c *gin.Context, addr string) error {
		return h.Svc.QuitGame(c.Request.Context(), addr)
	})(c)
}

func (h *Handler) AskReady(c *gin.Context) {
	h.action(func(c *gin.Context, addr string) error {
		return h.Svc.AskReady(c.Request.Context(), addr)
	})(c)
}

func (h *Handler) ConfirmReady(c *gin.Context) {
	h.action(func(c *gin.Context, addr string) error {
		return h.Svc.ConfirmReady(c.Request.Context(), addr)
	})(c)
}

func (h *Handler) StartGame(c *gin.Context) {
	h.action(func(c *gin.Context, addr string) error {
		return h.Svc.StartGame(c.Request.Context(), addr)
	})(c)
}

func (h *Handler) SendBomb(c *gin.Context) {
	addr, ok := sender(c)
	if !ok {
		return
	}
	var req SendBombRequest
	// an empty body is a plain pass
	if c.Request.ContentLength != 0 && !bind(c, &req) {
		return
	}

	receiver, err := h.Svc.SendBomb(c.Request.Context(), addr, req.UseShield)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"exploded": receiver == "",
		"receiver": receiver,
	})
}

func (h *Handler) LootPlayer(c *gin.Context) {
	addr, ok := sender(c)
	if !ok {
		return
	}
	var req LootRequest
	if !bind(c, &req) {
		return
	}

	if err := h.Svc.LootPlayer(c.Request.Context(), addr, req.Looted); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) WinGame(c *gin.Context) {
	addr, ok := sender(c)
	if !ok {
		return
	}
	paid, err := h.Svc.WinGame(c.Request.Context(), addr)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reward": paid})
}
