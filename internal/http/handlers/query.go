package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const maxListedGames = 500

func (h *Handler) GameState(c *gin.Context) {
	rec, err := h.Svc.GameState(c.Request.Context(), c.Param("token"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) GameStates(c *gin.Context) {
	limit := 100
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = min(n, maxListedGames)
	}

	games, err := h.Svc.GameStates(c.Request.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

// Wagers lists the allowed participation costs.
func (h *Handler) Wagers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"wagers": h.Svc.AllowedWagers()})
}

func (h *Handler) PlayerRoom(c *gin.Context) {
	token, err := h.Svc.PlayerRoom(c.Request.Context(), c.Param("address"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handler) Account(c *gin.Context) {
	acc, err := h.Svc.Account(c.Request.Context(), c.Param("address"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, acc)
}

type AccountRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) SetAccountName(c *gin.Context) {
	addr, ok := sender(c)
	if !ok {
		return
	}
	var req AccountRequest
	if !bind(c, &req) {
		return
	}

	acc, err := h.Svc.SetAccountName(c.Request.Context(), addr, req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, acc)
}

func (h *Handler) Balance(c *gin.Context) {
	addr, ok := sender(c)
	if !ok {
		return
	}
	balance, txs, err := h.Svc.Balance(c.Request.Context(), addr)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"address":      addr,
		"balance":      balance,
		"transactions": txs,
	})
}

func (h *Handler) OperatorFees(c *gin.Context) {
	fees, err := h.Svc.OperatorFees(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fees": fees})
}
