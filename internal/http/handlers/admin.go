package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type WithdrawFeesRequest struct {
	Address string `json:"address" binding:"required"`
	Amount  int64  `json:"amount" binding:"required,min=1"`
}

type FundRequest struct {
	Address string `json:"address" binding:"required"`
	Amount  int64  `json:"amount" binding:"required,min=1"`
}

func (h *Handler) ResetGames(c *gin.Context) {
	addr, ok := sender(c)
	if !ok {
		return
	}
	n, err := h.Svc.ResetGames(c.Request.Context(), addr)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reset": n})
}

func (h *Handler) ResetGame(c *gin.Context) {
	addr, ok := sender(c)
	if !ok {
		return
	}
	if err := h.Svc.ResetGame(c.Request.Context(), addr, c.Param("token")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) ResetPlayer(c *gin.Context) {
	addr, ok := sender(c)
	if !ok {
		return
	}
	if err := h.Svc.ResetPlayer(c.Request.Context(), addr, c.Param("address")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) WithdrawOperatorFees(c *gin.Context) {
	addr, ok := sender(c)
	if !ok {
		return
	}
	var req WithdrawFeesRequest
	if !bind(c, &req) {
		return
	}
	left, err := h.Svc.WithdrawOperatorFees(c.Request.Context(), addr, req.Address, req.Amount)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fees": left})
}

func (h *Handler) Fund(c *gin.Context) {
	addr, ok := sender(c)
	if !ok {
		return
	}
	var req FundRequest
	if !bind(c, &req) {
		return
	}
	balance, err := h.Svc.Fund(c.Request.Context(), addr, req.Address, req.Amount)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": req.Address, "balance": balance})
}
