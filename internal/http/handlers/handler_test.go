package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"bomb_royale/internal/domain"
	"bomb_royale/internal/game"
	"bomb_royale/internal/repository"
	"bomb_royale/internal/service"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{service.ErrGameDoesntExist, http.StatusNotFound},
		{game.ErrPlayerNotFound, http.StatusNotFound},
		{service.ErrNotOperator, http.StatusForbidden},
		{game.ErrNotTheWinner, http.StatusForbidden},
		{domain.ErrInvalidAccountName, http.StatusBadRequest},
		{fmt.Errorf("stake: %w", service.ErrInsufficientFunds), http.StatusPaymentRequired},
		{repository.ErrInsufficientFunds, http.StatusPaymentRequired},
		{game.ErrAfkExploded, http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusOf(tc.err); got != tc.want {
			t.Fatalf("statusOf(%v) = %d; want %d", tc.err, got, tc.want)
		}
	}
}
