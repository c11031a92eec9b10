package service

import (
	"context"
	"errors"

	"bomb_royale/internal/domain"
	"bomb_royale/internal/game"
	"bomb_royale/internal/repository"
)

const resetBatch = 1000

// ResetGames refunds and evicts every live game.
func (s *BombService) ResetGames(ctx context.Context, sender string) (int, error) {
	var n int
	err := s.invoke(ctx, "reset_games", sender, func(ctx context.Context, inv *invocation) error {
		if err := s.checkOperator(sender); err != nil {
			return err
		}
		n = 0
		for {
			games, err := inv.tx.ListGames(ctx, resetBatch)
			if err != nil {
				return err
			}
			if len(games) == 0 {
				return nil
			}
			for _, g := range games {
				locked, err := loadGame(ctx, inv.tx, g.Token())
				if err != nil {
					return err
				}
				if err := resetGame(ctx, inv, locked); err != nil {
					return err
				}
				n++
			}
		}
	})
	return n, err
}

// ResetGame refunds the participants of one game and evicts it.
func (s *BombService) ResetGame(ctx context.Context, sender, token string) error {
	return s.invoke(ctx, "reset_game", sender, func(ctx context.Context, inv *invocation) error {
		if err := s.checkOperator(sender); err != nil {
			return err
		}
		g, err := loadGame(ctx, inv.tx, token)
		if err != nil {
			return err
		}
		return resetGame(ctx, inv, g)
	})
}

// resetGame refunds each participant its cost, as far as the pool allows,
// and removes the game with its room registrations. Whatever the pool still
// holds afterwards goes to the operator fees.
func resetGame(ctx context.Context, inv *invocation, g *game.GameState) error {
	for _, p := range g.Players() {
		amount := g.Cost()
		if g.Pool() < amount {
			amount = g.Pool()
		}
		if err := refund(ctx, inv, g, p.Address, amount); err != nil {
			return err
		}
		if err := unregister(ctx, inv.tx, p.Address, g.Token()); err != nil {
			return err
		}
	}
	if rest := g.Pool(); rest > 0 {
		if err := g.Withdraw(rest); err != nil {
			return err
		}
		if _, err := inv.tx.AddOperatorFees(ctx, rest); err != nil {
			return err
		}
	}
	return inv.tx.DeleteGame(ctx, g.Token())
}

// ResetPlayer drops the room registration of an address.
func (s *BombService) ResetPlayer(ctx context.Context, sender, address string) error {
	return s.invoke(ctx, "reset_player", sender, func(ctx context.Context, inv *invocation) error {
		if err := s.checkOperator(sender); err != nil {
			return err
		}
		if _, err := inv.tx.GetRoom(ctx, address); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrPlayerNotRegistered
			}
			return err
		}
		return inv.tx.DeleteRoom(ctx, address)
	})
}

// WithdrawOperatorFees moves collected fees to the balance of address.
func (s *BombService) WithdrawOperatorFees(ctx context.Context, sender, address string, amount int64) (int64, error) {
	var left int64
	err := s.invoke(ctx, "withdraw_operator_fees", sender, func(ctx context.Context, inv *invocation) error {
		if err := s.checkOperator(sender); err != nil {
			return err
		}
		current, err := inv.tx.OperatorFees(ctx)
		if err != nil {
			return err
		}
		if amount < 0 || current < amount {
			return ErrNotEnoughOperatorFees
		}
		if left, err = inv.tx.AddOperatorFees(ctx, -amount); err != nil {
			return err
		}
		if amount == 0 {
			return nil
		}
		_, err = inv.tx.AdjustBalance(ctx, address, amount, domain.TxFeesWithdraw, map[string]interface{}{"tx": inv.id})
		return err
	})
	return left, err
}

// Fund credits a player balance.
func (s *BombService) Fund(ctx context.Context, sender, address string, amount int64) (int64, error) {
	var balance int64
	err := s.invoke(ctx, "fund", sender, func(ctx context.Context, inv *invocation) error {
		if err := s.checkOperator(sender); err != nil {
			return err
		}
		if amount <= 0 {
			return ErrInvalidAmount
		}
		var err error
		balance, err = inv.tx.AdjustBalance(ctx, address, amount, domain.TxFund, map[string]interface{}{"tx": inv.id})
		return err
	})
	return balance, err
}
