package service

import (
	"context"
	"errors"

	"bomb_royale/internal/domain"
	"bomb_royale/internal/game"
	"bomb_royale/internal/repository"
)

const recentTransactions = 50

// GameState returns the stored record of a live game.
func (s *BombService) GameState(ctx context.Context, token string) (game.Record, error) {
	var rec game.Record
	err := s.view(ctx, func(tx repository.Tx) error {
		g, err := loadGame(ctx, tx, token)
		if err != nil {
			return err
		}
		rec = g.Record()
		return nil
	})
	return rec, err
}

// GameStates lists live games, oldest first.
func (s *BombService) GameStates(ctx context.Context, limit int) ([]game.Record, error) {
	var recs []game.Record
	err := s.view(ctx, func(tx repository.Tx) error {
		games, err := tx.ListGames(ctx, limit)
		if err != nil {
			return err
		}
		recs = make([]game.Record, 0, len(games))
		for _, g := range games {
			recs = append(recs, g.Record())
		}
		return nil
	})
	return recs, err
}

// PlayerRoom returns the token of the game the address is registered in, or
// "" when it is not registered.
func (s *BombService) PlayerRoom(ctx context.Context, address string) (string, error) {
	var token string
	err := s.view(ctx, func(tx repository.Tx) error {
		room, err := tx.GetRoom(ctx, address)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		token = room
		return err
	})
	return token, err
}

// Account returns the profile of the address, a default one if never set.
func (s *BombService) Account(ctx context.Context, address string) (domain.Account, error) {
	acc := domain.DefaultAccount(address)
	err := s.view(ctx, func(tx repository.Tx) error {
		a, err := tx.GetAccount(ctx, address)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		acc = *a
		return nil
	})
	return acc, err
}

func (s *BombService) SetAccountName(ctx context.Context, sender, name string) (domain.Account, error) {
	var acc domain.Account
	err := s.invoke(ctx, "set_account_name", sender, func(ctx context.Context, inv *invocation) error {
		a, err := inv.tx.GetAccount(ctx, sender)
		if errors.Is(err, repository.ErrNotFound) {
			def := domain.DefaultAccount(sender)
			a, err = &def, nil
		}
		if err != nil {
			return err
		}
		if err := a.SetName(name); err != nil {
			return err
		}
		acc = *a
		return inv.tx.PutAccount(ctx, a)
	})
	return acc, err
}

// Balance returns the spendable balance with the latest ledger entries.
func (s *BombService) Balance(ctx context.Context, address string) (int64, []*domain.Transaction, error) {
	var (
		balance int64
		txs     []*domain.Transaction
	)
	err := s.view(ctx, func(tx repository.Tx) error {
		var err error
		if balance, err = tx.Balance(ctx, address); err != nil {
			return err
		}
		txs, err = tx.Transactions(ctx, address, recentTransactions)
		return err
	})
	return balance, txs, err
}

func (s *BombService) OperatorFees(ctx context.Context) (int64, error) {
	var fees int64
	err := s.view(ctx, func(tx repository.Tx) error {
		var err error
		fees, err = tx.OperatorFees(ctx)
		return err
	})
	return fees, err
}
