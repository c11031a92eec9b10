package repository

import (
	"context"
	"errors"

	"bomb_royale/internal/domain"
	"bomb_royale/internal/game"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrRoomTaken         = errors.New("address already has a room")
)

// Store runs invocations. Every mutation made through the Tx handed to fn is
// committed only if fn returns nil; on error nothing is persisted.
type Store interface {
	RunInTx(ctx context.Context, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
}

// Tx is the view of the storage inside one invocation. GetGame locks the game
// record until the transaction ends. CountGames serializes game creation for
// the rest of the transaction. PutRoom never overwrites: an address that
// already has a room fails with ErrRoomTaken.
type Tx interface {
	GetGame(ctx context.Context, token string) (*game.GameState, error)
	PutGame(ctx context.Context, g *game.GameState) error
	DeleteGame(ctx context.Context, token string) error
	ListGames(ctx context.Context, limit int) ([]*game.GameState, error)
	CountGames(ctx context.Context) (int, error)

	GetRoom(ctx context.Context, address string) (string, error)
	PutRoom(ctx context.Context, address, token string) error
	DeleteRoom(ctx context.Context, address string) error

	GetAccount(ctx context.Context, address string) (*domain.Account, error)
	PutAccount(ctx context.Context, a *domain.Account) error

	Balance(ctx context.Context, address string) (int64, error)
	AdjustBalance(ctx context.Context, address string, delta int64, kind string, meta map[string]interface{}) (int64, error)
	Transactions(ctx context.Context, address string, limit int) ([]*domain.Transaction, error)

	OperatorFees(ctx context.Context) (int64, error)
	AddOperatorFees(ctx context.Context, delta int64) (int64, error)
}
