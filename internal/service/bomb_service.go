package service

import (
	"context"
	"errors"
	"sort"
	"strconv"

	"bomb_royale/internal/domain"
	"bomb_royale/internal/events"
	"bomb_royale/internal/game"
	"bomb_royale/internal/logger"
	"bomb_royale/internal/repository"

	"github.com/coder/quartz"
	"github.com/google/uuid"
)

// Options configures the game host.
type Options struct {
	AllowedWagers []int64
	MaxGames      int
	Operator      string
}

// BombService hosts the games. Every external call is one invocation: one
// storage transaction, one freshly seeded PRNG, and a batch of events
// published only after the transaction committed.
type BombService struct {
	store    repository.Store
	sink     events.Sink
	clock    quartz.Clock
	wagers   map[int64]bool
	maxGames int
	operator string
	newID    func() string
}

func NewBombService(store repository.Store, sink events.Sink, clock quartz.Clock, opts Options) *BombService {
	wagers := make(map[int64]bool, len(opts.AllowedWagers))
	for _, w := range opts.AllowedWagers {
		wagers[w] = true
	}
	if sink == nil {
		sink = events.Multi{}
	}
	return &BombService{
		store:    store,
		sink:     sink,
		clock:    clock,
		wagers:   wagers,
		maxGames: opts.MaxGames,
		operator: opts.Operator,
		newID:    uuid.NewString,
	}
}

// AllowedWagers returns the wager allow-list, ascending.
func (s *BombService) AllowedWagers() []int64 {
	out := make([]int64, 0, len(s.wagers))
	for w := range s.wagers {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// invocation is the context of one external call.
type invocation struct {
	id     string
	now    int64
	sender string
	rng    *game.PRNG
	tx     repository.Tx
	events []domain.Event
}

// emit buffers an event and records the invocation in the game history.
func (inv *invocation) emit(g *game.GameState, name, actor string, data map[string]interface{}) {
	g.AddEvent(inv.id)
	inv.events = append(inv.events, domain.Event{
		ID:        inv.id,
		Name:      name,
		Token:     g.Token(),
		Actor:     actor,
		Timestamp: inv.now,
		Data:      data,
	})
}

func (s *BombService) invoke(ctx context.Context, op, sender string, fn func(ctx context.Context, inv *invocation) error) error {
	inv := &invocation{
		id:     s.newID(),
		now:    s.clock.Now().UnixMicro(),
		sender: sender,
	}
	inv.rng = game.NewPRNG([]byte(inv.id + strconv.FormatInt(inv.now, 10) + sender))

	err := s.store.RunInTx(ctx, func(tx repository.Tx) error {
		inv.tx = tx
		inv.events = nil
		return fn(ctx, inv)
	})

	code := ErrorCode(err)
	InvocationsTotal.WithLabelValues(op, code).Inc()
	if err != nil {
		if code == CodeInternal {
			logger.Error("invocation failed", "op", op, "sender", sender, "tx", inv.id, "error", err)
		} else {
			logger.Warn("invocation rejected", "op", op, "code", code, "sender", sender, "tx", inv.id)
		}
		return err
	}

	logger.Debug("invocation committed", "op", op, "sender", sender, "tx", inv.id, "events", len(inv.events))
	if len(inv.events) > 0 {
		s.sink.Publish(ctx, inv.events...)
	}
	return nil
}

// view runs a read-only transaction.
func (s *BombService) view(ctx context.Context, fn func(tx repository.Tx) error) error {
	return s.store.RunInTx(ctx, fn)
}

// ================================================
// Helpers
// ================================================

func (s *BombService) checkOperator(sender string) error {
	if s.operator == "" || sender != s.operator {
		return ErrNotOperator
	}
	return nil
}

func checkNotRegistered(ctx context.Context, tx repository.Tx, address string) error {
	_, err := tx.GetRoom(ctx, address)
	if err == nil {
		return ErrPlayerAlreadyRegistered
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}

// register records the room of address. A concurrent registration that
// committed first wins.
func register(ctx context.Context, tx repository.Tx, address, token string) error {
	err := tx.PutRoom(ctx, address, token)
	if errors.Is(err, repository.ErrRoomTaken) {
		return ErrPlayerAlreadyRegistered
	}
	return err
}

func loadGame(ctx context.Context, tx repository.Tx, token string) (*game.GameState, error) {
	g, err := tx.GetGame(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrGameDoesntExist
	}
	return g, err
}

// loadPlayerGame resolves the game the address is registered in.
func loadPlayerGame(ctx context.Context, tx repository.Tx, address string) (*game.GameState, error) {
	token, err := tx.GetRoom(ctx, address)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPlayerNotRegistered
	}
	if err != nil {
		return nil, err
	}
	return loadGame(ctx, tx, token)
}

// unregister frees the address, unless it already moved to another game.
func unregister(ctx context.Context, tx repository.Tx, address, token string) error {
	room, err := tx.GetRoom(ctx, address)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if room != token {
		return nil
	}
	return tx.DeleteRoom(ctx, address)
}

// saveGame stores the game, or evicts it with its room registrations once
// it is over.
func saveGame(ctx context.Context, tx repository.Tx, g *game.GameState) error {
	if !g.IsOver() {
		return tx.PutGame(ctx, g)
	}
	for _, p := range g.Players() {
		if err := unregister(ctx, tx, p.Address, g.Token()); err != nil {
			return err
		}
	}
	return tx.DeleteGame(ctx, g.Token())
}

// pay moves amount from the game pool to the player balance.
func pay(ctx context.Context, inv *invocation, g *game.GameState, address string, amount int64, kind string) error {
	if err := g.Withdraw(amount); err != nil {
		return err
	}
	if amount == 0 {
		return nil
	}
	_, err := inv.tx.AdjustBalance(ctx, address, amount, kind, map[string]interface{}{"token": g.Token(), "tx": inv.id})
	return err
}

// refund pays the participation cost back and notifies it.
func refund(ctx context.Context, inv *invocation, g *game.GameState, address string, amount int64) error {
	if err := pay(ctx, inv, g, address, amount, domain.TxRefund); err != nil {
		return err
	}
	inv.emit(g, domain.EventRefundReward, address, map[string]interface{}{"reward": amount})
	return nil
}

// stake debits the wager from the player balance.
func stake(ctx context.Context, inv *invocation, token, address string, amount int64) error {
	_, err := inv.tx.AdjustBalance(ctx, address, -amount, domain.TxWager, map[string]interface{}{"token": token, "tx": inv.id})
	if errors.Is(err, repository.ErrInsufficientFunds) {
		return ErrInsufficientFunds
	}
	return err
}
