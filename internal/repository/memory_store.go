package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"bomb_royale/internal/domain"
	"bomb_royale/internal/game"
)

// MemoryStore keeps every record in process memory. Transactions are fully
// serialized: each one works on a copy of the data that replaces the live
// copy on commit. Games are held serialized so nothing handed out by a Tx
// aliases stored state.
type MemoryStore struct {
	mu   sync.Mutex
	data *memData
}

type memData struct {
	games    map[string][]byte
	order    map[string]int64
	rooms    map[string]string
	accounts map[string]domain.Account
	balances map[string]int64
	ledger   []domain.Transaction
	fees     int64
	seq      int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: &memData{
			games:    make(map[string][]byte),
			order:    make(map[string]int64),
			rooms:    make(map[string]string),
			accounts: make(map[string]domain.Account),
			balances: make(map[string]int64),
		},
	}
}

func (s *MemoryStore) RunInTx(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.data.clone()
	if err := fn(&memTx{d: work}); err != nil {
		return err
	}
	s.data = work
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (d *memData) clone() *memData {
	c := &memData{
		games:    make(map[string][]byte, len(d.games)),
		order:    make(map[string]int64, len(d.order)),
		rooms:    make(map[string]string, len(d.rooms)),
		accounts: make(map[string]domain.Account, len(d.accounts)),
		balances: make(map[string]int64, len(d.balances)),
		ledger:   append([]domain.Transaction(nil), d.ledger...),
		fees:     d.fees,
		seq:      d.seq,
	}
	for k, v := range d.games {
		c.games[k] = v
	}
	for k, v := range d.order {
		c.order[k] = v
	}
	for k, v := range d.rooms {
		c.rooms[k] = v
	}
	for k, v := range d.accounts {
		c.accounts[k] = v
	}
	for k, v := range d.balances {
		c.balances[k] = v
	}
	return c
}

type memTx struct {
	d *memData
}

func (t *memTx) GetGame(_ context.Context, token string) (*game.GameState, error) {
	b, ok := t.d.games[token]
	if !ok {
		return nil, ErrNotFound
	}
	return game.Decode(b)
}

func (t *memTx) PutGame(_ context.Context, g *game.GameState) error {
	b, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("put game %s: %w", g.Token(), err)
	}
	if _, ok := t.d.games[g.Token()]; !ok {
		t.d.seq++
		t.d.order[g.Token()] = t.d.seq
	}
	t.d.games[g.Token()] = b
	return nil
}

func (t *memTx) DeleteGame(_ context.Context, token string) error {
	delete(t.d.games, token)
	delete(t.d.order, token)
	return nil
}

func (t *memTx) ListGames(_ context.Context, limit int) ([]*game.GameState, error) {
	if limit <= 0 {
		limit = 100
	}

	tokens := make([]string, 0, len(t.d.games))
	for token := range t.d.games {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool { return t.d.order[tokens[i]] < t.d.order[tokens[j]] })
	if len(tokens) > limit {
		tokens = tokens[:limit]
	}

	res := make([]*game.GameState, 0, len(tokens))
	for _, token := range tokens {
		g, err := game.Decode(t.d.games[token])
		if err != nil {
			return nil, err
		}
		res = append(res, g)
	}
	return res, nil
}

func (t *memTx) CountGames(_ context.Context) (int, error) {
	return len(t.d.games), nil
}

func (t *memTx) GetRoom(_ context.Context, address string) (string, error) {
	token, ok := t.d.rooms[address]
	if !ok {
		return "", ErrNotFound
	}
	return token, nil
}

func (t *memTx) PutRoom(_ context.Context, address, token string) error {
	if _, ok := t.d.rooms[address]; ok {
		return ErrRoomTaken
	}
	t.d.rooms[address] = token
	return nil
}

func (t *memTx) DeleteRoom(_ context.Context, address string) error {
	delete(t.d.rooms, address)
	return nil
}

func (t *memTx) GetAccount(_ context.Context, address string) (*domain.Account, error) {
	a, ok := t.d.accounts[address]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (t *memTx) PutAccount(_ context.Context, a *domain.Account) error {
	t.d.accounts[a.Address] = *a
	return nil
}

func (t *memTx) Balance(_ context.Context, address string) (int64, error) {
	return t.d.balances[address], nil
}

func (t *memTx) AdjustBalance(_ context.Context, address string, delta int64, kind string, meta map[string]interface{}) (int64, error) {
	balance := t.d.balances[address]
	if balance+delta < 0 {
		return 0, ErrInsufficientFunds
	}
	balance += delta
	t.d.balances[address] = balance

	t.d.seq++
	t.d.ledger = append(t.d.ledger, domain.Transaction{
		ID:        t.d.seq,
		Address:   address,
		Type:      kind,
		Amount:    delta,
		Meta:      meta,
		CreatedAt: time.Now().UTC(),
	})
	return balance, nil
}

func (t *memTx) Transactions(_ context.Context, address string, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}

	var res []*domain.Transaction
	for i := len(t.d.ledger) - 1; i >= 0 && len(res) < limit; i-- {
		if t.d.ledger[i].Address == address {
			tx := t.d.ledger[i]
			res = append(res, &tx)
		}
	}
	return res, nil
}

func (t *memTx) OperatorFees(_ context.Context) (int64, error) {
	return t.d.fees, nil
}

func (t *memTx) AddOperatorFees(_ context.Context, delta int64) (int64, error) {
	if t.d.fees+delta < 0 {
		return 0, ErrInsufficientFunds
	}
	t.d.fees += delta
	return t.d.fees, nil
}
