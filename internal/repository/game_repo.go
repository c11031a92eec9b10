package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bomb_royale/internal/game"

	"github.com/jackc/pgx/v5"
)

func (t *pgTx) GetGame(ctx context.Context, token string) (*game.GameState, error) {
	var state []byte
	err := t.tx.QueryRow(ctx,
		`SELECT state FROM gamestates WHERE token = $1 FOR UPDATE`,
		token,
	).Scan(&state)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get game %s: %w", token, err)
	}
	return game.Decode(state)
}

func (t *pgTx) PutGame(ctx context.Context, g *game.GameState) error {
	state, err := json.Marshal(g)
	if err != nil {
		return err
	}
	_, err = t.tx.Exec(ctx,
		`INSERT INTO gamestates (token, state) VALUES ($1, $2)
		 ON CONFLICT (token) DO UPDATE SET state = EXCLUDED.state`,
		g.Token(), state,
	)
	if err != nil {
		return fmt.Errorf("put game %s: %w", g.Token(), err)
	}
	return nil
}

func (t *pgTx) DeleteGame(ctx context.Context, token string) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM gamestates WHERE token = $1`, token); err != nil {
		return fmt.Errorf("delete game %s: %w", token, err)
	}
	return nil
}

// ListGames returns live games, oldest first.
func (t *pgTx) ListGames(ctx context.Context, limit int) ([]*game.GameState, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := t.tx.Query(ctx,
		`SELECT state FROM gamestates ORDER BY created_at, token LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var res []*game.GameState
	for rows.Next() {
		var state []byte
		if err := rows.Scan(&state); err != nil {
			return nil, err
		}
		g, err := game.Decode(state)
		if err != nil {
			return nil, err
		}
		res = append(res, g)
	}
	return res, rows.Err()
}

// gamesLockKey is the advisory lock taken by CountGames.
const gamesLockKey int64 = 0x626f6d62 // "bomb"

func (t *pgTx) CountGames(ctx context.Context) (int, error) {
	if _, err := t.tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, gamesLockKey); err != nil {
		return 0, fmt.Errorf("lock games: %w", err)
	}
	var n int
	if err := t.tx.QueryRow(ctx, `SELECT COUNT(*) FROM gamestates`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count games: %w", err)
	}
	return n, nil
}

// Rooms map a player address to the game it is registered in.

func (t *pgTx) GetRoom(ctx context.Context, address string) (string, error) {
	var token string
	err := t.tx.QueryRow(ctx, `SELECT token FROM player_rooms WHERE address = $1`, address).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get room: %w", err)
	}
	return token, nil
}

func (t *pgTx) PutRoom(ctx context.Context, address, token string) error {
	// a concurrent insert of the same address blocks here until the other
	// transaction ends, then conflicts
	tag, err := t.tx.Exec(ctx,
		`INSERT INTO player_rooms (address, token) VALUES ($1, $2)
		 ON CONFLICT (address) DO NOTHING`,
		address, token,
	)
	if err != nil {
		return fmt.Errorf("put room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRoomTaken
	}
	return nil
}

func (t *pgTx) DeleteRoom(ctx context.Context, address string) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM player_rooms WHERE address = $1`, address); err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	return nil
}
