package repository

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"bomb_royale/internal/domain"
	"bomb_royale/internal/game"
	"bomb_royale/internal/migrations"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	if _, err := migrations.Apply(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
}

func TestPostgresStore_GameRoundTrip(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer db.Close()

	applyMigrations(t, db)
	s := NewPostgresStore(db)

	token := uuid.NewString()
	host := "hx" + token[:8]

	err = s.RunInTx(ctx, func(tx Tx) error {
		g := game.New(token, 100, host, 1)
		if err := g.Deposit(100); err != nil {
			return err
		}
		if err := g.Join(game.NewPlayer(host)); err != nil {
			return err
		}
		if err := tx.PutGame(ctx, g); err != nil {
			return err
		}
		return tx.PutRoom(ctx, host, token)
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = s.RunInTx(ctx, func(tx Tx) error {
		g, err := tx.GetGame(ctx, token)
		if err != nil {
			return err
		}
		if g.Pool() != 100 || g.Host() != host || g.PlayerCount() != 1 {
			t.Fatalf("unexpected game %+v", g.Record())
		}
		room, err := tx.GetRoom(ctx, host)
		if err != nil || room != token {
			t.Fatalf("room: %q %v", room, err)
		}
		if err := tx.DeleteRoom(ctx, host); err != nil {
			return err
		}
		return tx.DeleteGame(ctx, token)
	})
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}

func TestPostgresStore_Rollback(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer db.Close()

	applyMigrations(t, db)
	s := NewPostgresStore(db)

	address := "hx" + uuid.NewString()
	boom := errors.New("boom")
	err = s.RunInTx(ctx, func(tx Tx) error {
		if _, err := tx.AdjustBalance(ctx, address, 1000, domain.TxFund, nil); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	_ = s.RunInTx(ctx, func(tx Tx) error {
		bal, err := tx.Balance(ctx, address)
		if err != nil {
			t.Fatalf("balance: %v", err)
		}
		if bal != 0 {
			t.Fatalf("expected 0 after rollback, got %d", bal)
		}
		if _, err := tx.AdjustBalance(ctx, address, -1, domain.TxWager, nil); !errors.Is(err, ErrInsufficientFunds) {
			t.Fatalf("expected ErrInsufficientFunds, got %v", err)
		}
		return nil
	})
}

// Both transactions see no room before either registers; exactly one
// registration may commit.
func TestPostgresStore_ConcurrentRoomRegistration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer db.Close()

	applyMigrations(t, db)
	s := NewPostgresStore(db)

	address := "hx" + uuid.NewString()
	tokens := []string{uuid.NewString(), uuid.NewString()}

	var (
		read sync.WaitGroup
		done sync.WaitGroup
		errs = make([]error, len(tokens))
	)
	read.Add(len(tokens))
	done.Add(len(tokens))
	for i, token := range tokens {
		go func(i int, token string) {
			defer done.Done()
			errs[i] = s.RunInTx(ctx, func(tx Tx) error {
				_, err := tx.GetRoom(ctx, address)
				read.Done()
				if !errors.Is(err, ErrNotFound) {
					return err
				}
				read.Wait()
				return tx.PutRoom(ctx, address, token)
			})
		}(i, token)
	}
	done.Wait()

	won := -1
	for i, err := range errs {
		switch {
		case err == nil:
			if won != -1 {
				t.Fatalf("both registrations committed")
			}
			won = i
		case !errors.Is(err, ErrRoomTaken):
			t.Fatalf("registration %d: %v", i, err)
		}
	}
	if won == -1 {
		t.Fatalf("no registration committed: %v", errs)
	}

	_ = s.RunInTx(ctx, func(tx Tx) error {
		room, err := tx.GetRoom(ctx, address)
		if err != nil || room != tokens[won] {
			t.Fatalf("room = %q, %v; want %q", room, err, tokens[won])
		}
		return tx.DeleteRoom(ctx, address)
	})
}

// A creator holding the games lock makes the next count wait for its commit.
func TestPostgresStore_CountGamesSerializesCreation(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer db.Close()

	applyMigrations(t, db)
	s := NewPostgresStore(db)

	token := uuid.NewString()
	locked := make(chan int)
	created := make(chan error, 1)
	go func() {
		created <- s.RunInTx(ctx, func(tx Tx) error {
			n, err := tx.CountGames(ctx)
			if err != nil {
				close(locked)
				return err
			}
			if err := tx.PutGame(ctx, game.New(token, 100, "hx"+token[:8], 1)); err != nil {
				close(locked)
				return err
			}
			locked <- n
			time.Sleep(200 * time.Millisecond)
			return nil
		})
	}()

	before, ok := <-locked
	if !ok {
		t.Fatalf("create: %v", <-created)
	}

	err = s.RunInTx(ctx, func(tx Tx) error {
		n, err := tx.CountGames(ctx)
		if err != nil {
			return err
		}
		if n != before+1 {
			t.Errorf("count = %d, want %d once the creator committed", n, before+1)
		}
		return tx.DeleteGame(ctx, token)
	})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if err := <-created; err != nil {
		t.Fatalf("create: %v", err)
	}
}
