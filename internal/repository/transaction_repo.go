package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bomb_royale/internal/domain"

	"github.com/jackc/pgx/v5"
)

func (t *pgTx) Balance(ctx context.Context, address string) (int64, error) {
	var amount int64
	err := t.tx.QueryRow(ctx, `SELECT amount FROM balances WHERE address = $1`, address).Scan(&amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return amount, nil
}

// AdjustBalance applies delta to the balance and records it in the ledger.
func (t *pgTx) AdjustBalance(ctx context.Context, address string, delta int64, kind string, meta map[string]interface{}) (int64, error) {
	// Lock and check balance
	var balance int64
	err := t.tx.QueryRow(ctx, `SELECT amount FROM balances WHERE address = $1 FOR UPDATE`, address).Scan(&balance)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("lock balance: %w", err)
	}
	if balance+delta < 0 {
		return 0, ErrInsufficientFunds
	}

	var newBalance int64
	err = t.tx.QueryRow(ctx,
		`INSERT INTO balances (address, amount) VALUES ($1, $2)
		 ON CONFLICT (address) DO UPDATE SET amount = balances.amount + $2
		 RETURNING amount`,
		address, delta,
	).Scan(&newBalance)
	if err != nil {
		return 0, fmt.Errorf("update balance: %w", err)
	}

	metaJSON, err := json.Marshal(meta)
	if err != nil || meta == nil {
		metaJSON = []byte("{}")
	}
	if _, err := t.tx.Exec(ctx,
		`INSERT INTO transactions (address, type, amount, meta) VALUES ($1, $2, $3, $4)`,
		address, kind, delta, metaJSON,
	); err != nil {
		return 0, fmt.Errorf("record transaction: %w", err)
	}

	return newBalance, nil
}

// Transactions returns recent ledger entries for an address, newest first.
func (t *pgTx) Transactions(ctx context.Context, address string, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := t.tx.Query(ctx,
		`SELECT id, address, type, amount, meta, created_at
		 FROM transactions
		 WHERE address = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		address, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var result []*domain.Transaction
	for rows.Next() {
		var (
			tx        domain.Transaction
			metaJSON  []byte
			createdAt time.Time
		)
		if err := rows.Scan(&tx.ID, &tx.Address, &tx.Type, &tx.Amount, &metaJSON, &createdAt); err != nil {
			return nil, err
		}
		tx.CreatedAt = createdAt
		if len(metaJSON) > 0 {
			_ = json.Unmarshal(metaJSON, &tx.Meta)
		}
		result = append(result, &tx)
	}
	return result, rows.Err()
}

func (t *pgTx) OperatorFees(ctx context.Context) (int64, error) {
	var amount int64
	err := t.tx.QueryRow(ctx, `SELECT amount FROM operator_fees WHERE id = 1`).Scan(&amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get operator fees: %w", err)
	}
	return amount, nil
}

// AddOperatorFees books delta; withdrawals pass a negative delta.
func (t *pgTx) AddOperatorFees(ctx context.Context, delta int64) (int64, error) {
	var current int64
	err := t.tx.QueryRow(ctx, `SELECT amount FROM operator_fees WHERE id = 1 FOR UPDATE`).Scan(&current)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("lock operator fees: %w", err)
	}
	if current+delta < 0 {
		return 0, ErrInsufficientFunds
	}

	var amount int64
	err = t.tx.QueryRow(ctx,
		`INSERT INTO operator_fees (id, amount) VALUES (1, $1)
		 ON CONFLICT (id) DO UPDATE SET amount = operator_fees.amount + $1
		 RETURNING amount`,
		delta,
	).Scan(&amount)
	if err != nil {
		return 0, fmt.Errorf("update operator fees: %w", err)
	}
	return amount, nil
}
