package repository

import (
	"context"
	"errors"
	"fmt"

	"bomb_royale/internal/domain"

	"github.com/jackc/pgx/v5"
)

func (t *pgTx) GetAccount(ctx context.Context, address string) (*domain.Account, error) {
	var a domain.Account
	err := t.tx.QueryRow(ctx,
		`SELECT address, name FROM accounts WHERE address = $1`,
		address,
	).Scan(&a.Address, &a.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &a, nil
}

func (t *pgTx) PutAccount(ctx context.Context, a *domain.Account) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO accounts (address, name) VALUES ($1, $2)
		 ON CONFLICT (address) DO UPDATE SET name = EXCLUDED.name`,
		a.Address, a.Name,
	)
	if err != nil {
		return fmt.Errorf("put account: %w", err)
	}
	return nil
}
