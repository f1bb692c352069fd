package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// WalletResolver looks up destination addresses by employee id
type WalletResolver interface {
	Resolve(ctx context.Context, employeeIDs []string) (map[string]string, error)
}

// WalletDirectory reads employee wallet addresses from Postgres. It never
// writes.
type WalletDirectory struct {
	db *sql.DB
}

func NewWalletDirectory(db *sql.DB) *WalletDirectory {
	return &WalletDirectory{db: db}
}

func (d *WalletDirectory) Resolve(ctx context.Context, employeeIDs []string) (map[string]string, error) {
	wallets := make(map[string]string, len(employeeIDs))
	if len(employeeIDs) == 0 {
		return wallets, nil
	}

	rows, err := d.db.QueryContext(ctx,
		`SELECT employee_id, wallet_address FROM employee_wallets WHERE employee_id = ANY($1)`,
		pq.Array(employeeIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query employee wallets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, addr string
		if err := rows.Scan(&id, &addr); err != nil {
			return nil, fmt.Errorf("failed to scan employee wallet: %w", err)
		}
		wallets[id] = addr
	}
	return wallets, rows.Err()
}
