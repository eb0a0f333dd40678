package storage

import (
	"context"
	"time"

	"github.com/devxxclaire/MyFinanceHub/internal/core"
)

// ReplaceBudget sets the budget for (username, category, month, year).
// The delete and insert run inside one transaction so a concurrent reader
// never observes zero or two rows for the tuple.
func (s *Store) ReplaceBudget(ctx context.Context, b core.Budget) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err := s.withTx(ctx, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM budgets WHERE username = ? AND category = ? AND month = ? AND year = ?`,
			b.Username, b.Category, int(b.Month), b.Year); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO budgets (username, category, month, year, amount) VALUES (?, ?, ?, ?, ?)`,
			b.Username, b.Category, int(b.Month), b.Year, b.Amount.String())
		return err
	})
	if err != nil {
		return storageErr("replace budget", err)
	}
	return nil
}

// ListBudgets returns the user's budgets for one calendar month, ordered
// by category.
func (s *Store) ListBudgets(ctx context.Context, username string, month time.Month, year int) ([]core.Budget, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, category, month, year, amount FROM budgets
		 WHERE username = ? AND month = ? AND year = ? ORDER BY category ASC`,
		username, int(month), year)
	if err != nil {
		return nil, storageErr("list budgets", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var (
			b        core.Budget
			rawMonth int
		)
		if err := rows.Scan(&b.ID, &b.Username, &b.Category, &rawMonth, &b.Year, &b.Amount); err != nil {
			return nil, storageErr("scan budget", err)
		}
		b.Month = time.Month(rawMonth)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list budgets", err)
	}
	return out, nil
}
