package storage

import (
	"context"
	"database/sql"

	"github.com/devxxclaire/MyFinanceHub/internal/core"
)

// InsertExpense appends an expense row and returns its identifier.
func (s *Store) InsertExpense(ctx context.Context, e core.Expense) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (username, category, amount, date, description) VALUES (?, ?, ?, ?, ?)`,
		e.Username, e.Category, e.Amount.String(), e.Date.String(), e.Description)
	if err != nil {
		return 0, storageErr("insert expense", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("insert expense", err)
	}
	return id, nil
}

// ListExpenses returns the user's expenses ascending by date then id. The
// range filter is inclusive on both ends; a zero bound leaves that side
// open. Rows whose stored date no longer parses are skipped with a
// warning instead of failing the whole query.
func (s *Store) ListExpenses(ctx context.Context, username string, r core.DateRange) ([]core.Expense, error) {
	query := `SELECT id, username, category, amount, date, description FROM expenses WHERE username = ?`
	args := []any{username}
	if !r.From.IsZero() {
		query += ` AND date >= ?`
		args = append(args, r.From.String())
	}
	if !r.To.IsZero() {
		query += ` AND date <= ?`
		args = append(args, r.To.String())
	}
	query += ` ORDER BY date ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list expenses", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var (
			e       core.Expense
			rawDate string
		)
		if err := rows.Scan(&e.ID, &e.Username, &e.Category, &e.Amount, &rawDate, &e.Description); err != nil {
			return nil, storageErr("scan expense", err)
		}
		date, err := core.ParseDate(rawDate)
		if err != nil {
			s.logger.WarnContext(ctx, "Skipping expense with unparseable date",
				"record_id", e.ID, "username", username, "raw_date", rawDate)
			continue
		}
		e.Date = date
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list expenses", err)
	}
	return out, nil
}

// UpdateExpense rewrites category, amount, date and description of the
// row owned by e.Username. Ownership sits in the WHERE clause, so a
// foreign row reads as not found.
func (s *Store) UpdateExpense(ctx context.Context, e core.Expense) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET category = ?, amount = ?, date = ?, description = ? WHERE id = ? AND username = ?`,
		e.Category, e.Amount.String(), e.Date.String(), e.Description, e.ID, e.Username)
	if err != nil {
		return storageErr("update expense", err)
	}
	return requireRow(res, "expense", e.ID)
}

// DeleteExpense removes the row owned by username.
func (s *Store) DeleteExpense(ctx context.Context, username string, id int64) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND username = ?`, id, username)
	if err != nil {
		return storageErr("delete expense", err)
	}
	return requireRow(res, "expense", id)
}

// requireRow maps a zero-row write to NotFoundError.
func requireRow(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("rows affected", err)
	}
	if n == 0 {
		return &core.NotFoundError{Entity: entity, ID: id}
	}
	return nil
}
