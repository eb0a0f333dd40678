package storage

import (
	"context"

	"github.com/devxxclaire/MyFinanceHub/internal/core"
)

// InsertIncome appends an income row and returns its identifier.
func (s *Store) InsertIncome(ctx context.Context, in core.Income) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO incomes (username, amount, date, description) VALUES (?, ?, ?, ?)`,
		in.Username, in.Amount.String(), in.Date.String(), in.Description)
	if err != nil {
		return 0, storageErr("insert income", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("insert income", err)
	}
	return id, nil
}

// ListIncomes mirrors ListExpenses for income rows.
func (s *Store) ListIncomes(ctx context.Context, username string, r core.DateRange) ([]core.Income, error) {
	query := `SELECT id, username, amount, date, description FROM incomes WHERE username = ?`
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
		return nil, storageErr("list incomes", err)
	}
	defer rows.Close()

	var out []core.Income
	for rows.Next() {
		var (
			in      core.Income
			rawDate string
		)
		if err := rows.Scan(&in.ID, &in.Username, &in.Amount, &rawDate, &in.Description); err != nil {
			return nil, storageErr("scan income", err)
		}
		date, err := core.ParseDate(rawDate)
		if err != nil {
			s.logger.WarnContext(ctx, "Skipping income with unparseable date",
				"record_id", in.ID, "username", username, "raw_date", rawDate)
			continue
		}
		in.Date = date
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list incomes", err)
	}
	return out, nil
}

// UpdateIncome rewrites amount, date and description of the row owned by
// in.Username.
func (s *Store) UpdateIncome(ctx context.Context, in core.Income) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE incomes SET amount = ?, date = ?, description = ? WHERE id = ? AND username = ?`,
		in.Amount.String(), in.Date.String(), in.Description, in.ID, in.Username)
	if err != nil {
		return storageErr("update income", err)
	}
	return requireRow(res, "income", in.ID)
}

// DeleteIncome removes the row owned by username.
func (s *Store) DeleteIncome(ctx context.Context, username string, id int64) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM incomes WHERE id = ? AND username = ?`, id, username)
	if err != nil {
		return storageErr("delete income", err)
	}
	return requireRow(res, "income", id)
}
