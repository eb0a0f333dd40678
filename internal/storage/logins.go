package storage

import (
	"context"
	"time"
)

// InsertLogin appends a login event. Timestamps are stored in RFC 3339
// UTC so lexicographic ordering matches chronological ordering.
func (s *Store) InsertLogin(ctx context.Context, username string, at time.Time) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO logins (username, logged_in_at) VALUES (?, ?)`,
		username, at.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return storageErr("insert login", err)
	}
	return nil
}

// RecentLogins returns up to limit login timestamps, most recent first.
func (s *Store) RecentLogins(ctx context.Context, username string, limit int) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT logged_in_at FROM logins WHERE username = ? ORDER BY logged_in_at DESC, id DESC LIMIT ?`,
		username, limit)
	if err != nil {
		return nil, storageErr("recent logins", err)
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, storageErr("scan login", err)
		}
		at, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			s.logger.WarnContext(ctx, "Skipping login event with unparseable timestamp",
				"username", username, "raw_timestamp", raw)
			continue
		}
		out = append(out, at)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("recent logins", err)
	}
	return out, nil
}
