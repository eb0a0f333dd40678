package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/devxxclaire/MyFinanceHub/internal/core"
)

// CreateUser inserts a new user row. A username collision is reported as
// a ConflictError; the plaintext password never reaches this layer.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash, email string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, email) VALUES (?, ?, ?)`,
		username, passwordHash, email)
	if err != nil {
		if isUniqueViolation(err) {
			return &core.ConflictError{Entity: "user", Reason: fmt.Sprintf("username %q already taken", username)}
		}
		return storageErr("create user", err)
	}
	return nil
}

// GetCredential returns the stored password hash for username.
func (s *Store) GetCredential(ctx context.Context, username string) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT password_hash FROM users WHERE username = ?`, username).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", &core.NotFoundError{Entity: "user"}
	}
	if err != nil {
		return "", storageErr("get credential", err)
	}
	return hash, nil
}

// UpdatePassword replaces the stored hash in a single statement.
func (s *Store) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE username = ?`, passwordHash, username)
	if err != nil {
		return storageErr("update password", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("update password", err)
	}
	if n == 0 {
		return &core.NotFoundError{Entity: "user"}
	}
	return nil
}

// GetUser returns the user's public profile. The hash stays behind
// GetCredential.
func (s *Store) GetUser(ctx context.Context, username string) (core.User, error) {
	var u core.User
	err := s.db.QueryRowContext(ctx,
		`SELECT username, email FROM users WHERE username = ?`, username).Scan(&u.Username, &u.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, &core.NotFoundError{Entity: "user"}
	}
	if err != nil {
		return core.User{}, storageErr("get user", err)
	}
	return u, nil
}

// UserEmail returns the user's stored email, empty when none is on file.
func (s *Store) UserEmail(ctx context.Context, username string) (string, error) {
	u, err := s.GetUser(ctx, username)
	if err != nil {
		return "", err
	}
	return u.Email, nil
}
