// Package auth is the credential store: it registers users, verifies
// passwords and rotates hashes. Plaintext passwords never leave this
// package and stored hashes never escape it.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/devxxclaire/MyFinanceHub/internal/core"
	"github.com/devxxclaire/MyFinanceHub/internal/log"
)

// CredentialStore is the persistence surface the service needs.
type CredentialStore interface {
	CreateUser(ctx context.Context, username, passwordHash, email string) error
	GetCredential(ctx context.Context, username string) (string, error)
	UpdatePassword(ctx context.Context, username, passwordHash string) error
}

// ErrIncorrectPassword reports a failed current-password check during a
// password change.
var ErrIncorrectPassword = &core.ValidationError{Field: "current_password", Reason: "does not match"}

// dummyHash is compared against when the username is unknown, so the
// work done by Authenticate does not depend on user existence.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("financehub-dummy-credential"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
}()

type Service struct {
	store  CredentialStore
	logger *log.Logger
}

func NewService(store CredentialStore, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(log.ComponentAuth, nil)
	}
	return &Service{store: store, logger: logger}
}

// Register creates a new user with a bcrypt hash of password. The email
// is optional and kept for summary delivery.
func (s *Service) Register(ctx context.Context, username, password, email string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return &core.ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if err := CheckPasswordPolicy(password); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.CreateUser(ctx, username, string(hash), email); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "User registered", log.FieldUsername, username)
	return nil
}

// Authenticate reports whether the password matches the stored hash.
// Unknown usernames run the same bcrypt comparison against a dummy hash
// and come back as a plain false, indistinguishable from a wrong
// password.
func (s *Service) Authenticate(ctx context.Context, username, password string) (bool, error) {
	hash, err := s.store.GetCredential(ctx, username)

	var nf *core.NotFoundError
	if errors.As(err, &nf) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return false, nil
	}
	return true, nil
}

// ChangePassword verifies the current password and replaces the stored
// hash. The new password obeys the same policy as registration.
func (s *Service) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	ok, err := s.Authenticate(ctx, username, currentPassword)
	if err != nil {
		return err
	}
	if !ok {
		return ErrIncorrectPassword
	}
	if err := CheckPasswordPolicy(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdatePassword(ctx, username, string(hash)); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Password changed", log.FieldUsername, username)
	return nil
}
