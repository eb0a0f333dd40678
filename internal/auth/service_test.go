package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/devxxclaire/MyFinanceHub/internal/core"
)

type fakeCredStore struct {
	hashes map[string]string
	emails map[string]string
	err    error
}

func newFakeCredStore() *fakeCredStore {
	return &fakeCredStore{hashes: map[string]string{}, emails: map[string]string{}}
}

func (f *fakeCredStore) CreateUser(ctx context.Context, username, hash, email string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.hashes[username]; ok {
		return &core.ConflictError{Entity: "user", Reason: "username already taken"}
	}
	f.hashes[username] = hash
	f.emails[username] = email
	return nil
}

func (f *fakeCredStore) GetCredential(ctx context.Context, username string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	h, ok := f.hashes[username]
	if !ok {
		return "", &core.NotFoundError{Entity: "user"}
	}
	return h, nil
}

func (f *fakeCredStore) UpdatePassword(ctx context.Context, username, hash string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.hashes[username]; !ok {
		return &core.NotFoundError{Entity: "user"}
	}
	f.hashes[username] = hash
	return nil
}

func TestPasswordPolicy(t *testing.T) {
	tests := []struct {
		password string
		ok       bool
	}{
		{"Passw0rd", true},
		{"Passw0rd!", true},
		{"Sh0rt", false},             // too short
		{"passw0rdonly", false},      // no uppercase
		{"PASSW0RDONLY", false},      // no lowercase
		{"Passwordonly", false},      // no digit
		{"", false},
		{strings.Repeat("aB1", 10), true},
	}
	for _, tt := range tests {
		err := CheckPasswordPolicy(tt.password)
		if tt.ok && err != nil {
			t.Errorf("policy rejected %q: %v", tt.password, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("policy accepted %q", tt.password)
		}
		if !tt.ok {
			var ve *core.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("policy failure for %q must be ValidationError, got %T", tt.password, err)
			}
		}
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	store := newFakeCredStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	if err := svc.Register(ctx, "alice", "Passw0rd!", "alice@example.com"); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Plaintext must not be what got stored.
	if store.hashes["alice"] == "Passw0rd!" {
		t.Fatalf("plaintext password stored")
	}

	ok, err := svc.Authenticate(ctx, "alice", "Passw0rd!")
	if err != nil || !ok {
		t.Fatalf("correct password must authenticate, ok=%v err=%v", ok, err)
	}
	ok, err = svc.Authenticate(ctx, "alice", "WrongPass1")
	if err != nil || ok {
		t.Fatalf("wrong password must not authenticate, ok=%v err=%v", ok, err)
	}
}

func TestAuthenticateUnknownUser(t *testing.T) {
	svc := NewService(newFakeCredStore(), nil)
	ok, err := svc.Authenticate(context.Background(), "ghost", "Passw0rd!")
	if err != nil {
		t.Fatalf("unknown user must not error: %v", err)
	}
	if ok {
		t.Fatalf("unknown user authenticated")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	store := newFakeCredStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	if err := svc.Register(ctx, "alice", "Passw0rd!", ""); err != nil {
		t.Fatalf("first register: %v", err)
	}
	err := svc.Register(ctx, "alice", "OtherPass1", "")
	var ce *core.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if len(store.hashes) != 1 {
		t.Fatalf("duplicate register must not create a row")
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	store := newFakeCredStore()
	svc := NewService(store, nil)

	err := svc.Register(context.Background(), "alice", "weak", "")
	var ve *core.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(store.hashes) != 0 {
		t.Fatalf("weak password must not be persisted")
	}
}

func TestChangePassword(t *testing.T) {
	store := newFakeCredStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	if err := svc.Register(ctx, "alice", "Passw0rd!", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	oldHash := store.hashes["alice"]

	// Wrong current password.
	err := svc.ChangePassword(ctx, "alice", "NotThePass1", "NewPassw0rd")
	var ve *core.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("wrong current password must be ValidationError, got %v", err)
	}
	if store.hashes["alice"] != oldHash {
		t.Fatalf("hash changed despite failed verification")
	}

	// Weak replacement.
	if err := svc.ChangePassword(ctx, "alice", "Passw0rd!", "weak"); err == nil {
		t.Fatalf("weak new password accepted")
	}
	if store.hashes["alice"] != oldHash {
		t.Fatalf("hash changed despite weak replacement")
	}

	// Successful change.
	if err := svc.ChangePassword(ctx, "alice", "Passw0rd!", "NewPassw0rd1"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if ok, _ := svc.Authenticate(ctx, "alice", "NewPassw0rd1"); !ok {
		t.Fatalf("new password must authenticate")
	}
	if ok, _ := svc.Authenticate(ctx, "alice", "Passw0rd!"); ok {
		t.Fatalf("old password must stop working")
	}
}

func TestAuthenticateStorageFailure(t *testing.T) {
	store := newFakeCredStore()
	store.err = &core.StorageUnavailableError{Op: "get credential", Err: errors.New("connection lost")}
	svc := NewService(store, nil)

	_, err := svc.Authenticate(context.Background(), "alice", "Passw0rd!")
	if !core.IsRetryable(err) {
		t.Fatalf("storage failure must surface as retryable, got %v", err)
	}
}
