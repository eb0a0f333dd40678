package journal

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeLoginStore struct {
	events    []time.Time
	insertErr error
}

func (f *fakeLoginStore) InsertLogin(ctx context.Context, username string, at time.Time) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.events = append(f.events, at)
	return nil
}

func (f *fakeLoginStore) RecentLogins(ctx context.Context, username string, limit int) ([]time.Time, error) {
	out := make([]time.Time, 0, limit)
	for i := len(f.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.events[i])
	}
	return out, nil
}

func TestRecordSwallowsStoreFailure(t *testing.T) {
	store := &fakeLoginStore{insertErr: errors.New("disk full")}
	j := New(store, nil)

	// Must not panic or surface the error in any way.
	j.Record(context.Background(), "alice")
	if len(store.events) != 0 {
		t.Fatalf("no event should exist after a failed write")
	}
}

func TestRecordStampsUTC(t *testing.T) {
	store := &fakeLoginStore{}
	j := New(store, nil)
	loc, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	j.now = func() time.Time { return time.Date(2024, time.May, 1, 12, 0, 0, 0, loc) }

	j.Record(context.Background(), "alice")
	if len(store.events) != 1 {
		t.Fatalf("expected one event")
	}
	if store.events[0].Location() != time.UTC {
		t.Fatalf("events must be stamped in UTC, got %v", store.events[0].Location())
	}
}

func TestRecentDefaultsLimit(t *testing.T) {
	store := &fakeLoginStore{}
	j := New(store, nil)
	base := time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		store.events = append(store.events, base.Add(time.Duration(i)*time.Minute))
	}

	got, err := j.Recent(context.Background(), "alice", 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != DefaultRecentLimit {
		t.Fatalf("expected default limit %d, got %d", DefaultRecentLimit, len(got))
	}
	if !got[0].Equal(base.Add(7 * time.Minute)) {
		t.Fatalf("most recent first, got %v", got[0])
	}
}
