// Package journal keeps the append-only record of successful logins.
package journal

import (
	"context"
	"time"

	"github.com/devxxclaire/MyFinanceHub/internal/log"
)

// DefaultRecentLimit is how many events the recent-activity view shows.
const DefaultRecentLimit = 5

// LoginStore is the persistence surface the journal needs.
type LoginStore interface {
	InsertLogin(ctx context.Context, username string, at time.Time) error
	RecentLogins(ctx context.Context, username string, limit int) ([]time.Time, error)
}

type Journal struct {
	store  LoginStore
	logger *log.Logger
	now    func() time.Time
}

func New(store LoginStore, logger *log.Logger) *Journal {
	if logger == nil {
		logger = log.New(log.ComponentJournal, nil)
	}
	return &Journal{store: store, logger: logger, now: time.Now}
}

// Record appends a login event for username. The write is best-effort:
// an audit failure must never undo a successful authentication, so
// persistence errors are logged and swallowed.
func (j *Journal) Record(ctx context.Context, username string) {
	if err := j.store.InsertLogin(ctx, username, j.now().UTC()); err != nil {
		j.logger.WarnContext(ctx, "Login event not recorded",
			log.FieldUsername, username, log.FieldError, err)
	}
}

// Recent returns up to limit login timestamps, most recent first. A
// non-positive limit falls back to DefaultRecentLimit.
func (j *Journal) Recent(ctx context.Context, username string, limit int) ([]time.Time, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return j.store.RecentLogins(ctx, username, limit)
}
