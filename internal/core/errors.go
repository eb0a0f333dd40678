package core

import (
	"errors"
	"fmt"
)

// ValidationError reports input rejected before any write reached storage.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports that no row matched the identifier for the calling
// user. Rows owned by other users are indistinguishable from missing rows.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ConflictError reports a write that would violate a uniqueness rule.
type ConflictError struct {
	Entity string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Entity, e.Reason)
}

// StorageUnavailableError wraps a connection or transaction failure. The
// enclosing operation did not commit and may be retried.
type StorageUnavailableError struct {
	Op  string
	Err error
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable during %s: %v", e.Op, e.Err)
}

func (e *StorageUnavailableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is a storage availability failure rather
// than a rejected request.
func IsRetryable(err error) bool {
	var se *StorageUnavailableError
	return errors.As(err, &se)
}
