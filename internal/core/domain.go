package core

import (
	"strings"
	"time"
)

// MaxDescriptionLen caps free-text descriptions.
const MaxDescriptionLen = 200

type (
	// User is an account identity. Credential material never appears here;
	// it stays behind the credential store boundary.
	User struct {
		Username string
		Email    string // optional
	}

	// Expense is a single spend record owned by one user.
	Expense struct {
		ID          int64
		Username    string
		Category    string
		Amount      Amount
		Date        Date
		Description string
	}

	// Income is a single earning record owned by one user. No category.
	Income struct {
		ID          int64
		Username    string
		Amount      Amount
		Date        Date
		Description string
	}

	// Budget caps spending for one category in one calendar month. At most
	// one row exists per (username, category, month, year).
	Budget struct {
		ID       int64
		Username string
		Category string
		Month    time.Month
		Year     int
		Amount   Amount
	}

	// LoginEvent records one successful authentication. Append-only.
	LoginEvent struct {
		ID       int64
		Username string
		At       time.Time // UTC
	}
)

func validateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return &ValidationError{Field: "username", Reason: "must not be empty"}
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) > MaxDescriptionLen {
		return &ValidationError{Field: "description", Reason: "too long (max 200 characters)"}
	}
	return nil
}

// Validate checks the expense against the category taxonomy. Records must
// pass before they reach storage.
func (e Expense) Validate(tax Taxonomy) error {
	if err := validateUsername(e.Username); err != nil {
		return err
	}
	if err := tax.Check(e.Category); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	return validateDescription(e.Description)
}

// Validate checks the income record.
func (i Income) Validate() error {
	if err := validateUsername(i.Username); err != nil {
		return err
	}
	if err := i.Amount.Validate(); err != nil {
		return err
	}
	if err := i.Date.Validate(); err != nil {
		return err
	}
	return validateDescription(i.Description)
}

// Validate checks the budget row against the taxonomy.
func (b Budget) Validate(tax Taxonomy) error {
	if err := validateUsername(b.Username); err != nil {
		return err
	}
	if err := tax.Check(b.Category); err != nil {
		return err
	}
	if b.Month < time.January || b.Month > time.December {
		return &ValidationError{Field: "month", Reason: "must be between 1 and 12"}
	}
	if b.Year <= 0 {
		return &ValidationError{Field: "year", Reason: "must be positive"}
	}
	return b.Amount.Validate()
}
