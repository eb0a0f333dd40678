// Package services orchestrates the core operations: validated,
// owner-scoped ledger writes and the assembly of analytics summaries.
package services

import (
	"context"
	"time"

	"github.com/devxxclaire/MyFinanceHub/internal/core"
	"github.com/devxxclaire/MyFinanceHub/internal/log"
)

// LedgerStore is the persistence surface the ledger service needs.
type LedgerStore interface {
	InsertExpense(ctx context.Context, e core.Expense) (int64, error)
	ListExpenses(ctx context.Context, username string, r core.DateRange) ([]core.Expense, error)
	UpdateExpense(ctx context.Context, e core.Expense) error
	DeleteExpense(ctx context.Context, username string, id int64) error

	InsertIncome(ctx context.Context, in core.Income) (int64, error)
	ListIncomes(ctx context.Context, username string, r core.DateRange) ([]core.Income, error)
	UpdateIncome(ctx context.Context, in core.Income) error
	DeleteIncome(ctx context.Context, username string, id int64) error

	ReplaceBudget(ctx context.Context, b core.Budget) error
	ListBudgets(ctx context.Context, username string, month time.Month, year int) ([]core.Budget, error)
}

// LedgerService validates records before they reach storage. Ownership
// is always the authenticated username passed by the caller, never a
// field of the payload.
type LedgerService struct {
	store    LedgerStore
	taxonomy core.Taxonomy
	logger   *log.Logger
}

func NewLedgerService(store LedgerStore, taxonomy core.Taxonomy, logger *log.Logger) *LedgerService {
	if logger == nil {
		logger = log.New(log.ComponentLedger, nil)
	}
	return &LedgerService{store: store, taxonomy: taxonomy, logger: logger}
}

// Taxonomy exposes the configured category taxonomy to callers that
// need to present the valid set.
func (s *LedgerService) Taxonomy() core.Taxonomy { return s.taxonomy }

// AddExpense validates and persists a new expense for username.
func (s *LedgerService) AddExpense(ctx context.Context, username, category string, amount core.Amount, date core.Date, description string) (int64, error) {
	e := core.Expense{
		Username:    username,
		Category:    category,
		Amount:      amount,
		Date:        date,
		Description: description,
	}
	if err := e.Validate(s.taxonomy); err != nil {
		return 0, err
	}
	id, err := s.store.InsertExpense(ctx, e)
	if err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "Expense added",
		log.FieldUsername, username, log.FieldRecordID, id, log.FieldCategory, category)
	return id, nil
}

// ListExpenses returns the user's expenses, optionally limited to an
// inclusive date range, ascending by date.
func (s *LedgerService) ListExpenses(ctx context.Context, username string, r core.DateRange) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx, username, r)
}

// UpdateExpense rewrites all mutable fields of the identified expense.
func (s *LedgerService) UpdateExpense(ctx context.Context, username string, id int64, category string, amount core.Amount, date core.Date, description string) error {
	e := core.Expense{
		ID:          id,
		Username:    username,
		Category:    category,
		Amount:      amount,
		Date:        date,
		Description: description,
	}
	if err := e.Validate(s.taxonomy); err != nil {
		return err
	}
	return s.store.UpdateExpense(ctx, e)
}

// DeleteExpense removes the identified expense if username owns it.
func (s *LedgerService) DeleteExpense(ctx context.Context, username string, id int64) error {
	return s.store.DeleteExpense(ctx, username, id)
}

// AddIncome validates and persists a new income for username.
func (s *LedgerService) AddIncome(ctx context.Context, username string, amount core.Amount, date core.Date, description string) (int64, error) {
	in := core.Income{
		Username:    username,
		Amount:      amount,
		Date:        date,
		Description: description,
	}
	if err := in.Validate(); err != nil {
		return 0, err
	}
	id, err := s.store.InsertIncome(ctx, in)
	if err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "Income added", log.FieldUsername, username, log.FieldRecordID, id)
	return id, nil
}

// ListIncomes mirrors ListExpenses for income records.
func (s *LedgerService) ListIncomes(ctx context.Context, username string, r core.DateRange) ([]core.Income, error) {
	return s.store.ListIncomes(ctx, username, r)
}

// UpdateIncome rewrites all mutable fields of the identified income.
func (s *LedgerService) UpdateIncome(ctx context.Context, username string, id int64, amount core.Amount, date core.Date, description string) error {
	in := core.Income{
		ID:          id,
		Username:    username,
		Amount:      amount,
		Date:        date,
		Description: description,
	}
	if err := in.Validate(); err != nil {
		return err
	}
	return s.store.UpdateIncome(ctx, in)
}

// DeleteIncome removes the identified income if username owns it.
func (s *LedgerService) DeleteIncome(ctx context.Context, username string, id int64) error {
	return s.store.DeleteIncome(ctx, username, id)
}

// SetBudget validates and replaces the budget for (username, category,
// month, year).
func (s *LedgerService) SetBudget(ctx context.Context, username, category string, month time.Month, year int, amount core.Amount) error {
	b := core.Budget{
		Username: username,
		Category: category,
		Month:    month,
		Year:     year,
		Amount:   amount,
	}
	if err := b.Validate(s.taxonomy); err != nil {
		return err
	}
	if err := s.store.ReplaceBudget(ctx, b); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Budget set",
		log.FieldUsername, username, log.FieldCategory, category,
		log.FieldYear, year, log.FieldMonth, int(month))
	return nil
}

// ListBudgets returns the user's budgets for one calendar month.
func (s *LedgerService) ListBudgets(ctx context.Context, username string, month time.Month, year int) ([]core.Budget, error) {
	if month < time.January || month > time.December {
		return nil, &core.ValidationError{Field: "month", Reason: "must be between 1 and 12"}
	}
	return s.store.ListBudgets(ctx, username, month, year)
}
