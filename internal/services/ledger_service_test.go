package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/devxxclaire/MyFinanceHub/internal/core"
)

// fakeLedgerStore is an in-memory LedgerStore for service tests.
type fakeLedgerStore struct {
	nextID   int64
	expenses map[int64]core.Expense
	incomes  map[int64]core.Income
	budgets  []core.Budget
	err      error
}

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{
		nextID:   1,
		expenses: map[int64]core.Expense{},
		incomes:  map[int64]core.Income{},
	}
}

func (f *fakeLedgerStore) InsertExpense(ctx context.Context, e core.Expense) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	e.ID = f.nextID
	f.nextID++
	f.expenses[e.ID] = e
	return e.ID, nil
}

func (f *fakeLedgerStore) ListExpenses(ctx context.Context, username string, r core.DateRange) ([]core.Expense, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []core.Expense
	for _, e := range f.expenses {
		if e.Username == username && r.Contains(e.Date) {
			out = append(out, e)
		}
	}
	sortExpenses(out)
	return out, nil
}

func (f *fakeLedgerStore) UpdateExpense(ctx context.Context, e core.Expense) error {
	if f.err != nil {
		return f.err
	}
	existing, ok := f.expenses[e.ID]
	if !ok || existing.Username != e.Username {
		return &core.NotFoundError{Entity: "expense", ID: e.ID}
	}
	f.expenses[e.ID] = e
	return nil
}

func (f *fakeLedgerStore) DeleteExpense(ctx context.Context, username string, id int64) error {
	if f.err != nil {
		return f.err
	}
	existing, ok := f.expenses[id]
	if !ok || existing.Username != username {
		return &core.NotFoundError{Entity: "expense", ID: id}
	}
	delete(f.expenses, id)
	return nil
}

func (f *fakeLedgerStore) InsertIncome(ctx context.Context, in core.Income) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	in.ID = f.nextID
	f.nextID++
	f.incomes[in.ID] = in
	return in.ID, nil
}

func (f *fakeLedgerStore) ListIncomes(ctx context.Context, username string, r core.DateRange) ([]core.Income, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []core.Income
	for _, in := range f.incomes {
		if in.Username == username && r.Contains(in.Date) {
			out = append(out, in)
		}
	}
	return out, nil
}

func (f *fakeLedgerStore) UpdateIncome(ctx context.Context, in core.Income) error {
	if f.err != nil {
		return f.err
	}
	existing, ok := f.incomes[in.ID]
	if !ok || existing.Username != in.Username {
		return &core.NotFoundError{Entity: "income", ID: in.ID}
	}
	f.incomes[in.ID] = in
	return nil
}

func (f *fakeLedgerStore) DeleteIncome(ctx context.Context, username string, id int64) error {
	if f.err != nil {
		return f.err
	}
	existing, ok := f.incomes[id]
	if !ok || existing.Username != username {
		return &core.NotFoundError{Entity: "income", ID: id}
	}
	delete(f.incomes, id)
	return nil
}

func (f *fakeLedgerStore) ReplaceBudget(ctx context.Context, b core.Budget) error {
	if f.err != nil {
		return f.err
	}
	kept := f.budgets[:0]
	for _, existing := range f.budgets {
		if existing.Username == b.Username && existing.Category == b.Category &&
			existing.Month == b.Month && existing.Year == b.Year {
			continue
		}
		kept = append(kept, existing)
	}
	f.budgets = append(kept, b)
	return nil
}

func (f *fakeLedgerStore) ListBudgets(ctx context.Context, username string, month time.Month, year int) ([]core.Budget, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []core.Budget
	for _, b := range f.budgets {
		if b.Username == username && b.Month == month && b.Year == year {
			out = append(out, b)
		}
	}
	return out, nil
}

func sortExpenses(out []core.Expense) {
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Date.Before(out[j-1].Date); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
}

func fixedLedger(store LedgerStore) *LedgerService {
	return NewLedgerService(store, core.NewTaxonomy(core.CategoryModeFixed, nil), nil)
}

func TestAddExpenseValidation(t *testing.T) {
	store := newFakeLedgerStore()
	svc := fixedLedger(store)
	ctx := context.Background()

	var ve *core.ValidationError
	// Negative amount rejected before any write.
	if _, err := svc.AddExpense(ctx, "alice", "Food", core.MustAmount("-5"), core.NewDate(2024, time.May, 1), ""); !errors.As(err, &ve) {
		t.Fatalf("negative amount must be ValidationError, got %v", err)
	}
	// Unknown category rejected in fixed mode.
	if _, err := svc.AddExpense(ctx, "alice", "Rocketry", core.MustAmount("5"), core.NewDate(2024, time.May, 1), ""); !errors.As(err, &ve) {
		t.Fatalf("unknown category must be ValidationError, got %v", err)
	}
	if len(store.expenses) != 0 {
		t.Fatalf("rejected expenses must not reach storage")
	}

	id, err := svc.AddExpense(ctx, "alice", "Food", core.MustAmount("12.50"), core.NewDate(2024, time.May, 1), "lunch")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if store.expenses[id].Username != "alice" {
		t.Fatalf("ownership must come from the authenticated parameter")
	}
}

func TestAddExpenseFreeMode(t *testing.T) {
	store := newFakeLedgerStore()
	svc := NewLedgerService(store, core.NewTaxonomy(core.CategoryModeFree, nil), nil)
	ctx := context.Background()

	if _, err := svc.AddExpense(ctx, "alice", "Windsurfing", core.MustAmount("30"), core.NewDate(2024, time.May, 1), ""); err != nil {
		t.Fatalf("free mode must accept any category: %v", err)
	}
	var ve *core.ValidationError
	if _, err := svc.AddExpense(ctx, "alice", "  ", core.MustAmount("30"), core.NewDate(2024, time.May, 1), ""); !errors.As(err, &ve) {
		t.Fatalf("free mode still rejects blank categories, got %v", err)
	}
}

func TestAddIncomeValidation(t *testing.T) {
	store := newFakeLedgerStore()
	svc := fixedLedger(store)
	ctx := context.Background()

	var ve *core.ValidationError
	if _, err := svc.AddIncome(ctx, "bob", core.MustAmount("-1"), core.NewDate(2024, time.May, 1), ""); !errors.As(err, &ve) {
		t.Fatalf("negative income must be ValidationError, got %v", err)
	}
	if _, err := svc.AddIncome(ctx, "bob", core.MustAmount("2000"), core.NewDate(2024, time.May, 28), "salary"); err != nil {
		t.Fatalf("add income: %v", err)
	}
}

func TestSetBudgetValidation(t *testing.T) {
	store := newFakeLedgerStore()
	svc := fixedLedger(store)
	ctx := context.Background()

	var ve *core.ValidationError
	if err := svc.SetBudget(ctx, "alice", "Food", 13, 2024, core.MustAmount("100")); !errors.As(err, &ve) {
		t.Fatalf("month 13 must be ValidationError, got %v", err)
	}
	if err := svc.SetBudget(ctx, "alice", "Food", time.May, 2024, core.MustAmount("100")); err != nil {
		t.Fatalf("set budget: %v", err)
	}
	if err := svc.SetBudget(ctx, "alice", "Food", time.May, 2024, core.MustAmount("250")); err != nil {
		t.Fatalf("replace budget: %v", err)
	}

	budgets, err := svc.ListBudgets(ctx, "alice", time.May, 2024)
	if err != nil {
		t.Fatalf("list budgets: %v", err)
	}
	if len(budgets) != 1 || !budgets[0].Amount.Equal(core.MustAmount("250")) {
		t.Fatalf("replace semantics broken: %+v", budgets)
	}
}

func TestDeleteExpenseForeignOwner(t *testing.T) {
	store := newFakeLedgerStore()
	svc := fixedLedger(store)
	ctx := context.Background()

	id, err := svc.AddExpense(ctx, "alice", "Food", core.MustAmount("10"), core.NewDate(2024, time.May, 1), "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	var nf *core.NotFoundError
	if err := svc.DeleteExpense(ctx, "bob", id); !errors.As(err, &nf) {
		t.Fatalf("foreign delete must be NotFoundError, got %v", err)
	}
	if len(store.expenses) != 1 {
		t.Fatalf("foreign delete must leave rows unchanged")
	}
}
