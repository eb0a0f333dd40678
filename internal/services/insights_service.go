package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/devxxclaire/MyFinanceHub/internal/analytics"
	"github.com/devxxclaire/MyFinanceHub/internal/core"
	"github.com/devxxclaire/MyFinanceHub/internal/log"
)

// DefaultTrendWindow is how many trailing months the dashboard trend
// shows.
const DefaultTrendWindow = 6

// Summary is everything the dashboard, the export surface and the
// summary email need for one calendar month.
type Summary struct {
	Year         int                        `json:"year"`
	Month        time.Month                 `json:"month"`
	ExpenseTotal core.Amount                `json:"expense_total"`
	IncomeTotal  core.Amount                `json:"income_total"`
	NetSavings   core.Amount                `json:"net_savings"`
	TopCategory  string                     `json:"top_category"` // "none" when the month has no expenses
	Budgets      []analytics.BudgetProgress `json:"budgets"`
	Trend        []analytics.MonthTotal     `json:"trend"`
	TopSplit     []analytics.CategoryTotal  `json:"top_split"`
	RestTotal    core.Amount                `json:"rest_total"`
}

// NoCategory is reported as TopCategory when the month has no expenses.
const NoCategory = "none"

// InsightsService assembles analytics summaries from ledger queries.
// All numeric work is delegated to the pure analytics package.
type InsightsService struct {
	store  LedgerStore
	logger *log.Logger
	now    func() core.Date
}

func NewInsightsService(store LedgerStore, logger *log.Logger) *InsightsService {
	if logger == nil {
		logger = log.New(log.ComponentInsights, nil)
	}
	return &InsightsService{store: store, logger: logger, now: core.Today}
}

// MonthlySummary computes the full summary for one calendar month. The
// three ledger reads run concurrently; reads are safe to parallelize.
func (s *InsightsService) MonthlySummary(ctx context.Context, username string, year int, month time.Month) (Summary, error) {
	if month < time.January || month > time.December {
		return Summary{}, &core.ValidationError{Field: "month", Reason: "must be between 1 and 12"}
	}

	monthRange := monthRange(year, month)

	var (
		monthExpenses []core.Expense
		monthIncomes  []core.Income
		budgets       []core.Budget
		allExpenses   []core.Expense
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		monthExpenses, err = s.store.ListExpenses(gctx, username, monthRange)
		return err
	})
	g.Go(func() (err error) {
		monthIncomes, err = s.store.ListIncomes(gctx, username, monthRange)
		return err
	})
	g.Go(func() (err error) {
		budgets, err = s.store.ListBudgets(gctx, username, month, year)
		return err
	})
	g.Go(func() (err error) {
		allExpenses, err = s.store.ListExpenses(gctx, username, trendRange(year, month))
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	expenseTotal := analytics.MonthlyExpenseTotal(monthExpenses, year, month)
	incomeTotal := analytics.MonthlyIncomeTotal(monthIncomes, year, month)

	top := NoCategory
	if category, ok := analytics.TopCategory(monthExpenses); ok {
		top = category
	}

	breakdown := analytics.CategoryBreakdown(monthExpenses)
	topSplit, rest := analytics.TopSplit(breakdown, analytics.DefaultTopN)

	return Summary{
		Year:         year,
		Month:        month,
		ExpenseTotal: expenseTotal,
		IncomeTotal:  incomeTotal,
		NetSavings:   analytics.NetSavings(incomeTotal, expenseTotal),
		TopCategory:  top,
		Budgets:      analytics.ComputeBudgetProgress(budgets, monthExpenses),
		Trend:        analytics.TrendSeries(allExpenses, core.NewDate(year, month, 1), DefaultTrendWindow),
		TopSplit:     topSplit,
		RestTotal:    rest,
	}, nil
}

// Trend returns the trailing expense trend ending at the current month.
func (s *InsightsService) Trend(ctx context.Context, username string, windowMonths int) ([]analytics.MonthTotal, error) {
	if windowMonths <= 0 {
		windowMonths = DefaultTrendWindow
	}
	if windowMonths > maxTrendWindow {
		windowMonths = maxTrendWindow
	}
	now := s.now()
	expenses, err := s.store.ListExpenses(ctx, username, trendRange(now.Year, now.Month))
	if err != nil {
		return nil, err
	}
	return analytics.TrendSeries(expenses, now, windowMonths), nil
}

// Breakdown returns the per-category totals for one calendar month plus
// the top-N highlight split.
func (s *InsightsService) Breakdown(ctx context.Context, username string, year int, month time.Month) ([]analytics.CategoryTotal, core.Amount, error) {
	if month < time.January || month > time.December {
		return nil, core.ZeroAmount, &core.ValidationError{Field: "month", Reason: "must be between 1 and 12"}
	}
	expenses, err := s.store.ListExpenses(ctx, username, monthRange(year, month))
	if err != nil {
		return nil, core.ZeroAmount, err
	}
	top, rest := analytics.TopSplit(analytics.CategoryBreakdown(expenses), analytics.DefaultTopN)
	return top, rest, nil
}

// monthRange covers exactly one calendar month, inclusive.
func monthRange(year int, month time.Month) core.DateRange {
	first := core.NewDate(year, month, 1)
	last := core.DateOf(first.Time().AddDate(0, 1, -1))
	return core.DateRange{From: first, To: last}
}

// trendRange covers the trailing trend window ending at the given
// month, wide enough for the longest window the API serves.
func trendRange(year int, month time.Month) core.DateRange {
	last := core.DateOf(core.NewDate(year, month, 1).Time().AddDate(0, 1, -1))
	first := core.DateOf(core.NewDate(year, month, 1).Time().AddDate(0, -(maxTrendWindow - 1), 0))
	return core.DateRange{From: first, To: last}
}

// maxTrendWindow caps how far back Trend will reach.
const maxTrendWindow = 24
