// Package analytics derives reportable aggregates from ledger records.
// Every function is pure: it works on records already fetched from
// storage, touches nothing else, and always produces the same output
// for the same input.
package analytics

import (
	"sort"
	"time"

	"github.com/devxxclaire/MyFinanceHub/internal/core"
)

// DefaultTopN is how many categories the breakdown highlights before
// folding the remainder into RestBucket.
const DefaultTopN = 3

// RestBucket names the aggregated remainder of a top-N split.
const RestBucket = "Other categories"

// MonthlyExpenseTotal sums expense amounts dated in the given calendar
// month. An empty record set totals zero.
func MonthlyExpenseTotal(records []core.Expense, year int, month time.Month) core.Amount {
	total := core.ZeroAmount
	for _, r := range records {
		if r.Date.InMonth(year, month) {
			total = total.Add(r.Amount)
		}
	}
	return total
}

// MonthlyIncomeTotal sums income amounts dated in the given calendar
// month.
func MonthlyIncomeTotal(records []core.Income, year int, month time.Month) core.Amount {
	total := core.ZeroAmount
	for _, r := range records {
		if r.Date.InMonth(year, month) {
			total = total.Add(r.Amount)
		}
	}
	return total
}

// NetSavings is income minus expenses. It may be negative.
func NetSavings(incomeTotal, expenseTotal core.Amount) core.Amount {
	return incomeTotal.Sub(expenseTotal)
}

// TopCategory returns the category with the largest summed amount in
// the record set. Ties break alphabetically so the answer never depends
// on record order. The second return is false for an empty set.
func TopCategory(records []core.Expense) (string, bool) {
	totals := CategoryBreakdown(records)
	if len(totals) == 0 {
		return "", false
	}

	var (
		best      string
		bestTotal core.Amount
		found     bool
	)
	for category, total := range totals {
		switch {
		case !found:
			best, bestTotal, found = category, total, true
		case total.Cmp(bestTotal) > 0:
			best, bestTotal = category, total
		case total.Cmp(bestTotal) == 0 && category < best:
			best = category
		}
	}
	return best, true
}

// BudgetProgress pairs each budget with the amount actually spent in
// its category.
type BudgetProgress struct {
	Category string      `json:"category"`
	Budget   core.Amount `json:"budget"`
	Spent    core.Amount `json:"spent"`
	// Ratio is spent over budget clamped to [0, 1]; a zero budget
	// yields 0 rather than dividing by zero.
	Ratio float64 `json:"ratio"`
}

// ComputeBudgetProgress reports consumption for every budget row,
// ordered by category. Categories without a budget do not appear; the
// expense slice is expected to be pre-filtered to the budget period.
func ComputeBudgetProgress(budgets []core.Budget, expensesForPeriod []core.Expense) []BudgetProgress {
	spentBy := CategoryBreakdown(expensesForPeriod)

	out := make([]BudgetProgress, 0, len(budgets))
	for _, b := range budgets {
		spent, ok := spentBy[b.Category]
		if !ok {
			spent = core.ZeroAmount
		}
		out = append(out, BudgetProgress{
			Category: b.Category,
			Budget:   b.Amount,
			Spent:    spent,
			Ratio:    progressRatio(spent, b.Amount),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

func progressRatio(spent, budget core.Amount) float64 {
	if !budget.IsPositive() {
		return 0
	}
	ratio := spent.Float64() / budget.Float64()
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}

// MonthTotal is one point of a trend series.
type MonthTotal struct {
	Month string      `json:"month"` // YYYY-MM
	Total core.Amount `json:"total"`
}

// TrendSeries buckets expense totals by calendar month over the
// trailing windowMonths months, inclusive of now's month. The series is
// dense: every month of the window appears, oldest first, with a zero
// total when nothing was spent.
func TrendSeries(records []core.Expense, now core.Date, windowMonths int) []MonthTotal {
	if windowMonths <= 0 {
		return nil
	}

	totals := make(map[string]core.Amount, windowMonths)
	anchor := time.Date(now.Year, now.Month, 1, 0, 0, 0, 0, time.UTC)
	keys := make([]string, 0, windowMonths)
	for offset := windowMonths - 1; offset >= 0; offset-- {
		key := anchor.AddDate(0, -offset, 0).Format(core.MonthKeyLayout)
		keys = append(keys, key)
		totals[key] = core.ZeroAmount
	}

	for _, r := range records {
		key := r.Date.MonthKey()
		if total, ok := totals[key]; ok {
			totals[key] = total.Add(r.Amount)
		}
	}

	out := make([]MonthTotal, 0, windowMonths)
	for _, key := range keys {
		out = append(out, MonthTotal{Month: key, Total: totals[key]})
	}
	return out
}

// CategoryBreakdown sums expense amounts per category.
func CategoryBreakdown(records []core.Expense) map[string]core.Amount {
	totals := make(map[string]core.Amount)
	for _, r := range records {
		totals[r.Category] = totals[r.Category].Add(r.Amount)
	}
	return totals
}

// CategoryTotal is one slice of a breakdown, used by TopSplit.
type CategoryTotal struct {
	Category string      `json:"category"`
	Total    core.Amount `json:"total"`
}

// TopSplit partitions a breakdown into the n largest categories (by
// total descending, ties alphabetical) and the aggregated remainder.
// The remainder total is zero when nothing falls outside the top n.
func TopSplit(breakdown map[string]core.Amount, n int) (top []CategoryTotal, rest core.Amount) {
	all := make([]CategoryTotal, 0, len(breakdown))
	for category, total := range breakdown {
		all = append(all, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(all, func(i, j int) bool {
		if c := all[i].Total.Cmp(all[j].Total); c != 0 {
			return c > 0
		}
		return all[i].Category < all[j].Category
	})

	if n < 0 {
		n = 0
	}
	if n > len(all) {
		n = len(all)
	}
	top = all[:n]
	rest = core.ZeroAmount
	for _, ct := range all[n:] {
		rest = rest.Add(ct.Total)
	}
	return top, rest
}
