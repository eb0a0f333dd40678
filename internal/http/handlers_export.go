package http

import (
	"net/http"

	"github.com/devxxclaire/MyFinanceHub/internal/core"
	"github.com/devxxclaire/MyFinanceHub/internal/export"
	"github.com/devxxclaire/MyFinanceHub/internal/log"
)

// exportExpenses fetches the rows once for both download formats.
func (s *Server) exportExpenses(w http.ResponseWriter, r *http.Request) ([]core.Expense, bool) {
	dr, err := dateRangeOf(r)
	if err != nil {
		writeDomainError(w, err)
		return nil, false
	}

	sess := sessionFrom(r)
	expenses, err := s.ledger.ListExpenses(r.Context(), sess.Username, dr)
	if err != nil {
		writeDomainError(w, err)
		return nil, false
	}
	return expenses, true
}

func (s *Server) handleExportExpensesCSV(w http.ResponseWriter, r *http.Request) {
	expenses, ok := s.exportExpenses(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.csv"`)
	if err := export.WriteExpensesCSV(w, expenses); err != nil {
		// Headers are gone; all we can do is log.
		s.logger.ErrorContext(r.Context(), "CSV export failed", log.FieldError, err)
	}
}

func (s *Server) handleExportExpensesXLSX(w http.ResponseWriter, r *http.Request) {
	expenses, ok := s.exportExpenses(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.xlsx"`)
	if err := export.WriteExpensesXLSX(w, expenses); err != nil {
		s.logger.ErrorContext(r.Context(), "XLSX export failed", log.FieldError, err)
	}
}

func (s *Server) handleExportIncomesCSV(w http.ResponseWriter, r *http.Request) {
	dr, err := dateRangeOf(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	sess := sessionFrom(r)
	incomes, err := s.ledger.ListIncomes(r.Context(), sess.Username, dr)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="incomes.csv"`)
	if err := export.WriteIncomesCSV(w, incomes); err != nil {
		s.logger.ErrorContext(r.Context(), "CSV export failed", log.FieldError, err)
	}
}
