package http

import (
	"net/http"
	"time"

	"github.com/devxxclaire/MyFinanceHub/internal/core"
)

type setBudgetRequest struct {
	Category string      `json:"category"`
	Amount   core.Amount `json:"amount"`
	Year     int         `json:"year,omitempty"`
	Month    int         `json:"month,omitempty"`
}

type budgetItem struct {
	Category string      `json:"category"`
	Amount   core.Amount `json:"amount"`
	Year     int         `json:"year"`
	Month    int         `json:"month"`
}

// handleSetBudget replaces the budget for one category in the selected
// month. Omitted year/month fall back to the session period.
func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req setBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	sess := sessionFrom(r)
	year, month := req.Year, time.Month(req.Month)
	if req.Year == 0 && req.Month == 0 {
		year, month = sess.Period.Year, sess.Period.Month
	}

	if err := s.ledger.SetBudget(r.Context(), sess.Username, req.Category, month, year, req.Amount); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodOf(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	sess := sessionFrom(r)
	budgets, err := s.ledger.ListBudgets(r.Context(), sess.Username, month, year)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]budgetItem, 0, len(budgets))
	for _, b := range budgets {
		items = append(items, budgetItem{
			Category: b.Category,
			Amount:   b.Amount,
			Year:     b.Year,
			Month:    int(b.Month),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"budgets": items})
}
