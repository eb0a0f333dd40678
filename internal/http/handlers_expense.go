package http

import (
	"net/http"

	"github.com/devxxclaire/MyFinanceHub/internal/core"
)

type expensePayload struct {
	Category    string      `json:"category"`
	Amount      core.Amount `json:"amount"`
	Date        core.Date   `json:"date"`
	Description string      `json:"description"`
}

// expenseItem is the list representation. Index is the display-only
// position in the returned slice; ID addresses the record for updates.
type expenseItem struct {
	Index       int         `json:"index"`
	ID          int64       `json:"id"`
	Category    string      `json:"category"`
	Amount      core.Amount `json:"amount"`
	Date        core.Date   `json:"date"`
	Description string      `json:"description,omitempty"`
}

func expenseItems(expenses []core.Expense) []expenseItem {
	items := make([]expenseItem, 0, len(expenses))
	for i, e := range expenses {
		items = append(items, expenseItem{
			Index:       i + 1,
			ID:          e.ID,
			Category:    e.Category,
			Amount:      e.Amount,
			Date:        e.Date,
			Description: e.Description,
		})
	}
	return items
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expensePayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	sess := sessionFrom(r)
	id, err := s.ledger.AddExpense(r.Context(), sess.Username, req.Category, req.Amount, req.Date, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	dr, err := dateRangeOf(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	sess := sessionFrom(r)
	expenses, err := s.ledger.ListExpenses(r.Context(), sess.Username, dr)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"expenses": expenseItems(expenses)})
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req expensePayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	sess := sessionFrom(r)
	if err := s.ledger.UpdateExpense(r.Context(), sess.Username, id, req.Category, req.Amount, req.Date, req.Description); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	sess := sessionFrom(r)
	if err := s.ledger.DeleteExpense(r.Context(), sess.Username, id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
