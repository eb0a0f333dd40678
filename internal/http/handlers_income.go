package http

import (
	"net/http"

	"github.com/devxxclaire/MyFinanceHub/internal/core"
)

type incomePayload struct {
	Amount      core.Amount `json:"amount"`
	Date        core.Date   `json:"date"`
	Description string      `json:"description"`
}

type incomeItem struct {
	Index       int         `json:"index"`
	ID          int64       `json:"id"`
	Amount      core.Amount `json:"amount"`
	Date        core.Date   `json:"date"`
	Description string      `json:"description,omitempty"`
}

func incomeItems(incomes []core.Income) []incomeItem {
	items := make([]incomeItem, 0, len(incomes))
	for i, in := range incomes {
		items = append(items, incomeItem{
			Index:       i + 1,
			ID:          in.ID,
			Amount:      in.Amount,
			Date:        in.Date,
			Description: in.Description,
		})
	}
	return items
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	var req incomePayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	sess := sessionFrom(r)
	id, err := s.ledger.AddIncome(r.Context(), sess.Username, req.Amount, req.Date, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, map[string]any{"incomes": incomeItems(incomes)})
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req incomePayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	sess := sessionFrom(r)
	if err := s.ledger.UpdateIncome(r.Context(), sess.Username, id, req.Amount, req.Date, req.Description); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	sess := sessionFrom(r)
	if err := s.ledger.DeleteIncome(r.Context(), sess.Username, id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
