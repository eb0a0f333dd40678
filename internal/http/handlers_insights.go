package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/devxxclaire/MyFinanceHub/internal/core"
	"github.com/devxxclaire/MyFinanceHub/internal/log"
	"github.com/devxxclaire/MyFinanceHub/internal/notify"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodOf(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	sess := sessionFrom(r)
	summary, err := s.insights.MonthlySummary(r.Context(), sess.Username, year, month)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	window := 0
	if v := strings.TrimSpace(r.URL.Query().Get("months")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeDomainError(w, &core.ValidationError{Field: "months", Reason: "must be a positive integer"})
			return
		}
		window = n
	}

	sess := sessionFrom(r)
	trend, err := s.insights.Trend(r.Context(), sess.Username, window)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trend": trend})
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodOf(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	sess := sessionFrom(r)
	top, rest, err := s.insights.Breakdown(r.Context(), sess.Username, year, month)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"top": top, "rest": rest})
}

type emailSummaryRequest struct {
	Recipient string `json:"recipient,omitempty"`
}

// handleEmailSummary enqueues a summary email for the selected period.
// The heavy lifting happens in the worker; this endpoint only validates
// and publishes.
func (s *Server) handleEmailSummary(w http.ResponseWriter, r *http.Request) {
	if s.publisher == nil {
		writeError(w, http.StatusServiceUnavailable, "summary delivery is not configured")
		return
	}

	var req emailSummaryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	sess := sessionFrom(r)
	recipient := strings.TrimSpace(req.Recipient)
	if recipient == "" {
		stored, err := s.directory.UserEmail(r.Context(), sess.Username)
		if err != nil {
			var nf *core.NotFoundError
			if errors.As(err, &nf) {
				writeError(w, http.StatusUnauthorized, "session user no longer exists")
				return
			}
			writeDomainError(w, err)
			return
		}
		if stored == "" {
			writeDomainError(w, &core.ValidationError{Field: "recipient", Reason: "no email on file, provide one"})
			return
		}
		recipient = stored
	}

	msg := notify.NewSummaryRequest(sess.Username, recipient, sess.Period.Year, sess.Period.Month)
	if err := s.publisher.PublishSummaryRequest(r.Context(), msg); err != nil {
		s.logger.ErrorContext(r.Context(), "Summary request publish failed",
			log.FieldUsername, sess.Username, log.FieldError, err)
		writeError(w, http.StatusServiceUnavailable, "could not enqueue summary email")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
