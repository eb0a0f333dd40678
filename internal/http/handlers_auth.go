package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/devxxclaire/MyFinanceHub/internal/core"
	"github.com/devxxclaire/MyFinanceHub/internal/log"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := s.authSvc.Register(r.Context(), req.Username, req.Password, req.Email); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"username": req.Username})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	ok, err := s.authSvc.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !ok {
		// Same answer for unknown user and wrong password.
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.sessions.Issue(req.Username)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Session issue failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.logins.Record(r.Context(), req.Username)

	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Revoke(requestToken(r))
	w.WriteHeader(http.StatusNoContent)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	sess := sessionFrom(r)
	if err := s.authSvc.ChangePassword(r.Context(), sess.Username, req.CurrentPassword, req.NewPassword); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type recentLoginsResponse struct {
	Logins []time.Time `json:"logins"`
}

func (s *Server) handleRecentLogins(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := parsePositiveInt(v)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		limit = n
	}

	logins, err := s.logins.Recent(r.Context(), sess.Username, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if logins == nil {
		logins = []time.Time{}
	}
	writeJSON(w, http.StatusOK, recentLoginsResponse{Logins: logins})
}

func parsePositiveInt(v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, &core.ValidationError{Field: "limit", Reason: "must be a positive integer"}
	}
	return n, nil
}

type periodResponse struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (s *Server) handleGetPeriod(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	writeJSON(w, http.StatusOK, periodResponse{Year: sess.Period.Year, Month: int(sess.Period.Month)})
}

type setPeriodRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (s *Server) handleSetPeriod(w http.ResponseWriter, r *http.Request) {
	var req setPeriodRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Month < 1 || req.Month > 12 {
		writeDomainError(w, &core.ValidationError{Field: "month", Reason: "must be between 1 and 12"})
		return
	}
	if req.Year < 1 {
		writeDomainError(w, &core.ValidationError{Field: "year", Reason: "must be positive"})
		return
	}

	if !s.sessions.SetPeriod(requestToken(r), req.Year, time.Month(req.Month)) {
		writeError(w, http.StatusUnauthorized, "session expired or unknown")
		return
	}
	writeJSON(w, http.StatusOK, periodResponse{Year: req.Year, Month: req.Month})
}

type categoriesResponse struct {
	Mode       string   `json:"mode"`
	Categories []string `json:"categories"`
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	tax := s.ledger.Taxonomy()
	cats := tax.Categories()
	if cats == nil {
		cats = []string{}
	}
	writeJSON(w, http.StatusOK, categoriesResponse{
		Mode:       string(tax.Mode()),
		Categories: cats,
	})
}
