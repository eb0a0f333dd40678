package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/devxxclaire/MyFinanceHub/internal/core"
	"github.com/devxxclaire/MyFinanceHub/internal/session"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

type ctxKey string

const sessionKey ctxKey = "session"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeDomainError maps typed domain errors onto status codes. Unknown
// errors become an opaque 500 so internals never leak to clients.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		ve *core.ValidationError
		nf *core.NotFoundError
		ce *core.ConflictError
		su *core.StorageUnavailableError
	)
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusUnprocessableEntity, ve.Error())
	case errors.As(err, &nf):
		writeError(w, http.StatusNotFound, nf.Error())
	case errors.As(err, &ce):
		writeError(w, http.StatusConflict, ce.Error())
	case errors.As(err, &su):
		writeError(w, http.StatusServiceUnavailable, "storage temporarily unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON reads a bounded JSON body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// withAuth resolves the Bearer token into a session and stashes it in
// the request context. Missing or stale tokens answer 401.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		sess, ok := s.sessions.Resolve(token)
		if !ok {
			writeError(w, http.StatusUnauthorized, "session expired or unknown")
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next(w, r.WithContext(ctx))
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}

// sessionFrom returns the session placed by withAuth.
func sessionFrom(r *http.Request) session.Session {
	sess, _ := r.Context().Value(sessionKey).(session.Session)
	return sess
}

// requestToken re-extracts the raw token for logout and period updates.
func requestToken(r *http.Request) string {
	return bearerToken(r)
}

// periodOf resolves the reporting period for a request: explicit
// year/month query parameters win, otherwise the session's selection.
func periodOf(r *http.Request) (int, time.Month, error) {
	sess := sessionFrom(r)
	year, month := sess.Period.Year, sess.Period.Month

	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, &core.ValidationError{Field: "year", Reason: "must be a number"}
		}
		year = y
	}
	if v := strings.TrimSpace(q.Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, &core.ValidationError{Field: "month", Reason: "must be between 1 and 12"}
		}
		month = time.Month(m)
	}
	return year, month, nil
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, &core.ValidationError{Field: "id", Reason: "must be a positive integer"}
	}
	return id, nil
}

// dateRangeOf parses optional from/to query bounds.
func dateRangeOf(r *http.Request) (core.DateRange, error) {
	var dr core.DateRange
	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("from")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return core.DateRange{}, &core.ValidationError{Field: "from", Reason: "must be YYYY-MM-DD"}
		}
		dr.From = d
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return core.DateRange{}, &core.ValidationError{Field: "to", Reason: "must be YYYY-MM-DD"}
		}
		dr.To = d
	}
	if !dr.From.IsZero() && !dr.To.IsZero() && dr.To.Before(dr.From) {
		return core.DateRange{}, &core.ValidationError{Field: "to", Reason: "must not precede from"}
	}
	return dr, nil
}
