// Package security carries the HTTP hardening pieces: response headers
// and client IP extraction behind proxies.
package security

import (
	"net"
	"net/http"
	"strings"
)

// IPExtractor resolves the real client IP of a request. Forwarding
// headers are only honoured when the app is told it sits behind a
// trusted proxy; otherwise they are attacker-controlled.
type IPExtractor struct {
	trustProxyHeaders bool
}

func NewIPExtractor(trustProxyHeaders bool) *IPExtractor {
	return &IPExtractor{trustProxyHeaders: trustProxyHeaders}
}

// ClientIP returns the best-effort client address for throttling and
// the login journal.
func (e *IPExtractor) ClientIP(r *http.Request) string {
	if e.trustProxyHeaders {
		// First hop of X-Forwarded-For is the originating client.
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first := strings.TrimSpace(strings.Split(xff, ",")[0])
			if ip := net.ParseIP(first); ip != nil {
				return ip.String()
			}
		}
		if xr := strings.TrimSpace(r.Header.Get("X-Real-IP")); xr != "" {
			if ip := net.ParseIP(xr); ip != nil {
				return ip.String()
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
