// Package http is the JSON surface of the application. Handlers parse
// and authenticate, delegate to the services, and translate typed
// domain errors into status codes. No business rule lives here.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/devxxclaire/MyFinanceHub/internal/auth"
	"github.com/devxxclaire/MyFinanceHub/internal/journal"
	"github.com/devxxclaire/MyFinanceHub/internal/log"
	"github.com/devxxclaire/MyFinanceHub/internal/middleware/ratelimit"
	"github.com/devxxclaire/MyFinanceHub/internal/middleware/security"
	"github.com/devxxclaire/MyFinanceHub/internal/middleware/trace"
	"github.com/devxxclaire/MyFinanceHub/internal/notify"
	"github.com/devxxclaire/MyFinanceHub/internal/services"
	"github.com/devxxclaire/MyFinanceHub/internal/session"
)

// SummaryPublisher enqueues summary email requests. Nil-able: when the
// queue is not configured the email endpoint answers 503.
type SummaryPublisher interface {
	PublishSummaryRequest(ctx context.Context, req *notify.SummaryRequest) error
}

// Pinger is the readiness probe surface of the storage layer.
type Pinger interface {
	Ping(ctx context.Context) error
}

// EmailDirectory resolves the stored email of a user for summary
// delivery when the request names no recipient.
type EmailDirectory interface {
	UserEmail(ctx context.Context, username string) (string, error)
}

// Server wires the HTTP surface together.
type Server struct {
	http.Server

	authSvc   *auth.Service
	ledger    *services.LedgerService
	insights  *services.InsightsService
	logins    *journal.Journal
	sessions  *session.Manager
	publisher SummaryPublisher
	directory EmailDirectory
	db        Pinger
	logger    *log.Logger

	limiter      *ratelimit.Limiter
	ipx          *security.IPExtractor
	shutdownOnce sync.Once
}

// Options carries the tunables NewServer needs beyond its collaborators.
type Options struct {
	Addr               string
	LoginRatePerMinute int
	TrustProxyHeaders  bool
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(
	opts Options,
	authSvc *auth.Service,
	ledger *services.LedgerService,
	insights *services.InsightsService,
	logins *journal.Journal,
	sessions *session.Manager,
	publisher SummaryPublisher,
	directory EmailDirectory,
	db Pinger,
	logger *log.Logger,
) *Server {
	if logger == nil {
		logger = log.New(log.ComponentHTTP, nil)
	}

	s := &Server{
		authSvc:   authSvc,
		ledger:    ledger,
		insights:  insights,
		logins:    logins,
		sessions:  sessions,
		publisher: publisher,
		directory: directory,
		db:        db,
		logger:    logger,
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.LoginRatePerMinute,
		}),
		ipx: security.NewIPExtractor(opts.TrustProxyHeaders),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.Handle("POST /api/login", s.loginLimited(http.HandlerFunc(s.handleLogin)))
	mux.HandleFunc("POST /api/logout", s.withAuth(s.handleLogout))
	mux.HandleFunc("POST /api/password", s.withAuth(s.handleChangePassword))
	mux.HandleFunc("GET /api/logins/recent", s.withAuth(s.handleRecentLogins))

	mux.HandleFunc("GET /api/period", s.withAuth(s.handleGetPeriod))
	mux.HandleFunc("PUT /api/period", s.withAuth(s.handleSetPeriod))

	mux.HandleFunc("GET /api/categories", s.withAuth(s.handleCategories))

	mux.HandleFunc("GET /api/expenses", s.withAuth(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.withAuth(s.handleCreateExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", s.withAuth(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.withAuth(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/incomes", s.withAuth(s.handleListIncomes))
	mux.HandleFunc("POST /api/incomes", s.withAuth(s.handleCreateIncome))
	mux.HandleFunc("PUT /api/incomes/{id}", s.withAuth(s.handleUpdateIncome))
	mux.HandleFunc("DELETE /api/incomes/{id}", s.withAuth(s.handleDeleteIncome))

	mux.HandleFunc("GET /api/budgets", s.withAuth(s.handleListBudgets))
	mux.HandleFunc("PUT /api/budgets", s.withAuth(s.handleSetBudget))

	mux.HandleFunc("GET /api/summary", s.withAuth(s.handleSummary))
	mux.HandleFunc("GET /api/trend", s.withAuth(s.handleTrend))
	mux.HandleFunc("GET /api/breakdown", s.withAuth(s.handleBreakdown))
	mux.HandleFunc("POST /api/summary/email", s.withAuth(s.handleEmailSummary))

	mux.HandleFunc("GET /api/export/expenses.csv", s.withAuth(s.handleExportExpensesCSV))
	mux.HandleFunc("GET /api/export/expenses.xlsx", s.withAuth(s.handleExportExpensesXLSX))
	mux.HandleFunc("GET /api/export/incomes.csv", s.withAuth(s.handleExportIncomesCSV))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(s.ipx.ClientIP, logger)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           tracer.Middleware(headers.Middleware(mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// loginLimited throttles login attempts per client IP.
func (s *Server) loginLimited(next http.Handler) http.Handler {
	return s.limiter.Middleware(s.ipx.ClientIP, func(w http.ResponseWriter, r *http.Request) {
		s.logger.WarnContext(r.Context(), "Login rate limit exceeded",
			log.FieldClientIP, s.ipx.ClientIP(r))
		w.Header().Set("Retry-After", "60")
		writeError(w, http.StatusTooManyRequests, "too many login attempts, retry later")
	})(next)
}

// Shutdown stops the listener and the limiter's cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database not reachable")
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
