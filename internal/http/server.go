// Package http serves the ledger as a JSON API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pichacka/internal/export"
	"pichacka/internal/ledger"
	applog "pichacka/internal/log"
	"pichacka/internal/metrics"
	"pichacka/internal/middleware/ratelimit"
	"pichacka/internal/middleware/security"
	"pichacka/internal/middleware/trace"
)

// recentWorkLogs is how many entries /api/work-logs/recent returns.
const recentWorkLogs = 5

type Server struct {
	http.Server
	ledger   ledger.Store
	exporter *export.GitHubExporter
	metrics  *metrics.Metrics
	limiter  *ratelimit.Limiter
	detector *security.Detector
	logger   *applog.Logger

	now       func() time.Time
	loc       *time.Location
	startedAt time.Time

	shutdownOnce sync.Once
}

// Options carries the optional collaborators of a Server. Zero values get
// working defaults.
type Options struct {
	Exporter        *export.GitHubExporter
	Metrics         *metrics.Metrics
	Logger          *applog.Logger
	ExportRateLimit int
	Location        *time.Location
	Now             func() time.Time
}

// NewServer wires routes and middleware around store. Pass the publishing
// ledger service as store so creates emit events.
func NewServer(addr string, store ledger.Store, opts Options) *Server {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.Exporter == nil {
		opts.Exporter = export.NewGitHubExporter(nil, "", "", opts.Location)
	}
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.Config{Handler: slog.Default().Handler(), Component: applog.ComponentHTTP})
	}

	s := &Server{
		ledger:    store,
		exporter:  opts.Exporter,
		metrics:   opts.Metrics,
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.ExportRateLimit}),
		detector:  security.NewDetector(),
		logger:    opts.Logger,
		now:       opts.Now,
		loc:       opts.Location,
		startedAt: opts.Now(),
	}
	s.detector.OnSuspicious(func(*http.Request) { s.metrics.SuspiciousRequests.Inc() })

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Middleware)
	r.Use(trace.NewMiddleware(s.detector.ExtractClientIP).Middleware)
	r.Use(applog.Middleware(s.logger))
	r.Use(applog.RequestIDMiddleware(trace.RequestIDFromRequest))
	r.Use(applog.ComponentMiddleware(applog.ComponentHTTP))
	r.Use(s.detector.Middleware)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(security.NoStore)

		r.Get("/api/work-logs", s.handleListWorkLogs)
		r.Post("/api/work-logs", s.handleCreateWorkLog)
		r.Get("/api/work-logs/recent", s.handleRecentWorkLogs)
		r.Get("/api/work-logs/summary", s.handleWorkLogSummary)
		r.Get("/api/work-logs/charts", s.handleWorkLogCharts)

		r.Get("/api/finances", s.handleListFinances)
		r.Post("/api/finances", s.handleCreateFinance)
		r.Get("/api/finances/charts", s.handleFinanceCharts)

		r.Get("/api/debts", s.handleListDebts)
		r.Post("/api/debts", s.handleCreateDebt)
		r.Get("/api/debts/stats", s.handleDebtStats)
		r.Patch("/api/debts/{id}", s.handleUpdateDebt)

		r.Get("/api/debt-payments", s.handleListDebtPayments)
		r.Post("/api/debt-payments", s.handleCreateDebtPayment)

		r.Get("/api/timer-sessions/current", s.handleCurrentTimerSession)
		r.Post("/api/timer-sessions", s.handleCreateTimerSession)
		r.Patch("/api/timer-sessions/{id}", s.handleUpdateTimerSession)

		r.Get("/api/persons", s.handleListPersons)
		r.Post("/api/persons", s.handleCreatePerson)
		r.Get("/api/activities", s.handleListActivities)
		r.Post("/api/activities", s.handleCreateActivity)

		r.With(s.limiter.Middleware(s.detector.ExtractClientIP, s.handleRateLimited)).
			Post("/api/github/export", s.handleGitHubExport)
		r.Get("/api/export/xlsx", s.handleExportXLSX)
	})

	return r
}

// clock returns the current time in the ledger's zone.
func (s *Server) clock() time.Time {
	return s.now().In(s.loc)
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	s.metrics.RateLimited.Inc()
	writeJSON(w, http.StatusTooManyRequests, exportErrorResponse{Error: msgRateLimited})
}

// Shutdown stops the limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
