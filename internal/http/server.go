// Package http exposes the savings ledger as a JSON API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"savings/internal/auth"
	"savings/internal/cache"
	"savings/internal/core"
	"savings/internal/ledger"
	applog "savings/internal/log"
	"savings/internal/middleware/ratelimit"
	"savings/internal/middleware/security"
	"savings/internal/middleware/trace"
	"savings/internal/services"
)

// Server wires the store, the savings service, and the token issuer behind
// the route table.
type Server struct {
	http.Server

	store  ledger.Store
	svc    *services.SavingsService
	tokens *auth.TokenIssuer

	limiter  *ratelimit.Limiter
	detector *security.Detector

	// Report responses are cached per range; concurrent identical requests
	// collapse into one snapshot read.
	summaryCache *cache.LRUCache[summaryResponse]
	reportGroup  singleflight.Group
	caches       *cache.Manager

	shutdownOnce sync.Once
}

// Options tunes server behavior; zero values fall back to defaults.
type Options struct {
	RateLimitPerMinute int
	Logger             *applog.Logger
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, store ledger.Store, svc *services.SavingsService, tokens *auth.TokenIssuer, opts Options) *Server {
	mux := http.NewServeMux()

	detector := security.NewDetector()
	limiter := ratelimit.NewLimiter(ratelimit.Config{
		RequestsPerMinute: opts.RateLimitPerMinute,
		CleanupInterval:   5 * time.Minute,
	})

	s := &Server{
		store:        store,
		svc:          svc,
		tokens:       tokens,
		limiter:      limiter,
		detector:     detector,
		summaryCache: cache.NewLRUCache[summaryResponse](100, time.Minute),
		caches:       cache.NewManager(),
	}
	s.caches.Register(s.summaryCache)
	s.caches.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.requireSession(s.handleLogout))

	mux.HandleFunc("GET /api/members", s.requireRole(core.RoleAdmin, s.handleListMembers))
	mux.HandleFunc("POST /api/members", s.requireRole(core.RoleAdmin, s.handleCreateMember))

	mux.HandleFunc("GET /api/contributions", s.requireRole(core.RoleAdmin, s.handleListContributions))
	mux.HandleFunc("POST /api/contributions", s.requireRole(core.RoleAdmin, s.handleCreateContribution))
	mux.HandleFunc("GET /api/contributions/mine", s.requireRole(core.RoleMember, s.handleMyContributions))

	mux.HandleFunc("GET /api/reports/summary", s.requireRole(core.RoleAdmin, s.handleSummary))

	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.Config{Component: applog.ComponentHTTP})
	}

	tracer := trace.New(detector.ExtractClientIP, detector.Suspicious)

	var handler http.Handler = mux
	handler = limiter.Middleware(detector.ExtractClientIP)(handler)
	handler = security.Headers(security.DefaultHeadersConfig())(handler)
	handler = applog.Middleware(logger)(handler)
	handler = tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown stops the HTTP listener and the background cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.caches != nil {
			s.caches.Stop()
		}
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.Snapshot(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("store unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
