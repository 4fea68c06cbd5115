// Package http exposes the JSON API over a chi router.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chorebucks/internal/core"
	"chorebucks/internal/log"
	"chorebucks/internal/services"
)

type Server struct {
	http.Server

	repo      core.Repository
	ledger    *services.Ledger
	scheduler *services.ResetScheduler
	logger    *log.Logger

	shutdownOnce sync.Once
}

// NewServer configures routes and returns a ready-to-run http.Server.
// scheduler may be nil when the reset worker runs out-of-process; the
// reset-check endpoint then reports 503.
func NewServer(addr string, repo core.Repository, ledger *services.Ledger, scheduler *services.ResetScheduler, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.Config{Component: log.ComponentHTTP})
	}

	s := &Server{
		repo:      repo,
		ledger:    ledger,
		scheduler: scheduler,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(s.requestLogger)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/people", func(r chi.Router) {
			r.Get("/", s.handleListPeople)
			r.Post("/", s.handleCreatePerson)
			r.Get("/{id}", s.handleGetPerson)
			r.Put("/{id}", s.handleUpdatePerson)
			r.Delete("/{id}", s.handleDeletePerson)
		})

		r.Route("/chores", func(r chi.Router) {
			r.Get("/", s.handleListChores)
			r.Post("/", s.handleCreateChore)
			r.Post("/reset-check", s.handleResetCheck)
			r.Get("/{id}", s.handleGetChore)
			r.Put("/{id}", s.handleUpdateChore)
			r.Delete("/{id}", s.handleDeleteChore)
			r.Post("/{id}/complete", s.handleCompleteChore)
			r.Post("/{id}/uncomplete", s.handleUncompleteChore)
		})

		r.Route("/prizes", func(r chi.Router) {
			r.Get("/", s.handleListPrizes)
			r.Post("/", s.handleCreatePrize)
			r.Get("/{id}", s.handleGetPrize)
			r.Put("/{id}", s.handleUpdatePrize)
			r.Delete("/{id}", s.handleDeletePrize)
			r.Post("/{id}/redeem", s.handleRedeemPrize)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.handleListTransactions)
			r.Get("/person/{personId}", s.handleListPersonTransactions)
		})
	})

	s.Server = http.Server{
		Addr:    addr,
		Handler: r,
	}

	return s
}

// Handler returns the configured router, for tests.
func (s *Server) Handler() http.Handler { return s.Server.Handler }

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// requestLogger logs request start and completion with the status code.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.InfoContext(r.Context(), "request completed",
			log.FieldRequestID, middleware.GetReqID(r.Context()),
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, ww.Status(),
			log.FieldDuration, time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleResetCheck runs a recurrence sweep immediately instead of waiting
// for the midnight tick.
func (s *Server) handleResetCheck(w http.ResponseWriter, r *http.Request) {
	if s.scheduler == nil {
		writeError(w, http.StatusServiceUnavailable, "reset scheduler is not running in this process")
		return
	}

	result, err := s.scheduler.RunSweepNow(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
