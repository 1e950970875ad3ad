package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rgehrsitz/jptax/internal/breakeven"
	"github.com/rgehrsitz/jptax/internal/calculation"
	"github.com/rgehrsitz/jptax/internal/compare"
)

// DefaultMaxBodyBytes caps request payloads
const DefaultMaxBodyBytes = 64 << 10

// Server exposes the tax engine over HTTP. The engine holds no per-request
// state, so one instance serves every request.
type Server struct {
	engine       *calculation.TaxEngine
	compare      *compare.CompareEngine
	solver       *breakeven.Solver
	logger       *zap.Logger
	MaxBodyBytes int64
}

// NewServer creates a server around engine; a nil logger discards logs
func NewServer(engine *calculation.TaxEngine, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		engine:       engine,
		compare:      compare.NewCompareEngine(engine),
		solver:       breakeven.NewDefaultSolver(engine),
		logger:       logger,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// Routes builds the router
func (s *Server) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(RequestID)
	router.Use(Logger(s.logger))
	router.Use(s.Recoverer)
	router.Use(BodyLimit(s.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/rules", s.handleRules)
		r.Get("/templates", s.handleTemplates)
		r.Post("/calculate", s.handleCalculate)
		r.Post("/compare", s.handleCompare)
		r.Post("/solve", s.handleSolve)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.fail(w, r, http.StatusNotFound, "not_found", "route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.fail(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	return router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("jptax server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
