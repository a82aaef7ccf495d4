package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/common"
)

// Server is the HTTP surface over the processing pipeline, rule management
// and analytics queries.
type Server struct {
	cfg    common.ServerConfig
	logger *slog.Logger
	svc    *Service
	http   *http.Server
}

func New(cfg common.ServerConfig, svc *Service, logger *slog.Logger) *Server {
	s := &Server{cfg: cfg, logger: logger, svc: svc}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/documents", func(r chi.Router) {
			r.Post("/", s.handleSubmitDocument)
			r.Get("/", s.handleListDocuments)
			r.Get("/{id}", s.handleGetDocument)
			r.Post("/{id}/process", s.handleProcessDocument)
			r.Get("/{id}/result", s.handleGetResult)
		})
		r.Post("/validate", s.handleValidate)
		r.Route("/rules", func(r chi.Router) {
			r.Post("/", s.handleCreateRule)
			r.Get("/", s.handleListRules)
			r.Get("/{id}", s.handleGetRule)
			r.Put("/{id}", s.handleUpdateRule)
			r.Delete("/{id}", s.handleDeleteRule)
			r.Post("/{id}/toggle", s.handleToggleRule)
		})
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/dashboard", s.handleDashboard)
			r.Get("/errors", s.handleErrorAnalysis)
			r.Get("/trends", s.handleTrends)
			r.Get("/confidence", s.handleConfidenceDistribution)
		})
		r.Get("/export/compliance", s.handleExportCompliance)
	})

	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the routed mux, mainly for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.cfg.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return common.WrapError(err, "http server")
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server stopping")
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Health(r.Context()); err != nil {
		respondError(w, s.logger, common.WrapError(common.ErrInternal, "database unreachable"))
		return
	}
	respondOK(w, map[string]string{"status": "ok"})
}
