// Package server provides the HTTP API for checking biosketches: uploads and
// raw text are run through the pipeline and the report is returned and,
// when a store is configured, saved.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/biosketch-checker/internal/db"
	"github.com/jonathan/biosketch-checker/internal/pipeline"
	"github.com/jonathan/biosketch-checker/internal/server/ratelimit"
	"github.com/jonathan/biosketch-checker/internal/types"
)

// ReportStore persists reports. *db.DB implements it.
type ReportStore interface {
	SaveReport(ctx context.Context, report *types.ValidationResult) error
	GetReport(ctx context.Context, id uuid.UUID) (*types.ValidationResult, error)
	ListReports(ctx context.Context, opts db.ListOptions) ([]types.ReportSummary, error)
}

// Config holds server configuration
type Config struct {
	Port               int
	MaxUploadMB        int
	RateLimitPerMinute int
}

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	processor      *pipeline.Processor
	store          ReportStore
	rateLimiter    *ratelimit.Limiter
	logger         *zap.Logger
	validate       *validator.Validate
	maxUploadBytes int64
}

// New creates a new server instance. store may be nil, in which case reports
// are not saved and the report endpoints answer 503.
func New(cfg Config, processor *pipeline.Processor, store ReportStore, logger *zap.Logger) (*Server, error) {
	if processor == nil {
		return nil, errors.New("server: processor is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 20
	}

	s := &Server{
		processor:      processor,
		store:          store,
		rateLimiter:    ratelimit.NewLimiter(ratelimit.NewConfig(cfg.RateLimitPerMinute)),
		logger:         logger,
		validate:       validator.New(),
		maxUploadBytes: int64(cfg.MaxUploadMB) << 20,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // enhancer calls can be slow
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /process", s.handleProcess)
	mux.HandleFunc("POST /process/stream", s.handleProcessStream)
	mux.HandleFunc("POST /validate", s.handleValidate)
	mux.HandleFunc("GET /template", s.handleTemplate)
	mux.HandleFunc("GET /reports", s.handleListReports)
	mux.HandleFunc("GET /reports/{id}", s.handleGetReport)
	mux.HandleFunc("GET /health", s.handleHealth)

	return s.withLogging(s.withRateLimit(s.withCORS(mux)))
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.rateLimiter.Stop()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Close releases the rate limiter without serving. Used when Start is never called.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status and writes it. Internal errors are logged
// and replaced with a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		message = "internal server error"
	}
	s.errorResponse(w, status, message)
}

// clientKey identifies the client for rate limiting: the first
// X-Forwarded-For entry, else the remote host.
func clientKey(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
