package gateway

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"time"

	"github.com/ironsheep/tumbler-wrap/internal/config"
	"github.com/ironsheep/tumbler-wrap/internal/search"
)

// Searcher runs an image search.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]search.ImageDescriptor, error)
}

// ImageLoader fetches and decodes a source image.
type ImageLoader interface {
	Load(ctx context.Context, source string) (image.Image, error)
}

// Server serves the gateway endpoints.
type Server struct {
	cfg      config.Config
	searcher Searcher
	loader   ImageLoader
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a gateway server.
func New(cfg config.Config, searcher Searcher, loader ImageLoader, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		cfg:      cfg,
		searcher: searcher,
		loader:   loader,
		logger:   logger,
		now:      time.Now,
	}
}

// Handler returns the routed handler with CORS and request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /generate", s.handleGenerate)
	mux.HandleFunc("GET /presets", s.handlePresets)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	return s.logRequests(withCORS(mux))
}

// ListenAndServe serves until ctx is canceled. With a domain configured it serves HTTPS
// with certificates from Let's Encrypt; otherwise plain HTTP on the configured port.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.cfg.Domain != "" {
		return s.serveTLS(ctx)
	}

	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("gateway listening", "addr", srv.Addr)
	return serveUntilDone(ctx, srv, func() error { return srv.ListenAndServe() })
}

func serveUntilDone(ctx context.Context, srv *http.Server, serve func() error) error {
	errc := make(chan error, 1)
	go func() { errc <- serve() }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server %s: %w", srv.Addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"elapsed", time.Since(start))
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		h.Set("Access-Control-Expose-Headers", "Content-Disposition")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
