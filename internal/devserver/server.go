// Package devserver is a local stand-in for the route server: it serves the upload page
// and answers uploads with the sheet's stops as a route, without optimizing it.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"routeupload/internal/config"
)

const (
	readHeaderTimeout time.Duration = 15 * time.Second
	readTimeout       time.Duration = 30 * time.Second
	writeTimeout      time.Duration = 30 * time.Second
	idleTimeout       time.Duration = 60 * time.Second

	shutdownDeadline time.Duration = 5 * time.Second
)

// Server routes requests for the upload page, uploads and static assets.
type Server struct {
	router      *mux.Router
	maxFileSize int64
	maxRows     int
}

// New builds a Server from cfg.
func New(cfg *config.Config) *Server {
	s := &Server{
		router:      mux.NewRouter(),
		maxFileSize: cfg.Upload.MaxFileSize,
		maxRows:     cfg.Upload.MaxRows,
	}

	s.router.HandleFunc("/", s.indexHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/upload", s.uploadHandler).Methods(http.MethodPost)
	s.router.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	s.router.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.Server.StaticDir))),
	)
	s.router.Use(logRequests)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Listen opens the TCP listener for cfg.
func Listen(ctx context.Context, cfg *config.Config) (net.Listener, error) {
	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)

	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to start TCP listener on %v: %w", addr, err)
	}

	return ln, nil
}

// Run serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().
			Str("address", ln.Addr().String()).
			Str("url", "http://"+ln.Addr().String()+"/").
			Msg("Listening on address")

		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownDeadline)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		return nil
	})

	return g.Wait()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("Request served")
	})
}
