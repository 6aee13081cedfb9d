// Package server exposes text generation, stored results and live typing sessions over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/verte-zerg/flowtype/internal/generator"
	"github.com/verte-zerg/flowtype/internal/logger"
	"github.com/verte-zerg/flowtype/internal/model"
	"github.com/verte-zerg/flowtype/internal/practice"
	"github.com/verte-zerg/flowtype/internal/session"
	"github.com/verte-zerg/flowtype/internal/store"
)

const (
	// DefaultAddr is the listen address used when none is configured.
	DefaultAddr = "127.0.0.1:8080"

	shutdownTimeout = 5 * time.Second
	maxBodyBytes    = 1 << 20
)

// Server serves the flowtype HTTP API.
type Server struct {
	store *store.Store
	log   *logger.Logger

	genMu sync.Mutex
	gen   *generator.Generator

	upgrader    websocket.Upgrader
	trackerOpts []session.Option
	mux         *http.ServeMux
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger sets the request and session logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithTrackerOptions adds options to every live session tracker.
func WithTrackerOptions(opts ...session.Option) Option {
	return func(s *Server) { s.trackerOpts = append(s.trackerOpts, opts...) }
}

// New returns a server persisting to st and generating text with gen.
func New(st *store.Store, gen *generator.Generator, opts ...Option) *Server {
	if gen == nil {
		gen = generator.New(nil)
	}
	s := &Server{
		store: st,
		gen:   gen,
		log:   logger.Nop(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mux = http.NewServeMux()
	s.mux.HandleFunc("GET /api/text", s.handleText)
	s.mux.HandleFunc("POST /api/results", s.handleCreateResult)
	s.mux.HandleFunc("GET /api/results", s.handleListResults)
	s.mux.HandleFunc("GET /api/results/{id}", s.handleGetResult)
	s.mux.HandleFunc("GET /ws/session", s.handleSession)
	return s
}

// Handler returns the root handler with CORS and request logging applied.
func (s *Server) Handler() http.Handler {
	return s.withLogging(enableCORS(s.mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	s.log.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

// plan and generate serialize access to the shared generator.
func (s *Server) plan(cfg model.Config) practice.Plan {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return practice.NewPlan(s.gen, cfg)
}

func (s *Server) generate(req model.GenerationRequest) string {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.gen.Generate(req)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ws/session" {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debugf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
	})
}
