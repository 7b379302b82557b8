// Package server exposes the request-line parser over a small JSON API.
//
//	POST /v1/parse        raw text in, ParsedRequest out
//	POST /v1/parse/batch  {"inputs": [...]} in, per-input results out
//	POST /v1/validate     raw text in, 204 or a notification out
//	POST /v1/render       ParsedRequest in, text out
//	GET  /healthz
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/shapestone/shape-reqline/internal/config"
)

// Server serves the parse API.
type Server struct {
	cfg    *config.Config
	log    *zap.Logger
	pool   *ants.Pool
	router *mux.Router
}

// New creates a server and its batch worker pool. Close releases the pool.
func New(cfg *config.Config, log *zap.Logger) (*Server, error) {
	pool, err := ants.NewPool(cfg.Batch.Workers, ants.WithOptions(ants.Options{
		ExpiryDuration: 10 * time.Second,
	}))
	if err != nil {
		return nil, fmt.Errorf("server: worker pool: %w", err)
	}

	s := &Server{
		cfg:  cfg,
		log:  log,
		pool: pool,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestID, s.logRequests)

	r.HandleFunc("/v1/parse", s.handleParse).Methods(http.MethodPost)
	r.HandleFunc("/v1/parse/batch", s.handleBatch).Methods(http.MethodPost)
	r.HandleFunc("/v1/validate", s.handleValidate).Methods(http.MethodPost)
	r.HandleFunc("/v1/render", s.handleRender).Methods(http.MethodPost)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeText)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	// Route middleware only runs on matches; unmatched requests get it here.
	r.NotFoundHandler = s.requestID(s.logRequests(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.fail(w, r, http.StatusNotFound, warning("no route for "+r.URL.Path))
	})))
	r.MethodNotAllowedHandler = s.requestID(s.logRequests(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.fail(w, r, http.StatusMethodNotAllowed, warning(r.Method+" not allowed on "+r.URL.Path))
	})))

	return r
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on cfg.Server.Addr until ctx is cancelled, then shuts down
// gracefully within cfg.Server.ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", srv.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// Close releases the worker pool.
func (s *Server) Close() {
	s.pool.Release()
}
