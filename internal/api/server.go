// Package api exposes the monitor over HTTP: trigger sweeps, read
// history, and fetch charts. The server is intended for an internal
// network or a platform-level ingress; it carries no auth of its own.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cropsignal/cropsignal/pkg/alert"
	"github.com/cropsignal/cropsignal/pkg/config"
	"github.com/cropsignal/cropsignal/pkg/history"
	"github.com/cropsignal/cropsignal/pkg/monitor"
)

// Server wires the HTTP handlers to the sweep runner and history store.
type Server struct {
	cfg      config.Config
	runner   *monitor.Runner
	store    history.Store
	notifier alert.Notifier
	http     *http.Server
}

// NewServer builds the server. Addr comes from cfg.Listen. notifier may
// be nil; the test-alert endpoint then reports 503.
func NewServer(cfg config.Config, runner *monitor.Runner, store history.Store, notifier alert.Notifier) *Server {
	s := &Server{cfg: cfg, runner: runner, store: store, notifier: notifier}
	s.http = &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Router returns the chi router with all routes mounted, separate from
// ListenAndServe so tests can drive it with httptest.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(logRequests)
	r.Use(recoverPanics)

	r.Get("/healthz", s.handleHealthz)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/sweep", s.handleSweep)
		r.Get("/zones", s.handleZones)
		r.Get("/history.csv", s.handleHistoryCSV)
		r.Get("/zones/{zone}/chart.svg", s.handleZoneChart)
		r.Post("/alerts/test", s.handleTestAlert)
		r.Get("/debug", s.handleDebug)
	})
	return r
}

// ListenAndServe blocks until ctx is cancelled or the listener fails,
// then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() { errc <- s.http.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}
