// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api assembles the campus HTTP server: the middleware chain, the probe
and metrics endpoints, and every resource router under /api.

Resource packages own their routes; this package only decides where each one
is mounted.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/campus/internal/core/confession"
	"github.com/taibuivan/campus/internal/core/event"
	"github.com/taibuivan/campus/internal/core/feedback"
	"github.com/taibuivan/campus/internal/core/helpboard"
	"github.com/taibuivan/campus/internal/core/issue"
	"github.com/taibuivan/campus/internal/core/lostfound"
	"github.com/taibuivan/campus/internal/core/poll"
	"github.com/taibuivan/campus/internal/platform/config"
	"github.com/taibuivan/campus/internal/platform/constants"
	"github.com/taibuivan/campus/internal/platform/metrics"
	"github.com/taibuivan/campus/internal/platform/middleware"
	"github.com/taibuivan/campus/internal/users/auth"
)

// Server is the configured [http.Server] together with its router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// Handlers carries everything the router mounts. Uploads may be nil when
// images are served by another host.
type Handlers struct {
	Liveness  http.HandlerFunc
	Readiness http.HandlerFunc
	Uploads   http.Handler

	Auth       *auth.Handler
	Issue      *issue.Handler
	LostFound  *lostfound.Handler
	Feedback   *feedback.Handler
	HelpBoard  *helpboard.Handler
	Confession *confession.Handler
	Poll       *poll.Handler
	Event      *event.Handler
}

// router is implemented by every resource handler.
type router interface {
	Routes() chi.Router
}

// resources lists the /api mount points.
func (h Handlers) resources() []struct {
	prefix  string
	handler router
} {
	return []struct {
		prefix  string
		handler router
	}{
		{"/auth", h.Auth},
		{"/report", h.Issue},
		{"/lostfound", h.LostFound},
		{"/feedback", h.Feedback},
		{"/helpboard", h.HelpBoard},
		{"/anonymous", h.Confession},
		{"/polls", h.Poll},
		{"/events", h.Event},
	}
}

// NewServer builds the router. ctx stops the rate limiter's cleanup loop.
//
// CORS must stay ahead of Authenticate: 401 answers carry CORS headers too.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()
	limiter := middleware.NewRateLimiter(ctx, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst)

	r.Use(
		middleware.RequestID(),
		middleware.StructuredLogger(log),
		metrics.Instrument,
		middleware.PanicRecovery,
		chimw.Timeout(constants.GlobalRequestTimeout),
		limiter.Middleware,
		middleware.CORS(cfg),
		middleware.Authenticate(verifier),
		chimw.CleanPath,
	)

	// # Probes
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	if h.Uploads != nil {
		r.Mount(cfg.UploadBaseURL, h.Uploads)
	}

	// # Resources
	r.Route("/api", func(api chi.Router) {
		for _, resource := range h.resources() {
			api.Mount(resource.prefix, resource.handler.Routes())
		}
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router to tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until the server stops. After [Server.Shutdown] it
// returns [http.ErrServerClosed].
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections and waits up to timeout for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
