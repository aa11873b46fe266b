// Package rest exposes the services over HTTP.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/metrics"
	"github.com/dmitrijs2005/filesmanager/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	address         string
	shutdownTimeout time.Duration

	auth    *services.AuthService
	files   *services.FileService
	stats   *services.StatsService
	metrics *metrics.Metrics
	logger  logging.Logger
}

func NewServer(
	address string,
	shutdownTimeout time.Duration,
	l logging.Logger,
	auth *services.AuthService,
	files *services.FileService,
	stats *services.StatsService,
	m *metrics.Metrics,
) *Server {
	return &Server{
		address:         address,
		shutdownTimeout: shutdownTimeout,
		auth:            auth,
		files:           files,
		stats:           stats,
		metrics:         m,
		logger:          l.With("module", "http_server"),
	}
}

// Router builds the route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.recoverer)
	r.Use(s.observe)

	r.Get("/status", s.getStatus)
	r.Get("/stats", s.getStats)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Get("/connect", s.getConnect)
	r.Get("/disconnect", s.getDisconnect)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", s.postUser)
		r.Get("/me", s.getMe)
	})

	r.Route("/files", func(r chi.Router) {
		r.Post("/", s.postFile)
		r.Get("/", s.listFiles)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getFile)
			r.Put("/publish", s.putPublish)
			r.Put("/unpublish", s.putUnpublish)
			r.Get("/data", s.getFileData)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, msgNotFound)
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errc := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		errc <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-errc
}
