package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"

	"venue-finder/config"
)

type VenueFinderHttpServer struct {
	router    *Router
	muxRouter *mux.Router
	cfg       config.HTTPConfig
	logger    *slog.Logger
}

func NewVenueFinderHttpServer(router *Router, muxRouter *mux.Router, cfg config.HTTPConfig, logger *slog.Logger) *VenueFinderHttpServer {
	return &VenueFinderHttpServer{
		router:    router,
		muxRouter: muxRouter,
		cfg:       cfg,
		logger:    logger.With("component", "VenueFinderHttpServer"),
	}
}

// Start listens on the configured address and serves until ctx is cancelled
// or the process receives SIGINT or SIGTERM.
func (s *VenueFinderHttpServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Address, err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Serve(ctx, ln)
}

// Serve serves on ln and shuts down gracefully once ctx is done.
func (s *VenueFinderHttpServer) Serve(ctx context.Context, ln net.Listener) error {
	s.router.RegisterRoutes()

	srv := &http.Server{
		Handler:      s.muxRouter,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down the server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.logger.Info("server exiting")
	return nil
}
