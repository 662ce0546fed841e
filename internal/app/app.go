// Package app wires configuration, the dictionary provider, session state
// and the HTTP transport into a runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/heartmarshall/words/internal/adapter/provider/freedict"
	"github.com/heartmarshall/words/internal/config"
	"github.com/heartmarshall/words/internal/service/lookup"
	"github.com/heartmarshall/words/internal/transport/middleware"
	"github.com/heartmarshall/words/internal/transport/rest"
	"github.com/heartmarshall/words/internal/view"
)

// Server is the HTTP application with the session registry it owns.
type Server struct {
	cfg      *config.Config
	log      *slog.Logger
	registry *lookup.Registry
	http     *http.Server
}

// NewServer builds every component from cfg. Call Serve or Run to start it.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	provider := freedict.NewProvider(cfg.Dictionary, logger)
	registry := lookup.NewRegistry(logger, provider, cfg.Session.IdleTTL, cfg.Session.CleanupInterval)
	policy := view.ParsePolicy(cfg.UI.ErrorDetail)

	router := rest.NewRouter(rest.Handlers{
		Lookup: rest.NewLookupHandler(registry, renderer, policy, logger),
		Stream: rest.NewStateStream(registry, policy, logger),
		Health: rest.NewHealthHandler(provider, registry, BuildVersion()),
	}, middleware.Session(cfg.Session))

	handler := middleware.Stack(logger, cfg.CORS)(router)

	return &Server{
		cfg:      cfg,
		log:      logger,
		registry: registry,
		http: &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      handler,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		s.registry.Stop()
		return fmt.Errorf("app: listen %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.registry.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server started",
			slog.String("addr", ln.Addr().String()),
			slog.String("version", BuildVersion()),
		)
		errCh <- s.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("app: serve: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down", slog.Duration("timeout", s.cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("app: shutdown: %w", err)
	}
	s.log.Info("http server stopped")
	return nil
}

// Run is the application entry point for the serve command.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("dictionary", cfg.Dictionary.BaseURL),
	)

	srv, err := NewServer(cfg, logger)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
