package server

import (
	"context"
	"errors"
	"fmt"
	"hudori/internal/auth"
	"hudori/internal/chat"
	"hudori/internal/config"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

type Server struct {
	cfg    *config.Config
	chat   *chat.Service
	auth   auth.Service
	logger zerolog.Logger
	http   *http.Server
}

func NewServer(cfg *config.Config, svc *chat.Service, authService auth.Service, logger zerolog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		chat:   svc,
		auth:   authService,
		logger: logger,
	}

	s.http = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("starting server")
		serverErrors <- s.http.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("cannot start server: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info().Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
