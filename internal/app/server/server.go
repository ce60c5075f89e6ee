package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"adledger/internal/app/server/api"
	"adledger/internal/app/server/config"
	"adledger/internal/infrastructure/kv"
	"adledger/internal/infrastructure/storage/postgres"
	"adledger/internal/infrastructure/storage/sqlite"

	"golang.org/x/exp/slog"
)

// Server wires the configured storage backend to the HTTP API.
type Server struct {
	cfg     *config.Config
	log     *slog.Logger
	store   kv.Store
	closers []func() error
	http    *http.Server
}

func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Server, error) {
	s := &Server{cfg: cfg, log: log.With("component", "server")}

	if err := s.openStorage(ctx); err != nil {
		return nil, err
	}

	s.http = &http.Server{
		Addr:         cfg.Server.RunAddress,
		Handler:      api.New(s.store, log, api.Options{MaxValueBytes: cfg.Server.MaxValueBytes}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s, nil
}

func (s *Server) openStorage(ctx context.Context) error {
	switch s.cfg.Storage.Driver {
	case config.DriverPostgres:
		st, err := postgres.New(ctx, s.cfg.DB.DatabaseURI, s.cfg.DB.Migrations)
		if err != nil {
			return fmt.Errorf("open postgres storage: %w", err)
		}
		s.store = postgres.NewKVRepository(st, s.log)
		s.closers = append(s.closers, st.Close)
	case config.DriverSQLite:
		st, err := sqlite.New(s.cfg.Storage.SQLitePath, s.log)
		if err != nil {
			return fmt.Errorf("open sqlite storage: %w", err)
		}
		s.store = st
		s.closers = append(s.closers, st.Close)
	default:
		s.log.Warn("using in-memory storage, data is lost on restart")
		s.store = kv.NewMemoryStore()
	}

	s.log.Info("storage ready", "driver", s.cfg.Storage.Driver)
	return nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "address", s.cfg.Server.RunAddress)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	return s.http.Shutdown(shutdownCtx)
}

func (s *Server) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
