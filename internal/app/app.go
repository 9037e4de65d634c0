// Package app wires configuration, storage and the HTTP server into a
// runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/jeefy/prayerjournal/internal/config"
	"github.com/jeefy/prayerjournal/internal/people"
	"github.com/jeefy/prayerjournal/internal/server"
	"github.com/jeefy/prayerjournal/internal/store"
	"github.com/jeefy/prayerjournal/internal/store/postgres"
	"github.com/jeefy/prayerjournal/internal/store/sqlite"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// OpenStore opens the backend selected by cfg. The caller owns Close.
func OpenStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.Backend() {
	case config.BackendPostgres:
		st, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.Options{MaxConns: cfg.PGMaxConns})
		if err != nil {
			return nil, err
		}
		return st, nil
	case config.BackendSQLite:
		st, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend())
	}
}

// Describe returns a human readable label for the configured backend. The
// postgres URL is not echoed since it carries credentials.
func Describe(cfg config.Config) string {
	if cfg.Backend() == config.BackendPostgres {
		return "PostgreSQL"
	}
	return fmt.Sprintf("SQLite (%s)", cfg.SQLitePath)
}

// InitDB opens the configured backend and ensures the schema exists.
func InitDB(ctx context.Context, cfg config.Config) error {
	st, err := OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.InitSchema(ctx)
}

// Service is a configured, not yet listening, prayer journal.
type Service struct {
	cfg        config.Config
	store      store.Store
	httpServer *http.Server
}

// New opens storage, prepares the schema and builds the HTTP handler.
func New(ctx context.Context, cfg config.Config) (*Service, error) {
	reg, err := people.Load(cfg.PeopleFile)
	if err != nil {
		return nil, fmt.Errorf("load people: %w", err)
	}
	st, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := st.InitSchema(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	srv := server.New(st, reg, server.Options{PublicDir: cfg.PublicDir})
	return &Service{
		cfg:   cfg,
		store: st,
		httpServer: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           srv.Router(),
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}, nil
}

// Run serves until ctx ends, then drains in-flight requests for a bounded
// time and closes storage.
func (s *Service) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		_ = s.store.Close()
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (s *Service) Serve(ctx context.Context, listener net.Listener) error {
	if s == nil {
		return errors.New("service is nil")
	}
	defer func() {
		if err := s.store.Close(); err != nil {
			log.Printf("close storage: %v", err)
		}
	}()

	log.Printf("database: %s", Describe(s.cfg))
	log.Printf("listening on http://%s", listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		log.Printf("server stopped")
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
