// Package database provides PostgreSQL connection management with lifecycle coordination.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/sortinghat-io/sortinghat/pkg/lifecycle"
)

// System owns the connection pool and ties its health check and teardown
// into the process lifecycle.
type System interface {
	Connection() *sql.DB
	Start(lc *lifecycle.Coordinator) error
}

type pool struct {
	db          *sql.DB
	pingTimeout time.Duration
	logger      *slog.Logger
}

// New opens the pool and applies the configured limits. The first network
// round trip happens in the Start hook, not here.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	db, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &pool{
		db:          db,
		pingTimeout: cfg.ConnTimeoutDuration(),
		logger:      logger.With("system", "database"),
	}, nil
}

func (p *pool) Connection() *sql.DB {
	return p.db
}

// Start registers a startup ping and a shutdown close with the coordinator.
func (p *pool) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func() {
		ctx, cancel := context.WithTimeout(lc.Context(), p.pingTimeout)
		defer cancel()

		if err := p.db.PingContext(ctx); err != nil {
			p.logger.Error("database ping failed", "error", err)
			return
		}
		p.logger.Info("database connection established")
	})

	lc.OnShutdown(func() {
		if err := p.db.Close(); err != nil {
			p.logger.Error("database close failed", "error", err)
			return
		}
		p.logger.Info("database connection closed")
	})

	return nil
}
