package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoDSN is returned when persistence is requested without a connection string.
var ErrNoDSN = errors.New("database DSN must not be empty")

// PoolSettings tunes the pgx pool for the outreach workload: short bursts of
// upserts after each finder call and occasional listing reads.
type PoolSettings struct {
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	PingTimeout       time.Duration
}

// DefaultPoolSettings returns the settings used by cmd/api.
func DefaultPoolSettings() PoolSettings {
	return PoolSettings{
		MaxConns:          10,
		MaxConnLifetime:   time.Hour,
		MaxConnIdleTime:   15 * time.Minute,
		HealthCheckPeriod: 30 * time.Second,
		PingTimeout:       5 * time.Second,
	}
}

// Option adjusts PoolSettings before the pool is created.
type Option func(*PoolSettings)

// WithMaxConns caps the number of open connections.
func WithMaxConns(n int32) Option {
	return func(s *PoolSettings) {
		if n > 0 {
			s.MaxConns = n
		}
	}
}

// WithPingTimeout bounds the connectivity check done by Connect.
func WithPingTimeout(d time.Duration) Option {
	return func(s *PoolSettings) {
		if d > 0 {
			s.PingTimeout = d
		}
	}
}

// Config parses dsn and applies settings, without connecting.
func Config(dsn string, settings PoolSettings) (*pgxpool.Config, error) {
	if dsn == "" {
		return nil, ErrNoDSN
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}

	if settings.MaxConns > 0 {
		cfg.MaxConns = settings.MaxConns
	}
	if settings.MinConns > 0 {
		cfg.MinConns = settings.MinConns
	}
	if settings.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = settings.MaxConnLifetime
	}
	if settings.MaxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = settings.MaxConnIdleTime
	}
	if settings.HealthCheckPeriod > 0 {
		cfg.HealthCheckPeriod = settings.HealthCheckPeriod
	}
	return cfg, nil
}

// Connect opens a PostgreSQL connection pool using pgx and verifies connectivity.
func Connect(ctx context.Context, dsn string, opts ...Option) (*pgxpool.Pool, error) {
	settings := DefaultPoolSettings()
	for _, opt := range opts {
		opt(&settings)
	}

	cfg, err := Config(dsn, settings)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, settings.PingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}
