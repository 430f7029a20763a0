package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	tx "github.com/Thiht/transactor/pgx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbridge/paybridge/config"
)

const defaultConnAttempts = 3

// Postgres bundles the connection pool with the query builder and the
// transactor the repositories run on.
type Postgres struct {
	Pool       *pgxpool.Pool
	Builder    squirrel.StatementBuilderType
	DBGetter   tx.DBGetter
	Transactor *tx.Transactor

	isolation pgx.TxIsoLevel
}

type settings struct {
	pool      *pgxpool.Config
	isolation pgx.TxIsoLevel
}

// Option configures the connection before the pool is created.
type Option func(*settings)

// MaxPoolSize caps the number of pooled connections.
func MaxPoolSize(size int32) Option {
	return func(s *settings) {
		s.pool.MaxConns = size
	}
}

// ConnTimeout sets the connect timeout in seconds.
func ConnTimeout(seconds int) Option {
	return func(s *settings) {
		s.pool.ConnConfig.ConnectTimeout = time.Duration(seconds) * time.Second
	}
}

// HealthCheckPeriod sets the pool health check interval in minutes.
func HealthCheckPeriod(minutes int) Option {
	return func(s *settings) {
		s.pool.HealthCheckPeriod = time.Duration(minutes) * time.Minute
	}
}

// Isolation sets the isolation level explicit transactions should use.
func Isolation(level pgx.TxIsoLevel) Option {
	return func(s *settings) {
		s.isolation = level
	}
}

// New connects to Postgres and verifies the connection with a ping.
func New(cfg *config.Config, opts ...Option) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DB.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}

	s := &settings{pool: poolConfig, isolation: pgx.ReadCommitted}
	for _, opt := range opts {
		opt(s)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= defaultConnAttempts; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				break
			}
			pool.Close()
		}
		if attempt < defaultConnAttempts {
			time.Sleep(time.Second)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	transactor, dbGetter := tx.NewTransactorFromPool(pool)

	return &Postgres{
		Pool:       pool,
		Builder:    squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		DBGetter:   dbGetter,
		Transactor: transactor,
		isolation:  s.isolation,
	}, nil
}

// IsolationLevel returns the level configured for explicit transactions.
func (p *Postgres) IsolationLevel() pgx.TxIsoLevel {
	return p.isolation
}

// Close releases the pool.
func (p *Postgres) Close() {
	if p.Pool != nil {
		p.Pool.Close()
	}
}
