// Package postgres provides a ports.Store backed by a single PostgreSQL
// table keyed by (kind, id). Values must be JSON documents; they are stored
// in a JSONB column.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jsamuelsen11/go-accounts-service/internal/domain"
	"github.com/jsamuelsen11/go-accounts-service/internal/platform/config"
	"github.com/jsamuelsen11/go-accounts-service/internal/ports"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

const (
	insertSQL = `INSERT INTO entities (kind, id, body) VALUES ($1, $2, $3)`
	selectSQL = `SELECT body FROM entities WHERE kind = $1 AND id = $2`
	updateSQL = `UPDATE entities SET body = $3, updated_at = NOW() WHERE kind = $1 AND id = $2`
	deleteSQL = `DELETE FROM entities WHERE kind = $1 AND id = $2`
)

// Store implements ports.Store on a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

var _ ports.Store = (*Store)(nil)

// NewPool builds a pgx pool from configuration and verifies connectivity.
func NewPool(ctx context.Context, cfg *config.PostgresConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return pool, nil
}

// New returns a Store using pool. The entities table must exist; see Migrate.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Create implements ports.Store. The primary key enforces uniqueness.
func (s *Store) Create(ctx context.Context, key ports.Key, value []byte) error {
	if _, err := s.pool.Exec(ctx, insertSQL, key.Kind, key.ID, value); err != nil {
		return mapError(err, key, "insert")
	}
	return nil
}

// Read implements ports.Store.
func (s *Store) Read(ctx context.Context, key ports.Key) ([]byte, error) {
	var body []byte
	if err := s.pool.QueryRow(ctx, selectSQL, key.Kind, key.ID).Scan(&body); err != nil {
		return nil, mapError(err, key, "select")
	}
	return body, nil
}

// Replace implements ports.Store.
func (s *Store) Replace(ctx context.Context, key ports.Key, value []byte) error {
	tag, err := s.pool.Exec(ctx, updateSQL, key.Kind, key.ID, value)
	if err != nil {
		return mapError(err, key, "update")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, key)
	}
	return nil
}

// Delete implements ports.Store.
func (s *Store) Delete(ctx context.Context, key ports.Key) error {
	tag, err := s.pool.Exec(ctx, deleteSQL, key.Kind, key.ID)
	if err != nil {
		return mapError(err, key, "delete")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, key)
	}
	return nil
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return "postgres"
}

// HealthCheck implements ports.HealthChecker by pinging the pool.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// mapError translates driver errors into the domain taxonomy where the
// meaning is definite and wraps everything else unchanged.
func mapError(err error, key ports.Key, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, key)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s already exists", domain.ErrConflict, key)
	}
	return fmt.Errorf("postgres %s %s: %w", op, key, err)
}
