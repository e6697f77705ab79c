// Package postgres persists the entry collection in a Postgres table.
package postgres

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osintlabs/numharvest/internal/harvest"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config controls the Postgres connection pool.
type Config struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type pgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// Store writes the full ordered collection on every Save. A position column
// preserves collection order across round trips.
type Store struct {
	pool  pgxPool
	table string
}

// New creates a Postgres-backed Store using the provided config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("storage.dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = "entries"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{pool: pool, table: table}, nil
}

// NewWithPool constructs a Store from an existing pool (primarily for
// testing).
func NewWithPool(pool pgxPool, table string) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "entries"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &Store{pool: pool, table: table}, nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// Load reads the stored snapshot in collection order. An empty table yields
// an empty collection.
func (s *Store) Load(ctx context.Context) ([]harvest.Entry, error) {
	if s == nil || s.pool == nil {
		return nil, fmt.Errorf("entry store is not configured")
	}
	query := fmt.Sprintf(`
SELECT
	id,
	region,
	identifier,
	source_id,
	category,
	author,
	excerpt,
	observed_at,
	verified,
	category_matched,
	region_code
FROM %s
ORDER BY position`, s.table)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []harvest.Entry{}
	for rows.Next() {
		var e harvest.Entry
		if err := rows.Scan(
			&e.ID,
			&e.Region,
			&e.Identifier,
			&e.SourceID,
			&e.Category,
			&e.Author,
			&e.Excerpt,
			&e.ObservedAt,
			&e.Metadata.Verified,
			&e.Metadata.CategoryMatched,
			&e.Metadata.RegionCode,
		); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read entries: %w", err)
	}
	return entries, nil
}

// Save replaces the stored snapshot with the full current sequence in one
// transaction.
func (s *Store) Save(ctx context.Context, entries []harvest.Entry) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("entry store is not configured")
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s", s.table)); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}

	insert := fmt.Sprintf(`
INSERT INTO %s (
	position,
	id,
	region,
	identifier,
	source_id,
	category,
	author,
	excerpt,
	observed_at,
	verified,
	category_matched,
	region_code
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12
)`, s.table)

	for i, e := range entries {
		args := []any{
			i,
			e.ID,
			e.Region,
			e.Identifier,
			e.SourceID,
			e.Category,
			e.Author,
			e.Excerpt,
			e.ObservedAt,
			e.Metadata.Verified,
			e.Metadata.CategoryMatched,
			e.Metadata.RegionCode,
		}
		if _, err := tx.Exec(ctx, insert, args...); err != nil {
			return fmt.Errorf("insert entry %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit snapshot tx: %w", err)
	}
	return nil
}
