package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/ridloal/supermarket-management/internal/platform/logger"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type PostgresStore struct {
	db     DBTX
	closer func() error
	table  string
}

func NewPostgresStore(db DBTX, table string) *PostgresStore {
	s := &PostgresStore{db: db, table: pq.QuoteIdentifier(table)}
	if c, ok := db.(interface{ Close() error }); ok {
		s.closer = c.Close
	}
	return s
}

func (s *PostgresStore) EnsureTable(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS ` + s.table + ` (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		logger.Error("PostgresStore.EnsureTable: create failed", err)
		return fmt.Errorf("failed to create storage table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM ` + s.table + ` WHERE key = $1`
	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrKeyNotFound
		}
		logger.Error("PostgresStore.Get: query failed", err)
		return "", err
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO ` + s.table + ` (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		logger.Error("PostgresStore.Set: upsert failed", err)
		return err
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query := `DELETE FROM ` + s.table + ` WHERE key = ANY($1)`
	if _, err := s.db.ExecContext(ctx, query, pq.Array(keys)); err != nil {
		logger.Error("PostgresStore.Delete: delete failed", err)
		return err
	}
	return nil
}

func (s *PostgresStore) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
