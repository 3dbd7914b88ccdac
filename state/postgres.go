package state

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresBackend keeps the snapshot in a Postgres table, for runs where the harness is
// scheduled on machines that do not share a filesystem.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

// OpenPostgresBackend connects to dsn and creates the environment table if needed.
func OpenPostgresBackend(ctx context.Context, dsn string) (*PostgresBackend, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	b := &PostgresBackend{pool: pool}
	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS environment (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating environment table: %w", err)
	}
	return b, nil
}

func (b *PostgresBackend) Load(ctx context.Context) (map[string]string, error) {
	rows, err := b.pool.Query(ctx, `SELECT key, value FROM environment`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		entries[key] = value
	}
	return entries, rows.Err()
}

func (b *PostgresBackend) Save(ctx context.Context, entries map[string]string) error {
	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM environment`); err != nil {
		return err
	}
	for k, v := range entries {
		if _, err := tx.Exec(ctx, `INSERT INTO environment (key, value) VALUES ($1, $2)`, k, v); err != nil {
			return fmt.Errorf("failed to insert %q: %w", k, err)
		}
	}
	return tx.Commit(ctx)
}

func (b *PostgresBackend) Close() error {
	b.pool.Close()
	return nil
}
