package state

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteBackend keeps the snapshot in a single-table SQLite database. Save replaces the table
// contents in one transaction, so a reader never sees half a snapshot.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

// OpenSQLiteBackend opens (creating if necessary) the database file at path.
func OpenSQLiteBackend(ctx context.Context, path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	b := &SQLiteBackend{db: db, path: path}
	if err := b.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return b, nil
}

func (b *SQLiteBackend) Path() string {
	return b.path
}

func (b *SQLiteBackend) migrate(ctx context.Context) error {
	query := `
    CREATE TABLE IF NOT EXISTS environment (
        key   TEXT PRIMARY KEY,
        value TEXT NOT NULL
    );`
	if _, err := b.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("creating environment table: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Load(ctx context.Context) (map[string]string, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT key, value FROM environment`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	entries := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		entries[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (b *SQLiteBackend) Save(ctx context.Context, entries map[string]string) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM environment`); err != nil {
		return err
	}
	for k, v := range entries {
		if _, err := tx.ExecContext(ctx, `INSERT INTO environment (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("failed to insert %q: %w", k, err)
		}
	}
	return tx.Commit()
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
