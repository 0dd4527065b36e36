package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteBlob keeps named blobs in a local SQLite database.
type SQLiteBlob struct {
	db   *sql.DB
	name string
}

// OpenSQLiteBlob opens (or creates) the SQLite database at path and returns
// the blob stored under name.
func OpenSQLiteBlob(path, name string) (*SQLiteBlob, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating dir for %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS blobs (
		name       TEXT PRIMARY KEY,
		data       BLOB NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating blobs table: %w", err)
	}

	return &SQLiteBlob{db: db, name: name}, nil
}

func (b *SQLiteBlob) Read(ctx context.Context) ([]byte, error) {
	var data []byte
	err := b.db.QueryRowContext(ctx, `SELECT data FROM blobs WHERE name = ?`, b.name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading blob %s: %w", b.name, err)
	}
	return data, nil
}

func (b *SQLiteBlob) Write(ctx context.Context, data []byte) error {
	_, err := b.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO blobs (name, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		b.name, data,
	)
	if err != nil {
		return fmt.Errorf("writing blob %s: %w", b.name, err)
	}
	return nil
}

// Close closes the underlying database.
func (b *SQLiteBlob) Close() error {
	return b.db.Close()
}
