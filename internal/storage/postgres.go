package storage

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresBlob keeps named blobs in PostgreSQL.
type PostgresBlob struct {
	Pool *pgxpool.Pool
	name string
}

// NewPostgresBlob connects a pool and returns the blob stored under name.
func NewPostgresBlob(ctx context.Context, dsn, name string) (*PostgresBlob, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &PostgresBlob{Pool: pool, name: name}, nil
}

func (b *PostgresBlob) Read(ctx context.Context) ([]byte, error) {
	var data []byte
	err := b.Pool.QueryRow(ctx, `SELECT data FROM blobs WHERE name = $1`, b.name).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading blob %s: %w", b.name, err)
	}
	return data, nil
}

func (b *PostgresBlob) Write(ctx context.Context, data []byte) error {
	_, err := b.Pool.Exec(ctx,
		`INSERT INTO blobs (name, data, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		b.name, data)
	if err != nil {
		return fmt.Errorf("writing blob %s: %w", b.name, err)
	}
	return nil
}

// Close closes the connection pool.
func (b *PostgresBlob) Close() error {
	b.Pool.Close()
	return nil
}

// RunMigrations applies all pending embedded migrations.
func RunMigrations(dsn string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("opening migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
