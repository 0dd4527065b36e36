package storage

import (
	"context"
	"fmt"
)

// Options selects and configures a blob backend.
type Options struct {
	Driver   string // "file", "sqlite" or "postgres"
	Path     string // file or sqlite database path
	DSN      string // postgres connection string
	BlobName string
}

// OpenBlob opens the backend named by opts.Driver. For postgres, pending
// migrations are applied first.
func OpenBlob(ctx context.Context, opts Options) (Blob, error) {
	name := opts.BlobName
	if name == "" {
		name = DefaultBlobName
	}

	switch opts.Driver {
	case "file", "":
		return NewFileBlob(opts.Path), nil
	case "sqlite":
		return OpenSQLiteBlob(opts.Path, name)
	case "postgres":
		if err := RunMigrations(opts.DSN); err != nil {
			return nil, err
		}
		return NewPostgresBlob(ctx, opts.DSN, name)
	}
	return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
}
