// Package storage persists named values for the transaction store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

// ErrNotFound is returned by Get when no value is stored under a key.
var ErrNotFound = errors.New("key not found")

// KV is a durable key/value store holding whole serialized values.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Backends lists the valid backend names.
var Backends = []string{BackendFile, BackendSQLite}

// DBFile is the SQLite database file name inside the data directory.
const DBFile = "tally.db"

// Open returns the KV backend named by backend, rooted at dir.
func Open(backend, dir string) (KV, error) {
	switch backend {
	case BackendFile, "":
		return NewFile(dir)
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dir, DBFile))
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want one of %v)", backend, Backends)
	}
}
