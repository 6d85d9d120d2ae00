// Package storage persists the profile and résumé records a fill pass reads
// and reports when they change.
package storage

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Storage keys.
const (
	KeyUserData   = "userData"
	KeyResumeData = "resumeData"
	KeyUser       = "user"
)

// Backends accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// ErrNotFound is returned by Get for a key that was never set.
var ErrNotFound = errors.New("storage: key not found")

// Change reports that a key was written.
type Change struct {
	Key string
}

// Store is a key/value store of raw JSON records.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Watch streams changes until ctx is done, then closes the channel.
	Watch(ctx context.Context) (<-chan Change, error)
	Close() error
}

// Open creates the store for backend. location is the file path for the file
// backend and the connection string for postgres.
func Open(ctx context.Context, backend, location string, logger *zap.Logger) (Store, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendFile:
		return NewFileStore(location, logger)
	case BackendPostgres:
		return ConnectPostgres(ctx, location, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
