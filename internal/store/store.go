package store

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUnknownDriver = errors.New("unknown store driver")
)

// KV is the persistence substrate: string keys to opaque bytes, surviving
// restarts for the disk-backed drivers.
type KV interface {
	// Get returns ErrNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Remove is a no-op for absent keys.
	Remove(ctx context.Context, key string) error
	Close() error
}

const (
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
	DriverMemory = "memory"
)

// Open builds the KV backend named by driver. path is the SQLite file or
// the Badger directory and is ignored for memory.
func Open(driver, path string) (KV, error) {
	switch driver {
	case DriverSQLite:
		return NewSQLite(path)
	case DriverBadger:
		return NewBadger(DefaultBadgerConfig(path))
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
