// Package kv is the local persistence store: a durable, synchronous key/value
// space holding the serialized session and cart state between runs.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when the key has never been written or was deleted.
var ErrNotFound = errors.New("kv: key not found")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete is idempotent: deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type Config struct {
	Driver    string
	DSN       string
	Namespace string
}

// Open builds the store selected by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite:
		return OpenSQLite(ctx, cfg.DSN)
	case DriverPostgres:
		return OpenPostgres(ctx, cfg.DSN)
	case DriverRedis:
		return OpenRedis(ctx, cfg.DSN, cfg.Namespace)
	default:
		return nil, fmt.Errorf("kv: unknown driver %q", cfg.Driver)
	}
}
