// Package storage declares the durable key-value store that keeps the cached
// user id and session token between runs.
package storage

import "context"

// Storage is implemented by jsondb, memorystorage and postgresdb.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)

	Set(ctx context.Context, key, value string) error

	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error

	Close() error
}
