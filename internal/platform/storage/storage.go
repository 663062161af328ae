// Package storage provides the durable key/value medium the session store
// persists into. Every backend must apply SetMany atomically so paired
// entries are never observed half-written.
package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: key not found")

type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	SetMany(ctx context.Context, entries map[string]string) error
	// Delete removes keys; missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
