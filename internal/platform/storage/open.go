package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Options struct {
	Backend       string
	FilePath      string
	RedisAddr     string
	DatabaseURL   string
	KeyPrefix     string
	EncryptionKey string
}

// Open builds the configured backend. The returned close func releases any
// client or pool it created and is never nil.
func Open(ctx context.Context, opts Options) (Storage, func(), error) {
	var (
		s       Storage
		closeFn = func() {}
	)
	switch opts.Backend {
	case "memory":
		s = NewMemory()
	case "", "file":
		f, err := NewFile(opts.FilePath)
		if err != nil {
			return nil, closeFn, err
		}
		s = f
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, closeFn, fmt.Errorf("storage: redis ping: %w", err)
		}
		s = NewRedis(client, opts.KeyPrefix)
		closeFn = func() { _ = client.Close() }
	case "postgres":
		pool, err := Connect(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, closeFn, err
		}
		pg, err := NewPostgres(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, closeFn, err
		}
		s = pg
		closeFn = pool.Close
	default:
		return nil, closeFn, fmt.Errorf("storage: unknown backend %q", opts.Backend)
	}

	if opts.EncryptionKey != "" {
		sealed, err := NewSealed(s, opts.EncryptionKey)
		if err != nil {
			closeFn()
			return nil, func() {}, err
		}
		s = sealed
	}
	return s, closeFn, nil
}
