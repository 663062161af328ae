package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStorage(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SetMany(ctx, map[string]string{"a": "1", "b": "2"}))
	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", got)

	require.NoError(t, s.SetMany(ctx, map[string]string{"a": "3"}))
	got, err = s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "3", got)

	require.NoError(t, s.Delete(ctx, "a", "b", "never-set"))
	_, err = s.Get(ctx, "b")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(ctx))
	require.NoError(t, s.Delete(ctx, "a"))
}

func TestMemory(t *testing.T) {
	exerciseStorage(t, NewMemory())
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	s, err := NewFile(path)
	require.NoError(t, err)
	exerciseStorage(t, s)
}

func TestFileSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	first, err := NewFile(path)
	require.NoError(t, err)
	require.NoError(t, first.SetMany(ctx, map[string]string{"hrms_token": "abc"}))

	second, err := NewFile(path)
	require.NoError(t, err)
	got, err := second.Get(ctx, "hrms_token")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
}

func TestFileCorruptDocument(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := NewFile(path)
	require.NoError(t, err)

	_, err = s.Get(ctx, "hrms_user")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(ctx, "hrms_user"))
	_, err = s.Get(ctx, "hrms_user")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	exerciseStorage(t, NewRedis(client, "console:"))

	require.NoError(t, NewRedis(client, "console:").SetMany(context.Background(), map[string]string{"k": "v"}))
	assert.True(t, mr.Exists("console:k"))
}

func TestPostgres(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := Connect(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	s, err := NewPostgres(ctx, pool)
	require.NoError(t, err)
	_, _ = pool.Exec(ctx, "DELETE FROM client_storage WHERE key IN ('a','b','missing')")
	exerciseStorage(t, s)
}

func TestSealed(t *testing.T) {
	inner := NewMemory()
	s, err := NewSealed(inner, "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	exerciseStorage(t, s)

	ctx := context.Background()
	require.NoError(t, s.SetMany(ctx, map[string]string{"hrms_token": "abc123"}))
	raw, err := inner.Get(ctx, "hrms_token")
	require.NoError(t, err)
	assert.NotContains(t, raw, "abc123")

	got, err := s.Get(ctx, "hrms_token")
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)

	require.NoError(t, inner.SetMany(ctx, map[string]string{"hrms_token": "plain"}))
	_, err = s.Get(ctx, "hrms_token")
	require.Error(t, err)
}

func TestSealedRejectsShortKey(t *testing.T) {
	_, err := NewSealed(NewMemory(), "short")
	require.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, closeFn, err := Open(ctx, Options{Backend: "memory"})
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &Memory{}, s)

	mr := miniredis.RunT(t)
	s, closeRedis, err := Open(ctx, Options{Backend: "redis", RedisAddr: mr.Addr(), KeyPrefix: "p:"})
	require.NoError(t, err)
	defer closeRedis()
	assert.IsType(t, &Redis{}, s)

	_, _, err = Open(ctx, Options{Backend: "etcd"})
	require.Error(t, err)
}
