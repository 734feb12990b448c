package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-poll-bot/internal/config"
	"github.com/MKhiriev/go-poll-bot/internal/logger"
)

// memoryRepository is a SessionRepository counting database round trips.
type memoryRepository struct {
	mu      sync.Mutex
	data    map[int64]map[string]string
	loads   int
	saveErr error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{data: make(map[int64]map[string]string)}
}

func (m *memoryRepository) Load(_ context.Context, userID int64) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	out := make(map[string]string)
	for k, v := range m.data[userID] {
		out[k] = v
	}
	return out, nil
}

func (m *memoryRepository) Save(_ context.Context, userID int64, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.data[userID] == nil {
		m.data[userID] = make(map[string]string)
	}
	m.data[userID][key] = value
	return nil
}

func (m *memoryRepository) Remove(_ context.Context, userID int64, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[userID], key)
	return nil
}

func (m *memoryRepository) loadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads
}

func newCachedStore(t *testing.T, repo SessionRepository, size int) SessionStore {
	t.Helper()
	s, err := NewCachedSessionStore(repo, size, nil, logger.Nop())
	require.NoError(t, err)
	return s
}

func TestCachedSessionStore_ReadsAreCached(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	s := newCachedStore(t, repo, 4)

	require.NoError(t, s.Put(ctx, 1, "lang", "en"))

	for range 3 {
		v, ok, err := s.Get(ctx, 1, "lang")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "en", v)
	}
	assert.Equal(t, 1, repo.loadCount())

	// writes refresh the cached entry without reloading
	require.NoError(t, s.Put(ctx, 1, "lang", "fr"))
	require.NoError(t, s.Put(ctx, 1, "tz", "UTC"))
	require.NoError(t, s.Delete(ctx, 1, "tz"))

	all, err := s.All(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"lang": "fr"}, all)
	assert.Equal(t, 1, repo.loadCount())
}

func TestCachedSessionStore_Eviction(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	s := newCachedStore(t, repo, 1)

	require.NoError(t, s.Put(ctx, 1, "k", "one"))
	require.NoError(t, s.Put(ctx, 2, "k", "two"))

	_, _, err := s.Get(ctx, 1, "k")
	require.NoError(t, err)
	_, _, err = s.Get(ctx, 2, "k")
	require.NoError(t, err)

	// user 1 was evicted by user 2 and is read from the repository again
	v, ok, err := s.Get(ctx, 1, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "one", v)
	assert.Equal(t, 3, repo.loadCount())
}

func TestCachedSessionStore_AllReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := newCachedStore(t, newMemoryRepository(), 4)
	require.NoError(t, s.Put(ctx, 1, "k", "v"))

	all, err := s.All(ctx, 1)
	require.NoError(t, err)
	all["k"] = "changed"

	v, _, err := s.Get(ctx, 1, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestCachedSessionStore_FailedWriteDropsEntry(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	s := newCachedStore(t, repo, 4)

	require.NoError(t, s.Put(ctx, 1, "k", "v"))
	_, _, err := s.Get(ctx, 1, "k")
	require.NoError(t, err)

	repo.saveErr = errors.New("disk full")
	assert.ErrorIs(t, s.Put(ctx, 1, "k", "w"), repo.saveErr)

	v, _, err := s.Get(ctx, 1, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
	assert.Equal(t, 2, repo.loadCount())
}

func TestCachedSessionStore_Validation(t *testing.T) {
	_, err := NewCachedSessionStore(newMemoryRepository(), 0, nil, logger.Nop())
	assert.Error(t, err)

	s := newCachedStore(t, newMemoryRepository(), 1)
	assert.ErrorIs(t, s.Put(context.Background(), 1, " ", "v"), ErrEmptyKey)

	_, ok, err := s.Get(context.Background(), 1, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCachedSessionStore_CloseCallsCloser(t *testing.T) {
	closeErr := errors.New("close failed")
	s, err := NewCachedSessionStore(newMemoryRepository(), 1, func() error { return closeErr }, logger.Nop())
	require.NoError(t, err)
	assert.ErrorIs(t, s.Close(), closeErr)
}

func TestNewSessionStore_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := config.ClientStorage{
		DB:        config.ClientDB{DSN: filepath.Join(t.TempDir(), "nested", "sessions.db")},
		CacheSize: 8,
	}

	s, err := NewSessionStore(ctx, cfg, logger.Nop())
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, 42, "greeted", "true"))
	require.NoError(t, s.Put(ctx, 42, "greeted", "yes"))
	require.NoError(t, s.Put(ctx, 42, "lang", "en"))
	require.NoError(t, s.Delete(ctx, 42, "lang"))
	require.NoError(t, s.Delete(ctx, 42, "never-set"))
	require.NoError(t, s.Close())

	// a fresh store reads what the first one wrote
	s, err = NewSessionStore(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	defer s.Close()

	all, err := s.All(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"greeted": "yes"}, all)

	all, err = s.All(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestIsPostgresDSN(t *testing.T) {
	assert.True(t, isPostgresDSN("postgres://u:p@localhost/db"))
	assert.True(t, isPostgresDSN("postgresql://localhost/db"))
	assert.False(t, isPostgresDSN("bot-sessions.db"))
	assert.False(t, isPostgresDSN("file:postgres.db"))
}
