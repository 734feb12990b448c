package store

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/MKhiriev/go-poll-bot/internal/config"
	"github.com/MKhiriev/go-poll-bot/internal/logger"
)

// cachedSessionStore serves reads from an LRU of per-user maps and writes
// through to the repository. Cached maps are never mutated in place.
type cachedSessionStore struct {
	repo   SessionRepository
	cache  *lru.Cache[int64, map[string]string]
	closer func() error
	logger *logger.Logger

	// mu orders writes with the cache refresh that follows them.
	mu sync.Mutex
}

// NewSessionStore connects to cfg.DB, applies migrations and returns a
// cached store.
func NewSessionStore(ctx context.Context, cfg config.ClientStorage, log *logger.Logger) (SessionStore, error) {
	db, err := NewConnect(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	store, err := NewCachedSessionStore(NewSessionRepository(db, log), cfg.CacheSize, db.Close, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// NewCachedSessionStore wraps repo with a cache holding up to size users.
// closer, if not nil, is called by Close.
func NewCachedSessionStore(repo SessionRepository, size int, closer func() error, log *logger.Logger) (SessionStore, error) {
	cache, err := lru.New[int64, map[string]string](size)
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}

	return &cachedSessionStore{
		repo:   repo,
		cache:  cache,
		closer: closer,
		logger: log,
	}, nil
}

func (s *cachedSessionStore) Get(ctx context.Context, userID int64, key string) (string, bool, error) {
	values, err := s.load(ctx, userID)
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

func (s *cachedSessionStore) Put(ctx context.Context, userID int64, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Save(ctx, userID, key, value); err != nil {
		s.cache.Remove(userID)
		return err
	}
	s.refresh(userID, func(values map[string]string) { values[key] = value })
	return nil
}

func (s *cachedSessionStore) Delete(ctx context.Context, userID int64, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Remove(ctx, userID, key); err != nil {
		s.cache.Remove(userID)
		return err
	}
	s.refresh(userID, func(values map[string]string) { delete(values, key) })
	return nil
}

func (s *cachedSessionStore) All(ctx context.Context, userID int64) (map[string]string, error) {
	values, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return maps.Clone(values), nil
}

func (s *cachedSessionStore) Close() error {
	s.cache.Purge()
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

func (s *cachedSessionStore) load(ctx context.Context, userID int64) (map[string]string, error) {
	if values, ok := s.cache.Get(userID); ok {
		return values, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// another reader may have filled the entry while we waited
	if values, ok := s.cache.Get(userID); ok {
		return values, nil
	}

	values, err := s.repo.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.cache.Add(userID, values) {
		s.logger.Debug().Int64("user_id", userID).Msg("session cache evicted an entry")
	}
	return values, nil
}

// refresh replaces a cached map with an edited copy. Uncached users are
// loaded lazily on their next read.
func (s *cachedSessionStore) refresh(userID int64, edit func(map[string]string)) {
	values, ok := s.cache.Peek(userID)
	if !ok {
		return
	}
	updated := maps.Clone(values)
	if updated == nil {
		updated = make(map[string]string)
	}
	edit(updated)
	s.cache.Add(userID, updated)
}
