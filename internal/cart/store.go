package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Store persists the line items of a cart session. Save overwrites the whole
// slot; Clear removes it. Load never fails on absent or malformed data.
type Store interface {
	Load(ctx context.Context, session string) ([]LineItem, error)
	Save(ctx context.Context, session string, items []LineItem) error
	Clear(ctx context.Context, session string) error
}

// MemoryStore keeps cart slots in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: map[string][]byte{}}
}

func (s *MemoryStore) Load(_ context.Context, session string) ([]LineItem, error) {
	s.mu.RLock()
	raw := s.slots[session]
	s.mu.RUnlock()
	return decodeItems(raw), nil
}

func (s *MemoryStore) Save(_ context.Context, session string, items []LineItem) error {
	raw, err := encodeItems(items)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.slots[session] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, session string) error {
	s.mu.Lock()
	delete(s.slots, session)
	s.mu.Unlock()
	return nil
}

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// RedisStore keeps each cart session under its own key with a sliding TTL.
type RedisStore struct {
	kv  kvStore
	ttl time.Duration
}

func NewRedisStore(kv kvStore, ttl time.Duration) (*RedisStore, error) {
	if kv == nil {
		return nil, errors.New("redis client required")
	}
	return &RedisStore{kv: kv, ttl: ttl}, nil
}

func (s *RedisStore) Load(ctx context.Context, session string) ([]LineItem, error) {
	raw, err := s.kv.Get(ctx, s.kv.CartKey(session))
	if errors.Is(err, goredis.Nil) {
		return []LineItem{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeItems([]byte(raw)), nil
}

func (s *RedisStore) Save(ctx context.Context, session string, items []LineItem) error {
	raw, err := encodeItems(items)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.kv.CartKey(session), string(raw), s.ttl)
}

func (s *RedisStore) Clear(ctx context.Context, session string) error {
	return s.kv.Del(ctx, s.kv.CartKey(session))
}
