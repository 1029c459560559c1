package store

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	viewKeyPrefix  = "views:"
	redisOpTimeout = 3 * time.Second
)

// RedisViewStore keeps per-book view counters in Redis. INCR makes
// concurrent increments for the same book id lose no updates.
type RedisViewStore struct {
	client *redis.Client
}

// NewRedisViewStore builds a Redis-backed view counter store.
func NewRedisViewStore(addr, password string) *RedisViewStore {
	return &RedisViewStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

// IncrementView atomically bumps the counter for a book, creating it at zero
// when absent, and returns the new value.
func (s *RedisViewStore) IncrementView(ctx context.Context, bookID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	return s.client.Incr(ctx, viewKeyPrefix+bookID).Result()
}

// ViewCounts returns every counter keyed by book id.
func (s *RedisViewStore) ViewCounts(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	keys := make([]string, 0)
	iter := s.client.Scan(ctx, 0, viewKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(keys))
	if len(keys) == 0 {
		return counts, nil
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, key := range keys {
		raw, ok := values[i].(string)
		if !ok {
			// Key expired or was removed between SCAN and MGET.
			continue
		}
		count, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		counts[strings.TrimPrefix(key, viewKeyPrefix)] = count
	}
	return counts, nil
}

// MemoryViewStore keeps view counters in-process. Used in tests.
type MemoryViewStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

// NewMemoryViewStore initializes an empty in-memory view store.
func NewMemoryViewStore() *MemoryViewStore {
	return &MemoryViewStore{counts: make(map[string]int64)}
}

// IncrementView bumps the counter for a book.
func (m *MemoryViewStore) IncrementView(_ context.Context, bookID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[bookID]++
	return m.counts[bookID], nil
}

// ViewCounts returns a copy of all counters.
func (m *MemoryViewStore) ViewCounts(_ context.Context) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.counts))
	for id, count := range m.counts {
		out[id] = count
	}
	return out, nil
}
