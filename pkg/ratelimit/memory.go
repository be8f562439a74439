package ratelimit

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps counters in process memory. Expired windows are purged
// every cleanup interval.
type MemoryStore struct {
	cache *cache.Cache
	now   func() time.Time
}

// NewMemoryStore creates an in-memory store purging expired counters every
// minute.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: cache.New(cache.NoExpiration, time.Minute),
		now:   time.Now,
	}
}

// Hit implements Store.
func (s *MemoryStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if window <= 0 {
		return 0, 0, ErrInvalidWindow
	}

	for {
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}

		if err := s.cache.Add(key, int64(1), window); err == nil {
			return 1, window, nil
		}

		// The window may expire between Add and IncrementInt64; start over.
		n, err := s.cache.IncrementInt64(key, 1)
		if err != nil {
			continue
		}

		_, exp, found := s.cache.GetWithExpiration(key)
		if !found {
			continue
		}
		return n, max(exp.Sub(s.now()), 0), nil
	}
}
