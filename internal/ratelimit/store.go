package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store counts hits per key inside a fixed window. Implementations must be
// safe for concurrent use; Incr is an atomic increment-and-read, never a
// read-then-write.
type Store interface {
	// Incr records a hit and returns the count within the current window.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	// Decr forgets one previously recorded hit, used to exclude successful
	// attempts from the count.
	Decr(ctx context.Context, key string) error
}

// ===== IN-MEMORY STORE =====

type bucket struct {
	count   int64
	resetAt time.Time
}

// MemoryStore is the single-instance default backend.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	b, ok := s.buckets[key]
	if !ok || now.After(b.resetAt) {
		b = &bucket{resetAt: now.Add(window)}
		s.buckets[key] = b
	}
	b.count++

	// Opportunistic pruning keeps the map bounded without a sweeper goroutine.
	if len(s.buckets) > 1024 {
		for k, v := range s.buckets {
			if now.After(v.resetAt) {
				delete(s.buckets, k)
			}
		}
	}
	return b.count, nil
}

func (s *MemoryStore) Decr(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.buckets[key]; ok && b.count > 0 {
		b.count--
	}
	return nil
}

// ===== REDIS STORE =====

// RedisStore shares counters across instances. Functionally identical to
// MemoryStore from the caller's point of view.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "ratelimit:"}
}

// incrScript re-arms the expiry whenever the key has none, not only on the
// first hit: a Decr racing the window expiry can recreate the key without a
// TTL, and a counter with no TTL would throttle its client forever.
var incrScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 or redis.call("TTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// decrScript only decrements keys that still exist, and never below zero, so
// forgetting a hit after the window lapsed cannot resurrect the counter.
var decrScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	if redis.call("DECR", KEYS[1]) < 0 then
		redis.call("INCR", KEYS[1])
	end
end
return 0
`)

func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	return incrScript.Run(ctx, s.client, []string{s.prefix + key}, window.Milliseconds()).Int64()
}

func (s *RedisStore) Decr(ctx context.Context, key string) error {
	return decrScript.Run(ctx, s.client, []string{s.prefix + key}).Err()
}
