package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const guardKeyPrefix = "storefront:inflight:"

// releaseScript deletes KEYS[1] only while it still holds ARGV[1].
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// RedisInFlightGuard holds in-flight keys in Redis so every replica sees them.
type RedisInFlightGuard struct {
	rdb      redis.Cmdable
	newToken func() string
}

// NewRedisInFlightGuard creates a new RedisInFlightGuard.
func NewRedisInFlightGuard(rdb redis.Cmdable) *RedisInFlightGuard {
	return &RedisInFlightGuard{rdb: rdb, newToken: uuid.NewString}
}

// Acquire sets key to a fresh token unless it is already held. The key expires after ttl.
func (g *RedisInFlightGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := g.newToken()
	ok, err := g.rdb.SetNX(ctx, guardKeyPrefix+key, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire %s: %w", key, err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release deletes key if it is still held under token.
func (g *RedisInFlightGuard) Release(ctx context.Context, key, token string) error {
	if err := g.rdb.Eval(ctx, releaseScript, []string{guardKeyPrefix + key}, token).Err(); err != nil {
		return fmt.Errorf("failed to release %s: %w", key, err)
	}
	return nil
}

type memoryHold struct {
	token string
	until time.Time
}

// MemoryInFlightGuard is a single-process guard used when Redis is not configured.
type MemoryInFlightGuard struct {
	mu       sync.Mutex
	held     map[string]memoryHold
	now      func() time.Time
	newToken func() string
}

// NewMemoryInFlightGuard creates a new MemoryInFlightGuard.
func NewMemoryInFlightGuard() *MemoryInFlightGuard {
	return &MemoryInFlightGuard{
		held:     make(map[string]memoryHold),
		now:      time.Now,
		newToken: uuid.NewString,
	}
}

// Acquire holds key until Release or until ttl passes.
func (g *MemoryInFlightGuard) Acquire(_ context.Context, key string, ttl time.Duration) (string, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	if h, ok := g.held[key]; ok && now.Before(h.until) {
		return "", false, nil
	}
	token := g.newToken()
	g.held[key] = memoryHold{token: token, until: now.Add(ttl)}
	return token, true, nil
}

// Release frees key if it is still held under token.
func (g *MemoryInFlightGuard) Release(_ context.Context, key, token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if h, ok := g.held[key]; ok && h.token == token {
		delete(g.held, key)
	}
	return nil
}
