package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockKeyPrefix = "lock:"
	lockRetry     = 25 * time.Millisecond
)

// UnlockFunc - releases a lock taken by Lock.
type UnlockFunc func(ctx context.Context) error

type Locker interface {
	Lock(ctx context.Context, key string) (UnlockFunc, error)
}

// unlockScript deletes the key only while it still holds our token.
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

type redisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLocker - lock shared by every instance using the same redis.
// The lock expires after ttl if its holder never releases it.
func NewRedisLocker(client *redis.Client, ttl time.Duration) Locker {
	return &redisLocker{
		client: client,
		ttl:    ttl,
	}
}

func (that *redisLocker) Lock(ctx context.Context, key string) (UnlockFunc, error) {
	lockKey := lockKeyPrefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(lockRetry)
	defer ticker.Stop()

	for {
		acquired, err := that.client.SetNX(ctx, lockKey, token, that.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}

		if acquired {
			return func(ctx context.Context) error {
				if err := unlockScript.Run(ctx, that.client, []string{lockKey}, token).Err(); err != nil {
					return fmt.Errorf("failed to release lock: %w", err)
				}

				return nil
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

type lockEntry struct {
	ch   chan struct{}
	refs int
}

type memoryLocker struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

// NewMemoryLocker - keyed mutex for a single process.
func NewMemoryLocker() Locker {
	return &memoryLocker{
		entries: make(map[string]*lockEntry),
	}
}

func (that *memoryLocker) Lock(ctx context.Context, key string) (UnlockFunc, error) {
	that.mu.Lock()
	entry, ok := that.entries[key]
	if !ok {
		entry = &lockEntry{ch: make(chan struct{}, 1)}
		that.entries[key] = entry
	}
	entry.refs++
	that.mu.Unlock()

	select {
	case entry.ch <- struct{}{}:
	case <-ctx.Done():
		that.release(key, entry)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			<-entry.ch
			that.release(key, entry)
		})
		return nil
	}, nil
}

func (that *memoryLocker) release(key string, entry *lockEntry) {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry.refs--
	if entry.refs == 0 {
		delete(that.entries, key)
	}
}
