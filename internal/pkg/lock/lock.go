// Package lock provides short-lived in-flight guards that stop the same
// command from being submitted twice while a previous submission is running.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrHeld is returned when another holder owns the key
var ErrHeld = errors.New("lock is held")

// Locker acquires a key for at most ttl. The returned release func is safe to
// call more than once.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

const keyPrefix = "lock:"

// releaseScript deletes the key only when it still carries our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker shares locks across API instances
type RedisLocker struct {
	client *redis.Client
}

// NewRedisLocker creates a Redis-backed locker
func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, keyPrefix+key, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrHeld
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// Detached from the request context so a cancelled request still releases
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			releaseScript.Run(releaseCtx, l.client, []string{keyPrefix + key}, token)
		})
	}, nil
}

// LocalLocker is the in-process fallback used when Redis is not configured
type LocalLocker struct {
	mu      sync.Mutex
	holders map[string]time.Time
	now     func() time.Time
}

// NewLocalLocker creates an in-memory locker
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{
		holders: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (l *LocalLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if expiresAt, ok := l.holders[key]; ok && now.Before(expiresAt) {
		return nil, ErrHeld
	}
	expiresAt := now.Add(ttl)
	l.holders[key] = expiresAt

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if l.holders[key].Equal(expiresAt) {
				delete(l.holders, key)
			}
		})
	}, nil
}

// New returns a Redis locker when a client is available, otherwise a local one
func New(client *redis.Client) Locker {
	if client == nil {
		return NewLocalLocker()
	}
	return NewRedisLocker(client)
}
