package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock key only if it still holds our token, so a
// worker whose lease expired cannot release a lock re-acquired by another.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`)

// RedisLock is a single-key lease used as the cluster-wide retrain overlap
// guard. Acquire is non-blocking: when the key is already held the caller is
// expected to skip its work, not wait.
type RedisLock struct {
	rdb *redis.Client
	key string
}

// NewRedisLock wraps an existing redis client. All processes that must
// mutually exclude each other share the same key.
func NewRedisLock(rdb *redis.Client, key string) *RedisLock {
	return &RedisLock{rdb: rdb, key: key}
}

// Acquire attempts to take the lease for ttl. On success it returns true and
// a release function; the release is token-checked, so calling it after the
// ttl elapsed is harmless. On contention it returns false with a no-op
// release.
//
// The ttl bounds how long a crashed holder can block the next run: it must be
// at least the job timeout, and expiry is the only recovery path when a
// worker dies mid-retrain.
func (l *RedisLock) Acquire(ctx context.Context, ttl time.Duration) (bool, func(context.Context), error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, l.key, token, ttl).Result()
	if err != nil {
		return false, func(context.Context) {}, err
	}
	if !ok {
		return false, func(context.Context) {}, nil
	}
	release := func(ctx context.Context) {
		_ = releaseScript.Run(ctx, l.rdb, []string{l.key}, token).Err()
	}
	return true, release, nil
}

// Held reports whether the lease is currently taken by anyone.
func (l *RedisLock) Held(ctx context.Context) (bool, error) {
	n, err := l.rdb.Exists(ctx, l.key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
