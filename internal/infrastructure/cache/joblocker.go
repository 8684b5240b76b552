// Package cache holds the Redis-backed coordination primitives shared by
// server replicas.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const jobLockKeyPrefix = "civicpulse:joblock:"

// ErrLockHeld is returned when another replica owns the job lock.
var ErrLockHeld = errors.New("job lock is held by another instance")

// releaseLockScript deletes the key only when it still carries our token,
// so a lock that expired and was re-acquired elsewhere is left alone.
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// JobLocker implements gocron.Locker on top of SET NX so that each scheduled
// job runs on one replica at a time.
type JobLocker struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ gocron.Locker = (*JobLocker)(nil)

// NewJobLocker creates a locker whose locks expire after ttl, which should
// exceed the longest expected job run.
func NewJobLocker(client redis.UniversalClient, ttl time.Duration) *JobLocker {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &JobLocker{client: client, ttl: ttl}
}

func (l *JobLocker) Lock(ctx context.Context, key string) (gocron.Lock, error) {
	redisKey := jobLockKeyPrefix + key
	token := uuid.NewString()

	acquired, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire job lock %s: %w", key, err)
	}
	if !acquired {
		return nil, ErrLockHeld
	}

	return &jobLock{client: l.client, key: redisKey, token: token}, nil
}

type jobLock struct {
	client redis.UniversalClient
	key    string
	token  string
}

func (l *jobLock) Unlock(ctx context.Context) error {
	if err := releaseLockScript.Run(ctx, l.client, []string{l.key}, l.token).Err(); err != nil {
		return fmt.Errorf("failed to release job lock: %w", err)
	}
	return nil
}
