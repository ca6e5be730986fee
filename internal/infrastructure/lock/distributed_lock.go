package lock

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// DistributedLock is a Redis SETNX lock with a value-checked, Lua-atomic
// release. It exists purely as a throughput optimization here — the
// settlement lease that guarantees at-most-one-settler-per-round is a
// conditionally-updated database row (see service.SettleRound), not this
// lock. This lock only reduces redundant cross-process scheduler ticks.
type DistributedLock struct {
	client     *redis.Client
	key        string
	value      string
	expiration time.Duration
}

var ErrLockFailed = errors.New("could not acquire lock")

func NewDistributedLock(client *redis.Client, key, value string, expiration time.Duration) *DistributedLock {
	return &DistributedLock{
		client:     client,
		key:        key,
		value:      value,
		expiration: expiration,
	}
}

// TryLock attempts a non-blocking acquire via SET key value NX EX.
func (l *DistributedLock) TryLock(ctx context.Context) (bool, error) {
	return l.client.SetNX(ctx, l.key, l.value, l.expiration).Result()
}

// Lock blocks, retrying up to maxRetries times with retryInterval between
// attempts.
func (l *DistributedLock) Lock(ctx context.Context, retryInterval time.Duration, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		ok, err := l.TryLock(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return ErrLockFailed
}

// Unlock deletes the key only if its value still matches, via a Lua script
// so the check-then-delete is atomic and never removes another holder's
// lock acquired after this one expired.
func (l *DistributedLock) Unlock(ctx context.Context) error {
	script := `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`
	_, err := l.client.Eval(ctx, script, []string{l.key}, l.value).Result()
	return err
}

// NewSchedulerTickLock builds the cross-process tick guard: one global key
// so that, under horizontal deployment, at most one process's ticker
// performs the due-auction scan in a given interval. Expiration exceeds the
// scheduler's own tick timeout so a crashed holder's lock self-expires
// before the next tick would otherwise be blocked indefinitely.
func NewSchedulerTickLock(client *redis.Client, holderID string, tickTimeout time.Duration) *DistributedLock {
	return NewDistributedLock(client, "scheduler:tick", holderID, tickTimeout+5*time.Second)
}
