package locks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/logger"
)

// releaseScript deletes the lock key only when it still holds our
// token, so a holder whose lease expired cannot delete a lock that was
// since acquired by someone else.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end`

// extendScript refreshes the TTL only while we still own the key.
const extendScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
else
	return 0
end`

var (
	releaseCmd = redis.NewScript(releaseScript)
	extendCmd  = redis.NewScript(extendScript)
)

// Lock is a single-use lease on a named resource. Each Lock carries a
// random token identifying the holder; Release and Extend only act
// while the stored token matches.
type Lock struct {
	client     *redis.Client
	key        string
	token      string
	ttl        time.Duration
	retryTimes int
	retryDelay time.Duration
	acquired   bool
	log        *logger.Logger
}

// Acquire tries to take the lease, retrying on a fixed delay until the
// retry budget or the context runs out. Store errors are treated as
// "not acquired": without a confirmed lease the caller must not
// proceed.
func (l *Lock) Acquire(ctx context.Context) bool {
	for attempt := 0; attempt <= l.retryTimes; attempt++ {
		ok, err := l.client.SetNX(ctx, l.key, l.token, l.ttl).Result()
		if err != nil {
			l.log.Error("Lock acquisition failed",
				"key", l.key,
				"error", err,
			)
			return false
		}
		if ok {
			l.acquired = true
			return true
		}

		if attempt == l.retryTimes {
			break
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(l.retryDelay):
		}
	}

	return false
}

// Release gives the lease back. Returns false when the lease was never
// acquired, has expired, or is now held by another token.
func (l *Lock) Release(ctx context.Context) bool {
	if !l.acquired {
		return false
	}
	l.acquired = false

	res, err := releaseCmd.Run(ctx, l.client, []string{l.key}, l.token).Int()
	if err != nil {
		l.log.Error("Lock release failed",
			"key", l.key,
			"error", err,
		)
		return false
	}

	return res == 1
}

// Extend pushes the lease deadline out by ttl. Returns false when the
// lease is no longer ours.
func (l *Lock) Extend(ctx context.Context, ttl time.Duration) bool {
	if !l.acquired {
		return false
	}

	res, err := extendCmd.Run(ctx, l.client, []string{l.key}, l.token, ttl.Milliseconds()).Int()
	if err != nil {
		l.log.Error("Lock extend failed",
			"key", l.key,
			"error", err,
		)
		return false
	}

	if res != 1 {
		l.acquired = false
		return false
	}
	return true
}

// Token exposes the holder identity, mainly for diagnostics.
func (l *Lock) Token() string {
	return l.token
}

func newToken() string {
	return uuid.NewString()
}
