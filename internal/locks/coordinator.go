// Package locks implements a Redis-backed distributed lock. A lock is
// a key "lock:<resource>" holding a random token; ownership of the
// token is required to release or extend the lease, and the lease TTL
// bounds how long a crashed holder can block others.
package locks

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/logger"
)

const keyPrefix = "lock:"

// Coordinator hands out locks bound to a shared Redis client and
// default retry policy.
type Coordinator struct {
	client     *redis.Client
	ttl        time.Duration
	retryTimes int
	retryDelay time.Duration
	log        *logger.Logger
}

func NewCoordinator(client *redis.Client, ttl time.Duration, retryTimes int, retryDelay time.Duration, log *logger.Logger) *Coordinator {
	return &Coordinator{
		client:     client,
		ttl:        ttl,
		retryTimes: retryTimes,
		retryDelay: retryDelay,
		log:        log,
	}
}

// Lock builds a lease on the named resource with the coordinator's
// default TTL and retry policy. The lock is not acquired yet.
func (c *Coordinator) Lock(resource string) *Lock {
	return c.LockWithTTL(resource, c.ttl)
}

// LockWithTTL is Lock with a caller-chosen lease duration.
func (c *Coordinator) LockWithTTL(resource string, ttl time.Duration) *Lock {
	return &Lock{
		client:     c.client,
		key:        keyPrefix + resource,
		token:      newToken(),
		ttl:        ttl,
		retryTimes: c.retryTimes,
		retryDelay: c.retryDelay,
		log:        c.log,
	}
}
