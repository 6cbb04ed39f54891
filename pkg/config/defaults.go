package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "aircargo"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisURL         = "redis://localhost:6379/0"
	DefaultRedisConnTimeout = 5 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	// Lease held for the duration of a booking mutation. Retries bound the
	// time a caller can block on a contended booking before getting a
	// conflict back (50 x 100ms = 5s worst case).
	DefaultLockTTL        = 10 * time.Second
	DefaultLockRetryTimes = 50
	DefaultLockRetryDelay = 100 * time.Millisecond

	// Booking reads tolerate at most CacheTTL of staleness after a missed
	// invalidation. Flight schedules change rarely, hence the longer TTL.
	DefaultCacheTTL      = 5 * time.Minute
	DefaultRouteCacheTTL = time.Hour

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = time.Minute

	DefaultRequestTimeout  = 30 * time.Second
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 50
)
