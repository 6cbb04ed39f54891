package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvRedisURL         = "REDIS_URL"
	EnvRedisConnTimeout = "REDIS_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvLockTTL        = "LOCK_TTL"
	EnvLockRetryTimes = "LOCK_RETRY_TIMES"
	EnvLockRetryDelay = "LOCK_RETRY_DELAY"

	EnvCacheTTL      = "CACHE_TTL"
	EnvRouteCacheTTL = "ROUTE_CACHE_TTL"

	EnvKafkaBrokers     = "KAFKA_BROKERS"
	EnvKafkaEventsTopic = "KAFKA_EVENTS_TOPIC"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout  = "REQUEST_TIMEOUT"
	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
