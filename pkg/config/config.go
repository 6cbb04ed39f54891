package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/client"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	RedisURL         string
	RedisConnTimeout time.Duration

	Port string

	LockTTL        time.Duration
	LockRetryTimes int
	LockRetryDelay time.Duration

	CacheTTL      time.Duration
	RouteCacheTTL time.Duration

	KafkaBrokers     []string
	KafkaEventsTopic string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout  time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		RedisURL:         getEnvStr(EnvRedisURL, DefaultRedisURL),
		RedisConnTimeout: getEnvDuration(EnvRedisConnTimeout, DefaultRedisConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		LockTTL:        getEnvDuration(EnvLockTTL, DefaultLockTTL),
		LockRetryTimes: getEnvNum(EnvLockRetryTimes, DefaultLockRetryTimes),
		LockRetryDelay: getEnvDuration(EnvLockRetryDelay, DefaultLockRetryDelay),

		CacheTTL:      getEnvDuration(EnvCacheTTL, DefaultCacheTTL),
		RouteCacheTTL: getEnvDuration(EnvRouteCacheTTL, DefaultRouteCacheTTL),

		KafkaBrokers:     getEnvList(EnvKafkaBrokers),
		KafkaEventsTopic: getEnvStr(EnvKafkaEventsTopic, ""),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout:  getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.New(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetRedis() {
	cfg.Client.SetRedis(cfg.Log, cfg.RedisURL, cfg.RedisConnTimeout)
}

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errs = append(errs, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errs = append(errs, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		errs = append(errs, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if cfg.RedisURL == "" {
		errs = append(errs, "RedisURL cannot be empty")
	} else if !strings.HasPrefix(cfg.RedisURL, "redis://") && !strings.HasPrefix(cfg.RedisURL, "rediss://") {
		errs = append(errs, fmt.Sprintf("RedisURL must start with 'redis://' or 'rediss://', got: %s", cfg.RedisURL))
	}
	if cfg.RedisConnTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("RedisConnTimeout must be positive, got: %s", cfg.RedisConnTimeout))
	}

	if cfg.LockTTL <= 0 {
		errs = append(errs, fmt.Sprintf("LockTTL must be positive, got: %s", cfg.LockTTL))
	}
	if cfg.LockRetryTimes <= 0 {
		errs = append(errs, fmt.Sprintf("LockRetryTimes must be positive, got: %d", cfg.LockRetryTimes))
	}
	if cfg.LockRetryDelay <= 0 {
		errs = append(errs, fmt.Sprintf("LockRetryDelay must be positive, got: %s", cfg.LockRetryDelay))
	}

	if cfg.CacheTTL <= 0 {
		errs = append(errs, fmt.Sprintf("CacheTTL must be positive, got: %s", cfg.CacheTTL))
	}
	if cfg.RouteCacheTTL <= 0 {
		errs = append(errs, fmt.Sprintf("RouteCacheTTL must be positive, got: %s", cfg.RouteCacheTTL))
	}

	if cfg.RateLimitRequests <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RateLimitWindow <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}

	if cfg.RequestTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.ReadTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.KafkaEventsTopic != "" && len(cfg.KafkaBrokers) == 0 {
		errs = append(errs, "KafkaEventsTopic is set but KafkaBrokers is empty")
	}

	if len(errs) > 0 {
		msg := "Configuration validation failed:\n"
		for i, e := range errs {
			msg += fmt.Sprintf("  %d. %s\n", i+1, e)
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"redis_url", redactURI(cfg.RedisURL),
		"redis_conn_timeout", cfg.RedisConnTimeout,
		"port", cfg.Port,
		"lock_ttl", cfg.LockTTL,
		"lock_retry_times", cfg.LockRetryTimes,
		"lock_retry_delay", cfg.LockRetryDelay,
		"cache_ttl", cfg.CacheTTL,
		"route_cache_ttl", cfg.RouteCacheTTL,
		"kafka_brokers", cfg.KafkaBrokers,
		"kafka_events_topic", cfg.KafkaEventsTopic,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

var credentialRegex = regexp.MustCompile(`^(\w+(\+srv)?://)[^@/]+@`)

func redactURI(uri string) string {
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	if limit > DefaultPaginationLimit {
		return DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
