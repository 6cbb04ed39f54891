// Package cache is a thin JSON read-through cache over Redis. Reads
// and writes are best-effort: a cache outage degrades to hitting the
// database, never to failing the request. Deletes report their outcome
// so callers can log when an invalidation did not land.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/logger"
)

// Key builders shared by the services so every reader and invalidator
// agrees on the same names.
func BookingKey(ref string) string {
	return "booking:" + ref
}

func HistoryKey(ref string) string {
	return "booking_history:" + ref
}

func RouteKey(origin, destination, date string) string {
	return "route:" + origin + ":" + destination + ":" + date
}

type Store struct {
	client *redis.Client
	log    *logger.Logger
}

func NewStore(client *redis.Client, log *logger.Logger) *Store {
	return &Store{client: client, log: log}
}

// Get unmarshals the cached value into dest and reports whether it was
// found. Corrupt entries are dropped and treated as misses.
func (s *Store) Get(ctx context.Context, key string, dest any) bool {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("Cache read failed", "key", key, "error", err)
		}
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		s.log.Warn("Cache entry corrupt, dropping", "key", key, "error", err)
		s.client.Del(ctx, key)
		return false
	}

	return true
}

func (s *Store) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.log.Warn("Cache value not serializable", "key", key, "error", err)
		return
	}

	if err := s.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		s.log.Warn("Cache write failed", "key", key, "error", err)
	}
}

// Delete removes the given keys and reports whether the store
// confirmed the invalidation.
func (s *Store) Delete(ctx context.Context, keys ...string) bool {
	if len(keys) == 0 {
		return true
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		s.log.Error("Cache invalidation failed", "keys", keys, "error", err)
		return false
	}
	return true
}
