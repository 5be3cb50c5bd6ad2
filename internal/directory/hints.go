package directory

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	hintKeyPrefix = "golibadmin:directory:"

	// hintKeyBindFormat stores the last admin bind format that succeeded.
	hintKeyBindFormat = "bind_format"
	// hintKeyDiscovery stores the unix time of the last discovery attempt.
	hintKeyDiscovery = "discovery_at"

	hintTimeout = 500 * time.Millisecond
)

// HintStore shares best-effort hints between processes (preferred bind format,
// last discovery attempt). Losing a hint only costs a retry, so implementations
// swallow their errors.
type HintStore interface {
	Get(key string) (string, bool)
	Set(key, value string, ttl time.Duration)
}

// RedisHints is a HintStore backed by Redis. A nil client disables it.
type RedisHints struct {
	rdb *redis.Client
}

// NewRedisHints creates a Redis backed hint store.
func NewRedisHints(rdb *redis.Client) *RedisHints {
	return &RedisHints{rdb: rdb}
}

// Get returns the hint stored under key.
func (h *RedisHints) Get(key string) (string, bool) {
	if h == nil || h.rdb == nil {
		return "", false
	}

	ctx, cancel := context.WithTimeout(context.Background(), hintTimeout)
	defer cancel()

	val, err := h.rdb.Get(ctx, hintKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}

	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("directory hint lookup failed")
		return "", false
	}

	return val, true
}

// Set stores a hint. A zero ttl keeps it until overwritten.
func (h *RedisHints) Set(key, value string, ttl time.Duration) {
	if h == nil || h.rdb == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), hintTimeout)
	defer cancel()

	if err := h.rdb.Set(ctx, hintKeyPrefix+key, value, ttl).Err(); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("directory hint write failed")
	}
}
