package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/reluguard-site/pkg/logging"
)

// fixedWindowScript increments the counter and starts its expiry on the first hit.
// KEYS[1] = counter key
// ARGV[1] = key lifetime in milliseconds (window + 1, see Admit)
// Returns the count after increment.
var fixedWindowScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return count
`)

const redisKeyPrefix = "reluguard:rl:"

// RedisStore shares fixed-window counters across instances.
type RedisStore struct {
	redis  *redis.Client
	config Config
	logger *logging.Logger
}

// NewRedisStore creates a Redis-backed limiter. A nil client admits everything.
func NewRedisStore(client *redis.Client, cfg Config, logger *logging.Logger) *RedisStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisStore{
		redis:  client,
		config: cfg.normalized(),
		logger: logger.With("component", "ratelimit.redis"),
	}
}

// Admit increments the counter for key. Redis failures admit the request.
func (s *RedisStore) Admit(ctx context.Context, key string) bool {
	if s.redis == nil {
		return true
	}

	redisKey := fmt.Sprintf("%s%s", redisKeyPrefix, key)
	// The key outlives the window by 1ms so a hit at exactly start+window still
	// counts in the current window, as it does in MemoryStore.
	ttl := s.config.Window.Milliseconds() + 1
	count, err := fixedWindowScript.Run(ctx, s.redis, []string{redisKey}, ttl).Int64()
	if err != nil {
		// Fail open - the lead form must stay usable if Redis is down
		s.logger.Error("rate limit check failed", "error", err, "key", redisKey)
		return true
	}

	if count > int64(s.config.Quota) {
		s.logger.Warn("rate limit exceeded", "key", key, "count", count, "max", s.config.Quota)
		return false
	}
	return true
}
