package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/reluguard-site/internal/config"
	"github.com/wolfman30/reluguard-site/internal/observability/metrics"
	"github.com/wolfman30/reluguard-site/internal/ratelimit"
	"github.com/wolfman30/reluguard-site/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available, using in-memory rate limits", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildLeadLimiter picks the shared Redis store when a client is available and
// the per-instance memory store otherwise. The memory store's janitor runs
// until ctx is cancelled when LEAD_RATE_LIMIT_SWEEP is set.
func BuildLeadLimiter(ctx context.Context, cfg *appconfig.Config, redisClient *redis.Client, logger *logging.Logger, m *metrics.SiteMetrics) ratelimit.Limiter {
	if logger == nil {
		logger = logging.Default()
	}
	limits := ratelimit.Config{
		Window: cfg.LeadRateLimitWindow,
		Quota:  cfg.LeadRateLimitMax,
	}

	if redisClient != nil {
		logger.Info("lead rate limit backed by redis", "quota", limits.Quota, "window", limits.Window)
		return ratelimit.Observed(ratelimit.NewRedisStore(redisClient, limits, logger), m)
	}

	store := ratelimit.NewMemoryStore(limits)
	store.StartJanitor(ctx, cfg.LeadRateLimitSweep, logger)
	logger.Info("lead rate limit is per instance", "quota", limits.Quota, "window", limits.Window)
	return ratelimit.Observed(store, m)
}
