// Package ratelimit bounds how often a client may submit the lead form.
//
// The in-memory store only bounds abuse per running instance; replicas do not
// share counters unless the Redis store is configured.
package ratelimit

import (
	"context"
	"time"

	"github.com/wolfman30/reluguard-site/internal/observability/metrics"
)

// Limiter decides whether a request identified by key is admitted.
type Limiter interface {
	Admit(ctx context.Context, key string) bool
}

// Config holds the fixed-window parameters.
type Config struct {
	Window time.Duration
	Quota  int
}

// DefaultConfig returns the lead form limits: 8 requests per minute.
func DefaultConfig() Config {
	return Config{
		Window: time.Minute,
		Quota:  8,
	}
}

func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.Window <= 0 {
		c.Window = def.Window
	}
	if c.Quota <= 0 {
		c.Quota = def.Quota
	}
	return c
}

// Observed records every decision made by next.
func Observed(next Limiter, m *metrics.SiteMetrics) Limiter {
	if m == nil {
		return next
	}
	return &observedLimiter{next: next, metrics: m}
}

type observedLimiter struct {
	next    Limiter
	metrics *metrics.SiteMetrics
}

func (o *observedLimiter) Admit(ctx context.Context, key string) bool {
	ok := o.next.Admit(ctx, key)
	o.metrics.ObserveRateLimit(ok)
	return ok
}
