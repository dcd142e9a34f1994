package kirvano

import "time"

const (
	defaultMaxBodyBytes      = 256 * 1024
	defaultRateLimitRequests = 100
	defaultRateLimitWindow   = time.Minute
)

// Config holds configuration for the webhook Handler. The zero value is
// usable: every field is optional and defaults to a safe no-op.
type Config struct {
	// Token is the shared secret agreed with Kirvano. When empty, every
	// request is accepted unconditionally (development mode). When set,
	// requests carrying a token are validated against it; requests carrying
	// no token at all are still accepted. That bypass matches the deployed
	// Kirvano setup and is pinned by tests rather than silently fixed.
	Token string

	// Notifier delivers admin alerts and event summaries.
	// If nil, notifications are silently dropped.
	Notifier Notifier

	// Logger receives structured logs. If nil, logging is disabled.
	Logger Logger

	// Metrics is an optional metrics collector for webhook operations.
	// If nil, metrics are silently ignored (no-op).
	// Use metrics/prometheus.NewMetrics for Prometheus metrics.
	Metrics Metrics

	// MaxBodyBytes caps the accepted request body size.
	// Defaults to 256KB, a safe upper bound for Kirvano payloads.
	MaxBodyBytes int64

	// RateLimitRequests and RateLimitWindow bound per-IP traffic on the
	// webhook routes. Defaults: 100 requests per minute.
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.Notifier == nil {
		out.Notifier = NoopNotifier{}
	}
	if out.Logger == nil {
		out.Logger = &NoopLogger{}
	}
	if out.Metrics == nil {
		out.Metrics = &NoopMetrics{}
	}
	if out.MaxBodyBytes <= 0 {
		out.MaxBodyBytes = defaultMaxBodyBytes
	}
	if out.RateLimitRequests <= 0 {
		out.RateLimitRequests = defaultRateLimitRequests
	}
	if out.RateLimitWindow <= 0 {
		out.RateLimitWindow = defaultRateLimitWindow
	}
	return out
}
