package ratelimit

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter paces browser sessions per target host.
type HostLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	defaults RateLimitConfig
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultConfig allows one session every two seconds per host.
func DefaultConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 0.5,
		BurstSize:         1,
	}
}

func NewHostLimiter(config RateLimitConfig) *HostLimiter {
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: config,
	}
}

func NewHostLimiterWithDefaults() *HostLimiter {
	return NewHostLimiter(DefaultConfig())
}

func (h *HostLimiter) GetLimiter(host string) *rate.Limiter {
	host = normalizeHost(host)

	h.mu.RLock()
	limiter, exists := h.limiters[host]
	h.mu.RUnlock()

	if exists {
		return limiter
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if limiter, exists = h.limiters[host]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Limit(h.defaults.RequestsPerSecond), h.defaults.BurstSize)
	h.limiters[host] = limiter
	return limiter
}

func (h *HostLimiter) SetHostLimit(host string, rps float64, burst int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.limiters[normalizeHost(host)] = rate.NewLimiter(rate.Limit(rps), burst)
}

// Wait blocks until a session against the host of target may start.
// target may be a full URL or a bare host.
func (h *HostLimiter) Wait(ctx context.Context, target string) error {
	return h.GetLimiter(HostOf(target)).Wait(ctx)
}

func HostOf(target string) string {
	if u, err := url.Parse(target); err == nil && u.Host != "" {
		return u.Hostname()
	}
	return target
}

func normalizeHost(host string) string {
	return strings.ToLower(strings.TrimSpace(host))
}
