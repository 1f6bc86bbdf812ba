package ratelimit

import (
	"sync"
	"time"
)

// Config holds rate limiting configuration
type Config struct {
	RequestsPerSecond int `json:"requestsPerSecond"`
	MaxRetries        int `json:"maxRetries"`
	InitialBackoffMs  int `json:"initialBackoffMs"`
	MaxBackoffMs      int `json:"maxBackoffMs"`
}

// DefaultConfig returns the default rate limit configuration
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 2,
		MaxRetries:        3,
		InitialBackoffMs:  100,
		MaxBackoffMs:      30000,
	}
}

// RateLimiter spaces outgoing requests to respect a requests-per-second
// budget. Safe for concurrent use.
type RateLimiter struct {
	mu          sync.Mutex
	config      Config
	lastRequest time.Time
}

// NewRateLimiter creates a new rate limiter with the given config
func NewRateLimiter(config Config) *RateLimiter {
	return &RateLimiter{config: config}
}

// SetConfig updates the configuration
func (r *RateLimiter) SetConfig(config Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.config = config
}

// Throttle blocks until the next request is allowed to go out.
func (r *RateLimiter) Throttle() {
	r.mu.Lock()
	rps := r.config.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	minInterval := time.Second / time.Duration(rps)
	wait := minInterval - time.Since(r.lastRequest)
	r.mu.Unlock()

	if wait > 0 {
		time.Sleep(wait)
	}

	r.mu.Lock()
	r.lastRequest = time.Now()
	r.mu.Unlock()
}

// Reset clears the limiter state, e.g. after a long pause.
func (r *RateLimiter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastRequest = time.Time{}
}
