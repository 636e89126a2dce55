package middleware

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiter enforces a fixed-window request limit per client address.
// When a Redis client is provided the counters live in Redis, so the limit
// holds across instances; otherwise an in-process table is used.
// Redis failures degrade open: the request is allowed and a warning logged.
type RateLimiter struct {
	maxRequests int
	window      time.Duration
	redis       *redis.Client
	logger      *zap.Logger

	mu      sync.Mutex
	local   map[string]*windowCounter
	nowFunc func() time.Time
}

type windowCounter struct {
	windowStart int64
	count       int
}

// NewRateLimiter creates a rate limiter. redisClient may be nil.
func NewRateLimiter(maxRequests int, window time.Duration, redisClient *redis.Client, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		redis:       redisClient,
		logger:      logger,
		local:       make(map[string]*windowCounter),
		nowFunc:     time.Now,
	}
}

// Handler wraps next with rate limiting keyed by client IP.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		allowed, err := rl.allow(r, ip)
		if err != nil {
			rl.logger.Warn("Rate limit check failed, allowing request",
				zap.String("client_ip", ip),
				zap.Error(err))
			allowed = true
		}

		if !allowed {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error":      "too_many_requests",
				"message":    "Too many requests",
				"retryAfter": int(rl.window.Seconds()),
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allow counts the request against the client's current window.
func (rl *RateLimiter) allow(r *http.Request, ip string) (bool, error) {
	windowStart := rl.nowFunc().Unix() / int64(rl.window.Seconds())

	if rl.redis != nil {
		key := fmt.Sprintf("ratelimit:%s:%d", ip, windowStart)
		count, err := rl.redis.Incr(r.Context(), key).Result()
		if err != nil {
			return false, fmt.Errorf("redis incr: %w", err)
		}
		if count == 1 {
			if err := rl.redis.Expire(r.Context(), key, rl.window).Err(); err != nil {
				return false, fmt.Errorf("redis expire: %w", err)
			}
		}
		return count <= int64(rl.maxRequests), nil
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.local[ip]
	if !ok || c.windowStart != windowStart {
		c = &windowCounter{windowStart: windowStart}
		rl.local[ip] = c
	}
	c.count++

	// Lazy cleanup of expired windows keeps the table bounded.
	if len(rl.local) > 10000 {
		for k, v := range rl.local {
			if v.windowStart != windowStart {
				delete(rl.local, k)
			}
		}
	}

	return c.count <= rl.maxRequests, nil
}

// clientIP extracts the client address, preferring X-Forwarded-For when set.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// First entry is the originating client.
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
