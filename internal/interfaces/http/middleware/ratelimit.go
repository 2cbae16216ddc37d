package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invoicedash/backend/internal/infrastructure/logger"
	"github.com/invoicedash/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Limiter decides whether a client may make another request in the current window
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, remaining int, err error)
	Limit() int
	Window() time.Duration
}

// RateLimiter is a fixed-window in-memory limiter, one counter per client key
type RateLimiter struct {
	mu          sync.Mutex
	clients     map[string]*client
	limit       int
	window      time.Duration
	cleanupTick time.Duration
	stop        chan struct{}
	stopOnce    sync.Once
}

type client struct {
	tokens    int
	lastReset time.Time
}

var _ Limiter = (*RateLimiter)(nil)

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients:     make(map[string]*client),
		limit:       limit,
		window:      window,
		cleanupTick: window * 2,
		stop:        make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// cleanup removes expired clients periodically
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupTick)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := time.Now()
			for key, c := range rl.clients {
				if now.Sub(c.lastReset) > rl.window*2 {
					delete(rl.clients, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Stop ends the cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Limit returns the number of requests allowed per window
func (rl *RateLimiter) Limit() int {
	return rl.limit
}

// Window returns the length of one limiting window
func (rl *RateLimiter) Window() time.Duration {
	return rl.window
}

// Allow consumes one request for key
func (rl *RateLimiter) Allow(_ context.Context, key string) (bool, int, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	c, exists := rl.clients[key]

	if !exists || now.Sub(c.lastReset) >= rl.window {
		rl.clients[key] = &client{
			tokens:    rl.limit - 1,
			lastReset: now,
		}
		return true, rl.limit - 1, nil
	}

	if c.tokens > 0 {
		c.tokens--
		return true, c.tokens, nil
	}
	return false, 0, nil
}

// Remaining returns the number of remaining requests for the given key
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, exists := rl.clients[key]
	if !exists || time.Since(c.lastReset) >= rl.window {
		return rl.limit
	}
	return c.tokens
}

// Rate limit rejection messages
const (
	rateLimitMessage     = "Too many requests. Please try again later."
	authRateLimitMessage = "Too many authentication attempts. Please try again later."
)

// RateLimit limits requests per client IP
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return limitRequests(limiter, func(c *gin.Context) string {
		return c.ClientIP()
	}, rateLimitMessage)
}

// RateLimitByKey returns a rate limiting middleware with a custom key extractor
func RateLimitByKey(limiter Limiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return limitRequests(limiter, keyFunc, rateLimitMessage)
}

// AuthRateLimit applies the stricter login limit per client IP. Keys are
// prefixed so a shared backend keeps them apart from the global limit.
func AuthRateLimit(limiter Limiter) gin.HandlerFunc {
	return limitRequests(limiter, func(c *gin.Context) string {
		return "auth:" + c.ClientIP()
	}, authRateLimitMessage)
}

// limitRequests lets the request through when the limiter backend fails
func limitRequests(limiter Limiter, keyFunc func(*gin.Context) string, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, err := limiter.Allow(c.Request.Context(), keyFunc(c))
		if err != nil {
			logger.GetGinLogger(c).Warn("Rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(limiter.Window().Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited,
				message,
				GetRequestID(c),
			))
			return
		}
		c.Next()
	}
}
