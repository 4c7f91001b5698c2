package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/cvmfinance/orcr-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter throttles requests per client IP
type RateLimiter struct {
	mu         sync.Mutex
	limiters   map[string]*visitor
	rate       rate.Limit
	burst      int
	idle       time.Duration
	pruneEvery time.Duration
	lastPrune  time.Time
	now        func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows perMinute requests per IP per minute, with bursts of the same size
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return &RateLimiter{
		limiters:   make(map[string]*visitor),
		rate:       rate.Every(time.Minute / time.Duration(perMinute)),
		burst:      perMinute,
		idle:       10 * time.Minute,
		pruneEvery: time.Minute,
		now:        time.Now,
	}
}

// Allow reports whether key may make another request now
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, exists := rl.limiters[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = v
	}
	v.lastSeen = now

	if now.Sub(rl.lastPrune) >= rl.pruneEvery {
		rl.prune(now)
	}

	return v.limiter.AllowN(now, 1)
}

// prune drops visitors idle for longer than rl.idle. Callers hold rl.mu.
func (rl *RateLimiter) prune(now time.Time) {
	for k, v := range rl.limiters {
		if now.Sub(v.lastSeen) > rl.idle {
			delete(rl.limiters, k)
		}
	}
	rl.lastPrune = now
}

// Handler returns the gin middleware; a tripped limiter answers 429
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !rl.Allow(key) {
			logger.FromContext(c.Request.Context()).Warn("rate limit exceeded",
				"ip", key, "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many attempts, please try again later",
			})
			return
		}
		c.Next()
	}
}
