package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/casalabia/realtor-backend/internal/logger"
)

// RateLimiter keeps a token bucket per authenticated user. Buckets idle for
// an hour are dropped to keep the map bounded.
type RateLimiter struct {
	log      *logger.Logger
	limit    rate.Limit
	burst    int
	mu       sync.Mutex
	limiters map[uuid.UUID]*userLimiter
}

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(requestsPerMin int, log *logger.Logger) *RateLimiter {
	rl := &RateLimiter{
		log:      log.With("middleware", "RateLimiter"),
		limit:    rate.Limit(float64(requestsPerMin) / 60.0),
		burst:    requestsPerMin,
		limiters: map[uuid.UUID]*userLimiter{},
	}
	go rl.evictLoop()
	return rl
}

// Limit must run after RequireAuth; unauthenticated requests never get here.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
			return
		}
		if !rl.limiterFor(userID).Allow() {
			rl.log.Warn("Rate limit exceeded", "user_id", userID, "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) limiterFor(userID uuid.UUID) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	entry, ok := rl.limiters[userID]
	if !ok {
		entry = &userLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[userID] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

func (rl *RateLimiter) evictLoop() {
	for range time.Tick(10 * time.Minute) {
		cutoff := time.Now().Add(-time.Hour)
		rl.mu.Lock()
		for userID, entry := range rl.limiters {
			if entry.lastSeen.Before(cutoff) {
				delete(rl.limiters, userID)
			}
		}
		rl.mu.Unlock()
	}
}
