package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/time/rate"
)

// maxTrackedClients bounds the limiter cache; the least recently seen
// client is evicted first, so an evicted client simply starts over
// with a full budget.
const maxTrackedClients = 4096

// RateLimit caps how often a single client may hit the wrapped routes.
// Mutations are user-triggered one at a time, so the per-client budget
// can be small; a client over budget gets 429 instead of queueing.
func RateLimit(perSecond float64, burst int) gin.HandlerFunc {
	var mu sync.Mutex
	limiters, _ := lru.New(maxTrackedClients)

	limiterFor := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		if v, ok := limiters.Get(key); ok {
			return v.(*rate.Limiter)
		}
		l := rate.NewLimiter(rate.Limit(perSecond), burst)
		limiters.Add(key, l)
		return l
	}

	return func(c *gin.Context) {
		if !limiterFor(c.ClientIP()).Allow() {
			c.String(http.StatusTooManyRequests, "Too many requests, slow down.")
			c.Abort()
			return
		}
		c.Next()
	}
}
