package middleware

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/evonft/go-evonft/util"
)

type ipRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*rate.Limiter
	r        rate.Limit
	b        int
}

func newIPRateLimiter(r rate.Limit, b int) *ipRateLimiter {
	return &ipRateLimiter{
		visitors: map[string]*rate.Limiter{},
		r:        r,
		b:        b,
	}
}

func (l *ipRateLimiter) limiterFor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.visitors[ip]
	if !ok {
		limiter = rate.NewLimiter(l.r, l.b)
		l.visitors[ip] = limiter
	}
	return limiter
}

// RateLimited caps requests per client IP using a token bucket of r
// requests per second with burst b
func RateLimited(r rate.Limit, b int) gin.HandlerFunc {
	limiters := newIPRateLimiter(r, b)
	return func(c *gin.Context) {
		if !limiters.limiterFor(c.ClientIP()).Allow() {
			util.ErrResponse(c, http.StatusTooManyRequests, errRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}

var errRateLimited = errors.New("rate limited")
