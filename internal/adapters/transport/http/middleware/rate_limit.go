package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// NewRateLimitPerIP limits requests per client IP with an expiring LRU cache,
// so idle entries age out on their own.
func NewRateLimitPerIP(limit, burst, cacheSize int, entryTTL time.Duration) gin.HandlerFunc {
	visitors := lru.NewLRU[string, *rate.Limiter](cacheSize, nil, entryTTL)

	return func(c *gin.Context) {
		host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
		if err != nil {
			host = c.Request.RemoteAddr
		}

		lim, found := visitors.Get(host)
		if !found {
			lim = rate.NewLimiter(rate.Limit(limit), burst)
			visitors.Add(host, lim)
		}

		if !lim.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
