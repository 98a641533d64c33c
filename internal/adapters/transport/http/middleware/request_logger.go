package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger logs every request with credentials scrubbed: anything that
// carries tokens, cookies or the gateway secret is redacted.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log.Debug("incoming request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Any("hdr", scrub(c.Request.Header)),
		)

		ts := time.Now()
		c.Next()

		latency := time.Since(ts)
		respStatus := c.Writer.Status()

		if c.IsAborted() {
			log.Warn("aborted",
				zap.Int("status", respStatus),
				zap.Duration("latency", latency),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
			)
			return
		}

		if len(c.Errors) > 0 {
			for _, e := range c.Errors {
				log.Error("handler error",
					zap.Int("status", respStatus),
					zap.Error(e),
					zap.String("path", c.Request.URL.Path),
				)
			}
		}

		log.Info("completed",
			zap.Int("status", respStatus),
			zap.Duration("latency", latency),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
	}
}

func scrub(h http.Header) http.Header {
	clone := h.Clone()
	for k := range clone {
		lower := strings.ToLower(k)
		if strings.Contains(lower, "authorization") ||
			strings.Contains(lower, "cookie") ||
			strings.Contains(lower, "secret") {
			clone[k] = []string{"[redacted]"}
		}
	}
	return clone
}
