package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type clientWindow struct {
	start time.Time
	count int
}

var (
	rlMu      sync.Mutex
	rlClients = make(map[string]*clientWindow)
)

// SimpleRateLimit is the in-process fixed-window limiter, used when no
// redis is configured. Per-IP, single instance only.
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()
		RLRequests.WithLabelValues(c.FullPath()).Inc()

		rlMu.Lock()
		cw, ok := rlClients[ip]
		if !ok || now.Sub(cw.start) > window {
			rlClients[ip] = &clientWindow{start: now, count: 1}
			rlMu.Unlock()
			c.Next()
			return
		}
		cw.count++
		count := cw.count
		rlMu.Unlock()

		if count > maxRequests {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		c.Next()
	}
}
