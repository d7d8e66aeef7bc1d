// internal/middleware/rate_limit.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ipLimiter keeps one token bucket per client IP. Idle clients are
// evicted so the map does not grow with every storefront visitor.
type ipLimiter struct {
	clients map[string]*clientBucket
	mtx     sync.Mutex
	rate    rate.Limit
	burst   int
}

type clientBucket struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(r rate.Limit, burst int) *ipLimiter {
	l := &ipLimiter{
		clients: make(map[string]*clientBucket),
		rate:    r,
		burst:   burst,
	}
	go l.evictIdle()
	return l
}

func (l *ipLimiter) evictIdle() {
	for {
		time.Sleep(time.Minute)
		l.mtx.Lock()
		for ip, c := range l.clients {
			if time.Since(c.lastSeen) > 3*time.Minute {
				delete(l.clients, ip)
			}
		}
		l.mtx.Unlock()
	}
}

func (l *ipLimiter) bucketFor(ip string) *rate.Limiter {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	c, ok := l.clients[ip]
	if !ok {
		c = &clientBucket{bucket: rate.NewLimiter(l.rate, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = time.Now()
	return c.bucket
}

func (l *ipLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.bucketFor(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Tiers: the catalog takes browsing traffic, login is brute-force bait,
// and a single asset batch can move tens of megabytes.
var (
	generalLimiter = newIPLimiter(rate.Every(time.Second/15), 30)
	authLimiter    = newIPLimiter(rate.Every(12*time.Second), 5)
	uploadLimiter  = newIPLimiter(rate.Every(20*time.Second), 3)
)

func GeneralRateLimit() gin.HandlerFunc { return generalLimiter.middleware() }

func AuthRateLimit() gin.HandlerFunc { return authLimiter.middleware() }

func UploadRateLimit() gin.HandlerFunc { return uploadLimiter.middleware() }
