package middleware

import (
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"FinSight/internal/service/ratelimit"
	xhttp "FinSight/pkg/http"
	"FinSight/pkg/logger"
)

// idleBucketTTL is how long a client's bucket survives without requests.
const idleBucketTTL = 10 * time.Minute

// RateLimit throttles requests per client IP. Requests over the limit get
// 429 and never reach the pipeline.
func RateLimit(limiter *ratelimit.Limiter, l *logger.Logger) echo.MiddlewareFunc {
	var (
		mu        sync.Mutex
		lastPrune = time.Now()
	)
	prune := func() {
		mu.Lock()
		defer mu.Unlock()
		if time.Since(lastPrune) < idleBucketTTL {
			return
		}
		lastPrune = time.Now()
		if n := limiter.Prune(idleBucketTTL); n > 0 {
			l.Debug("rate limit buckets pruned", logger.Int("count", n))
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			prune()
			ip := c.RealIP()
			if !limiter.Allow(ip) {
				l.Warn("rate limit exceeded",
					logger.String("remote_ip", ip),
					logger.String("path", c.Path()),
				)
				return xhttp.TooManyRequestsResponse(c)
			}
			return next(c)
		}
	}
}
