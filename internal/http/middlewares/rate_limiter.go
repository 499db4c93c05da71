package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimiter allows limit requests per client in each fixed window and
// answers 429 with Retry-After beyond that. A client is the authenticated
// user when JWTAuth ran first, otherwise the real IP.
func RateLimiter(limit int, window time.Duration) echo.MiddlewareFunc {
	l := &fixedWindow{
		limit:   limit,
		window:  window,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			retryAfter, ok := l.allow(clientKey(c))
			if !ok {
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}

func clientKey(c echo.Context) string {
	if user, ok := CurrentUser(c); ok {
		return "user:" + strconv.FormatUint(uint64(user.ID), 10)
	}
	return "ip:" + c.RealIP()
}

type bucket struct {
	count int
	start time.Time
}

type fixedWindow struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	buckets   map[string]*bucket
	lastSweep time.Time
	now       func() time.Time
}

func (l *fixedWindow) allow(key string) (time.Duration, bool) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok || now.Sub(b.start) > l.window {
		b = &bucket{start: now}
		l.buckets[key] = b
	}

	if b.count >= l.limit {
		return l.window - now.Sub(b.start), false
	}

	b.count++
	return 0, true
}

// sweep drops expired buckets at most once per window.
func (l *fixedWindow) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	for k, b := range l.buckets {
		if now.Sub(b.start) > l.window {
			delete(l.buckets, k)
		}
	}
	l.lastSweep = now
}
