package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"finitefield.org/bizcenter-web/internal/observability"
)

// RateLimiter keeps one token bucket per client key.
type RateLimiter struct {
	rate       rate.Limit
	burst      int
	idle       time.Duration
	sweepEvery time.Duration
	mu         sync.Mutex
	clients    map[string]*client
	lastSweep  time.Time
	now        func() time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyFunc extracts the bucket key of a request.
type KeyFunc func(r *http.Request) string

// NewRateLimiter returns a limiter allowing r events per second with burst.
func NewRateLimiter(r rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{
		rate:       r,
		burst:      burst,
		idle:       10 * time.Minute,
		sweepEvery: time.Minute,
		clients:    map[string]*client{},
		now:        time.Now,
	}
}

// PerMinute converts a per-minute budget into a rate.Limit.
func PerMinute(n int) rate.Limit {
	if n <= 0 {
		return rate.Inf
	}
	return rate.Every(time.Minute / time.Duration(n))
}

// Allow consumes one token for key.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	l.sweep(now)
	return c.limiter.AllowN(now, 1)
}

// sweep drops buckets idle for longer than l.idle, at most once per
// l.sweepEvery. Callers hold l.mu.
func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.sweepEvery {
		return
	}
	l.lastSweep = now
	for k, c := range l.clients {
		if now.Sub(c.lastSeen) > l.idle {
			delete(l.clients, k)
		}
	}
}

// Middleware rejects requests over budget with 429.
func (l *RateLimiter) Middleware(key KeyFunc) func(http.Handler) http.Handler {
	if key == nil {
		key = ClientIP
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if !l.Allow(k) {
				observability.FromContext(r.Context()).Warn("rate limited", zap.String("key", k))
				if l.rate > 0 && l.rate != rate.Inf {
					w.Header().Set("Retry-After", strconv.Itoa(int(time.Duration(float64(time.Second)/float64(l.rate)).Seconds()+0.5)))
				}
				writeError(w, r, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
