// Package ratelimit provides a per-client token bucket limiter keyed by
// client IP. This is the in-process variant; it is not distributed.
package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"veridoc/pkg/platform/middleware/metadata"
)

// Limiter tracks one token bucket per client IP. Idle buckets are evicted
// so the map does not grow without bound.
type Limiter struct {
	mu       sync.Mutex
	clients  map[string]*client
	rps      rate.Limit
	burst    int
	idleTTL  time.Duration
	lastScan time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New creates a limiter allowing rps requests per second with the given
// burst per client IP.
func New(rps float64, burst int) *Limiter {
	return &Limiter{
		clients: make(map[string]*client),
		rps:     rate.Limit(rps),
		burst:   burst,
		idleTTL: 10 * time.Minute,
	}
}

// Allow reports whether a request from ip may proceed.
func (l *Limiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastScan) > l.idleTTL {
		for k, c := range l.clients {
			if now.Sub(c.lastSeen) > l.idleTTL {
				delete(l.clients, k)
			}
		}
		l.lastScan = now
	}

	c, ok := l.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.Allow()
}

// Middleware rejects requests over the per-IP budget with 429.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := metadata.ClientIPFromRequest(r)
		if !l.Allow(ip) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate_limited","error_description":"too many requests"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
