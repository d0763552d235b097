package handler

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// limiterIdleAfter is how long a client may be silent before its limiter
// state is dropped by the reaper.
const limiterIdleAfter = 10 * time.Minute

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("handled request")
	})
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter is a per-remote-address token bucket. Idle entries are
// swept by the periodic reaper rather than on the request path.
type clientLimiter struct {
	perMinute int

	mu      sync.Mutex
	clients map[string]*clientEntry

	now func() time.Time
}

func newClientLimiter(perMinute int) *clientLimiter {
	return &clientLimiter{
		perMinute: perMinute,
		clients:   make(map[string]*clientEntry),
		now:       time.Now,
	}
}

func (c *clientLimiter) allow(addr string) bool {
	if c.perMinute <= 0 {
		return true
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.clients[host]
	if !ok {
		entry = &clientEntry{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(c.perMinute)), c.perMinute),
		}
		c.clients[host] = entry
	}
	entry.lastSeen = c.now()

	return entry.limiter.Allow()
}

func (c *clientLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !c.allow(r.RemoteAddr) {
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Reap drops limiter state for clients idle longer than limiterIdleAfter.
func (c *clientLimiter) Reap(ctx context.Context) int {
	cutoff := c.now().Add(-limiterIdleAfter)

	c.mu.Lock()
	defer c.mu.Unlock()

	reaped := 0
	for host, entry := range c.clients {
		if entry.lastSeen.Before(cutoff) {
			delete(c.clients, host)
			reaped++
		}
	}

	return reaped
}
