package httpmiddleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"
)

// RateLimitConfig configures the per-client rate limiter.
type RateLimitConfig struct {
	// Max is the number of requests allowed per window.
	Max int
	// Window is the fixed window duration.
	Window time.Duration
}

// rateLimiter counts requests per client IP over fixed windows.
type rateLimiter struct {
	cfg RateLimitConfig

	mu      sync.Mutex
	clients map[string]*windowCounter
}

type windowCounter struct {
	windowStart time.Time
	count       int
}

func newRateLimiter(cfg RateLimitConfig) *rateLimiter {
	return &rateLimiter{
		cfg:     cfg,
		clients: make(map[string]*windowCounter),
	}
}

// allow reports whether a request from key fits in the current window.
func (l *rateLimiter) allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	wc, ok := l.clients[key]
	if !ok || now.Sub(wc.windowStart) >= l.cfg.Window {
		l.clients[key] = &windowCounter{windowStart: now, count: 1}
		return true
	}

	if wc.count >= l.cfg.Max {
		return false
	}
	wc.count++
	return true
}

// cleanup drops counters whose window has long expired.
func (l *rateLimiter) cleanup(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, wc := range l.clients {
		if now.Sub(wc.windowStart) >= 2*l.cfg.Window {
			delete(l.clients, key)
		}
	}
}

// clientKey extracts the client IP, ignoring the port.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit returns a middleware limiting each client IP to cfg.Max requests
// per cfg.Window. Rejected requests get 429 Too Many Requests.
func RateLimit(cfg RateLimitConfig) Middleware {
	return rateLimitWith(newRateLimiter(cfg))
}

// RateLimitWithCleanup is RateLimit plus a background goroutine that evicts
// stale client counters until ctx is cancelled.
func RateLimitWithCleanup(ctx context.Context, cfg RateLimitConfig) Middleware {
	l := newRateLimiter(cfg)

	go func() {
		ticker := time.NewTicker(cfg.Window)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				l.cleanup(now)
			}
		}
	}()

	return rateLimitWith(l)
}

func rateLimitWith(l *rateLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(clientKey(r), time.Now()) {
				w.Header().Set("Retry-After", l.cfg.Window.String())
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
