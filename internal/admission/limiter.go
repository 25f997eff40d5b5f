// Package admission throttles new sessions and API requests per client
// address with token buckets.
package admission

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Config configures the per-address limiter.
type Config struct {
	PerSecond       float64       // Tokens added per second per address
	Burst           int           // Bucket size
	CleanupInterval time.Duration // How often idle buckets are dropped

	// TrustProxy keys HTTP requests by X-Forwarded-For or X-Real-IP. Only
	// set it behind a proxy that overwrites those headers; otherwise any
	// client can pick its own bucket.
	TrustProxy bool
}

// DefaultConfig allows a short burst of reconnects and then one new
// session every few seconds per address.
var DefaultConfig = Config{
	PerSecond:       0.2,
	Burst:           3,
	CleanupInterval: 5 * time.Minute,
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// Limiter hands out one token bucket per client address.
type Limiter struct {
	buckets  sync.Map // map[string]*entry
	config   Config
	now      func() time.Time
	stopChan chan struct{}
	stopOnce sync.Once

	allowed  atomic.Uint64
	rejected atomic.Uint64
}

// NewLimiter creates a limiter and starts its cleanup loop. Call Stop to
// release it.
func NewLimiter(cfg Config) *Limiter {
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultConfig.CleanupInterval
	}
	l := &Limiter{
		config:   cfg,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Stop ends the cleanup loop.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopChan)
	})
}

func (l *Limiter) bucket(key string) *rate.Limiter {
	now := l.now()
	if v, ok := l.buckets.Load(key); ok {
		e := v.(*entry)
		e.lastSeen.Store(now.UnixNano())
		return e.limiter
	}

	e := &entry{limiter: rate.NewLimiter(rate.Limit(l.config.PerSecond), l.config.Burst)}
	e.lastSeen.Store(now.UnixNano())
	actual, _ := l.buckets.LoadOrStore(key, e)
	return actual.(*entry).limiter
}

// Allow takes a token for key, reporting whether one was available.
func (l *Limiter) Allow(key string) bool {
	if l.bucket(key).AllowN(l.now(), 1) {
		l.allowed.Add(1)
		return true
	}
	l.rejected.Add(1)
	return false
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case <-ticker.C:
			l.cleanup()
		}
	}
}

// cleanup drops buckets idle for two intervals.
func (l *Limiter) cleanup() {
	cutoff := l.now().Add(-2 * l.config.CleanupInterval).UnixNano()
	l.buckets.Range(func(key, value any) bool {
		if value.(*entry).lastSeen.Load() < cutoff {
			l.buckets.Delete(key)
		}
		return true
	})
}

// Stats returns how many requests were allowed and rejected.
func (l *Limiter) Stats() (allowed, rejected uint64) {
	return l.allowed.Load(), l.rejected.Load()
}

// Middleware rejects HTTP requests over the limit with 429.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(ClientIP(r, l.config.TrustProxy)) {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HostOf strips the port from a network address.
func HostOf(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}

// ClientIP extracts the client address from an HTTP request. The proxy
// headers X-Forwarded-For and X-Real-IP are only read when trustProxy is
// set; otherwise the connection's remote address is used.
func ClientIP(r *http.Request, trustProxy bool) string {
	if !trustProxy {
		return remoteHost(r)
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx >= 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return remoteHost(r)
}

func remoteHost(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
