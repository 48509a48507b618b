package api

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// DefaultWriteLimit is the number of plan writes allowed per client per minute.
	DefaultWriteLimit = 60
	// DefaultWriteBurst is the burst size for plan writes.
	DefaultWriteBurst = 10
	// limiterTTL is how long an idle client's limiter is kept.
	limiterTTL = 10 * time.Minute
)

// WriteLimiter rate-limits mutating requests per client address. Reads are
// never limited; every engine view is a pure computation over a stored plan.
type WriteLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	perSecond rate.Limit
	burst     int
	perMinute int
	log       zerolog.Logger
	now       func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewWriteLimiter creates a limiter allowing perMinute writes with the given
// burst. Non-positive values fall back to the defaults.
func NewWriteLimiter(perMinute, burst int, logger zerolog.Logger) *WriteLimiter {
	if perMinute <= 0 {
		perMinute = DefaultWriteLimit
	}
	if burst <= 0 {
		burst = DefaultWriteBurst
	}
	return &WriteLimiter{
		limiters:  make(map[string]*limiterEntry),
		perSecond: rate.Limit(float64(perMinute) / 60.0),
		burst:     burst,
		perMinute: perMinute,
		log:       logger,
		now:       time.Now,
	}
}

// Allow reports whether the client may write now. Stale limiters are pruned
// on the way.
func (l *WriteLimiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > limiterTTL {
			delete(l.limiters, key)
		}
	}

	entry, ok := l.limiters[client]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.perSecond, l.burst)}
		l.limiters[client] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// Middleware rejects writes over the limit with 429. GET, HEAD and OPTIONS
// pass through.
func (l *WriteLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		client := clientAddr(r)
		if !l.Allow(client) {
			l.log.Warn().Str("client", client).Str("path", r.URL.Path).Msg("write rate limit exceeded")
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", l.perMinute))
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "Too many requests", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
