package auth

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/santhiya1818/vibescape/apperror"
	"github.com/santhiya1818/vibescape/config"
)

// ipLimiter tracks one token bucket per client IP. Buckets idle for an hour
// are dropped on the next sweep to keep the map bounded.
type ipLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*ipBucket
	rps       rate.Limit
	burst     int
	lastSweep time.Time
}

type ipBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(cfg *config.RateLimitConfig) *ipLimiter {
	return &ipLimiter{
		limiters:  make(map[string]*ipBucket),
		rps:       rate.Limit(cfg.RequestsPerSecond),
		burst:     cfg.Burst,
		lastSweep: time.Now(),
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastSweep) > time.Hour {
		for key, b := range l.limiters {
			if now.Sub(b.lastSeen) > time.Hour {
				delete(l.limiters, key)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.limiters[ip]
	if !ok {
		b = &ipBucket{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.limiters[ip] = b
	}
	b.lastSeen = now
	return b.limiter.Allow()
}

// RateLimit returns a middleware throttling requests per client IP. It is
// applied to the credential endpoints only, to slow down guessing.
func RateLimit(cfg *config.RateLimitConfig) func(next http.Handler) http.Handler {
	limiter := newIPLimiter(cfg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			if !limiter.allow(ip) {
				WriteError(w, r, apperror.NewTooManyRequestsError("Too many attempts. Try again later.", nil))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
