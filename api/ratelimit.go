package api

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/rpupo63/portfolio-backend/errs"
)

// rateLimiter keeps one token bucket per client IP.
type rateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*visitor
	rate     rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time

	trustProxy bool
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newRateLimiter(requestsPerMinute, burst int, ttl time.Duration) *rateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 1
	}
	return &rateLimiter{
		limiters: make(map[string]*visitor),
		rate:     rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (rl *rateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, exists := rl.limiters[ip]
	if !exists {
		rl.evict(now)
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// evict drops idle visitors. Callers hold mu.
func (rl *rateLimiter) evict(now time.Time) {
	for ip, v := range rl.limiters {
		if now.Sub(v.lastSeen) > rl.ttl {
			delete(rl.limiters, ip)
		}
	}
}

func (rl *rateLimiter) middleware(responder Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := rl.getLimiter(clientIP(r, rl.trustProxy))
			reservation := limiter.ReserveN(rl.now(), 1)
			if delay := reservation.DelayFrom(rl.now()); delay > 0 {
				reservation.CancelAt(rl.now())
				retryAfter := int(math.Ceil(delay.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				responder.WriteError(w, errs.NewRateLimitedError(retryAfter))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the peer address. Behind a trusted proxy the first X-Forwarded-For
// hop wins, then X-Real-IP.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			if ip := strings.TrimSpace(strings.Split(fwd, ",")[0]); ip != "" {
				return ip
			}
		}
		if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
