package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"sports-cms/internal/handler/http/respond"
	"sports-cms/internal/observability/metrics"
)

// RateLimitConfig configures the per-client token bucket.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per client IP. Zero disables limiting.
	RequestsPerSecond float64
	// Burst is the bucket size. Values below 1 are raised to 1.
	Burst int
	// IdleTTL is how long an unused bucket is kept. Default: 10 minutes.
	IdleTTL time.Duration
	Logger  *slog.Logger
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP taken from RemoteAddr.
// Forwarded headers are ignored since they are client-controlled.
type IPRateLimiter struct {
	cfg RateLimitConfig
	now func() time.Time

	mu        sync.Mutex
	buckets   map[string]*clientBucket
	lastSweep time.Time
}

// NewIPRateLimiter returns a limiter for cfg.
func NewIPRateLimiter(cfg RateLimitConfig) *IPRateLimiter {
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}
	return &IPRateLimiter{
		cfg:     cfg,
		now:     time.Now,
		buckets: make(map[string]*clientBucket),
	}
}

// Enabled reports whether requests are limited at all.
func (rl *IPRateLimiter) Enabled() bool {
	return rl.cfg.RequestsPerSecond > 0
}

// Middleware rejects requests over the limit with 429 and a Retry-After header.
// Every limited response carries X-RateLimit-Limit and X-RateLimit-Remaining.
func (rl *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	if !rl.Enabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r.RemoteAddr)
		allowed, remaining, retryAfter := rl.take(ip)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.cfg.Burst))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if allowed {
			next.ServeHTTP(w, r)
			return
		}

		metrics.RateLimitRejectionsTotal.Inc()
		if rl.cfg.Logger != nil {
			rl.cfg.Logger.Warn("rate limit exceeded",
				slog.String("ip", ip),
				slog.String("path", r.URL.Path),
				slog.Duration("retry_after", retryAfter))
		}
		seconds := int(math.Ceil(retryAfter.Seconds()))
		w.Header().Set("Retry-After", strconv.Itoa(max(seconds, 1)))
		respond.Error(w, http.StatusTooManyRequests, "Too many requests")
	})
}

// take consumes one token for ip.
func (rl *IPRateLimiter) take(ip string) (allowed bool, remaining int, retryAfter time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) > rl.cfg.IdleTTL {
		for key, b := range rl.buckets {
			if now.Sub(b.lastSeen) > rl.cfg.IdleTTL {
				delete(rl.buckets, key)
			}
		}
		rl.lastSweep = now
	}

	b, ok := rl.buckets[ip]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(rate.Limit(rl.cfg.RequestsPerSecond), rl.cfg.Burst)}
		rl.buckets[ip] = b
	}
	b.lastSeen = now

	res := b.limiter.ReserveN(now, 1)
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, 0, delay
	}
	return true, int(b.limiter.TokensAt(now)), 0
}

// Len returns the number of tracked clients.
func (rl *IPRateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
