package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	apperrors "laurent/pkg/errors"
	httputil "laurent/pkg/http"
	"laurent/pkg/logger"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientRateLimiter keeps one token bucket per client IP. limit requests are
// allowed per window, refilled evenly.
type ClientRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	every    rate.Limit
	burst    int
	idle     time.Duration
	log      *logger.Logger
	stopCh   chan struct{}
	once     sync.Once
}

func NewClientRateLimiter(limit int, window time.Duration, log *logger.Logger) *ClientRateLimiter {
	rl := &ClientRateLimiter{
		visitors: make(map[string]*visitor),
		every:    rate.Every(window / time.Duration(limit)),
		burst:    limit,
		idle:     window * 2,
		log:      log,
		stopCh:   make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

func (rl *ClientRateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.every, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *ClientRateLimiter) Allow(ip string) bool {
	return rl.getLimiter(ip).Allow()
}

func (rl *ClientRateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for ip, v := range rl.visitors {
				if time.Since(v.lastSeen) > rl.idle {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *ClientRateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stopCh) })
}

// RateLimit throttles the requests for which applies returns true.
func RateLimit(rl *ClientRateLimiter, applies func(*http.Request) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if applies != nil && !applies(r) {
				next.ServeHTTP(w, r)
				return
			}

			ip := ClientIP(r)
			if !rl.Allow(ip) {
				rl.log.Warn("Rate limit exceeded",
					"request_id", RequestID(r),
					"client_ip", ip,
					"path", r.URL.Path,
				)
				w.Header().Set("Retry-After", "60")
				_ = httputil.WriteJSON(w, http.StatusTooManyRequests, apperrors.ErrorResponse{
					Error: "Too many requests. Please try again later.",
					Code:  "RATE_LIMITED",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP prefers the first X-Forwarded-For hop, then the connection address.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
