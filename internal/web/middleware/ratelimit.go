package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/JonMunkholm/BloodBank/internal/logging"
)

// RateLimiter is a fixed-window limiter keyed by client IP. Run it after
// TrustedRealIP so RemoteAddr is the client, not the proxy.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int
	window   time.Duration
	now      func() time.Time

	stop chan struct{}
	once sync.Once
}

type visitor struct {
	tokens    int
	lastReset time.Time
}

// NewRateLimiter allows rate requests per window per IP and starts a
// goroutine that evicts idle visitors. Call Close to stop it.
func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// Close stops the eviction goroutine. Safe to call more than once.
func (rl *RateLimiter) Close() {
	rl.once.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.evict()
		}
	}
}

func (rl *RateLimiter) evict() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for ip, v := range rl.visitors {
		if now.Sub(v.lastReset) > rl.window*2 {
			delete(rl.visitors, ip)
		}
	}
}

// allow consumes a token for ip and reports whether one was available.
func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, ok := rl.visitors[ip]
	if !ok || now.Sub(v.lastReset) > rl.window {
		rl.visitors[ip] = &visitor{tokens: rl.rate - 1, lastReset: now}
		return true
	}
	if v.tokens <= 0 {
		return false
	}
	v.tokens--
	return true
}

// Handler rejects over-limit requests with 429 and a Retry-After header.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r.RemoteAddr)
		key := r.RemoteAddr
		if ip != nil {
			key = ip.String()
		}

		if !rl.allow(key) {
			logging.FromContext(r.Context()).Warn("rate limit exceeded", "ip", key, "path", r.URL.Path)
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			writeFailure(w, http.StatusTooManyRequests, "Too many requests", "RATE001")
			return
		}
		next.ServeHTTP(w, r)
	})
}
