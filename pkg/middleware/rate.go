// Package middleware provides the HTTP middleware stack of the cakeshop API.
package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/cakeshop/pkg/response"
)

// window is one client's request count for the current fixed window.
type window struct {
	count   int
	resetAt time.Time
}

// limiter counts requests per client IP in fixed windows. Expired windows
// are swept on access once per window length, so no background goroutine
// is needed.
type limiter struct {
	max    int
	length time.Duration
	now    func() time.Time

	mu        sync.Mutex
	clients   map[string]*window
	nextSweep time.Time
}

func newLimiter(max int, length time.Duration) *limiter {
	return &limiter{max: max, length: length, now: time.Now, clients: map[string]*window{}}
}

// allow records one request from ip. When it is over the limit it also
// returns how long until the window resets.
func (l *limiter) allow(ip string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.After(l.nextSweep) {
		for k, w := range l.clients {
			if now.After(w.resetAt) {
				delete(l.clients, k)
			}
		}
		l.nextSweep = now.Add(l.length)
	}

	w, ok := l.clients[ip]
	if !ok || now.After(w.resetAt) {
		w = &window{resetAt: now.Add(l.length)}
		l.clients[ip] = w
	}
	w.count++
	if w.count > l.max {
		return false, w.resetAt.Sub(now)
	}
	return true, 0
}

// RateLimit allows each client IP max requests per window and answers the
// rest with 429 and a Retry-After header.
func RateLimit(max int, window time.Duration) func(http.Handler) http.Handler {
	l := newLimiter(max, window)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, retry := l.allow(clientIP(r))
			if !ok {
				secs := int(retry.Round(time.Second) / time.Second)
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				response.Error(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the first X-Forwarded-For hop, then RemoteAddr without port.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
