package middleware

import (
	"sync"
	"time"
)

const (
	// Failed auth attempts allowed per source IP within one window.
	maxInvalidAttempts = 5
	attemptWindow      = time.Minute
	cleanupInterval    = 5 * time.Minute
)

// InvalidAuthRateLimiter throttles repeated failed authentication attempts
// per source IP. Successful requests are never counted, so legitimate
// applications are unaffected.
type InvalidAuthRateLimiter struct {
	mu       sync.Mutex
	failures map[string]*failureWindow
}

type failureWindow struct {
	count   int
	startAt time.Time
}

func NewInvalidAuthRateLimiter() *InvalidAuthRateLimiter {
	rl := &InvalidAuthRateLimiter{
		failures: make(map[string]*failureWindow),
	}
	go rl.cleanup()
	return rl
}

// Allow reports whether ip may register another failed attempt.
func (r *InvalidAuthRateLimiter) Allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	w, ok := r.failures[ip]
	if !ok || now.Sub(w.startAt) > attemptWindow {
		r.failures[ip] = &failureWindow{count: 1, startAt: now}
		return true
	}

	if w.count >= maxInvalidAttempts {
		return false
	}
	w.count++
	return true
}

// cleanup drops expired windows so the map does not grow with one entry per
// scanner IP forever.
func (r *InvalidAuthRateLimiter) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	for range ticker.C {
		r.mu.Lock()
		now := time.Now()
		for ip, w := range r.failures {
			if now.Sub(w.startAt) > attemptWindow {
				delete(r.failures, ip)
			}
		}
		r.mu.Unlock()
	}
}
