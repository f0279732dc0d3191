package middleware

import (
	"net/http"
	"sync"
	"time"
)

// RedemptionRateLimiter rate limits gate scan attempts per client IP so a
// stolen token cannot be brute forced through the redemption endpoint.
type RedemptionRateLimiter struct {
	attempts    map[string][]time.Time
	mutex       sync.RWMutex
	maxAttempts int
	window      time.Duration
}

// NewRedemptionRateLimiter creates a new redemption rate limiter
func NewRedemptionRateLimiter(maxAttempts int, window time.Duration) *RedemptionRateLimiter {
	rl := &RedemptionRateLimiter{
		attempts:    make(map[string][]time.Time),
		maxAttempts: maxAttempts,
		window:      window,
	}

	go rl.cleanup()

	return rl
}

// IsAllowed checks if a scan attempt from the given IP is allowed and
// records it
func (rl *RedemptionRateLimiter) IsAllowed(ip string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	cutoff := now.Add(-rl.window)

	var valid []time.Time
	for _, attempt := range rl.attempts[ip] {
		if attempt.After(cutoff) {
			valid = append(valid, attempt)
		}
	}

	if len(valid) >= rl.maxAttempts {
		rl.attempts[ip] = valid
		return false
	}

	rl.attempts[ip] = append(valid, now)
	return true
}

// cleanup removes stale entries periodically
func (rl *RedemptionRateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mutex.Lock()
		cutoff := time.Now().Add(-rl.window)

		for ip, attempts := range rl.attempts {
			var valid []time.Time
			for _, attempt := range attempts {
				if attempt.After(cutoff) {
					valid = append(valid, attempt)
				}
			}

			if len(valid) == 0 {
				delete(rl.attempts, ip)
			} else {
				rl.attempts[ip] = valid
			}
		}
		rl.mutex.Unlock()
	}
}

// RedemptionRateLimit provides rate limiting middleware for the
// redemption endpoint
func RedemptionRateLimit(rateLimiter *RedemptionRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := getClientIP(r)

			if !rateLimiter.IsAllowed(ip) {
				writeJSONError(w, http.StatusTooManyRequests, "too many scan attempts")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
