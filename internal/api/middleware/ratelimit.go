package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/insighthq/insightd/internal/api/response"
	"github.com/insighthq/insightd/internal/cache"
)

// RateLimit enforces a fixed-window per-key request limit backed by Redis.
// If the cache is unavailable the request is allowed through; losing rate
// limiting is preferable to losing the API.
func RateLimit(c cache.Cache, perMinute int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			prefix, ok := getKeyPrefix(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			count, err := c.IncrWithExpiry(r.Context(), cache.RateLimitKey(prefix), time.Minute)
			if err != nil {
				slog.Warn("rate limit check failed, allowing request", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			remaining := int64(perMinute) - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", perMinute))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

			if count > int64(perMinute) {
				response.Error(w, http.StatusTooManyRequests,
					"RATE_LIMITED", "Rate limit exceeded, try again later", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
