package middleware

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/insighthq/insightd/internal/api/response"
	"github.com/insighthq/insightd/internal/store"
)

// keyPrefixLen is the number of raw-key characters stored in plaintext
// for candidate lookup before bcrypt comparison.
const keyPrefixLen = 8

// Auth validates the bearer API key against stored bcrypt hashes and
// attaches the tenant, prefix, and scopes to the request context.
func Auth(s store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Error(w, http.StatusUnauthorized,
					"UNAUTHORIZED", "Missing Authorization header", nil)
				return
			}

			rawKey, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || rawKey == "" {
				response.Error(w, http.StatusUnauthorized,
					"UNAUTHORIZED", "Authorization header must be 'Bearer <api-key>'", nil)
				return
			}

			if len(rawKey) < keyPrefixLen {
				response.Error(w, http.StatusUnauthorized,
					"UNAUTHORIZED", "Invalid API key", nil)
				return
			}

			candidates, err := s.GetAPIKeyByPrefix(r.Context(), rawKey[:keyPrefixLen])
			if err != nil {
				response.Error(w, http.StatusInternalServerError,
					"INTERNAL_ERROR", "Failed to validate API key", nil)
				return
			}

			for _, key := range candidates {
				if bcrypt.CompareHashAndPassword([]byte(key.KeyHash), []byte(rawKey)) == nil {
					// Best effort; auth must not fail on a telemetry write.
					_ = s.UpdateAPIKeyLastUsed(r.Context(), key.ID)

					ctx := SetTenantID(r.Context(), key.TenantID)
					ctx = setKeyPrefix(ctx, key.KeyPrefix)
					ctx = setScopes(ctx, key.Scopes)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			response.Error(w, http.StatusUnauthorized,
				"UNAUTHORIZED", "Invalid API key", nil)
		})
	}
}

// RequireScope gates a route group on an API key scope.
func RequireScope(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, s := range getScopes(r) {
				if s == scope {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Error(w, http.StatusForbidden,
				"FORBIDDEN", "API key lacks required scope: "+scope, nil)
		})
	}
}
