package cache

import (
	"fmt"

	"github.com/google/uuid"
)

// ResultKey addresses a cached analysis run by tenant and input fingerprint.
func ResultKey(tenantID uuid.UUID, inputHash string) string {
	return fmt.Sprintf("insight:result:%s:%s", tenantID, inputHash)
}

// RateLimitKey addresses the per-key request counter.
func RateLimitKey(keyPrefix string) string {
	return fmt.Sprintf("ratelimit:%s", keyPrefix)
}
