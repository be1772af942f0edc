package usecase

import (
	"context"
	"time"
)

// TokenRevoker abstracts the store of logged-out token ids.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type TokenRevoker interface {
	// Revoke records tokenID as revoked until ttl elapses.
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}
