// Package session はJWTの失効リスト（ログアウト済みトークン）のRedis実装を提供します。
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRevocationRedis はトークンID（jti）をキーにして失効済みトークンを保持します。
// キーのTTLはトークンの残り有効期間と同じにするため、期限切れのエントリは自動で消えます。
type TokenRevocationRedis struct {
	client redis.Cmdable
	prefix string
}

// NewTokenRevocationRedis creates a new TokenRevocationRedis instance.
func NewTokenRevocationRedis(client redis.Cmdable, prefix string) *TokenRevocationRedis {
	return &TokenRevocationRedis{
		client: client,
		prefix: prefix,
	}
}

// revokedKey returns the Redis key for a revoked token id.
// An empty prefix yields "revoked:<jti>".
func (r *TokenRevocationRedis) revokedKey(tokenID string) string {
	if r.prefix == "" {
		return "revoked:" + tokenID
	}
	return fmt.Sprintf("%s:revoked:%s", r.prefix, tokenID)
}

// Revoke marks tokenID as revoked for ttl. A non-positive ttl is a no-op
// because the token is already expired.
func (r *TokenRevocationRedis) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.revokedKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID has been revoked and not yet expired.
func (r *TokenRevocationRedis) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.revokedKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}
