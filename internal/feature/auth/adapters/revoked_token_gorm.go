package adapters

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"classmate_backend/internal/feature/auth/usecase"
)

// revokedTokenGorm stores logged-out token ids in SQL.
type revokedTokenGorm struct {
	db  *gorm.DB
	now func() time.Time
}

var _ usecase.TokenRevoker = (*revokedTokenGorm)(nil)

// NewRevokedTokenGorm creates a SQL-backed token revocation store.
func NewRevokedTokenGorm(db *gorm.DB) *revokedTokenGorm {
	return &revokedTokenGorm{db: db, now: time.Now}
}

// Revoke records tokenID until now+ttl. Expired rows are purged on the way in,
// so the table only ever holds tokens that could still be presented.
func (r *revokedTokenGorm) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	now := r.now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expires_at <= ?", now).Delete(&RevokedTokenModel{}).Error; err != nil {
			return fmt.Errorf("failed to purge expired tokens: %w", err)
		}
		m := RevokedTokenModel{TokenID: tokenID, ExpiresAt: now.Add(ttl), CreatedAt: now}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&m).Error; err != nil {
			return fmt.Errorf("failed to revoke token: %w", err)
		}
		return nil
	})
}

// IsRevoked reports whether tokenID is on the list and not yet expired.
func (r *revokedTokenGorm) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&RevokedTokenModel{}).
		Where("token_id = ? AND expires_at > ?", tokenID, r.now()).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return count > 0, nil
}
