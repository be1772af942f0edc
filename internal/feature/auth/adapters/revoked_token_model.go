package adapters

import "time"

// RevokedTokenModel is the GORM model for the revoked_tokens table.
// It backs token revocation when Redis is not configured.
type RevokedTokenModel struct {
	TokenID   string    `gorm:"primaryKey;size:64"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM.
func (RevokedTokenModel) TableName() string {
	return "revoked_tokens"
}
