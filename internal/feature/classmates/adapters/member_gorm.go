// Package adapters はclassmatesフィーチャーの永続化アダプターを提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"

	"classmate_backend/internal/domain/entity"
	"classmate_backend/internal/feature/classmates/usecase"
)

type memberGorm struct {
	db *gorm.DB
}

var _ usecase.MemberRepository = (*memberGorm)(nil)

// NewMemberGorm はmemberGormの新しいインスタンスを生成します。
func NewMemberGorm(db *gorm.DB) *memberGorm {
	return &memberGorm{db: db}
}

// ListMembers はセクションの履修者を名前順（同名はID順）に返します。
func (r *memberGorm) ListMembers(ctx context.Context, sectionID uint) ([]entity.User, error) {
	users := []entity.User{}
	err := r.db.WithContext(ctx).
		Joins("JOIN user_sections us ON us.user_id = users.id").
		Where("us.section_id = ?", sectionID).
		Order("users.name").
		Order("users.id").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
