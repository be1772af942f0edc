// Package adapters はprofileフィーチャーの永続化アダプターを提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"classmate_backend/internal/domain/entity"
	"classmate_backend/internal/feature/profile/usecase"
)

type userGorm struct {
	db *gorm.DB
}

var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm はプロフィール用のuserGormを生成します。
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

func (r *userGorm) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UpdateProfile は編集可能な列だけを更新します。空文字も書き込みます。
func (r *userGorm) UpdateProfile(ctx context.Context, user *entity.User) error {
	res := r.db.WithContext(ctx).
		Model(user).
		Select("Name", "Bio", "Socials").
		Updates(user)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}
