// Package usecase はprofileフィーチャー（自分のプロフィールの参照・更新）のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/datatypes"

	"classmate_backend/internal/domain/entity"
	"classmate_backend/internal/platform/apperror"
	"classmate_backend/internal/platform/validation"
)

const (
	MaxNameLength      = 100
	MaxBioLength       = 1000
	MaxSocialURLLength = 255
)

// ProfileUpdate は部分更新の入力です。nilのフィールドは変更しません。
type ProfileUpdate struct {
	Name    *string
	Bio     *string
	Socials *SocialsUpdate
}

// SocialsUpdate はSNSリンクの部分更新です。空文字はリンクを削除します。
type SocialsUpdate struct {
	LinkedIn  *string
	Instagram *string
	GitHub    *string
}

// UserRepository はプロフィールの永続化層を抽象化します。
type UserRepository interface {
	// FindByID は存在しない場合にErrUserNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)
	// UpdateProfile は名前・自己紹介・SNSリンクを保存します。
	UpdateProfile(ctx context.Context, user *entity.User) error
}

type profileUsecase struct {
	users UserRepository
}

// NewProfileUsecase はprofileUsecaseの新しいインスタンスを生成します。
func NewProfileUsecase(users UserRepository) *profileUsecase {
	return &profileUsecase{users: users}
}

// GetProfile はユーザーの公開情報を返します。
func (u *profileUsecase) GetProfile(ctx context.Context, userID uint) (*entity.User, error) {
	return u.users.FindByID(ctx, userID)
}

// UpdateProfile は指定されたフィールドだけを更新し、更新後のユーザーを返します。
func (u *profileUsecase) UpdateProfile(ctx context.Context, userID uint, in ProfileUpdate) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, ErrBlankName
		}
		if utf8.RuneCountInString(name) > MaxNameLength {
			return nil, apperror.Validation(fmt.Sprintf("name must be at most %d characters", MaxNameLength))
		}
		user.Name = name
	}

	if in.Bio != nil {
		bio := strings.TrimSpace(*in.Bio)
		if utf8.RuneCountInString(bio) > MaxBioLength {
			return nil, apperror.Validation(fmt.Sprintf("bio must be at most %d characters", MaxBioLength))
		}
		user.Bio = bio
	}

	if in.Socials != nil {
		socials := user.Socials.Data()
		for _, f := range []struct {
			name string
			in   *string
			dst  *string
		}{
			{"linkedin", in.Socials.LinkedIn, &socials.LinkedIn},
			{"instagram", in.Socials.Instagram, &socials.Instagram},
			{"github", in.Socials.GitHub, &socials.GitHub},
		} {
			if f.in == nil {
				continue
			}
			v := strings.TrimSpace(*f.in)
			if len(v) > MaxSocialURLLength || !validation.IsSocialURL(v) {
				return nil, apperror.Validation(fmt.Sprintf("%s must be an http(s) URL", f.name))
			}
			*f.dst = v
		}
		user.Socials = datatypes.NewJSONType(socials)
	}

	if err := u.users.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}
