// Package dto はprofileフィーチャーのリクエスト型を定義します。
package dto

import "classmate_backend/internal/feature/profile/usecase"

// UpdateProfileRequest は PUT /api/profile の本文です。
// 省略したフィールドは変更されません。
type UpdateProfileRequest struct {
	Name    *string         `json:"name" binding:"omitempty,notblank,max=100"`
	Bio     *string         `json:"bio" binding:"omitempty,max=1000"`
	Socials *SocialsRequest `json:"socials"`
}

// SocialsRequest は各リンクの部分更新です。空文字はリンクを削除します。
type SocialsRequest struct {
	LinkedIn  *string `json:"linkedin" binding:"omitempty,social_url,max=255"`
	Instagram *string `json:"instagram" binding:"omitempty,social_url,max=255"`
	GitHub    *string `json:"github" binding:"omitempty,social_url,max=255"`
}

// ToProfileUpdate はリクエストをユースケースの入力に変換します。
func (r UpdateProfileRequest) ToProfileUpdate() usecase.ProfileUpdate {
	out := usecase.ProfileUpdate{Name: r.Name, Bio: r.Bio}
	if r.Socials != nil {
		out.Socials = &usecase.SocialsUpdate{
			LinkedIn:  r.Socials.LinkedIn,
			Instagram: r.Socials.Instagram,
			GitHub:    r.Socials.GitHub,
		}
	}
	return out
}
