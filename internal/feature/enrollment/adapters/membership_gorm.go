// Package adapters はenrollmentフィーチャーの永続化アダプターを提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"classmate_backend/internal/domain/entity"
	"classmate_backend/internal/feature/enrollment/usecase"
)

// userSectionsTable はUser.Sections / Section.Users の中間テーブルです。
const userSectionsTable = "user_sections"

// membershipGorm は履修関係のGORM実装です。
type membershipGorm struct {
	db *gorm.DB
}

var _ usecase.MembershipRepository = (*membershipGorm)(nil)

// NewMembershipGorm はmembershipGormの新しいインスタンスを生成します。
func NewMembershipGorm(db *gorm.DB) *membershipGorm {
	return &membershipGorm{db: db}
}

// UserExists はユーザーが存在するかを返します。
func (r *membershipGorm) UserExists(ctx context.Context, userID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Add は中間テーブルに行を追加します。(user_id, section_id) は主キーなので重複は無視されます。
func (r *membershipGorm) Add(ctx context.Context, userID, sectionID uint) error {
	return r.db.WithContext(ctx).
		Table(userSectionsTable).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(map[string]any{"user_id": userID, "section_id": sectionID}).Error
}

// Remove は中間テーブルの行を削除します。
func (r *membershipGorm) Remove(ctx context.Context, userID, sectionID uint) error {
	return r.db.WithContext(ctx).
		Exec("DELETE FROM "+userSectionsTable+" WHERE user_id = ? AND section_id = ?", userID, sectionID).Error
}

// ListSections はユーザーの履修セクションを親科目付きでCRN順に返します。
func (r *membershipGorm) ListSections(ctx context.Context, userID uint) ([]entity.Section, error) {
	sections := []entity.Section{}
	err := r.db.WithContext(ctx).
		Preload("Course").
		Joins("JOIN "+userSectionsTable+" us ON us.section_id = sections.id").
		Where("us.user_id = ?", userID).
		Order("sections.crn").
		Find(&sections).Error
	if err != nil {
		return nil, err
	}
	return sections, nil
}
