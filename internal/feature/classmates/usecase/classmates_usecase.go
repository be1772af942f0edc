// Package usecase はclassmatesフィーチャー（同じセクションの履修者検索）のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"

	"classmate_backend/internal/domain/entity"
)

// SectionFinder はセクションの存在確認に使います。
// 存在しない場合はNotFound種別のエラーを返します。
type SectionFinder interface {
	FindByID(ctx context.Context, id uint) (*entity.Section, error)
}

// MemberRepository はセクションの履修者を取得します。
type MemberRepository interface {
	// ListMembers は履修者を名前順に返します。
	ListMembers(ctx context.Context, sectionID uint) ([]entity.User, error)
}

type classmatesUsecase struct {
	sections SectionFinder
	members  MemberRepository
}

// NewClassmatesUsecase はclassmatesUsecaseの新しいインスタンスを生成します。
func NewClassmatesUsecase(sections SectionFinder, members MemberRepository) *classmatesUsecase {
	return &classmatesUsecase{sections: sections, members: members}
}

// ClassmatesOf はセクションの履修者からrequesterIDを除いた一覧を返します。
// 該当者がいなくてもエラーにはならず、空のスライスを返します。
func (u *classmatesUsecase) ClassmatesOf(ctx context.Context, sectionID, requesterID uint) ([]entity.User, error) {
	if _, err := u.sections.FindByID(ctx, sectionID); err != nil {
		return nil, err
	}

	members, err := u.members.ListMembers(ctx, sectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list classmates: %w", err)
	}

	classmates := make([]entity.User, 0, len(members))
	for _, m := range members {
		if m.ID == requesterID {
			continue
		}
		classmates = append(classmates, m)
	}
	return classmates, nil
}
