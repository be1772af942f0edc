// Package usecase はcatalogフィーチャー（科目・セクション管理）のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"classmate_backend/internal/domain/entity"
	"classmate_backend/internal/platform/validation"
)

// DefaultCourses は初期データとして投入する科目です。
var DefaultCourses = []entity.Course{
	{CourseCode: "CS3500", Name: "Object-Oriented Design"},
	{CourseCode: "CS3000", Name: "Algorithms"},
	{CourseCode: "MATH1341", Name: "Calculus 1"},
	{CourseCode: "MATH1342", Name: "Calculus 2"},
}

// CourseRepository は科目の永続化層を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type CourseRepository interface {
	// ListWithSections は全科目をCourseCode順に、セクションをCRN順に入れ子で返します。
	ListWithSections(ctx context.Context) ([]entity.Course, error)
	// FindByID は科目を取得します。存在しない場合はErrCourseNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.Course, error)
	// FindOrCreate はcodeの科目を返し、なければ作成します。既存の科目名は更新しません。
	FindOrCreate(ctx context.Context, code, name string) (*entity.Course, bool, error)
}

// SectionRepository はセクションの永続化層を抽象化します。
type SectionRepository interface {
	// Create はセクションを作成します。CRNが重複する場合はErrCRNAlreadyExistsを返します。
	Create(ctx context.Context, section *entity.Section) error
}

// catalogUsecase は科目・セクションのビジネスロジックを提供します。
type catalogUsecase struct {
	courses  CourseRepository
	sections SectionRepository
}

// NewCatalogUsecase はcatalogUsecaseの新しいインスタンスを生成します。
func NewCatalogUsecase(courses CourseRepository, sections SectionRepository) *catalogUsecase {
	return &catalogUsecase{courses: courses, sections: sections}
}

// ListCourses は全科目とそのセクションを返します。ページングはありません。
func (u *catalogUsecase) ListCourses(ctx context.Context) ([]entity.Course, error) {
	courses, err := u.courses.ListWithSections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// CreateSection は既存の科目にセクションを追加し、親科目付きで返します。
func (u *catalogUsecase) CreateSection(ctx context.Context, crn string, courseID uint) (*entity.Section, error) {
	crn = strings.TrimSpace(crn)
	if !validation.IsCRN(crn) {
		return nil, ErrInvalidCRN
	}
	if courseID == 0 {
		return nil, ErrInvalidCourse
	}

	course, err := u.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	section := &entity.Section{CRN: crn, CourseID: course.ID}
	if err := u.sections.Create(ctx, section); err != nil {
		return nil, err
	}
	section.Course = *course
	return section, nil
}

// SeedCourses は科目を冪等に投入し、新規作成した件数を返します。
func (u *catalogUsecase) SeedCourses(ctx context.Context, courses []entity.Course) (int, error) {
	created := 0
	for _, c := range courses {
		code := entity.NormalizeCourseCode(c.CourseCode)
		if code == "" || strings.TrimSpace(c.Name) == "" {
			return created, fmt.Errorf("%w: %q", ErrInvalidCourse, c.CourseCode)
		}
		_, isNew, err := u.courses.FindOrCreate(ctx, code, strings.TrimSpace(c.Name))
		if err != nil {
			return created, fmt.Errorf("failed to seed course %s: %w", code, err)
		}
		if isNew {
			created++
			slog.Info("course seeded", "course_code", code)
		}
	}
	return created, nil
}
