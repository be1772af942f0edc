package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"classmate_backend/internal/domain/entity"
	"classmate_backend/internal/feature/catalog/usecase"
	"classmate_backend/internal/platform/db"
)

// sectionGorm はセクションのGORM実装です。
// catalogのSectionRepositoryに加え、enrollmentの一括登録からも利用されます。
type sectionGorm struct {
	db *gorm.DB
}

var _ usecase.SectionRepository = (*sectionGorm)(nil)

// NewSectionGorm はsectionGormの新しいインスタンスを生成します。
func NewSectionGorm(db *gorm.DB) *sectionGorm {
	return &sectionGorm{db: db}
}

// Create はセクションを作成します。CRN重複時はusecase.ErrCRNAlreadyExistsを返します。
func (r *sectionGorm) Create(ctx context.Context, s *entity.Section) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(s).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return usecase.ErrCRNAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID はIDでセクションを親科目付きで取得します。
func (r *sectionGorm) FindByID(ctx context.Context, id uint) (*entity.Section, error) {
	var s entity.Section
	if err := r.db.WithContext(ctx).Preload("Course").First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSectionNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindOrCreate はcrnのセクションを返し、なければcourseIDの下に作成します。
// 既存セクションの所属科目は変更しません。
func (r *sectionGorm) FindOrCreate(ctx context.Context, crn string, courseID uint) (*entity.Section, bool, error) {
	tx := r.db.WithContext(ctx)

	var s entity.Section
	err := tx.Where("crn = ?", crn).First(&s).Error
	if err == nil {
		return &s, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	s = entity.Section{CRN: crn, CourseID: courseID}
	res := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "crn"}},
		DoNothing: true,
	}).Create(&s)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return &s, true, nil
	}

	var existing entity.Section
	if err := tx.Where("crn = ?", crn).First(&existing).Error; err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

// FindByCRNs はcrnsに含まれるセクションを親科目付きでCRN順に返します。
func (r *sectionGorm) FindByCRNs(ctx context.Context, crns []string) ([]entity.Section, error) {
	if len(crns) == 0 {
		return []entity.Section{}, nil
	}
	var sections []entity.Section
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("crn IN ?", crns).
		Order("crn").
		Find(&sections).Error
	if err != nil {
		return nil, err
	}
	return sections, nil
}
