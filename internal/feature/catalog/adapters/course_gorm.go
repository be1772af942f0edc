// Package adapters はcatalogフィーチャーのGORMリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"classmate_backend/internal/domain/entity"
	"classmate_backend/internal/feature/catalog/usecase"
)

// courseGorm はCourseRepositoryのGORM実装です。
type courseGorm struct {
	db *gorm.DB
}

// courseGormがCourseRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.CourseRepository = (*courseGorm)(nil)

// NewCourseGorm はcourseGormの新しいインスタンスを生成します。
func NewCourseGorm(db *gorm.DB) *courseGorm {
	return &courseGorm{db: db}
}

// ListWithSections は全科目をセクション付きで取得します。
func (r *courseGorm) ListWithSections(ctx context.Context) ([]entity.Course, error) {
	var courses []entity.Course
	err := r.db.WithContext(ctx).
		Preload("Sections", func(tx *gorm.DB) *gorm.DB { return tx.Order("crn") }).
		Order("course_code").
		Find(&courses).Error
	if err != nil {
		return nil, err
	}
	return courses, nil
}

// FindByID はIDで科目を取得します。
func (r *courseGorm) FindByID(ctx context.Context, id uint) (*entity.Course, error) {
	var c entity.Course
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrCourseNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindOrCreate はcodeの科目を返し、なければ作成します。
// 同時に同じ科目を作成した場合はON CONFLICT DO NOTHINGで衝突を吸収し、既存行を読み直します。
func (r *courseGorm) FindOrCreate(ctx context.Context, code, name string) (*entity.Course, bool, error) {
	db := r.db.WithContext(ctx)

	var c entity.Course
	err := db.Where("course_code = ?", code).First(&c).Error
	if err == nil {
		return &c, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	c = entity.Course{CourseCode: code, Name: name}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "course_code"}},
		DoNothing: true,
	}).Create(&c)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return &c, true, nil
	}

	// 他のリクエストが先に作成した
	var existing entity.Course
	if err := db.Where("course_code = ?", code).First(&existing).Error; err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}
