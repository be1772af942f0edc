// Package usecase はenrollmentフィーチャー（履修登録）のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"classmate_backend/internal/domain/entity"
	"classmate_backend/internal/platform/apperror"
	"classmate_backend/internal/platform/validation"
)

// CourseWriter は一括登録で科目を冪等に作成するための依存です。
type CourseWriter interface {
	FindOrCreate(ctx context.Context, code, name string) (*entity.Course, bool, error)
}

// SectionStore はセクションの参照と冪等な作成を抽象化します。
type SectionStore interface {
	// FindByID は存在しない場合にNotFound種別のエラーを返します。
	FindByID(ctx context.Context, id uint) (*entity.Section, error)
	// FindOrCreate は既存セクションの所属科目を変更しません。
	FindOrCreate(ctx context.Context, crn string, courseID uint) (*entity.Section, bool, error)
	// FindByCRNs は親科目付きでCRN順に返します。
	FindByCRNs(ctx context.Context, crns []string) ([]entity.Section, error)
}

// MembershipRepository はユーザーとセクションの履修関係を扱います。
type MembershipRepository interface {
	// UserExists はユーザーが存在するかを返します。
	UserExists(ctx context.Context, userID uint) (bool, error)
	// Add は履修関係を追加します。既に存在する場合は何もしません。
	Add(ctx context.Context, userID, sectionID uint) error
	// Remove は履修関係を削除します。存在しない場合は何もしません。
	Remove(ctx context.Context, userID, sectionID uint) error
	// ListSections はユーザーが履修中のセクションを親科目付きでCRN順に返します。
	ListSections(ctx context.Context, userID uint) ([]entity.Section, error)
}

// enrollmentUsecase は履修登録のビジネスロジックを提供します。
type enrollmentUsecase struct {
	courses  CourseWriter
	sections SectionStore
	members  MembershipRepository
}

// NewEnrollmentUsecase はenrollmentUsecaseの新しいインスタンスを生成します。
func NewEnrollmentUsecase(courses CourseWriter, sections SectionStore, members MembershipRepository) *enrollmentUsecase {
	return &enrollmentUsecase{courses: courses, sections: sections, members: members}
}

func (u *enrollmentUsecase) ensureUser(ctx context.Context, userID uint) error {
	ok, err := u.members.UserExists(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

// Enroll はユーザーをセクションに登録します。既に登録済みでも成功します。
func (u *enrollmentUsecase) Enroll(ctx context.Context, userID, sectionID uint) error {
	if err := u.ensureUser(ctx, userID); err != nil {
		return err
	}
	if _, err := u.sections.FindByID(ctx, sectionID); err != nil {
		return err
	}
	if err := u.members.Add(ctx, userID, sectionID); err != nil {
		return fmt.Errorf("failed to enroll: %w", err)
	}
	slog.Info("user enrolled", "user_id", userID, "section_id", sectionID)
	return nil
}

// Unenroll はユーザーをセクションから外します。未登録でも成功します。
func (u *enrollmentUsecase) Unenroll(ctx context.Context, userID, sectionID uint) error {
	if err := u.ensureUser(ctx, userID); err != nil {
		return err
	}
	if _, err := u.sections.FindByID(ctx, sectionID); err != nil {
		return err
	}
	if err := u.members.Remove(ctx, userID, sectionID); err != nil {
		return fmt.Errorf("failed to unenroll: %w", err)
	}
	slog.Info("user unenrolled", "user_id", userID, "section_id", sectionID)
	return nil
}

// ListEnrolledSections はユーザーが履修中のセクションを返します。
func (u *enrollmentUsecase) ListEnrolledSections(ctx context.Context, userID uint) ([]entity.Section, error) {
	if err := u.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	sections, err := u.members.ListSections(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrolled sections: %w", err)
	}
	return sections, nil
}

// BatchUpsertAndReturnSections は各エントリの科目とセクションを冪等に作成し、
// 指定された全CRNのセクションを親科目付き・CRN順・重複なしで返します。
//
// 全体を1つのトランザクションにはまとめません。途中で失敗した場合も、
// それまでに作成された科目・セクションは残ります。再実行しても重複は生じません。
func (u *enrollmentUsecase) BatchUpsertAndReturnSections(ctx context.Context, inputs []entity.SectionInput) ([]entity.Section, error) {
	if len(inputs) == 0 {
		return nil, ErrEmptyBatch
	}

	entries := make([]entity.SectionInput, 0, len(inputs))
	for i, in := range inputs {
		code := entity.NormalizeCourseCode(in.CourseCode)
		crn := strings.TrimSpace(in.CRN)
		if code == "" {
			return nil, apperror.Validation(fmt.Sprintf("entry %d: courseCode is required", i))
		}
		if !validation.IsCRN(crn) {
			return nil, apperror.Validation(fmt.Sprintf("entry %d: crn must be a 5-digit CRN", i))
		}
		name := strings.TrimSpace(in.CourseName)
		if name == "" {
			name = code
		}
		entries = append(entries, entity.SectionInput{CourseCode: code, CourseName: name, CRN: crn})
	}

	seen := make(map[string]struct{}, len(entries))
	crns := make([]string, 0, len(entries))
	for _, e := range entries {
		course, _, err := u.courses.FindOrCreate(ctx, e.CourseCode, e.CourseName)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert course %s: %w", e.CourseCode, err)
		}
		section, created, err := u.sections.FindOrCreate(ctx, e.CRN, course.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert section %s: %w", e.CRN, err)
		}
		if created {
			slog.Info("section created by batch", "crn", section.CRN, "course_code", e.CourseCode)
		} else if section.CourseID != course.ID {
			slog.Warn("existing section belongs to another course",
				"crn", section.CRN, "course_id", section.CourseID, "requested_course_code", e.CourseCode)
		}
		if _, dup := seen[e.CRN]; !dup {
			seen[e.CRN] = struct{}{}
			crns = append(crns, e.CRN)
		}
	}

	sections, err := u.sections.FindByCRNs(ctx, crns)
	if err != nil {
		return nil, fmt.Errorf("failed to load sections: %w", err)
	}
	return sections, nil
}

// EnrollAll はsectionsに1件ずつ順番に履修登録します。
// 1件の失敗で中断せず、成功・登録済み・失敗の件数を返します。
// 成功済みの登録は後続の失敗で取り消されません。
func (u *enrollmentUsecase) EnrollAll(ctx context.Context, userID uint, sections []entity.Section) (entity.EnrollSummary, error) {
	var summary entity.EnrollSummary
	if err := u.ensureUser(ctx, userID); err != nil {
		return summary, err
	}

	current, err := u.members.ListSections(ctx, userID)
	if err != nil {
		return summary, fmt.Errorf("failed to list enrolled sections: %w", err)
	}
	held := make(map[uint]struct{}, len(current))
	for _, s := range current {
		held[s.ID] = struct{}{}
	}

	for _, s := range sections {
		if _, ok := held[s.ID]; ok {
			summary.AlreadyEnrolled++
			continue
		}
		if err := u.members.Add(ctx, userID, s.ID); err != nil {
			summary.Failed++
			slog.Warn("enroll failed", "user_id", userID, "section_id", s.ID, "crn", s.CRN, "error", err)
			continue
		}
		held[s.ID] = struct{}{}
		summary.Enrolled++
	}

	slog.Info("enroll loop finished", "user_id", userID,
		"enrolled", summary.Enrolled, "already_enrolled", summary.AlreadyEnrolled, "failed", summary.Failed)
	return summary, nil
}
