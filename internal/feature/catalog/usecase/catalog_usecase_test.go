package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classmate_backend/internal/domain/entity"
	"classmate_backend/internal/feature/catalog/usecase"
)

// mockCourseRepository はCourseRepositoryのモック実装です。
type mockCourseRepository struct {
	ListWithSectionsFunc func(ctx context.Context) ([]entity.Course, error)
	FindByIDFunc         func(ctx context.Context, id uint) (*entity.Course, error)
	FindOrCreateFunc     func(ctx context.Context, code, name string) (*entity.Course, bool, error)
	FindOrCreateCalls    []string
}

func (m *mockCourseRepository) ListWithSections(ctx context.Context) ([]entity.Course, error) {
	if m.ListWithSectionsFunc != nil {
		return m.ListWithSectionsFunc(ctx)
	}
	return nil, errors.New("ListWithSectionsFunc is not implemented")
}

func (m *mockCourseRepository) FindByID(ctx context.Context, id uint) (*entity.Course, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, usecase.ErrCourseNotFound
}

func (m *mockCourseRepository) FindOrCreate(ctx context.Context, code, name string) (*entity.Course, bool, error) {
	m.FindOrCreateCalls = append(m.FindOrCreateCalls, code)
	if m.FindOrCreateFunc != nil {
		return m.FindOrCreateFunc(ctx, code, name)
	}
	return &entity.Course{ID: 1, CourseCode: code, Name: name}, true, nil
}

// mockSectionRepository はSectionRepositoryのモック実装です。
type mockSectionRepository struct {
	CreateFunc  func(ctx context.Context, s *entity.Section) error
	CreateCalls int
}

func (m *mockSectionRepository) Create(ctx context.Context, s *entity.Section) error {
	m.CreateCalls++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	s.ID = 100
	return nil
}

func TestCatalogUsecase_ListCourses(t *testing.T) {
	ctx := context.Background()
	want := []entity.Course{{ID: 1, CourseCode: "CS3500", Sections: []entity.Section{{ID: 1, CRN: "10101"}}}}

	t.Run("success", func(t *testing.T) {
		uc := usecase.NewCatalogUsecase(&mockCourseRepository{
			ListWithSectionsFunc: func(ctx context.Context) ([]entity.Course, error) { return want, nil },
		}, &mockSectionRepository{})

		got, err := uc.ListCourses(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("repository error", func(t *testing.T) {
		uc := usecase.NewCatalogUsecase(&mockCourseRepository{}, &mockSectionRepository{})

		_, err := uc.ListCourses(ctx)
		assert.ErrorContains(t, err, "failed to list courses")
	})
}

func TestCatalogUsecase_CreateSection(t *testing.T) {
	ctx := context.Background()
	course := &entity.Course{ID: 2, CourseCode: "CS3500", Name: "Object-Oriented Design"}
	findCourse := func(ctx context.Context, id uint) (*entity.Course, error) {
		if id == course.ID {
			return course, nil
		}
		return nil, usecase.ErrCourseNotFound
	}

	testCases := []struct {
		name        string
		crn         string
		courseID    uint
		createFunc  func(ctx context.Context, s *entity.Section) error
		wantErr     error
		wantCreates int
	}{
		{name: "success", crn: "10101", courseID: 2, wantCreates: 1},
		{name: "success: surrounding spaces trimmed", crn: " 10101 ", courseID: 2, wantCreates: 1},
		{name: "error: crn not five digits", crn: "1010", courseID: 2, wantErr: usecase.ErrInvalidCRN},
		{name: "error: missing course id", crn: "10101", courseID: 0, wantErr: usecase.ErrInvalidCourse},
		{name: "error: unknown course", crn: "10101", courseID: 99, wantErr: usecase.ErrCourseNotFound},
		{
			name:        "error: duplicate crn",
			crn:         "10101",
			courseID:    2,
			createFunc:  func(ctx context.Context, s *entity.Section) error { return usecase.ErrCRNAlreadyExists },
			wantErr:     usecase.ErrCRNAlreadyExists,
			wantCreates: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sections := &mockSectionRepository{CreateFunc: tc.createFunc}
			uc := usecase.NewCatalogUsecase(&mockCourseRepository{FindByIDFunc: findCourse}, sections)

			got, err := uc.CreateSection(ctx, tc.crn, tc.courseID)

			assert.Equal(t, tc.wantCreates, sections.CreateCalls)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "10101", got.CRN)
			assert.Equal(t, uint(2), got.CourseID)
			assert.Equal(t, "CS3500", got.Course.CourseCode)
		})
	}
}

func TestCatalogUsecase_SeedCourses(t *testing.T) {
	ctx := context.Background()

	t.Run("creates only missing courses", func(t *testing.T) {
		repo := &mockCourseRepository{
			FindOrCreateFunc: func(ctx context.Context, code, name string) (*entity.Course, bool, error) {
				return &entity.Course{CourseCode: code}, code != "CS3000", nil
			},
		}
		uc := usecase.NewCatalogUsecase(repo, &mockSectionRepository{})

		created, err := uc.SeedCourses(ctx, usecase.DefaultCourses)

		require.NoError(t, err)
		assert.Equal(t, 3, created)
		assert.Equal(t, []string{"CS3500", "CS3000", "MATH1341", "MATH1342"}, repo.FindOrCreateCalls)
	})

	t.Run("normalizes course codes", func(t *testing.T) {
		repo := &mockCourseRepository{}
		uc := usecase.NewCatalogUsecase(repo, &mockSectionRepository{})

		_, err := uc.SeedCourses(ctx, []entity.Course{{CourseCode: "cs 2500", Name: "Fundies 1"}})

		require.NoError(t, err)
		assert.Equal(t, []string{"CS2500"}, repo.FindOrCreateCalls)
	})

	t.Run("rejects blank entries", func(t *testing.T) {
		uc := usecase.NewCatalogUsecase(&mockCourseRepository{}, &mockSectionRepository{})

		_, err := uc.SeedCourses(ctx, []entity.Course{{CourseCode: "CS1", Name: " "}})

		assert.ErrorIs(t, err, usecase.ErrInvalidCourse)
	})

	t.Run("stops on repository error", func(t *testing.T) {
		repo := &mockCourseRepository{
			FindOrCreateFunc: func(ctx context.Context, code, name string) (*entity.Course, bool, error) {
				return nil, false, errors.New("db down")
			},
		}
		uc := usecase.NewCatalogUsecase(repo, &mockSectionRepository{})

		created, err := uc.SeedCourses(ctx, usecase.DefaultCourses)

		assert.ErrorContains(t, err, "failed to seed course CS3500")
		assert.Zero(t, created)
		assert.Len(t, repo.FindOrCreateCalls, 1)
	})
}
