package usecase

import "classmate_backend/internal/platform/apperror"

var (
	// ErrCourseNotFound is returned when a section references a course that does not exist.
	ErrCourseNotFound = apperror.New(apperror.ErrNotFound, "course not found")

	// ErrSectionNotFound is returned when no section has the requested id.
	ErrSectionNotFound = apperror.New(apperror.ErrNotFound, "section not found")

	// ErrCRNAlreadyExists is returned when a section with the same CRN already exists.
	ErrCRNAlreadyExists = apperror.New(apperror.ErrConflict, "crn already exists")

	// ErrInvalidCRN is returned when a CRN is not five digits.
	ErrInvalidCRN = apperror.Validation("crn must be a 5-digit CRN")

	// ErrInvalidCourse is returned when a course id or seed entry is malformed.
	ErrInvalidCourse = apperror.Validation("course is invalid")
)
