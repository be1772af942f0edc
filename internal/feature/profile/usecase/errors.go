package usecase

import "classmate_backend/internal/platform/apperror"

var (
	// ErrUserNotFound is returned when the authenticated user no longer exists.
	ErrUserNotFound = apperror.New(apperror.ErrNotFound, "user not found")

	// ErrBlankName is returned when an update sets the name to whitespace.
	ErrBlankName = apperror.Validation("name must not be blank")
)
