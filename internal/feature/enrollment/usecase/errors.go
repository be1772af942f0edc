package usecase

import "classmate_backend/internal/platform/apperror"

var (
	// ErrUserNotFound is returned when the authenticated user no longer exists.
	ErrUserNotFound = apperror.New(apperror.ErrNotFound, "user not found")

	// ErrEmptyBatch is returned when a batch upsert carries no entries.
	ErrEmptyBatch = apperror.Validation("at least one section is required")
)
