// Package usecase implements the business logic for the auth feature.
package usecase

import "classmate_backend/internal/platform/apperror"

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = apperror.New(apperror.ErrNotFound, "user not found")

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = apperror.New(apperror.ErrConflict, "email already exists")

	// ErrInvalidCredentials is returned for both unknown emails and wrong passwords.
	ErrInvalidCredentials = apperror.New(apperror.ErrUnauthorized, "invalid email or password")

	// ErrMissingFields is returned when name, email or password is blank.
	ErrMissingFields = apperror.Validation("all fields are required")
)
