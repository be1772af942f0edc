package usecase

import (
	"fmt"

	"classmate_backend/internal/platform/apperror"
)

var (
	// ErrEmptyImage is returned when the upload carries no bytes.
	ErrEmptyImage = apperror.Validation("image is required")

	// ErrImageTooLarge is returned when the upload exceeds MaxImageSize.
	ErrImageTooLarge = apperror.Validation(fmt.Sprintf("image must be at most %d bytes", MaxImageSize))

	// ErrUnsupportedImage is returned when the upload is not png, jpeg or webp.
	ErrUnsupportedImage = apperror.Validation("image must be png, jpeg or webp")

	// ErrNoCoursesFound is returned when the provider output contains no usable course.
	ErrNoCoursesFound = apperror.New(apperror.ErrUnprocessable, "no courses could be identified")

	// ErrScanUnavailable is returned when no extraction provider is configured.
	ErrScanUnavailable = apperror.New(apperror.ErrUpstream, "schedule scanning is not configured")
)
