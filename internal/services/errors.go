package services

import (
	"errors"

	apperrors "github.com/eskildht/inginious/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	ErrNotFound         = errors.New("resource not found")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")

	// Course specific errors
	ErrCourseNotFound  = errors.New("course not found")
	ErrCourseNotOpen   = errors.New("course is not open")
	ErrNotRegistered   = errors.New("you are not registered to this course")
	ErrAlreadyEnrolled = errors.New("already registered to this course")

	// Task specific errors
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskUnavailable   = errors.New("task descriptor cannot be loaded")
	ErrDeadlineReached   = errors.New("deadline reached")
	ErrTaskNotAccessible = errors.New("task is not accessible")

	// Submission specific errors
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrInconsistentInput  = errors.New("submitted input is not consistent with the task")
	ErrGraderUnavailable  = errors.New("grading backend is not available")
)

// Use shared validation errors from the errors package.
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// ===== ERROR HELPERS =====

// IsNotFound checks if err represents a "not found" condition.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrCourseNotFound) ||
		errors.Is(err, ErrTaskNotFound) ||
		errors.Is(err, ErrSubmissionNotFound)
}

// IsForbidden checks if err represents a permission condition.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrNotRegistered) ||
		errors.Is(err, ErrCourseNotOpen) ||
		errors.Is(err, ErrTaskNotAccessible) ||
		errors.Is(err, ErrDeadlineReached)
}

// IsValidation checks if err represents a validation failure, including
// an inconsistent submission payload.
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) || errors.Is(err, ErrInconsistentInput) {
		return true
	}
	var ve ValidationErrors
	return errors.As(err, &ve)
}
