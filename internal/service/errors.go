package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/stemsi/academic-records/internal/repository"
)

// Error kinds. Every error returned by this package wraps exactly one.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("storage unavailable")
)

// Specific failures callers may want to tell apart.
var (
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	ErrAccountDisabled    = fmt.Errorf("account is disabled: %w", ErrUnauthorized)
	ErrTokenInvalid       = fmt.Errorf("invalid token: %w", ErrUnauthorized)

	ErrTokenRequired = fmt.Errorf("no token provided: %w", ErrValidation)
	ErrTokenUnknown  = fmt.Errorf("token does not exist: %w", ErrValidation)

	ErrAlreadyEnrolled = fmt.Errorf("already enrolled in this course: %w", ErrConflict)

	ErrStudentNotFound    = fmt.Errorf("student not found: %w", ErrNotFound)
	ErrTeacherNotFound    = fmt.Errorf("teacher not found: %w", ErrNotFound)
	ErrCourseNotFound     = fmt.Errorf("course not found: %w", ErrNotFound)
	ErrEnrollmentNotFound = fmt.Errorf("enrollment not found: %w", ErrNotFound)
)

// ValidationError carries every field problem found in one request.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// duplicateMessages are reported when a unique field is already taken.
var duplicateMessages = map[string]string{
	repository.FieldUsername:   "A user with that username already exists.",
	repository.FieldEmail:      "A user with that email already exists.",
	repository.FieldStudentID:  "Student ID already exists.",
	repository.FieldEmployeeID: "Employee ID already exists.",
	repository.FieldCode:       "Course with this code already exists.",
}

// storageErr classifies a repository error. notFound replaces
// repository.ErrNotFound; duplicates become field errors; the rest is
// reported as Unavailable.
func storageErr(err, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) && notFound != nil {
		return notFound
	}
	if dup, ok := repository.AsDuplicate(err); ok {
		if msg, known := duplicateMessages[dup.Field]; known {
			return fieldError(dup.Field, msg)
		}
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
