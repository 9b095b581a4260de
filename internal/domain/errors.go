package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrReadmeNotFound indicates the project repository has no README
	ErrReadmeNotFound = errors.New("README.md not found")

	// ErrInvalidURL indicates an invalid repository URL was provided
	ErrInvalidURL = errors.New("invalid repository URL")

	// ErrCollectionCorrupted indicates the portfolio JSON file could not be parsed
	ErrCollectionCorrupted = errors.New("portfolio collection corrupted")

	// ErrSchemaViolation indicates the portfolio JSON file does not match the expected shape
	ErrSchemaViolation = errors.New("portfolio collection schema violation")
)

// GitError represents a failure of a version-control operation. It carries
// the operation name and remote URL so the underlying transport diagnostic
// reaches the user intact.
type GitError struct {
	Op  string // "clone", "stage", "commit", "push"
	URL string
	Err error
}

func (e *GitError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("git %s failed for %s: %v", e.Op, e.URL, e.Err)
	}
	return fmt.Sprintf("git %s failed: %v", e.Op, e.Err)
}

func (e *GitError) Unwrap() error {
	return e.Err
}

// NewGitError creates a new GitError
func NewGitError(op, url string, err error) *GitError {
	return &GitError{Op: op, URL: url, Err: err}
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
