package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownMethod is returned when a retrieval method name is not recognised
	ErrUnknownMethod = errors.New("unknown retrieval method")

	// ErrUnknownOperator is returned when a boolean operator name is not recognised
	ErrUnknownOperator = errors.New("unknown boolean operator")

	// ErrDocumentNotFound is returned when a document is not found
	ErrDocumentNotFound = errors.New("document not found")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")

	// ErrCorpusNotFound is returned when corpus files cannot be located
	ErrCorpusNotFound = errors.New("corpus not found")
)

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// UnknownMethodError is a rejected request naming a retrieval method that does not exist.
type UnknownMethodError struct {
	Method string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("unknown retrieval method '%s' (expected boolean, vsm or bm25)", e.Method)
}

func (e *UnknownMethodError) Is(target error) bool {
	return target == ErrUnknownMethod || target == ErrInvalidInput
}

// NewUnknownMethodError creates a new UnknownMethodError
func NewUnknownMethodError(method string) *UnknownMethodError {
	return &UnknownMethodError{Method: method}
}

// UnknownOperatorError is a rejected request naming a boolean operator that does not exist.
type UnknownOperatorError struct {
	Operator string
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("unknown boolean operator '%s' (expected AND, OR or NOT)", e.Operator)
}

func (e *UnknownOperatorError) Is(target error) bool {
	return target == ErrUnknownOperator || target == ErrInvalidInput
}

// NewUnknownOperatorError creates a new UnknownOperatorError
func NewUnknownOperatorError(operator string) *UnknownOperatorError {
	return &UnknownOperatorError{Operator: operator}
}

// DocumentNotFoundError represents a document not found error with context
type DocumentNotFoundError struct {
	DocumentID string
}

func (e *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("document with ID '%s' not found", e.DocumentID)
}

func (e *DocumentNotFoundError) Is(target error) bool {
	return target == ErrDocumentNotFound
}

// NewDocumentNotFoundError creates a new DocumentNotFoundError
func NewDocumentNotFoundError(documentID string) *DocumentNotFoundError {
	return &DocumentNotFoundError{DocumentID: documentID}
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

// CorpusNotFoundError is returned when the files of a corpus are missing on disk.
type CorpusNotFoundError struct {
	Kind string
	Path string
}

func (e *CorpusNotFoundError) Error() string {
	return fmt.Sprintf("%s corpus not found at '%s'", e.Kind, e.Path)
}

func (e *CorpusNotFoundError) Is(target error) bool {
	return target == ErrCorpusNotFound
}

// NewCorpusNotFoundError creates a new CorpusNotFoundError
func NewCorpusNotFoundError(kind, path string) *CorpusNotFoundError {
	return &CorpusNotFoundError{Kind: kind, Path: path}
}
