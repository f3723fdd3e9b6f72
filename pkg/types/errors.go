package types

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Tool errors
	ErrToolNotFound    = errors.New("tool not found")
	ErrToolForbidden   = errors.New("tool forbidden by security policy")
	ErrMissingArgument = errors.New("required argument not provided")

	// Execution errors
	ErrBinaryNotFound = errors.New("foundry binary not found")
	ErrSpawnFailure   = errors.New("failed to spawn process")

	// Session errors
	ErrSessionAlreadyRunning = errors.New("session already running")
	ErrSessionNotRunning     = errors.New("session not running")
	ErrEvalTimeout           = errors.New("eval timed out")

	// Policy errors
	ErrPolicyViolation = errors.New("policy violation")
	ErrPolicyInvalid   = errors.New("policy definition is invalid")

	// Schema errors
	ErrSchemaInvalid = errors.New("tool schema is invalid")
)

// ValidationError represents a validation error with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}

// DomainError wraps an error with additional context.
type DomainError struct {
	Op      string // Operation that failed
	Kind    error  // Category of error
	Err     error  // Underlying error
	Context map[string]any
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Kind)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// NewDomainError creates a new domain error.
func NewDomainError(op string, kind error, err error) *DomainError {
	return &DomainError{
		Op:   op,
		Kind: kind,
		Err:  err,
	}
}

// WithContext adds context to a domain error.
func (e *DomainError) WithContext(key string, value any) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrToolNotFound) ||
		errors.Is(err, ErrBinaryNotFound)
}

// IsSessionError returns true if the error concerns session lifecycle.
func IsSessionError(err error) bool {
	return errors.Is(err, ErrSessionAlreadyRunning) ||
		errors.Is(err, ErrSessionNotRunning) ||
		errors.Is(err, ErrEvalTimeout)
}
