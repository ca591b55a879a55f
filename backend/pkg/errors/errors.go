package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeAccess represents access control rejections
	ErrorTypeAccess ErrorType = "access"
	// ErrorTypeValidation represents malformed user input
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeGraph represents graph database errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeInvite represents invite code state errors
	ErrorTypeInvite ErrorType = "invite"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeContext represents context cancellation/timeout errors
	ErrorTypeContext ErrorType = "context"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// Kind returns the error category. Promoted to every typed error embedding BaseError.
func (e *BaseError) Kind() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Access Errors

// ErrPermissionDenied is returned when a request carries neither a staff
// identity nor a valid verification token. It carries no detail on purpose.
var ErrPermissionDenied = NewBaseError(ErrorTypeAccess, "permission denied", nil)

// ErrLoginRequired is returned when an anonymous request hits a route that needs an identity
var ErrLoginRequired = NewBaseError(ErrorTypeAccess, "login required", nil)

// Validation Errors

// ErrValidationFailed is returned when a submitted field is malformed
type ErrValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewValidationFailed(field, reason string) *ErrValidationFailed {
	return &ErrValidationFailed{
		BaseError: NewBaseError(ErrorTypeValidation, fmt.Sprintf("invalid %s: %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// Graph Errors

// ErrGraphConnectionFailed is returned when Neo4j connection fails
type ErrGraphConnectionFailed struct {
	*BaseError
	URI string
}

func NewGraphConnectionFailed(uri string, err error) *ErrGraphConnectionFailed {
	return &ErrGraphConnectionFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// ErrGraphQueryFailed is returned when a graph query fails
type ErrGraphQueryFailed struct {
	*BaseError
	Query string
}

func NewGraphQueryFailed(query string, err error) *ErrGraphQueryFailed {
	return &ErrGraphQueryFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("query failed: %s", query), err),
		Query:     query,
	}
}

// Invite Errors

// ErrInviteCodeTaken is returned when a code collides with the uniqueness constraint
type ErrInviteCodeTaken struct {
	*BaseError
	Code string
}

func NewInviteCodeTaken(code string, err error) *ErrInviteCodeTaken {
	return &ErrInviteCodeTaken{
		BaseError: NewBaseError(ErrorTypeInvite, fmt.Sprintf("invite code already exists: %s", code), err),
		Code:      code,
	}
}

// ErrInviteCodeNotFound is returned when redeeming an unknown code
type ErrInviteCodeNotFound struct {
	*BaseError
	Code string
}

func NewInviteCodeNotFound(code string) *ErrInviteCodeNotFound {
	return &ErrInviteCodeNotFound{
		BaseError: NewBaseError(ErrorTypeInvite, fmt.Sprintf("invite code not found: %s", code), nil),
		Code:      code,
	}
}

// ErrInviteCodeRedeemed is returned when a code already has a user
type ErrInviteCodeRedeemed struct {
	*BaseError
	Code string
}

func NewInviteCodeRedeemed(code string) *ErrInviteCodeRedeemed {
	return &ErrInviteCodeRedeemed{
		BaseError: NewBaseError(ErrorTypeInvite, fmt.Sprintf("invite code already redeemed: %s", code), nil),
		Code:      code,
	}
}

// Context Errors

// ErrContextCancelled is returned when context is cancelled
type ErrContextCancelled struct {
	*BaseError
	Operation string
}

func NewContextCancelled(operation string, err error) *ErrContextCancelled {
	return &ErrContextCancelled{
		BaseError: NewBaseError(ErrorTypeContext, fmt.Sprintf("context cancelled: %s", operation), err),
		Operation: operation,
	}
}

// Config Errors

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

type kinded interface {
	Kind() ErrorType
}

// IsErrorType checks if an error, or any error it wraps, is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	for err != nil {
		if k, ok := err.(kinded); ok && k.Kind() == errType {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	// Context errors are not retryable
	if IsErrorType(err, ErrorTypeContext) {
		return false
	}
	var taken *ErrInviteCodeTaken
	if stderrors.As(err, &taken) {
		return true
	}
	// Graph connection errors are retryable
	var conn *ErrGraphConnectionFailed
	return stderrors.As(err, &conn)
}
