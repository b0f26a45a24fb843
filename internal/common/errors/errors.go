// internal/common/errors/errors.go
// Package errors provides standardized error handling for the recruitment
// chat backend.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Record store / aggregation errors
	ErrCodeSourceUnavailable ErrorCode = "SOURCE_UNAVAILABLE"
	ErrCodeSnapshotRebuild   ErrorCode = "SNAPSHOT_REBUILD_FAILED"

	// Lookup errors
	ErrCodeProfileNotFound ErrorCode = "PROFILE_NOT_FOUND"
	ErrCodeJobNotFound     ErrorCode = "JOB_NOT_FOUND"
	ErrCodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"

	// Caller input errors
	ErrCodeInvalidFilter  ErrorCode = "INVALID_FILTER_FORMAT"
	ErrCodeInvalidPayload ErrorCode = "INVALID_PAYLOAD"

	// External service errors
	ErrCodeLLMTimeout         ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMSynthesisFailed ErrorCode = "LLM_SYNTHESIS_FAILED"
	ErrCodeCRMUpdateFailed    ErrorCode = "CRM_UPDATE_FAILED"
	ErrCodeSearchIndexFailed  ErrorCode = "SEARCH_INDEX_FAILED"
	ErrCodeChatStoreFailed    ErrorCode = "CHAT_STORE_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Kind groups error codes by how callers should react.
type Kind int

const (
	// KindInternal is the zero kind: unexpected failures.
	KindInternal Kind = iota
	// KindSourceUnavailable marks record store read failures; the previous
	// snapshot, if any, keeps being served.
	KindSourceUnavailable
	// KindNotFound marks lookup misses; a typed empty result, not a failure.
	KindNotFound
	// KindInvalidInput marks malformed caller input, rejected before any
	// snapshot access.
	KindInvalidInput
)

// AppError is a structured application error.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Kind      Kind                   `json:"-"`
	Message   string                 `json:"message"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// New creates an AppError without a cause.
func New(code ErrorCode, kind Kind, message string) *AppError {
	return &AppError{
		Code:      code,
		Kind:      kind,
		Message:   message,
		Retryable: kind == KindSourceUnavailable,
		Timestamp: time.Now().UTC(),
	}
}

// Wrap creates an AppError carrying the underlying cause.
func Wrap(code ErrorCode, kind Kind, message string, cause error) *AppError {
	e := New(code, kind, message)
	e.cause = cause
	return e
}

// SourceUnavailable wraps a record store read failure.
func SourceUnavailable(message string, cause error) *AppError {
	return Wrap(ErrCodeSourceUnavailable, KindSourceUnavailable, message, cause)
}

// NotFound builds a lookup-miss error for the given entity code.
func NotFound(code ErrorCode, message string) *AppError {
	return New(code, KindNotFound, message)
}

// InvalidFilter builds a malformed-filter error.
func InvalidFilter(message string) *AppError {
	return New(ErrCodeInvalidFilter, KindInvalidInput, message)
}

// Is and As re-export the stdlib helpers so callers need a single import.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target interface{}) bool { return errors.As(err, target) }

// KindOf extracts the Kind from any error chain; unknown errors are internal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsNotFound reports whether the error chain is a lookup miss.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsInvalidInput reports whether the error chain is malformed caller input.
func IsInvalidInput(err error) bool {
	return KindOf(err) == KindInvalidInput
}

// IsSourceUnavailable reports whether the error chain is a record store failure.
func IsSourceUnavailable(err error) bool {
	return KindOf(err) == KindSourceUnavailable
}
