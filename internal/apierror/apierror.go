// Package apierror provides standardized error response structures for the API
// and the typed domain errors raised by the service layer. All errors returned
// to clients go through this package to ensure consistency and to prevent
// leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"net/http"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation failed", Fields: fields}
}

// ── Domain errors ─────────────────────────────────────────────────────────────
// Every failure a mutating operation can surface has a stable code. Handlers
// translate codes into HTTP status; financial mutations are never retried
// automatically — a caller must resubmit explicitly.

const (
	CodeNotFound            = "not_found"
	CodeInvalidTransition   = "invalid_state_transition"
	CodeMissingRider        = "missing_rider"
	CodeInvalidAmount       = "invalid_amount"
	CodeClosingPrecondition = "closing_precondition_failed"
	CodeConflict            = "concurrency_conflict"
)

// DomainError carries a machine-readable code alongside the message.
type DomainError struct {
	Code   string
	Detail string
}

func (e *DomainError) Error() string { return e.Detail }

func NotFound(detail string) *DomainError {
	return &DomainError{Code: CodeNotFound, Detail: detail}
}

func InvalidTransition(detail string) *DomainError {
	return &DomainError{Code: CodeInvalidTransition, Detail: detail}
}

func MissingRider(detail string) *DomainError {
	return &DomainError{Code: CodeMissingRider, Detail: detail}
}

func InvalidAmount(detail string) *DomainError {
	return &DomainError{Code: CodeInvalidAmount, Detail: detail}
}

func ClosingPrecondition(detail string) *DomainError {
	return &DomainError{Code: CodeClosingPrecondition, Detail: detail}
}

// Conflict signals a lost optimistic-lock race. The expected recovery is
// caller-driven: re-fetch, recompute, resubmit.
func Conflict(detail string) *DomainError {
	return &DomainError{Code: CodeConflict, Detail: detail}
}

// IsCode reports whether err is a DomainError with the given code.
func IsCode(err error, code string) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}

// StatusOf maps an error to an HTTP status code. Unknown errors map to 500 so
// that internals are never leaked by accident.
func StatusOf(err error) int {
	var de *DomainError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError
	}
	switch de.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeClosingPrecondition:
		return http.StatusConflict
	case CodeInvalidTransition, CodeMissingRider:
		return http.StatusUnprocessableEntity
	case CodeInvalidAmount:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// FromError builds the response envelope, preserving the domain code when present.
func FromError(err error) *APIError {
	var de *DomainError
	if errors.As(err, &de) {
		return &APIError{Detail: de.Detail, Code: de.Code}
	}
	return New(err.Error())
}
