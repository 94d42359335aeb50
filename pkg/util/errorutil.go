package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes used across the service.
const (
	CodeNotFound            = "NOT_FOUND"
	CodeDuplicateCode       = "DUPLICATE_CODE"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeNoStatusChange      = "NO_STATUS_CHANGE"
	CodeAlreadyCompleted    = "ALREADY_COMPLETED"
	CodePersistenceError    = "PERSISTENCE_ERROR"
	CodeGenerationExhausted = "GENERATION_EXHAUSTED"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeInternalError       = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string) error {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, nil)
}

func NewDuplicateCode(codigo string) error {
	return NewDomainError(CodeDuplicateCode, "ticket code already in use", http.StatusConflict, map[string]any{"codigo": codigo})
}

func NewInvalidTransition(message string, details map[string]any) error {
	return NewDomainError(CodeInvalidTransition, message, http.StatusConflict, details)
}

func NewNoStatusChange() error {
	return NewDomainError(CodeNoStatusChange, "target status equals current status", http.StatusConflict, nil)
}

func NewAlreadyCompleted() error {
	return NewDomainError(CodeAlreadyCompleted, "ticket already completed", http.StatusConflict, nil)
}

func NewPersistenceError(err error) error {
	return &DomainError{
		Code:       CodePersistenceError,
		Message:    "failed to persist ticket collection",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewGenerationExhausted(attempts int) error {
	return NewDomainError(CodeGenerationExhausted, "could not generate a unique ticket code", http.StatusInternalServerError, map[string]any{"attempts": attempts})
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// CodeOf returns the domain error code, or INTERNAL_ERROR for generic errors.
func CodeOf(err error) string {
	return ToDomainError(err).Code
}
