// Package domain defines the core domain models for docserve.
package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a request-level or startup error with a structured code.
//
// Codes follow the format DS-<AREA>-<NNNN> where the last four digits carry the
// HTTP status (first three) and a variant digit. Bind failures use 5001.
type DomainError struct {
	Code    string // Error code (e.g., "DS-FILE-4040")
	Message string // Human-readable message
	Details string // Optional additional details, never sent to clients
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// Wrap returns a copy of the error wrapping the given cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

var (
	// ErrBind indicates the listener could not bind its address. Fatal at startup.
	ErrBind = NewDomainError("DS-NET-5001", "cannot bind listener")

	// ErrProtocol indicates a malformed request line.
	ErrProtocol = NewDomainError("DS-REQ-4000", "malformed request line")

	// ErrMethodNotAllowed indicates a method other than GET.
	ErrMethodNotAllowed = NewDomainError("DS-REQ-4050", "method not allowed")

	// ErrNotFound indicates the resolved file does not exist.
	ErrNotFound = NewDomainError("DS-FILE-4040", "file not found")

	// ErrForbidden indicates the file lies outside the document root or is unreadable.
	// The two causes are distinguished only in Details.
	ErrForbidden = NewDomainError("DS-FILE-4030", "access forbidden")

	// ErrInternal indicates any other failure.
	ErrInternal = NewDomainError("DS-SYS-5000", "internal server error")
)

// StatusFor maps an error to the HTTP status sent to the client.
// Unknown errors fall through to 500.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		// ErrProtocol, ErrInternal and anything unclassified.
		return http.StatusInternalServerError
	}
}
