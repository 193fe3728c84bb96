package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a healthvault error code.
type ErrorCode string

const (
	ErrInvalidPayload ErrorCode = "INVALID_PAYLOAD" // malformed issue body or top-level shape
	ErrValidation     ErrorCode = "VALIDATION"      // a record failed schema validation
	ErrUnauthorized   ErrorCode = "UNAUTHORIZED"    // issue sender not in the allowlist
	ErrWriteFailed    ErrorCode = "WRITE_FAILED"    // vault write failure
	ErrNotFound       ErrorCode = "NOT_FOUND"       // stored file absent
	ErrInternal       ErrorCode = "INTERNAL"        // unexpected failure
)

// VaultError represents a structured error with code, message, and details.
type VaultError struct {
	Code    ErrorCode
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *VaultError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidPayload creates an error for a malformed issue body.
func NewInvalidPayload(msg string) *VaultError {
	return &VaultError{
		Code:    ErrInvalidPayload,
		Message: msg,
	}
}

// NewValidation creates an error for a record failing schema validation.
// Path identifies the offending field, suitable for posting verbatim to a
// human reviewer (e.g. "metrics[1].data[0].date").
func NewValidation(path, msg string) *VaultError {
	return &VaultError{
		Code:    ErrValidation,
		Message: fmt.Sprintf("%s: %s", path, msg),
		Details: map[string]any{"path": path},
	}
}

// NewUnauthorized creates an error for an issue from an unexpected sender.
func NewUnauthorized(sender string) *VaultError {
	return &VaultError{
		Code:    ErrUnauthorized,
		Message: fmt.Sprintf("issue sender %q is not authorized", sender),
		Details: map[string]any{"sender": sender},
	}
}

// NewWriteFailed creates an error for a failed vault write.
func NewWriteFailed(name string, err error) *VaultError {
	return &VaultError{
		Code:    ErrWriteFailed,
		Message: fmt.Sprintf("failed to write %s: %v", name, err),
		Details: map[string]any{"file": name},
	}
}

// NewNotFound creates an error for an absent stored file.
func NewNotFound(name string) *VaultError {
	return &VaultError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("file not found: %s", name),
		Details: map[string]any{"file": name},
	}
}

// NewInternal creates an error for unexpected internal failures.
func NewInternal(err error) *VaultError {
	msg := "an internal error occurred"
	if err != nil {
		msg = err.Error()
	}
	return &VaultError{
		Code:    ErrInternal,
		Message: msg,
	}
}

// Is reports whether err (or any error it wraps) is a VaultError with the
// given code.
func Is(err error, code ErrorCode) bool {
	var ve *VaultError
	if stderrors.As(err, &ve) {
		return ve.Code == code
	}
	return false
}
