package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a pdfsel error code.
type ErrorCode string

const (
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"     // 400
	ErrNotFound          ErrorCode = "NOT_FOUND"           // 404
	ErrFileNotFound      ErrorCode = "FILE_NOT_FOUND"      // 404
	ErrNameAlreadyExists ErrorCode = "NAME_ALREADY_EXISTS" // 409
	ErrMalformedRecord   ErrorCode = "MALFORMED_RECORD"    // 422
	ErrCancelled         ErrorCode = "CANCELLED"           // 499
	ErrInternal          ErrorCode = "INTERNAL"            // 500
	ErrStorageFailure    ErrorCode = "STORAGE_FAILURE"     // 503
)

// SelError represents a structured error with code, status, and details.
type SelError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *SelError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *SelError {
	return &SelError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a saved selection that does not exist.
func NewNotFound(name string) *SelError {
	return &SelError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("saved selection not found: %s", name),
		Details: map[string]any{"name": name},
	}
}

// NewFileNotFound creates a 404 error for a missing import or document file.
func NewFileNotFound(path string) *SelError {
	return &SelError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewNameAlreadyExists creates a 409 error for name collisions during import.
func NewNameAlreadyExists(name string) *SelError {
	return &SelError{
		Code:    ErrNameAlreadyExists,
		Status:  409,
		Message: fmt.Sprintf("saved selection %q already exists", name),
		Details: map[string]any{"name": name},
	}
}

// NewMalformedRecord creates a 422 error for a persisted record that cannot be decoded.
func NewMalformedRecord(name string, err error) *SelError {
	details := map[string]any{"name": name}
	if err != nil {
		details["decode_error"] = err.Error()
	}
	return &SelError{
		Code:    ErrMalformedRecord,
		Status:  422,
		Message: fmt.Sprintf("saved selection %q is malformed", name),
		Details: details,
	}
}

// NewCancelled creates a 499 error when a long-running operation is cancelled.
func NewCancelled(operation string) *SelError {
	return &SelError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", operation),
		Details: map[string]any{"operation": operation},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message stays generic; the cause is kept in Details for logging.
func NewInternal(err error) *SelError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &SelError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// NewStorageFailure creates a 503 error when the durable store cannot be read or written.
func NewStorageFailure(operation string, err error) *SelError {
	details := map[string]any{"operation": operation}
	if err != nil {
		details["storage_error"] = err.Error()
	}
	return &SelError{
		Code:    ErrStorageFailure,
		Status:  503,
		Message: fmt.Sprintf("storage failure during %s", operation),
		Details: details,
	}
}

// Is checks if an error is (or wraps) a SelError with the given code.
func Is(err error, code ErrorCode) bool {
	var sErr *SelError
	if stderrors.As(err, &sErr) {
		return sErr.Code == code
	}
	return false
}
