package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a studynotes error code.
type ErrorCode string

const (
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"    // 400
	ErrNotFound          ErrorCode = "NOT_FOUND"          // 404
	ErrFileNotFound      ErrorCode = "FILE_NOT_FOUND"     // 404
	ErrLimitReached      ErrorCode = "LIMIT_REACHED"      // 409
	ErrFileTooLarge      ErrorCode = "FILE_TOO_LARGE"     // 413
	ErrUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT" // 415
	ErrFormat            ErrorCode = "FORMAT_ERROR"       // 422
	ErrCancelled         ErrorCode = "CANCELLED"          // 499
	ErrInternal          ErrorCode = "INTERNAL"           // 500
	ErrStorage           ErrorCode = "STORAGE_ERROR"      // 503
)

// NoteError represents a structured error with code, status, and details.
type NoteError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any

	// Cause is the underlying error, if any. It is never shown to clients.
	Cause error
}

// Error implements the error interface.
func (e *NoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *NoteError) Unwrap() error {
	return e.Cause
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *NoteError {
	return &NoteError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a note cannot be found.
func NewNotFound(identifier string) *NoteError {
	return &NoteError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("note not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *NoteError {
	return &NoteError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewLimitReached creates a 409 error when saving a new note would exceed maxNotes.
func NewLimitReached(max int) *NoteError {
	return &NoteError{
		Code:    ErrLimitReached,
		Status:  409,
		Message: fmt.Sprintf("note limit reached (max %d)", max),
		Details: map[string]any{"max_notes": max},
	}
}

// NewFileTooLarge creates a 413 error when an import file exceeds the size limit.
func NewFileTooLarge(max, actual int64) *NoteError {
	return &NoteError{
		Code:    ErrFileTooLarge,
		Status:  413,
		Message: fmt.Sprintf("file exceeds maximum size: %d bytes (max %d)", actual, max),
		Details: map[string]any{"max_bytes": max, "actual_bytes": actual},
	}
}

// NewUnsupportedFormat creates a 415 error for an unknown export format.
func NewUnsupportedFormat(format string) *NoteError {
	return &NoteError{
		Code:    ErrUnsupportedFormat,
		Status:  415,
		Message: fmt.Sprintf("unsupported format: %q", format),
		Details: map[string]any{"format": format},
	}
}

// NewFormat creates a 422 error for malformed import payloads.
func NewFormat(msg string, cause error) *NoteError {
	return &NoteError{
		Code:    ErrFormat,
		Status:  422,
		Message: msg,
		Cause:   cause,
	}
}

// NewCancelled creates a 499 error when an operation is cancelled by its context.
func NewCancelled(op string) *NoteError {
	return &NoteError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", op),
		Details: map[string]any{"operation": op},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message is generic; the original error is kept in Details and Cause for logging.
func NewInternal(err error) *NoteError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &NoteError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
		Cause:   err,
	}
}

// NewStorage creates a 503 error for a failure of the underlying key-value store.
func NewStorage(op string, err error) *NoteError {
	return &NoteError{
		Code:    ErrStorage,
		Status:  503,
		Message: fmt.Sprintf("storage %s failed", op),
		Details: map[string]any{"operation": op},
		Cause:   err,
	}
}

// Is checks if an error (or anything it wraps) is a NoteError with the given code.
func Is(err error, code ErrorCode) bool {
	var nErr *NoteError
	if stderrors.As(err, &nErr) {
		return nErr.Code == code
	}
	return false
}

// As extracts a NoteError from err, wrapping anything else as internal.
func As(err error) *NoteError {
	var nErr *NoteError
	if stderrors.As(err, &nErr) {
		return nErr
	}
	return NewInternal(err)
}
