package errors

import "fmt"

// ErrorCode represents a Foxer error code.
type ErrorCode string

const (
	ErrValidation      ErrorCode = "VALIDATION"        // 422
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"   // 400
	ErrNotFound        ErrorCode = "NOT_FOUND"         // 404
	ErrOriginForbidden ErrorCode = "ORIGIN_FORBIDDEN"  // 403
	ErrPayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE" // 413
	ErrUpstreamFailed  ErrorCode = "UPSTREAM_FAILED"   // 502
	ErrUpstreamTimeout ErrorCode = "UPSTREAM_TIMEOUT"  // 504
	ErrPersistence     ErrorCode = "PERSISTENCE"       // 500 (non-fatal, in-memory model keeps going)
	ErrInternal        ErrorCode = "INTERNAL"          // 500
)

// FoxerError represents a structured error with code, status, and details.
type FoxerError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *FoxerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidation creates a 422 error for rejected user input.
func NewValidation(msg string) *FoxerError {
	return &FoxerError{
		Code:    ErrValidation,
		Status:  422,
		Message: msg,
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *FoxerError {
	return &FoxerError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a task cannot be found.
func NewNotFound(id string) *FoxerError {
	return &FoxerError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("task not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewOriginForbidden creates a 403 error for a caller origin outside the allow-list.
func NewOriginForbidden(origin string) *FoxerError {
	return &FoxerError{
		Code:    ErrOriginForbidden,
		Status:  403,
		Message: fmt.Sprintf("origin not allowed: %s", origin),
		Details: map[string]any{"origin": origin},
	}
}

// NewPayloadTooLarge creates a 413 error when an upload exceeds the size limit.
func NewPayloadTooLarge(max, actual int) *FoxerError {
	return &FoxerError{
		Code:    ErrPayloadTooLarge,
		Status:  413,
		Message: fmt.Sprintf("payload exceeds maximum size: %d bytes (max %d)", actual, max),
		Details: map[string]any{"max_bytes": max, "actual_bytes": actual},
	}
}

// NewUpstreamFailed creates a 502 error for a non-2xx upstream response.
// The upstream body is never passed through verbatim.
func NewUpstreamFailed(status int) *FoxerError {
	return &FoxerError{
		Code:    ErrUpstreamFailed,
		Status:  502,
		Message: "transcription upstream failed",
		Details: map[string]any{"upstream_status": status},
	}
}

// NewUpstreamTimeout creates a 504 error for an upstream deadline.
func NewUpstreamTimeout() *FoxerError {
	return &FoxerError{
		Code:    ErrUpstreamTimeout,
		Status:  504,
		Message: "transcription upstream timed out",
	}
}

// NewPersistence creates a 500 error for a storage read/write failure.
func NewPersistence(err error) *FoxerError {
	msg := "persistence failure"
	if err != nil {
		msg = err.Error()
	}
	return &FoxerError{
		Code:    ErrPersistence,
		Status:  500,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *FoxerError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &FoxerError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a FoxerError with the given code.
func Is(err error, code ErrorCode) bool {
	if fErr, ok := err.(*FoxerError); ok {
		return fErr.Code == code
	}
	return false
}
