package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code if the chain carries an AppError,
// otherwise "UNKNOWN".
func GetCode(err error) string {
	for e := err; e != nil; {
		if ae, ok := e.(*AppError); ok {
			return ae.Code
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	return "UNKNOWN"
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code string) bool {
	return GetCode(err) == code
}

// Error codes. Per-record and per-object failures (extraction, transient
// fetch) are absorbed into build counters; only configuration failures
// abort a whole operation.
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeExtractionError  = "EXTRACTION_ERROR"
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeFilterEmpty      = "FILTER_RESULT_EMPTY"
	CodeTransientFetch   = "TRANSIENT_FETCH"
	CodeStorageError     = "STORAGE_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeInternalError    = "INTERNAL_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func ExtractionError(message string, cause error) *AppError {
	return &AppError{Code: CodeExtractionError, Message: message, Cause: cause}
}

func InsufficientData(message string) *AppError {
	return New(CodeInsufficientData, message)
}

func FilterEmpty(message string) *AppError {
	return New(CodeFilterEmpty, message)
}

func TransientFetch(key string, cause error) *AppError {
	return &AppError{
		Code:    CodeTransientFetch,
		Message: fmt.Sprintf("failed to fetch object %s", key),
		Cause:   cause,
	}
}

func StorageError(message string, cause error) *AppError {
	return &AppError{Code: CodeStorageError, Message: message, Cause: cause}
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}
