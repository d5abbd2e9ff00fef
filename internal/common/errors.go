package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnreadable      = errors.New("document unreadable")
	ErrInvalidDocument = errors.New("invalid document")
	ErrDatabase        = errors.New("database error")
	ErrRemote          = errors.New("remote api error")
	ErrValidation      = errors.New("validation failed")
)

// Document-level failure codes.
const (
	CodeOpen          = "OPEN_ERROR"
	CodeRead          = "READ_ERROR"
	CodeHash          = "HASH_ERROR"
	CodeEmptyDocument = "EMPTY_DOCUMENT"
	CodePanic         = "PANIC"
	CodeCanceled      = "CANCELED"
	CodeValidation    = "VALIDATION_ERROR"
	CodeConfig        = "CONFIG_ERROR"
	CodeRemote        = "REMOTE_ERROR"
	CodeDatabase      = "DATABASE_ERROR"
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// ErrorCode returns the AppError code carried anywhere in err's chain, or "".
func ErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
