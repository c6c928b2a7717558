// internal/error/error.go

package error

import (
	"errors"
	"fmt"
)

type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

type ErrorType int

const (
	ConfigError ErrorType = iota
	SessionError
	ValidationError
	PersistenceError
)

func (t ErrorType) String() string {
	switch t {
	case ConfigError:
		return "config"
	case SessionError:
		return "session"
	case ValidationError:
		return "validation"
	case PersistenceError:
		return "persistence"
	default:
		return "unknown"
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any *AppError of the same Type, so callers can write
// errors.Is(err, apperr.New(apperr.SessionError, "", nil)) or use IsType.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Type == e.Type
}

func New(errType ErrorType, message string, err error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// Session builds a SessionError. Message is the text shown to the user.
func Session(message string, err error) *AppError {
	return New(SessionError, message, err)
}

func Validation(message string) *AppError {
	return New(ValidationError, message, nil)
}

func Persistence(message string, err error) *AppError {
	return New(PersistenceError, message, err)
}

func Config(message string, err error) *AppError {
	return New(ConfigError, message, err)
}

// IsType reports whether err wraps an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Type == errType
}

// Reason returns the user-facing message of an AppError, or err.Error() otherwise.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
