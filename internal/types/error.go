package types

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies failures for callers
type ErrorKind string

const (
	KindUnauthenticated   ErrorKind = "unauthenticated"
	KindForbidden         ErrorKind = "forbidden"
	KindNotFound          ErrorKind = "not_found"
	KindValidationFailed  ErrorKind = "validation"
	KindDependencyFailure ErrorKind = "dependency"
)

// AppError is the typed failure returned by every operation
type AppError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Type    string    `json:"type"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s [type: %s]: %v", e.Kind, e.Message, e.Type, e.Err)
	}
	return fmt.Sprintf("%s: %s [type: %s]", e.Kind, e.Message, e.Type)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Status maps the error kind to an HTTP status code
func (e *AppError) Status() int {
	switch e.Kind {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidationFailed:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func Unauthenticated(errorType, format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindUnauthenticated, Type: errorType, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(errorType, format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindForbidden, Type: errorType, Message: fmt.Sprintf(format, args...)}
}

func NotFound(errorType, format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindNotFound, Type: errorType, Message: fmt.Sprintf(format, args...)}
}

func Validation(errorType, format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidationFailed, Type: errorType, Message: fmt.Sprintf(format, args...)}
}

// Dependency wraps a record store (or other primary collaborator) failure
func Dependency(errorType string, err error) *AppError {
	return &AppError{Kind: KindDependencyFailure, Type: errorType, Message: "record store failure", Err: err}
}

// KindOf returns the kind of err, or DependencyFailure for untyped errors
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindDependencyFailure
}

// IsKind reports whether err is an AppError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}
