// Package errors defines the coded errors shared by every skillgraph package.
//
// A [Code] tells callers what kind of failure happened, so the CLI, the HTTP
// API and the view controller pick a user-visible state without matching on
// message text:
//
//	INVALID_*            bad input, data or configuration
//	NOT_FOUND            missing file, domain or saved layout
//	VIEW_NOT_FOUND       unknown server-side view session
//	DATA_FETCH           a data file could not be loaded
//	NETWORK_ERROR        transport failure talking to a remote source
//	TIMEOUT              a wait ran out
//	TESSELLATION_FAILED  the solver could not partition a region
//	DEGRADED_LAYOUT      cells stayed isolated after every retry
//	LIBRARY_UNAVAILABLE  the rendering library never became ready
//	INTERNAL_ERROR       anything else
//
// Build errors with [New] or [Wrap] and test them with [Is]:
//
//	if errors.Is(err, errors.ErrCodeDataFetch) {
//	    // show "could not load data"
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error kind.
type Code string

const (
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidSource    Code = "INVALID_SOURCE"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidHierarchy Code = "INVALID_HIERARCHY"
	ErrCodeInvalidPath      Code = "INVALID_PATH"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeViewNotFound Code = "VIEW_NOT_FOUND"

	ErrCodeDataFetch Code = "DATA_FETCH"
	ErrCodeNetwork   Code = "NETWORK_ERROR"
	ErrCodeTimeout   Code = "TIMEOUT"

	ErrCodeTessellationFailed Code = "TESSELLATION_FAILED"
	ErrCodeDegradedLayout     Code = "DEGRADED_LAYOUT"

	ErrCodeLibraryUnavailable Code = "LIBRARY_UNAVAILABLE"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

var statusByCode = map[Code]int{
	ErrCodeInvalidInput:       http.StatusBadRequest,
	ErrCodeInvalidSource:      http.StatusBadRequest,
	ErrCodeInvalidFormat:      http.StatusBadRequest,
	ErrCodeInvalidHierarchy:   http.StatusBadRequest,
	ErrCodeInvalidPath:        http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeViewNotFound:       http.StatusNotFound,
	ErrCodeDataFetch:          http.StatusBadGateway,
	ErrCodeNetwork:            http.StatusBadGateway,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeLibraryUnavailable: http.StatusServiceUnavailable,
}

// Status is the HTTP status the API answers with for c.
func (c Code) Status() int {
	if s, ok := statusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error carries a Code, a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether any *Error in err's chain has code.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage is the message without the code prefix. Plain errors are
// returned as is; nil gives "".
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps err to a response status via its outermost code.
func HTTPStatus(err error) int { return GetCode(err).Status() }
