// Package diagnostics defines the coded error values shared by every stage
// of signature processing: declaration-time parse errors, call-time binding
// failures, and misuse of the bound parameter map by callable bodies.
package diagnostics

import (
	"errors"
	"fmt"

	"github.com/funvibe/sigbind/internal/token"
)

type Code string

const (
	// Declaration time.
	ErrParse        Code = "S001" // malformed signature text
	ErrNameNotFound Code = "S002" // builder or hook name unresolved

	// Bind time.
	ErrMissingRequired      Code = "B001"
	ErrUnrecognizedArgument Code = "B002"
	ErrCircularBuilder      Code = "B003"

	// Type gateway.
	ErrConstraintViolation Code = "T001"
	ErrCoercionFailed      Code = "T002"
	ErrUnknownConstraint   Code = "T003"

	// Hooks.
	ErrCheckFailed Code = "H001"

	// Bound map misuse.
	ErrUnknownParameter  Code = "M001"
	ErrReadOnlyViolation Code = "M002"
)

// Error is the single error type produced by the core. Param and Invocation
// are filled in where they apply; Line/Column are meaningful only for
// declaration-time codes.
type Error struct {
	Code       Code
	Message    string
	Param      string // offending parameter, if any
	Invocation string // invocation ID for bind-time errors, if any
	Line       int
	Column     int
}

func (e *Error) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("[%s] %s (at %d:%d)", e.Code, e.Message, e.Line, e.Column)
	case e.Param != "":
		return fmt.Sprintf("[%s] parameter %q: %s", e.Code, e.Param, e.Message)
	default:
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
}

// NewError creates a positioned declaration-time error from the token that
// triggered it.
func NewError(code Code, tok token.Token, format string, a ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, a...),
		Line:    tok.Line,
		Column:  tok.Column,
	}
}

// NewParamError creates a bind-time error attached to a parameter.
func NewParamError(code Code, param string, format string, a ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, a...),
		Param:   param,
	}
}

// Is reports whether err is (or wraps) a diagnostics error with the given code.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
