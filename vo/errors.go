package vo

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrorCode identifies the category of a value object failure.
type ErrorCode string

// Error codes raised by the framework itself. Validation failures are not
// listed here: they come from the validator unchanged.
const (
	CodeTypeMismatch         ErrorCode = "TYPE_MISMATCH"
	CodeSensitiveAccess      ErrorCode = "SENSITIVE_ACCESS"
	CodeRegistryConflict     ErrorCode = "REGISTRY_CONFLICT"
	CodeRegistryShape        ErrorCode = "REGISTRY_SHAPE"
	CodeUnsupportedOperation ErrorCode = "UNSUPPORTED_OPERATION"
	CodeKeyNotFound          ErrorCode = "KEY_NOT_FOUND"
	CodeIndexOutOfRange      ErrorCode = "INDEX_OUT_OF_RANGE"
	CodeUnhashable           ErrorCode = "UNHASHABLE"
	CodeInvalidValue         ErrorCode = "INVALID_VALUE"
)

// Sentinels for errors.Is matching. Any *Error with the same code matches.
var (
	ErrTypeMismatch         = &Error{Code: CodeTypeMismatch}
	ErrSensitiveAccess      = &Error{Code: CodeSensitiveAccess}
	ErrRegistryConflict     = &Error{Code: CodeRegistryConflict}
	ErrRegistryShape        = &Error{Code: CodeRegistryShape}
	ErrUnsupportedOperation = &Error{Code: CodeUnsupportedOperation}
	ErrKeyNotFound          = &Error{Code: CodeKeyNotFound}
	ErrIndexOutOfRange      = &Error{Code: CodeIndexOutOfRange}
	ErrUnhashable           = &Error{Code: CodeUnhashable}
	ErrInvalidValue         = &Error{Code: CodeInvalidValue}
)

// Error is the error type returned by value object operations and the
// registry.
type Error struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches errors carrying the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause attaches an underlying cause.
func (e *Error) WithCause(cause error) *Error {
	e.cause = cause
	return e
}

// WithDetail adds a detail entry.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// AsError extracts an *Error from the chain.
func AsError(err error) (*Error, bool) {
	return AsType[*Error](err)
}

// AsType is a generic errors.As.
func AsType[T error](err error) (T, bool) {
	var target T
	if errors.As(err, &target) {
		return target, true
	}
	return target, false
}

// Must panics if err is not nil, otherwise returns value. It is meant for
// package-level class definitions.
func Must[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}
	return value
}

// NewTypeMismatchError reports a binary operation between operands of
// different classes.
func NewTypeMismatchError(op, left, right string) *Error {
	return &Error{
		Code:    CodeTypeMismatch,
		Message: fmt.Sprintf("unsupported operand type(s) for %s: '%s' and '%s'", op, left, right),
		Details: map[string]any{"operation": op, "left": left, "right": right},
	}
}

// NewSensitiveAccessError reports a denied string coercion.
func NewSensitiveAccessError(class string) *Error {
	return &Error{
		Code:    CodeSensitiveAccess,
		Message: fmt.Sprintf("access to %s is not allowed", class),
		Details: map[string]any{"class": class},
	}
}

// NewRegistryConflictError reports a raw type already claimed by another kind.
func NewRegistryConflictError(raw reflect.Type, owner, kind string) *Error {
	return &Error{
		Code:    CodeRegistryConflict,
		Message: fmt.Sprintf("type conflict: %s already registered by %s", raw, owner),
		Details: map[string]any{"raw_type": raw.String(), "owner": owner, "kind": kind},
	}
}

// NewRegistryShapeError reports a kind that cannot be registered.
func NewRegistryShapeError(kind, reason string) *Error {
	return &Error{
		Code:    CodeRegistryShape,
		Message: fmt.Sprintf("%s: %s", kind, reason),
		Details: map[string]any{"kind": kind},
	}
}

// NewUnsupportedOperationError reports an operation the payload cannot perform.
func NewUnsupportedOperationError(op, class string) *Error {
	return &Error{
		Code:    CodeUnsupportedOperation,
		Message: fmt.Sprintf("%s not supported by %s", op, class),
		Details: map[string]any{"operation": op, "class": class},
	}
}

// NewInvalidValueError reports a malformed raw input outside the validator,
// such as unparsable text or an out-of-range date.
func NewInvalidValueError(class, message string) *Error {
	return &Error{
		Code:    CodeInvalidValue,
		Message: fmt.Sprintf("%s: %s", class, message),
		Details: map[string]any{"class": class},
	}
}
