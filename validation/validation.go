// Package validation bridges go-playground/validator rules into value object
// construction.
//
// A Rules value is a vo.Validator built from a validator tag, optional
// transforms and optional checks:
//
//	email := vo.Must(vo.DefineString("Email", validation.Tag[string]("required,max=254,email",
//		validation.Transform(strings.ToLower),
//	)))
package validation

import (
	"fmt"
	"strings"
)

// ValidationError is one failed rule: the path of the offending value and
// a message.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Error is returned by Rules when validation fails. It carries every failed
// rule.
type Error struct {
	Issues []*ValidationError `json:"issues"`
}

func (e *Error) Error() string {
	switch len(e.Issues) {
	case 0:
		return "validation failed"
	case 1:
		return e.Issues[0].Error()
	}
	return fmt.Sprintf("%d validation errors: %v", len(e.Issues), e.Issues[0])
}

// Messages returns the issue messages in order.
func (e *Error) Messages() []string {
	out := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		out[i] = issue.Error()
	}
	return out
}

// Check is a function that validates a value.
type Check[T any] func(field string, value T) error

// Positive returns a check that a number is positive.
func Positive[T ~int | ~int32 | ~int64 | ~float64]() Check[T] {
	return func(field string, value T) error {
		if value <= 0 {
			return &ValidationError{Field: field, Message: "must be positive"}
		}
		return nil
	}
}

// NonNegative returns a check that a number is non-negative.
func NonNegative[T ~int | ~int32 | ~int64 | ~float64]() Check[T] {
	return func(field string, value T) error {
		if value < 0 {
			return &ValidationError{Field: field, Message: "must be >= 0"}
		}
		return nil
	}
}

// InRange returns a check that a value is in range [min, max].
func InRange[T ~int | ~int32 | ~int64 | ~float64](min, max T) Check[T] {
	return func(field string, value T) error {
		if value < min || value > max {
			return &ValidationError{
				Field:   field,
				Message: fmt.Sprintf("must be in range [%v, %v]", min, max),
			}
		}
		return nil
	}
}

// NonEmpty returns a check that a string has non-space content.
func NonEmpty() Check[string] {
	return func(field string, value string) error {
		if strings.TrimSpace(value) == "" {
			return &ValidationError{Field: field, Message: "must not be empty"}
		}
		return nil
	}
}

// MinLength returns a check that a string has at least min characters.
func MinLength(min int) Check[string] {
	return func(field string, value string) error {
		if len([]rune(value)) < min {
			return &ValidationError{
				Field:   field,
				Message: fmt.Sprintf("must have at least %d characters", min),
			}
		}
		return nil
	}
}

// MaxLength returns a check that a string has at most max characters.
func MaxLength(max int) Check[string] {
	return func(field string, value string) error {
		if len([]rune(value)) > max {
			return &ValidationError{
				Field:   field,
				Message: fmt.Sprintf("must have at most %d characters", max),
			}
		}
		return nil
	}
}

// OneOf returns a check that a value is one of the allowed values.
func OneOf[T comparable](allowed ...T) Check[T] {
	return func(field string, value T) error {
		for _, a := range allowed {
			if value == a {
				return nil
			}
		}
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be one of %v", allowed),
		}
	}
}

// Compose combines multiple checks into one that stops at the first
// failure.
func Compose[T any](checks ...Check[T]) Check[T] {
	return func(field string, value T) error {
		for _, c := range checks {
			if err := c(field, value); err != nil {
				return err
			}
		}
		return nil
	}
}

// Builder collects validation issues.
type Builder struct {
	issues []*ValidationError
}

// NewBuilder creates a new validation builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Validate adds a failure to the builder. Errors that are not
// *ValidationError are recorded under field.
func (b *Builder) Validate(field string, err error) *Builder {
	switch e := err.(type) {
	case nil:
	case *ValidationError:
		b.issues = append(b.issues, e)
	case *Error:
		b.issues = append(b.issues, e.Issues...)
	default:
		b.issues = append(b.issues, &ValidationError{Field: field, Message: err.Error()})
	}
	return b
}

// HasErrors reports whether any issue was recorded.
func (b *Builder) HasErrors() bool {
	return len(b.issues) > 0
}

// Build returns an *Error holding the issues, or nil if there are none.
func (b *Builder) Build() error {
	if len(b.issues) == 0 {
		return nil
	}
	return &Error{Issues: b.issues}
}
