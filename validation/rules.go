package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/authcorp/valueobject/schema"
	"github.com/authcorp/valueobject/vo"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// DefaultField is the path reported for issues of unnamed rules.
const DefaultField = "value"

var (
	engine     *validator.Validate
	engineOnce sync.Once
)

// Engine returns the shared validator instance used by every Rules value.
func Engine() *validator.Validate {
	engineOnce.Do(func() {
		engine = validator.New(validator.WithRequiredStructEnabled())
		engine.RegisterCustomTypeFunc(func(v reflect.Value) any {
			return v.Interface().(decimal.Decimal).InexactFloat64()
		}, decimal.Decimal{})
		engine.RegisterCustomTypeFunc(func(v reflect.Value) any {
			d := v.Interface().(vo.Date)
			if d.IsZero() {
				return time.Time{}
			}
			return d.Time()
		}, vo.Date{})
	})
	return engine
}

// RegisterValidation adds a custom tag to the shared engine. Tags must be
// registered before the classes that use them construct values.
func RegisterValidation(tag string, fn validator.Func) error {
	return Engine().RegisterValidation(tag, fn)
}

// Rules validates raw values against a validator tag and extra checks. It
// implements vo.Validator, vo.Annotated and schema.Describer.
type Rules[T any] struct {
	tag        string
	field      string
	underlying reflect.Type
	transforms []func(T) T
	checks     []Check[T]
	describe   []func(*schema.Schema)
}

// RuleOption configures Rules.
type RuleOption[T any] func(*Rules[T])

// Tag creates rules from a go-playground/validator tag such as
// "required,min=3,max=64". An empty tag applies only the options.
func Tag[T any](tag string, opts ...RuleOption[T]) *Rules[T] {
	r := &Rules[T]{tag: strings.TrimSpace(tag), field: DefaultField}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Transform normalizes the raw value before it is checked. Transforms run in
// order and their result is the stored value.
func Transform[T any](fn func(T) T) RuleOption[T] {
	return func(r *Rules[T]) { r.transforms = append(r.transforms, fn) }
}

// With adds checks that run after the tag rules.
func With[T any](checks ...Check[T]) RuleOption[T] {
	return func(r *Rules[T]) { r.checks = append(r.checks, checks...) }
}

// Field sets the path reported in issues.
func Field[T any](name string) RuleOption[T] {
	return func(r *Rules[T]) { r.field = name }
}

// Underlying declares the plain type the rules stand for when T is an
// interface type.
func Underlying[T any](t reflect.Type) RuleOption[T] {
	return func(r *Rules[T]) { r.underlying = t }
}

// Describe adds schema constraints the tag cannot express.
func Describe[T any](fn func(*schema.Schema)) RuleOption[T] {
	return func(r *Rules[T]) { r.describe = append(r.describe, fn) }
}

// Validate runs transforms, tag rules and checks. Every failed rule is
// reported in the returned *Error.
func (r *Rules[T]) Validate(raw T) (T, error) {
	value := raw
	for _, fn := range r.transforms {
		value = fn(value)
	}

	b := NewBuilder()
	if err := r.run(value); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return raw, err
		}
		for _, fe := range fieldErrs {
			b.Validate(r.field, &ValidationError{Field: r.field, Message: message(fe)})
		}
	}
	for _, check := range r.checks {
		b.Validate(r.field, check(r.field, value))
	}
	if err := b.Build(); err != nil {
		return raw, err
	}
	return value, nil
}

// Compile reports a malformed tag, such as an unknown rule name, without
// validating a value.
func (r *Rules[T]) Compile() error {
	var zero T
	err := r.run(zero)
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return nil
	}
	return err
}

func (r *Rules[T]) run(value T) (err error) {
	if r.tag == "" {
		return nil
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("validation rules %q: %v", r.tag, p)
		}
	}()
	return Engine().Var(value, r.tag)
}

// UnderlyingType returns the plain type the rules stand for. It is safe to
// call on a nil receiver.
func (r *Rules[T]) UnderlyingType() reflect.Type {
	if r != nil && r.underlying != nil {
		return r.underlying
	}
	return reflect.TypeFor[T]()
}

// DescribeSchema adds the constraints of the tag and of Describe options.
func (r *Rules[T]) DescribeSchema(s *schema.Schema) {
	schema.ApplyTag(s, r.tag)
	for _, fn := range r.describe {
		fn(s)
	}
}

// String returns the tag.
func (r *Rules[T]) String() string {
	return r.tag
}

func message(fe validator.FieldError) string {
	param := fe.Param()
	text := fe.Kind() == reflect.String || fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		if text {
			return fmt.Sprintf("must have at least %s characters", param)
		}
		return fmt.Sprintf("must be >= %s", param)
	case "max", "lte":
		if text {
			return fmt.Sprintf("must have at most %s characters", param)
		}
		return fmt.Sprintf("must be <= %s", param)
	case "gt":
		if param == "" {
			return "must be in the future"
		}
		return fmt.Sprintf("must be > %s", param)
	case "lt":
		if param == "" {
			return "must be in the past"
		}
		return fmt.Sprintf("must be < %s", param)
	case "len":
		return fmt.Sprintf("must have length %s", param)
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", param)
	case "email":
		return "must be a valid email address"
	case "url", "http_url", "uri":
		return "must be a valid URL"
	case "uuid", "uuid4", "uuid_rfc4122", "uuid4_rfc4122":
		return "must be a valid UUID"
	case "e164":
		return "must be an E.164 phone number"
	case "datetime":
		return fmt.Sprintf("must match the layout %s", param)
	}
	if param != "" {
		return fmt.Sprintf("failed on the '%s=%s' rule", fe.Tag(), param)
	}
	return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
}
