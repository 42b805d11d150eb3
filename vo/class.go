package vo

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/authcorp/valueobject/schema"
)

// MaskPlaceholder replaces the payload of sensitive values in debug output.
const MaskPlaceholder = "[MASKED]"

// Validator checks a raw value and returns the value to store. A failing
// validator's error is returned to callers as is.
type Validator[T any] interface {
	Validate(raw T) (T, error)
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc[T any] func(raw T) (T, error)

// Validate calls f(raw).
func (f ValidatorFunc[T]) Validate(raw T) (T, error) {
	return f(raw)
}

// Accept returns a validator that stores every raw value unchanged.
func Accept[T any]() Validator[T] {
	return ValidatorFunc[T](func(raw T) (T, error) { return raw, nil })
}

// Observer is notified of every construction attempt.
type Observer interface {
	Constructed(class string, err error)
}

// Option configures a class definition.
type Option interface {
	apply(*classConfig)
}

type classConfig struct {
	sensitive bool
	kind      *Kind
	observer  Observer
	traits    []any
}

type optionFunc func(*classConfig)

func (f optionFunc) apply(c *classConfig) { f(c) }

// Sensitive marks the class as holding secrets: its display form is denied
// and its debug form is masked.
func Sensitive() Option {
	return optionFunc(func(c *classConfig) { c.sensitive = true })
}

// WithKind binds the class to a kind. The kind must accept the payload type.
func WithKind(k *Kind) Option {
	return optionFunc(func(c *classConfig) { c.kind = k })
}

// WithObserver attaches a construction observer.
func WithObserver(o Observer) Option {
	return optionFunc(func(c *classConfig) { c.observer = o })
}

// WithCompare sets the payload ordering. A nil function makes the class
// unordered.
func WithCompare[T any](compare func(a, b T) int) Option {
	return optionFunc(func(c *classConfig) {
		c.traits = append(c.traits, func(t *traits[T]) { t.compare = compare })
	})
}

// WithEqual sets the payload equality.
func WithEqual[T any](equal func(a, b T) bool) Option {
	return optionFunc(func(c *classConfig) {
		c.traits = append(c.traits, func(t *traits[T]) { t.equal = equal })
	})
}

// WithText sets the display form and its inverse.
func WithText[T any](format func(T) string, parse func(string) (T, error)) Option {
	return optionFunc(func(c *classConfig) {
		c.traits = append(c.traits, func(t *traits[T]) {
			if format != nil {
				t.text = format
			}
			if parse != nil {
				t.parse = parse
			}
		})
	})
}

// Class describes one value object type: its name, validator and payload
// semantics. Class identity is pointer identity.
type Class[T any] struct {
	name      string
	sensitive bool
	kind      *Kind
	validator Validator[T]
	traits    traits[T]
	observer  Observer
}

// Define creates a class bound to RootKind unless WithKind is given.
func Define[T any](name string, validator Validator[T], opts ...Option) (*Class[T], error) {
	return define(name, validator, RootKind, defaultTraits[T](), opts)
}

func define[T any](name string, validator Validator[T], kind *Kind, tr traits[T], opts []Option) (*Class[T], error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewInvalidValueError(RootKind.name, "class name is required")
	}
	cfg := classConfig{kind: kind}
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	if cfg.kind == nil {
		cfg.kind = RootKind
	}
	if validator == nil {
		validator = Accept[T]()
	}
	if err := checkKind[T](name, cfg.kind, validator); err != nil {
		return nil, err
	}
	for _, fn := range cfg.traits {
		set, ok := fn.(func(*traits[T]))
		if !ok {
			return nil, NewInvalidValueError(name, fmt.Sprintf("option does not apply to %s payloads", reflect.TypeFor[T]()))
		}
		set(&tr)
	}
	shareClassOnCopy[T]()
	return &Class[T]{
		name:      name,
		sensitive: cfg.sensitive,
		kind:      cfg.kind,
		validator: validator,
		traits:    tr,
		observer:  cfg.observer,
	}, nil
}

// checkKind ensures the kind accepts the raw type the validator stands for.
func checkKind[T any](name string, kind *Kind, validator Validator[T]) error {
	raw := rawTypeOf[T](validator)
	if !kind.accepts(raw) {
		return NewTypeMismatchError("definition of "+name, kind.Name(), raw.String()).
			WithDetail("reason", "types mismatch")
	}
	return nil
}

func rawTypeOf[T any](validator Validator[T]) reflect.Type {
	if a, ok := validator.(Annotated); ok {
		if u := a.UnderlyingType(); u != nil {
			return Normalize(u)
		}
	}
	return Normalize(reflect.TypeFor[T]())
}

// Name returns the class name.
func (c *Class[T]) Name() string {
	if c == nil {
		return RootKind.name
	}
	return c.name
}

// Sensitive reports whether the class masks its payload.
func (c *Class[T]) Sensitive() bool {
	return c != nil && c.sensitive
}

// Kind returns the kind the class is bound to.
func (c *Class[T]) Kind() *Kind {
	if c == nil {
		return RootKind
	}
	return c.kind
}

// Validator returns the class validator.
func (c *Class[T]) Validator() Validator[T] {
	return c.validator
}

// Ordered reports whether values of the class can be compared.
func (c *Class[T]) Ordered() bool {
	return c.t().compare != nil
}

// New validates raw and wraps the result.
func (c *Class[T]) New(raw T) (Value[T], error) {
	v, err := c.validator.Validate(raw)
	if c.observer != nil {
		c.observer.Constructed(c.name, err)
	}
	if err != nil {
		return Value[T]{}, err
	}
	return Value[T]{class: c, value: c.traits.clone(v)}, nil
}

// MustNew is like New but panics on error.
func (c *Class[T]) MustNew(raw T) Value[T] {
	return Must(c.New(raw))
}

// Parse reads the display form of a payload and constructs a value from it.
func (c *Class[T]) Parse(text string) (Value[T], error) {
	raw, err := c.traits.parse(text)
	if err != nil {
		return Value[T]{}, NewInvalidValueError(c.name, fmt.Sprintf("cannot parse %q", text)).WithCause(err)
	}
	return c.New(raw)
}

// Schema describes the class for documentation generators. The title is the
// class name.
func (c *Class[T]) Schema() *schema.Schema {
	var s *schema.Schema
	switch c.Kind() {
	case DateKind:
		s = &schema.Schema{Type: schema.TypeString, Format: schema.FormatDate}
	case DateTimeKind:
		s = &schema.Schema{Type: schema.TypeString, Format: schema.FormatDateTime}
	case DecimalKind:
		s = &schema.Schema{Type: schema.TypeNumber}
	default:
		s = schema.For(reflect.TypeFor[T]())
	}
	if d, ok := c.validator.(schema.Describer); ok {
		d.DescribeSchema(s)
	}
	s.Title = c.Name()
	if c.Sensitive() {
		s.Format = schema.FormatPassword
		s.WriteOnly = true
	}
	return s
}

func (c *Class[T]) String() string {
	return c.Name()
}

// wrap builds a value without running the validator. Callers guarantee the
// payload came from an existing value of the class.
func (c *Class[T]) wrap(v T) Value[T] {
	return Value[T]{class: c, value: v}
}

func (c *Class[T]) t() *traits[T] {
	if c == nil {
		d := defaultTraits[T]()
		return &d
	}
	return &c.traits
}
