package vo

import (
	"encoding/json"
	"fmt"
	"hash/maphash"
	"log/slog"
	"reflect"
	"strconv"
)

// Object is the type-erased view shared by every value object.
type Object interface {
	ClassName() string
	Kind() *Kind
	Sensitive() bool
	RawValue() any
	classID() any
}

// holder is implemented by Value and, through embedding, by every category
// wrapper around it.
type holder[T any] interface {
	core() Value[T]
}

// Value is an immutable validated payload bound to its class. Values are
// created by Class.New; the zero Value belongs to no class.
type Value[T any] struct {
	class *Class[T]
	value T
}

// Raw returns a copy of the payload.
func (v Value[T]) Raw() T {
	return v.class.t().clone(v.value)
}

// RawValue returns the payload as any.
func (v Value[T]) RawValue() any {
	return v.Raw()
}

// Class returns the class of the value.
func (v Value[T]) Class() *Class[T] {
	return v.class
}

// ClassName returns the class name.
func (v Value[T]) ClassName() string {
	return v.class.Name()
}

// Kind returns the kind of the value's class.
func (v Value[T]) Kind() *Kind {
	return v.class.Kind()
}

// Sensitive reports whether the class masks its payload.
func (v Value[T]) Sensitive() bool {
	return v.class.Sensitive()
}

// IsZero reports whether v was not produced by a class.
func (v Value[T]) IsZero() bool {
	return v.class == nil
}

func (v Value[T]) core() Value[T] { return v }

func (v Value[T]) classID() any { return v.class }

// Equal reports whether other is a value of the same class with an equal
// payload. Values of different classes are never equal.
func (v Value[T]) Equal(other any) bool {
	h, ok := other.(holder[T])
	if !ok {
		return false
	}
	o := h.core()
	if v.class == nil || o.class != v.class {
		return false
	}
	return v.class.traits.equal(v.value, o.value)
}

// Compare orders v against another value of the same class.
func (v Value[T]) Compare(other any) (int, error) {
	o, err := v.sameClass("comparison", other)
	if err != nil {
		return 0, err
	}
	return v.compare(o.value)
}

func (v Value[T]) compare(other T) (int, error) {
	compare := v.class.t().compare
	if compare == nil {
		return 0, NewUnsupportedOperationError("ordering", v.ClassName())
	}
	return compare(v.value, other), nil
}

// Less reports v < other.
func (v Value[T]) Less(other any) (bool, error) {
	c, err := v.Compare(other)
	return c < 0, err
}

// LessOrEqual reports v <= other.
func (v Value[T]) LessOrEqual(other any) (bool, error) {
	c, err := v.Compare(other)
	return err == nil && c <= 0, err
}

// Greater reports v > other.
func (v Value[T]) Greater(other any) (bool, error) {
	c, err := v.Compare(other)
	return c > 0, err
}

// GreaterOrEqual reports v >= other.
func (v Value[T]) GreaterOrEqual(other any) (bool, error) {
	c, err := v.Compare(other)
	return err == nil && c >= 0, err
}

// Truthy reports the truthiness of the payload: zero numbers and empty
// sequences or maps are false.
func (v Value[T]) Truthy() bool {
	return v.class.t().truthy(v.value)
}

// And combines v and other with the payload's conjunction.
func (v Value[T]) And(other any) (T, error) { return v.combine("&", other, false) }

// Or combines v and other with the payload's disjunction.
func (v Value[T]) Or(other any) (T, error) { return v.combine("|", other, false) }

// Xor combines v and other with the payload's exclusive or.
func (v Value[T]) Xor(other any) (T, error) { return v.combine("^", other, false) }

// RAnd is the reflected form of And: other & v.
func (v Value[T]) RAnd(other any) (T, error) { return v.combine("&", other, true) }

// ROr is the reflected form of Or: other | v.
func (v Value[T]) ROr(other any) (T, error) { return v.combine("|", other, true) }

// RXor is the reflected form of Xor: other ^ v.
func (v Value[T]) RXor(other any) (T, error) { return v.combine("^", other, true) }

func (v Value[T]) combine(op string, other any, reflected bool) (T, error) {
	var zero, rhs T
	switch o := other.(type) {
	case holder[T]:
		ov := o.core()
		if ov.class != v.class {
			return zero, NewTypeMismatchError(op, v.ClassName(), ov.ClassName())
		}
		rhs = ov.value
	case T:
		rhs = o
	default:
		return zero, NewTypeMismatchError(op, v.ClassName(), operandName(other))
	}
	a, b := v.value, rhs
	if reflected {
		a, b = b, a
	}
	out, ok := bitwise(op, a, b)
	if !ok {
		return zero, NewUnsupportedOperationError(op, v.ClassName())
	}
	return out, nil
}

func bitwise[T any](op string, a, b T) (T, bool) {
	switch op {
	case "&":
		if x, ok := any(a).(interface{ And(T) T }); ok {
			return x.And(b), true
		}
	case "|":
		if x, ok := any(a).(interface{ Or(T) T }); ok {
			return x.Or(b), true
		}
	case "^":
		if x, ok := any(a).(interface{ Xor(T) T }); ok {
			return x.Xor(b), true
		}
	}

	var out T
	ra, rb := reflect.ValueOf(&a).Elem(), reflect.ValueOf(&b).Elem()
	ro := reflect.ValueOf(&out).Elem()
	switch ra.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		x, y := ra.Int(), rb.Int()
		switch op {
		case "&":
			ro.SetInt(x & y)
		case "|":
			ro.SetInt(x | y)
		default:
			ro.SetInt(x ^ y)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		x, y := ra.Uint(), rb.Uint()
		switch op {
		case "&":
			ro.SetUint(x & y)
		case "|":
			ro.SetUint(x | y)
		default:
			ro.SetUint(x ^ y)
		}
	case reflect.Bool:
		x, y := ra.Bool(), rb.Bool()
		switch op {
		case "&":
			ro.SetBool(x && y)
		case "|":
			ro.SetBool(x || y)
		default:
			ro.SetBool(x != y)
		}
	default:
		return out, false
	}
	return out, true
}

// GoString renders Name(payload), or Name([MASKED]) for sensitive classes.
func (v Value[T]) GoString() string {
	if v.Sensitive() {
		return v.ClassName() + "(" + MaskPlaceholder + ")"
	}
	text := v.class.t().text(v.value)
	switch reflect.ValueOf(&v.value).Elem().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Bool:
	default:
		text = strconv.Quote(text)
	}
	return v.ClassName() + "(" + text + ")"
}

// Text returns the display form of the payload. Sensitive classes refuse
// with a SENSITIVE_ACCESS error.
func (v Value[T]) Text() (string, error) {
	if v.Sensitive() {
		return "", NewSensitiveAccessError(v.ClassName())
	}
	return v.class.t().text(v.value), nil
}

// String returns the display form, or the masked debug form for sensitive
// classes.
func (v Value[T]) String() string {
	s, err := v.Text()
	if err != nil {
		return v.GoString()
	}
	return s
}

// Key is a comparable identity of a value: its class and payload.
type Key struct {
	class any
	value any
}

var hashSeed = maphash.MakeSeed()

// Key returns the map key of v. It fails for payloads that cannot be
// compared, such as maps and slices.
func (v Value[T]) Key() (Key, error) {
	k := v.class.t().key(v.value)
	if k == nil {
		return Key{class: v.class}, nil
	}
	if !reflect.ValueOf(k).Comparable() {
		return Key{}, &Error{
			Code:    CodeUnhashable,
			Message: fmt.Sprintf("unhashable type: '%s'", v.ClassName()),
			Details: map[string]any{"class": v.ClassName()},
		}
	}
	return Key{class: v.class, value: k}, nil
}

// Hash returns a process-local hash of Key.
func (v Value[T]) Hash() (uint64, error) {
	k, err := v.Key()
	if err != nil {
		return 0, err
	}
	return maphash.Comparable(hashSeed, k), nil
}

// Copy returns a value of the same class holding a shallow copy of the
// payload. The validator is not run again.
func (v Value[T]) Copy() Value[T] {
	return Value[T]{class: v.class, value: v.class.t().clone(v.value)}
}

// DeepCopy returns a value of the same class holding a deep copy of the
// payload. The validator is not run again.
func (v Value[T]) DeepCopy() Value[T] {
	return Value[T]{class: v.class, value: v.class.t().deepClone(v.value)}
}

// MarshalJSON encodes the payload.
func (v Value[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.value)
}

// MarshalText encodes the display form. Sensitive classes refuse.
func (v Value[T]) MarshalText() ([]byte, error) {
	s, err := v.Text()
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// MarshalYAML encodes the payload.
func (v Value[T]) MarshalYAML() (any, error) {
	return v.value, nil
}

// LogValue implements slog.LogValuer and masks sensitive payloads.
func (v Value[T]) LogValue() slog.Value {
	if v.Sensitive() {
		return slog.StringValue(MaskPlaceholder)
	}
	return slog.AnyValue(v.value)
}

// sameClass returns other's underlying value when it belongs to v's class.
func (v Value[T]) sameClass(op string, other any) (Value[T], error) {
	h, ok := other.(holder[T])
	if !ok {
		return Value[T]{}, NewTypeMismatchError(op, v.ClassName(), operandName(other))
	}
	o := h.core()
	if v.class == nil || o.class != v.class {
		return Value[T]{}, NewTypeMismatchError(op, v.ClassName(), o.ClassName())
	}
	return o, nil
}

func operandName(x any) string {
	switch o := x.(type) {
	case nil:
		return "nil"
	case Object:
		return o.ClassName()
	}
	return fmt.Sprintf("%T", x)
}

// Unwrap returns the payload of a value object, or false for anything else.
// It is the hook generic encoders use to serialize value objects
// transparently.
func Unwrap(x any) (any, bool) {
	o, ok := x.(Object)
	if !ok {
		return nil, false
	}
	return o.RawValue(), true
}
