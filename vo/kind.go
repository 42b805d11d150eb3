package vo

import (
	"reflect"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Kind is a value object base category. Concrete classes are bound to one
// kind; registered kinds take part in raw type lookups.
//
// A kind declares its raw types explicitly with Accepts. Each Accepts call is
// one parameterization; several types in a single call form a union.
type Kind struct {
	name   string
	parent *Kind
	params [][]reflect.Type
}

// KindOption configures a Kind.
type KindOption func(*Kind)

// Accepts declares one parameterization of the kind.
func Accepts(types ...reflect.Type) KindOption {
	return func(k *Kind) {
		k.params = append(k.params, slices.Clone(types))
	}
}

// WithParent places the kind under another kind.
func WithParent(parent *Kind) KindOption {
	return func(k *Kind) {
		if parent != nil {
			k.parent = parent
		}
	}
}

// NewKind creates a kind derived from RootKind unless a parent is given.
func NewKind(name string, opts ...KindOption) *Kind {
	k := &Kind{name: name, parent: RootKind}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Name returns the kind name.
func (k *Kind) Name() string {
	if k == nil {
		return RootKind.name
	}
	return k.name
}

func (k *Kind) String() string {
	return k.Name()
}

// Parent returns the parent kind, nil for the root.
func (k *Kind) Parent() *Kind {
	return k.parent
}

// AcceptedTypes returns every raw type across all parameterizations.
func (k *Kind) AcceptedTypes() []reflect.Type {
	var out []reflect.Type
	for _, p := range k.params {
		for _, t := range p {
			if t != nil && !slices.Contains(out, t) {
				out = append(out, t)
			}
		}
	}
	return out
}

// DerivesFrom reports whether other is k or one of its ancestors.
func (k *Kind) DerivesFrom(other *Kind) bool {
	for cur := k; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}

// accepts reports whether t is a subtype of one of the accepted raw types.
func (k *Kind) accepts(t reflect.Type) bool {
	if k == RootKind {
		return true
	}
	for _, at := range k.AcceptedTypes() {
		if isSubtype(t, at) {
			return true
		}
	}
	return false
}

// RootKind is the implicit base of every kind and always matches.
var RootKind = &Kind{name: "ValueObject"}

// Abstract category kinds. They declare no raw types and are not registered.
var (
	NumericKind  = NewKind("Numeric")
	TextKind     = NewKind("Text")
	DateLikeKind = NewKind("DateLike")
)

// Built-in kinds registered into the default registry.
var (
	IntKind = NewKind("Int", WithParent(NumericKind), Accepts(
		reflect.TypeFor[int](), reflect.TypeFor[int8](), reflect.TypeFor[int16](),
		reflect.TypeFor[int32](), reflect.TypeFor[int64](),
		reflect.TypeFor[uint](), reflect.TypeFor[uint8](), reflect.TypeFor[uint16](),
		reflect.TypeFor[uint32](), reflect.TypeFor[uint64](),
	))
	FloatKind = NewKind("Float", WithParent(NumericKind), Accepts(
		reflect.TypeFor[float32](), reflect.TypeFor[float64](),
	))
	DecimalKind  = NewKind("Decimal", WithParent(NumericKind), Accepts(reflect.TypeFor[decimal.Decimal]()))
	StringKind   = NewKind("String", WithParent(TextKind), Accepts(reflect.TypeFor[string]()))
	BytesKind    = NewKind("Bytes", WithParent(TextKind), Accepts(reflect.TypeFor[[]byte]()))
	DateKind     = NewKind("Date", WithParent(DateLikeKind), Accepts(reflect.TypeFor[Date]()))
	DateTimeKind = NewKind("DateTime", WithParent(DateLikeKind), Accepts(reflect.TypeFor[time.Time]()))
	MappingKind  = NewKind("Mapping", Accepts(MapShape()))
)

// BuiltinKinds lists the registrable built-in kinds in registration order.
func BuiltinKinds() []*Kind {
	return []*Kind{IntKind, FloatKind, DecimalKind, StringKind, BytesKind, DateKind, DateTimeKind, MappingKind}
}
