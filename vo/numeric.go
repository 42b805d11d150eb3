package vo

import (
	"cmp"
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
)

// Integer is the payload constraint of Int classes.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Float is the payload constraint of Float classes.
type Float interface {
	~float32 | ~float64
}

// arithmetic holds the payload operations of a numeric class. The boolean
// results report whether the exact result fits in T.
type arithmetic[T any] struct {
	add     func(a, b T) (T, bool)
	sub     func(a, b T) (T, bool)
	neg     func(T) (T, bool)
	abs     func(T) (T, bool)
	round   func(v T, digits int32) T
	toInt   func(T) int64
	toFloat func(T) float64
	exact   bool
}

// NumericClass is a class of Int, Float or Decimal values.
type NumericClass[T any] struct {
	*Class[T]
	ops *arithmetic[T]
}

// Numeric is a value of a NumericClass.
type Numeric[T any] struct {
	Value[T]
	ops *arithmetic[T]
}

// DefineInt creates an Int class.
func DefineInt[T Integer](name string, validator Validator[T], opts ...Option) (*NumericClass[T], error) {
	tr := defaultTraits[T]()
	tr.equal = func(a, b T) bool { return a == b }
	tr.compare = func(a, b T) int { return cmp.Compare(a, b) }
	tr.truthy = func(v T) bool { return v != 0 }
	tr.text = formatInteger[T]
	c, err := define(name, validator, IntKind, tr, opts)
	if err != nil {
		return nil, err
	}
	return &NumericClass[T]{Class: c, ops: &arithmetic[T]{
		add:     addInteger[T],
		sub:     subInteger[T],
		neg:     negInteger[T],
		abs:     absInteger[T],
		toInt:   func(v T) int64 { return int64(v) },
		toFloat: func(v T) float64 { return float64(v) },
		exact:   true,
	}}, nil
}

func signed[T Integer]() bool {
	var zero T
	return ^zero < zero
}

func addInteger[T Integer](a, b T) (T, bool) {
	r := a + b
	if signed[T]() {
		return r, (b >= 0) == (r >= a)
	}
	return r, r >= a
}

func subInteger[T Integer](a, b T) (T, bool) {
	r := a - b
	if signed[T]() {
		return r, (b >= 0) == (r <= a)
	}
	return r, b <= a
}

// negInteger fails for the minimum of a signed type and for any non-zero
// unsigned value.
func negInteger[T Integer](v T) (T, bool) {
	r := -v
	if signed[T]() {
		return r, v == 0 || r != v
	}
	return r, v == 0
}

func absInteger[T Integer](v T) (T, bool) {
	if v >= 0 {
		return v, true
	}
	r := -v
	return r, r > 0
}

// DefineFloat creates a Float class.
func DefineFloat[T Float](name string, validator Validator[T], opts ...Option) (*NumericClass[T], error) {
	tr := defaultTraits[T]()
	tr.equal = func(a, b T) bool { return a == b }
	tr.compare = func(a, b T) int { return cmp.Compare(a, b) }
	tr.truthy = func(v T) bool { return v != 0 }
	c, err := define(name, validator, FloatKind, tr, opts)
	if err != nil {
		return nil, err
	}
	return &NumericClass[T]{Class: c, ops: &arithmetic[T]{
		add: func(a, b T) (T, bool) { return a + b, true },
		sub: func(a, b T) (T, bool) { return a - b, true },
		neg: func(v T) (T, bool) { return -v, true },
		abs: func(v T) (T, bool) { return T(math.Abs(float64(v))), true },
		round: func(v T, digits int32) T {
			return T(roundFloat(float64(v), digits))
		},
		toInt:   func(v T) int64 { return int64(v) },
		toFloat: func(v T) float64 { return float64(v) },
	}}, nil
}

// DefineDecimal creates a Decimal class over fixed-point decimals.
func DefineDecimal(name string, validator Validator[decimal.Decimal], opts ...Option) (*NumericClass[decimal.Decimal], error) {
	tr := defaultTraits[decimal.Decimal]()
	tr.equal = func(a, b decimal.Decimal) bool { return a.Equal(b) }
	tr.compare = func(a, b decimal.Decimal) int { return a.Cmp(b) }
	tr.truthy = func(v decimal.Decimal) bool { return !v.IsZero() }
	tr.text = func(v decimal.Decimal) string { return v.String() }
	tr.parse = decimal.NewFromString
	tr.key = func(v decimal.Decimal) any { return v.String() }
	c, err := define(name, validator, DecimalKind, tr, opts)
	if err != nil {
		return nil, err
	}
	return &NumericClass[decimal.Decimal]{Class: c, ops: &arithmetic[decimal.Decimal]{
		add:     func(a, b decimal.Decimal) (decimal.Decimal, bool) { return a.Add(b), true },
		sub:     func(a, b decimal.Decimal) (decimal.Decimal, bool) { return a.Sub(b), true },
		neg:     func(v decimal.Decimal) (decimal.Decimal, bool) { return v.Neg(), true },
		abs:     func(v decimal.Decimal) (decimal.Decimal, bool) { return v.Abs(), true },
		round:   decimal.Decimal.RoundBank,
		toInt:   decimal.Decimal.IntPart,
		toFloat: decimal.Decimal.InexactFloat64,
	}}, nil
}

// New validates raw and wraps the result.
func (c *NumericClass[T]) New(raw T) (Numeric[T], error) {
	v, err := c.Class.New(raw)
	if err != nil {
		return Numeric[T]{}, err
	}
	return Numeric[T]{Value: v, ops: c.ops}, nil
}

// MustNew is like New but panics on error.
func (c *NumericClass[T]) MustNew(raw T) Numeric[T] {
	return Must(c.New(raw))
}

// Parse reads a decimal text form and constructs a value from it.
func (c *NumericClass[T]) Parse(text string) (Numeric[T], error) {
	v, err := c.Class.Parse(text)
	if err != nil {
		return Numeric[T]{}, err
	}
	return Numeric[T]{Value: v, ops: c.ops}, nil
}

func (n Numeric[T]) rebuild(v T) (Numeric[T], error) {
	out, err := n.class.New(v)
	if err != nil {
		return Numeric[T]{}, err
	}
	return Numeric[T]{Value: out, ops: n.ops}, nil
}

func (n Numeric[T]) overflow(op string) *Error {
	return NewInvalidValueError(n.ClassName(), fmt.Sprintf("integer overflow in %s", op)).
		WithDetail("operation", op)
}

func (n Numeric[T]) operand(op string, other any) (T, error) {
	o, err := n.sameClass(op, other)
	if err != nil {
		var zero T
		return zero, err
	}
	return o.value, nil
}

// Add returns n + other. Both operands must belong to the same class; the
// result is validated by that class.
func (n Numeric[T]) Add(other any) (Numeric[T], error) {
	y, err := n.operand("+", other)
	if err != nil {
		return Numeric[T]{}, err
	}
	r, ok := n.ops.add(n.value, y)
	if !ok {
		return Numeric[T]{}, n.overflow("+")
	}
	return n.rebuild(r)
}

// RAdd returns other + n.
func (n Numeric[T]) RAdd(other any) (Numeric[T], error) {
	y, err := n.operand("+", other)
	if err != nil {
		return Numeric[T]{}, err
	}
	r, ok := n.ops.add(y, n.value)
	if !ok {
		return Numeric[T]{}, n.overflow("+")
	}
	return n.rebuild(r)
}

// Sub returns n - other.
func (n Numeric[T]) Sub(other any) (Numeric[T], error) {
	y, err := n.operand("-", other)
	if err != nil {
		return Numeric[T]{}, err
	}
	r, ok := n.ops.sub(n.value, y)
	if !ok {
		return Numeric[T]{}, n.overflow("-")
	}
	return n.rebuild(r)
}

// RSub returns other - n.
func (n Numeric[T]) RSub(other any) (Numeric[T], error) {
	y, err := n.operand("-", other)
	if err != nil {
		return Numeric[T]{}, err
	}
	r, ok := n.ops.sub(y, n.value)
	if !ok {
		return Numeric[T]{}, n.overflow("-")
	}
	return n.rebuild(r)
}

// Neg returns -n.
func (n Numeric[T]) Neg() (Numeric[T], error) {
	r, ok := n.ops.neg(n.value)
	if !ok {
		return Numeric[T]{}, n.overflow("neg")
	}
	return n.rebuild(r)
}

// Pos returns +n.
func (n Numeric[T]) Pos() (Numeric[T], error) {
	return n.rebuild(n.value)
}

// Abs returns |n|.
func (n Numeric[T]) Abs() (Numeric[T], error) {
	r, ok := n.ops.abs(n.value)
	if !ok {
		return Numeric[T]{}, n.overflow("abs")
	}
	return n.rebuild(r)
}

// Round rounds half to even to the given number of decimal digits, zero by
// default. Integer values round to themselves.
func (n Numeric[T]) Round(digits ...int) (Numeric[T], error) {
	if n.ops.exact {
		return n, nil
	}
	var d int32
	if len(digits) > 0 {
		d = int32(digits[0])
	}
	return n.rebuild(n.ops.round(n.value, d))
}

// Int converts the payload to an integer, truncating toward zero.
func (n Numeric[T]) Int() int64 {
	return n.ops.toInt(n.value)
}

// Float converts the payload to a float.
func (n Numeric[T]) Float() float64 {
	return n.ops.toFloat(n.value)
}

// roundFloat rounds half to even on the exact binary value of f, so 2.675
// (stored as 2.67499999...) rounds to 2.67.
func roundFloat(f float64, digits int32) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	exact, err := decimal.NewFromString(new(big.Float).SetFloat64(f).Text('f', exactFloatDigits))
	if err != nil {
		return f
	}
	return exact.RoundBank(digits).InexactFloat64()
}

// exactFloatDigits covers the longest fraction of a float64 (2^-1074).
const exactFloatDigits = 1074

func formatInteger[T Integer](v T) string {
	if v < 0 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatUint(uint64(v), 10)
}
