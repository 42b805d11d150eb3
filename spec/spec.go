// Package spec implements composable business rules over values.
//
// Specifications compose with And, Or, Xor and Not. Nested conjunctions and
// disjunctions are flattened, so a.And(b).And(c) holds three operands. A
// *Spec[T] payload of a value object composes through the value's And, Or
// and Xor combinators.
package spec

import (
	"cmp"

	"github.com/authcorp/valueobject/vo"
)

type op int

const (
	opLeaf op = iota
	opAnd
	opOr
	opXor
	opNot
)

// Spec is a predicate that composes with other specs.
type Spec[T any] struct {
	op        op
	predicate func(T) bool
	operands  []*Spec[T]
}

// New wraps predicate.
func New[T any](predicate func(T) bool) *Spec[T] {
	return &Spec[T]{predicate: predicate}
}

// IsSatisfiedBy reports whether value meets s.
func (s *Spec[T]) IsSatisfiedBy(value T) bool {
	switch s.op {
	case opAnd:
		for _, o := range s.operands {
			if !o.IsSatisfiedBy(value) {
				return false
			}
		}
		return true
	case opOr:
		for _, o := range s.operands {
			if o.IsSatisfiedBy(value) {
				return true
			}
		}
		return false
	case opXor:
		return s.operands[0].IsSatisfiedBy(value) != s.operands[1].IsSatisfiedBy(value)
	case opNot:
		return !s.operands[0].IsSatisfiedBy(value)
	}
	return s.predicate(value)
}

// And is satisfied when s and other both are.
func (s *Spec[T]) And(other *Spec[T]) *Spec[T] {
	return s.join(opAnd, other)
}

// Or is satisfied when s or other is.
func (s *Spec[T]) Or(other *Spec[T]) *Spec[T] {
	return s.join(opOr, other)
}

// Xor creates a specification satisfied when exactly one of the specs is.
func (s *Spec[T]) Xor(other *Spec[T]) *Spec[T] {
	return &Spec[T]{op: opXor, operands: []*Spec[T]{s, other}}
}

// Not inverts s.
func (s *Spec[T]) Not() *Spec[T] {
	return &Spec[T]{op: opNot, operands: []*Spec[T]{s}}
}

// join flattens operands of the same composite kind. The receiver and other
// are left untouched.
func (s *Spec[T]) join(kind op, other *Spec[T]) *Spec[T] {
	out := &Spec[T]{op: kind}
	for _, part := range []*Spec[T]{s, other} {
		if part.op == kind {
			out.operands = append(out.operands, part.operands...)
		} else {
			out.operands = append(out.operands, part)
		}
	}
	return out
}

// Operands returns the direct operands of a composite spec, or nil for a
// spec built from a predicate.
func (s *Spec[T]) Operands() []*Spec[T] {
	return append([]*Spec[T](nil), s.operands...)
}

// Filter keeps the items meeting s.
func (s *Spec[T]) Filter(items []T) []T {
	result := make([]T, 0)
	for _, item := range items {
		if s.IsSatisfiedBy(item) {
			result = append(result, item)
		}
	}
	return result
}

// FindFirst returns the first item meeting s.
func (s *Spec[T]) FindFirst(items []T) (T, bool) {
	for _, item := range items {
		if s.IsSatisfiedBy(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Count counts the items meeting s.
func (s *Spec[T]) Count(items []T) int {
	count := 0
	for _, item := range items {
		if s.IsSatisfiedBy(item) {
			count++
		}
	}
	return count
}

// Any reports whether some item meets s.
func (s *Spec[T]) Any(items []T) bool {
	_, ok := s.FindFirst(items)
	return ok
}

// All reports whether every item meets s. It is true for no items.
func (s *Spec[T]) All(items []T) bool {
	for _, item := range items {
		if !s.IsSatisfiedBy(item) {
			return false
		}
	}
	return true
}

// None reports whether no item meets s.
func (s *Spec[T]) None(items []T) bool {
	return !s.Any(items)
}

// Validator rejects candidates that do not satisfy the spec with an
// INVALID_VALUE error for class.
func (s *Spec[T]) Validator(class, message string) vo.Validator[T] {
	return vo.ValidatorFunc[T](func(raw T) (T, error) {
		if !s.IsSatisfiedBy(raw) {
			return raw, vo.NewInvalidValueError(class, message)
		}
		return raw, nil
	})
}

// True is met by everything.
func True[T any]() *Spec[T] {
	return New(func(T) bool { return true })
}

// False is met by nothing.
func False[T any]() *Spec[T] {
	return New(func(T) bool { return false })
}

// Equals is met by values equal to value.
func Equals[T comparable](value T) *Spec[T] {
	return New(func(v T) bool { return v == value })
}

// Between creates a specification for an inclusive range check.
func Between[T cmp.Ordered](min, max T) *Spec[T] {
	return New(func(v T) bool { return v >= min && v <= max })
}

// In is met by any of values.
func In[T comparable](values ...T) *Spec[T] {
	set := make(map[T]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return New(func(v T) bool {
		_, ok := set[v]
		return ok
	})
}
