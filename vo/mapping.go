package vo

import (
	"encoding/json"
	"fmt"
	"iter"
	"maps"
	"reflect"
)

// MappingClass is a class of read-only map values.
type MappingClass[K comparable, V any] struct {
	*Class[map[K]V]
}

// Mapping is a value of a MappingClass. The payload is copied at
// construction and never exposed for mutation.
type Mapping[K comparable, V any] struct {
	Value[map[K]V]
}

// DefineMapping creates a Mapping class. Mappings are unordered and cannot
// be used as keys.
func DefineMapping[K comparable, V any](name string, validator Validator[map[K]V], opts ...Option) (*MappingClass[K, V], error) {
	tr := defaultTraits[map[K]V]()
	tr.equal = func(a, b map[K]V) bool { return reflect.DeepEqual(a, b) }
	tr.compare = nil
	tr.clone = cloneMap[K, V]
	tr.truthy = func(m map[K]V) bool { return len(m) > 0 }
	tr.text = func(m map[K]V) string {
		b, err := json.Marshal(m)
		if err != nil {
			return fmt.Sprint(m)
		}
		return string(b)
	}
	tr.parse = func(s string) (map[K]V, error) {
		var m map[K]V
		err := json.Unmarshal([]byte(s), &m)
		return m, err
	}
	c, err := define(name, validator, MappingKind, tr, opts)
	if err != nil {
		return nil, err
	}
	return &MappingClass[K, V]{Class: c}, nil
}

// New validates raw and wraps a copy of the result.
func (c *MappingClass[K, V]) New(raw map[K]V) (Mapping[K, V], error) {
	v, err := c.Class.New(raw)
	return Mapping[K, V]{Value: v}, err
}

// MustNew is like New but panics on error.
func (c *MappingClass[K, V]) MustNew(raw map[K]V) Mapping[K, V] {
	return Must(c.New(raw))
}

// Parse reads a JSON object.
func (c *MappingClass[K, V]) Parse(text string) (Mapping[K, V], error) {
	v, err := c.Class.Parse(text)
	return Mapping[K, V]{Value: v}, err
}

// Len returns the number of entries.
func (m Mapping[K, V]) Len() int {
	return len(m.value)
}

// At returns the value stored under key, failing with KEY_NOT_FOUND when
// absent.
func (m Mapping[K, V]) At(key K) (V, error) {
	v, ok := m.value[key]
	if !ok {
		return v, (&Error{
			Code:    CodeKeyNotFound,
			Message: fmt.Sprintf("%s has no key %v", m.ClassName(), key),
		}).WithDetail("key", key)
	}
	return v, nil
}

// Get returns the value stored under key, or def when absent.
func (m Mapping[K, V]) Get(key K, def V) V {
	if v, ok := m.value[key]; ok {
		return v
	}
	return def
}

// Has reports whether key is present. Values are not searched.
func (m Mapping[K, V]) Has(key K) bool {
	_, ok := m.value[key]
	return ok
}

// Keys yields the keys in unspecified order.
func (m Mapping[K, V]) Keys() iter.Seq[K] {
	return maps.Keys(m.value)
}

// Values yields the values in unspecified order.
func (m Mapping[K, V]) Values() iter.Seq[V] {
	return maps.Values(m.value)
}

// All yields the entries in unspecified order.
func (m Mapping[K, V]) All() iter.Seq2[K, V] {
	return maps.All(m.value)
}
