package vo

import (
	"bytes"
	"cmp"
	"encoding"
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"strconv"

	"github.com/huandu/go-clone"
)

// traits are the payload-level primitives a class delegates to. Category
// builders replace the reflective defaults with direct implementations.
type traits[T any] struct {
	equal     func(a, b T) bool
	compare   func(a, b T) int
	clone     func(T) T
	deepClone func(T) T
	truthy    func(T) bool
	text      func(T) string
	parse     func(string) (T, error)
	key       func(T) any
}

func defaultTraits[T any]() traits[T] {
	t := reflect.TypeFor[T]()
	return traits[T]{
		equal:     defaultEqual[T](t),
		compare:   defaultCompare[T](t),
		clone:     func(v T) T { return shallowCopy(v) },
		deepClone: func(v T) T { return deepCopy(v) },
		truthy:    defaultTruthy[T],
		text:      defaultText[T],
		parse:     defaultParse[T](t),
		key:       func(v T) any { return v },
	}
}

func defaultEqual[T any](t reflect.Type) func(a, b T) bool {
	if t.Implements(reflect.TypeFor[interface{ Equal(T) bool }]()) {
		return func(a, b T) bool {
			return any(a).(interface{ Equal(T) bool }).Equal(b)
		}
	}
	if t.Kind() != reflect.Interface && t.Comparable() {
		return func(a, b T) bool { return any(a) == any(b) }
	}
	if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
		return func(a, b T) bool {
			return bytes.Equal(reflect.ValueOf(a).Bytes(), reflect.ValueOf(b).Bytes())
		}
	}
	return func(a, b T) bool { return reflect.DeepEqual(a, b) }
}

func defaultCompare[T any](t reflect.Type) func(a, b T) int {
	switch {
	case t.Implements(reflect.TypeFor[interface{ Compare(T) int }]()):
		return func(a, b T) int {
			return any(a).(interface{ Compare(T) int }).Compare(b)
		}
	case t.Implements(reflect.TypeFor[interface{ Cmp(T) int }]()):
		return func(a, b T) int {
			return any(a).(interface{ Cmp(T) int }).Cmp(b)
		}
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(a, b T) int {
			return cmp.Compare(reflect.ValueOf(a).Int(), reflect.ValueOf(b).Int())
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return func(a, b T) int {
			return cmp.Compare(reflect.ValueOf(a).Uint(), reflect.ValueOf(b).Uint())
		}
	case reflect.Float32, reflect.Float64:
		return func(a, b T) int {
			return cmp.Compare(reflect.ValueOf(a).Float(), reflect.ValueOf(b).Float())
		}
	case reflect.String:
		return func(a, b T) int {
			return cmp.Compare(reflect.ValueOf(a).String(), reflect.ValueOf(b).String())
		}
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return func(a, b T) int {
				return bytes.Compare(reflect.ValueOf(a).Bytes(), reflect.ValueOf(b).Bytes())
			}
		}
	}
	return nil
}

func defaultTruthy[T any](v T) bool {
	if z, ok := any(v).(interface{ IsZero() bool }); ok {
		return !z.IsZero()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Invalid:
		return false
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		return rv.Len() > 0
	case reflect.Struct:
		return true
	}
	return !rv.IsZero()
}

func defaultText[T any](v T) string {
	switch x := any(v).(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case encoding.TextMarshaler:
		if b, err := x.MarshalText(); err == nil {
			return string(b)
		}
	case fmt.Stringer:
		return x.String()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Struct:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	}
	return fmt.Sprint(v)
}

// defaultParse reads the text form produced by defaultText.
func defaultParse[T any](t reflect.Type) func(string) (T, error) {
	if reflect.PointerTo(t).Implements(reflect.TypeFor[encoding.TextUnmarshaler]()) {
		return func(s string) (T, error) {
			var v T
			err := any(&v).(encoding.TextUnmarshaler).UnmarshalText([]byte(s))
			return v, err
		}
	}
	switch t.Kind() {
	case reflect.String:
		return func(s string) (T, error) {
			var v T
			reflect.ValueOf(&v).Elem().SetString(s)
			return v, nil
		}
	case reflect.Bool:
		return func(s string) (T, error) {
			var v T
			b, err := strconv.ParseBool(s)
			if err == nil {
				reflect.ValueOf(&v).Elem().SetBool(b)
			}
			return v, err
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(s string) (T, error) {
			var v T
			n, err := strconv.ParseInt(s, 10, t.Bits())
			if err == nil {
				reflect.ValueOf(&v).Elem().SetInt(n)
			}
			return v, err
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return func(s string) (T, error) {
			var v T
			n, err := strconv.ParseUint(s, 10, t.Bits())
			if err == nil {
				reflect.ValueOf(&v).Elem().SetUint(n)
			}
			return v, err
		}
	case reflect.Float32, reflect.Float64:
		return func(s string) (T, error) {
			var v T
			f, err := strconv.ParseFloat(s, t.Bits())
			if err == nil {
				reflect.ValueOf(&v).Elem().SetFloat(f)
			}
			return v, err
		}
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return func(s string) (T, error) {
				var v T
				reflect.ValueOf(&v).Elem().SetBytes([]byte(s))
				return v, nil
			}
		}
	}
	return func(s string) (T, error) {
		var v T
		err := json.Unmarshal([]byte(s), &v)
		return v, err
	}
}

// shallowCopy detaches slice and map headers so the payload cannot be
// mutated through the caller's reference.
func shallowCopy[T any](v T) T {
	rv := reflect.ValueOf(&v).Elem()
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(out, rv)
		return fromReflect[T](out)
	case reflect.Map:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), iter.Value())
		}
		return fromReflect[T](out)
	}
	return v
}

// deepCopy clones the whole payload graph. Slowly tolerates pointer cycles.
func deepCopy[T any](v T) T {
	if any(v) == nil {
		return v
	}
	return clone.Slowly(v).(T)
}

// shareClassOnCopy makes deep copies keep *Class[T] pointers, so value
// objects nested in a payload stay in their class.
func shareClassOnCopy[T any]() {
	clone.MarkAsOpaquePointer(reflect.TypeFor[*Class[T]]())
}

func fromReflect[T any](rv reflect.Value) T {
	var out T
	reflect.ValueOf(&out).Elem().Set(rv)
	return out
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}
