package vo

import "reflect"

// Annotated is implemented by refined raw-type wrappers, such as validation
// rule sets, that stand for an underlying plain type. Implementations must
// tolerate a nil receiver.
type Annotated interface {
	UnderlyingType() reflect.Type
}

var (
	mapOrigin     = reflect.TypeFor[map[any]any]()
	annotatedType = reflect.TypeFor[Annotated]()
)

// MapShape is the origin shape every map type normalizes to.
func MapShape() reflect.Type {
	return mapOrigin
}

// Normalize unwraps annotated wrappers to their plain type and collapses
// parameterized map types to MapShape.
func Normalize(t reflect.Type) reflect.Type {
	for i := 0; t != nil && i < maxHierarchyDepth && t.Implements(annotatedType); i++ {
		a, ok := reflect.Zero(t).Interface().(Annotated)
		if !ok {
			break
		}
		u := a.UnderlyingType()
		if u == nil || u == t {
			break
		}
		t = u
	}
	if t != nil && t.Kind() == reflect.Map {
		return mapOrigin
	}
	return t
}

const maxHierarchyDepth = 32

// parentType returns the type t structurally derives from: the first
// embedded field of a struct, or the predeclared type under a defined type.
func parentType(t reflect.Type) reflect.Type {
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Struct {
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.Anonymous {
				continue
			}
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			return ft
		}
		return nil
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return nil
	}
	return predeclared(t)
}

func predeclared(t reflect.Type) reflect.Type {
	switch t.Kind() {
	case reflect.Bool:
		return reflect.TypeFor[bool]()
	case reflect.Int:
		return reflect.TypeFor[int]()
	case reflect.Int8:
		return reflect.TypeFor[int8]()
	case reflect.Int16:
		return reflect.TypeFor[int16]()
	case reflect.Int32:
		return reflect.TypeFor[int32]()
	case reflect.Int64:
		return reflect.TypeFor[int64]()
	case reflect.Uint:
		return reflect.TypeFor[uint]()
	case reflect.Uint8:
		return reflect.TypeFor[uint8]()
	case reflect.Uint16:
		return reflect.TypeFor[uint16]()
	case reflect.Uint32:
		return reflect.TypeFor[uint32]()
	case reflect.Uint64:
		return reflect.TypeFor[uint64]()
	case reflect.Float32:
		return reflect.TypeFor[float32]()
	case reflect.Float64:
		return reflect.TypeFor[float64]()
	case reflect.Complex64:
		return reflect.TypeFor[complex64]()
	case reflect.Complex128:
		return reflect.TypeFor[complex128]()
	case reflect.String:
		return reflect.TypeFor[string]()
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return reflect.TypeFor[[]byte]()
		}
	}
	return nil
}

// isSubtype reports whether t is base or structurally derives from it.
func isSubtype(t, base reflect.Type) bool {
	for i := 0; t != nil && i < maxHierarchyDepth; i++ {
		if t == base {
			return true
		}
		if base == mapOrigin && t.Kind() == reflect.Map {
			return true
		}
		if base.Kind() == reflect.Interface && t.Implements(base) {
			return true
		}
		t = parentType(t)
	}
	return false
}

// chainLength is the number of types from t up to its structural root,
// t included. Deeper types are more specific.
func chainLength(t reflect.Type) int {
	n := 0
	for ; t != nil && n < maxHierarchyDepth; t = parentType(t) {
		n++
	}
	return n
}
