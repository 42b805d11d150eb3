// Package schema describes value object classes as JSON Schema fragments.
//
// Descriptions are derived from the payload type and from validator tags in
// the go-playground/validator grammar:
//
//	s := schema.For(reflect.TypeFor[string]())
//	schema.ApplyTag(s, "required,min=3,max=64,email")
//	// {"type":"string","minLength":3,"maxLength":64,"format":"email"}
package schema

import (
	"encoding"
	"reflect"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
)

// JSON Schema type names.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeObject  = "object"
	TypeArray   = "array"
)

// Format hints.
const (
	FormatDate     = "date"
	FormatDateTime = "date-time"
	FormatEmail    = "email"
	FormatURI      = "uri"
	FormatUUID     = "uuid"
	FormatHostname = "hostname"
	FormatIPv4     = "ipv4"
	FormatIPv6     = "ipv6"
	FormatBinary   = "binary"
	FormatPassword = "password"
)

// Schema is a JSON Schema document. Marshal it through a pointer so that
// its own MarshalJSON applies.
type Schema = jsonschema.Schema

// Describer is implemented by validators that contribute constraints.
type Describer interface {
	DescribeSchema(s *Schema)
}

var (
	timeType          = reflect.TypeFor[time.Time]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// For returns the base schema of a payload type. Scalars map to a bare type;
// structs, maps and non-byte slices are described by jsonschema.Reflector.
func For(t reflect.Type) *Schema {
	if t == nil {
		return &Schema{}
	}
	if t == timeType {
		return &Schema{Type: TypeString, Format: FormatDateTime}
	}
	switch t.Kind() {
	case reflect.String:
		return &Schema{Type: TypeString}
	case reflect.Bool:
		return &Schema{Type: TypeBoolean}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: TypeInteger}
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: TypeNumber}
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return &Schema{Type: TypeString, Format: FormatBinary}
		}
		return reflected(t, TypeArray)
	case reflect.Map:
		return reflected(t, TypeObject)
	}
	if t.Implements(textMarshalerType) {
		return &Schema{Type: TypeString}
	}
	if t.Kind() == reflect.Struct {
		return reflected(t, TypeObject)
	}
	return &Schema{}
}

// reflected runs the reflector on a composite type. The top-level definition
// is inlined and stays in $defs so that recursive references resolve. Types
// the reflector rejects (func or chan fields) get a bare schema of typ.
func reflected(t reflect.Type, typ string) (s *Schema) {
	defer func() {
		if recover() != nil {
			s = &Schema{Type: typ}
		}
	}()
	r := &jsonschema.Reflector{Anonymous: true}
	s = r.ReflectFromType(t)
	defs := s.Definitions
	if s.Ref != "" {
		if def, ok := defs[strings.TrimPrefix(s.Ref, defsPrefix)]; ok {
			*s = *def
		}
	}
	s.Version = ""
	s.ID = ""
	s.Definitions = nil
	if len(defs) > 0 {
		s.Definitions = defs
	}
	if s.Type == "" && s.Ref == "" {
		s.Type = typ
	}
	return s
}

const defsPrefix = "#/$defs/"
