// Package codec provides JSON, YAML and Base64 encoding for data that may
// hold value objects.
//
// Encoders walk maps and slices and pass every element through the
// registered hooks, so value objects nested in generic data are written as
// their payloads. InstallValueObjectHook registers vo.Unwrap once per
// process; the JSON and YAML codecs call it on construction.
package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"reflect"
	"sync"

	"github.com/authcorp/valueobject/vo"
	"gopkg.in/yaml.v3"
)

// Codec serializes values, unwrapping value objects on the way out.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

// Hook replaces a value before encoding. It reports false to leave the value
// alone.
type Hook func(v any) (any, bool)

var (
	hooksMu     sync.RWMutex
	hooks       []Hook
	installOnce sync.Once
)

// RegisterHook adds a hook. Hooks run in registration order and the first
// one that reports true wins.
func RegisterHook(h Hook) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	hooks = append(hooks, h)
}

// InstallValueObjectHook registers vo.Unwrap. Repeated calls are no-ops.
func InstallValueObjectHook() {
	installOnce.Do(func() { RegisterHook(vo.Unwrap) })
}

// Hooks returns the number of registered hooks.
func Hooks() int {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return len(hooks)
}

func apply(v any) (any, bool) {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	for _, h := range hooks {
		if out, ok := h(v); ok {
			return out, true
		}
	}
	return v, false
}

const maxDepth = 64

var anyType = reflect.TypeFor[any]()

// Prepare returns v with hooks applied to it and, recursively, to the
// elements of the maps and slices it holds. Structs are left to their own
// marshalers.
func Prepare(v any) any {
	return prepare(v, 0)
}

func prepare(v any, depth int) any {
	if v == nil || depth > maxDepth {
		return v
	}
	if out, ok := apply(v); ok {
		return prepare(out, depth+1)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(reflect.MapOf(rv.Type().Key(), anyType), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			elem := prepare(iter.Value().Interface(), depth+1)
			out.SetMapIndex(iter.Key(), reflect.ValueOf(&elem).Elem())
		}
		return out.Interface()
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && (rv.IsNil() || rv.Type().Elem().Kind() == reflect.Uint8) {
			return v
		}
		out := make([]any, rv.Len())
		for i := range rv.Len() {
			out[i] = prepare(rv.Index(i).Interface(), depth+1)
		}
		return out
	}
	return v
}

// JSONCodec writes value objects as their JSON payload.
type JSONCodec struct {
	Pretty bool
	Indent string
}

// NewJSONCodec returns a compact JSON codec.
func NewJSONCodec() *JSONCodec {
	InstallValueObjectHook()
	return &JSONCodec{Indent: "  "}
}

// Encode prepares v and marshals it.
func (c *JSONCodec) Encode(v any) ([]byte, error) {
	v = Prepare(v)
	if c.Pretty {
		return json.MarshalIndent(v, "", c.Indent)
	}
	return json.Marshal(v)
}

// Decode unmarshals data into v. Use DecodeValue to get validated values.
func (c *JSONCodec) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// WithPretty indents the output.
func (c *JSONCodec) WithPretty() *JSONCodec {
	c.Pretty = true
	return c
}

// WithIndent sets the string used per indent level.
func (c *JSONCodec) WithIndent(indent string) *JSONCodec {
	c.Indent = indent
	return c
}

// YAMLCodec writes value objects as YAML payloads.
type YAMLCodec struct {
	Indent int
}

// NewYAMLCodec returns a YAML codec indenting by two spaces.
func NewYAMLCodec() *YAMLCodec {
	InstallValueObjectHook()
	return &YAMLCodec{Indent: 2}
}

// Encode prepares v and writes it as a YAML document.
func (c *YAMLCodec) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(c.Indent)
	if err := encoder.Encode(Prepare(v)); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode unmarshals a YAML document into v.
func (c *YAMLCodec) Decode(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// WithIndent sets the number of spaces per level.
func (c *YAMLCodec) WithIndent(indent int) *YAMLCodec {
	c.Indent = indent
	return c
}

var (
	// JSON is the shared compact JSON codec.
	JSON = NewJSONCodec()
	// YAML is the shared YAML codec.
	YAML = NewYAMLCodec()
)

// Constructor builds a value object of type V from a raw T. Every class
// descriptor returned by the vo.Define functions satisfies it.
type Constructor[V any, T any] interface {
	New(raw T) (V, error)
}

// DecodeValue decodes data into a raw T and constructs a value from it, so
// decoded values pass the class validator.
func DecodeValue[V any, T any](c Codec, data []byte, class Constructor[V, T]) (V, error) {
	var raw T
	if err := c.Decode(data, &raw); err != nil {
		var zero V
		return zero, err
	}
	return class.New(raw)
}

// Base64Codec converts byte payloads to and from base64 text.
type Base64Codec struct {
	URLSafe bool
	Padding bool
}

// NewBase64Codec returns a padded standard alphabet codec.
func NewBase64Codec() *Base64Codec {
	return &Base64Codec{Padding: true}
}

// Encode returns the base64 text of data.
func (c *Base64Codec) Encode(data []byte) string {
	return c.encoding().EncodeToString(data)
}

// Decode parses base64 text.
func (c *Base64Codec) Decode(s string) ([]byte, error) {
	return c.encoding().DecodeString(s)
}

// WithURLSafe switches to the URL alphabet.
func (c *Base64Codec) WithURLSafe() *Base64Codec {
	c.URLSafe = true
	return c
}

// WithoutPadding drops trailing '=' characters.
func (c *Base64Codec) WithoutPadding() *Base64Codec {
	c.Padding = false
	return c
}

func (c *Base64Codec) encoding() *base64.Encoding {
	enc := base64.StdEncoding
	if c.URLSafe {
		enc = base64.URLEncoding
	}
	if !c.Padding {
		enc = enc.WithPadding(base64.NoPadding)
	}
	return enc
}
