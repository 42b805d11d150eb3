// Package sqltype stores value objects in SQL columns.
//
// A Column encodes values to driver values and decodes column data back
// through the class parser, so every value read from a database passes the
// class validator. Field wraps a value for use as a struct field with
// database/sql and sqlx.
package sqltype

import (
	"database/sql"
	"database/sql/driver"
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"sync"
	"time"

	"github.com/authcorp/valueobject/vo"
)

// SQL type hints.
const (
	TypeText    = "TEXT"
	TypeInteger = "INTEGER"
	TypeReal    = "REAL"
	TypeBlob    = "BLOB"
)

// ErrNoColumn is returned when a Field is scanned without a column.
var ErrNoColumn = errors.New("sqltype: no column bound for field")

// Class is the part of a value object class a column needs. Every class
// descriptor returned by the vo.Define functions satisfies it.
type Class[V any] interface {
	Name() string
	Kind() *vo.Kind
	Parse(text string) (V, error)
}

// Column converts values of one class to and from driver values.
type Column[V any] struct {
	class    Class[V]
	typeName string
	sqlType  string
	encode   func(V) (driver.Value, error)
	decode   func(src any) (V, error)
}

// ColumnOption configures a Column.
type ColumnOption[V any] func(*Column[V])

// WithEncoder replaces the default text encoding.
func WithEncoder[V any](fn func(V) (driver.Value, error)) ColumnOption[V] {
	return func(c *Column[V]) { c.encode = fn }
}

// WithDecoder replaces decoding through the class parser. Decoders receive
// non-nil source values only.
func WithDecoder[V any](fn func(src any) (V, error)) ColumnOption[V] {
	return func(c *Column[V]) { c.decode = fn }
}

// WithTypeName names the column type in errors and logs.
func WithTypeName[V any](name string) ColumnOption[V] {
	return func(c *Column[V]) { c.typeName = name }
}

// WithSQLType sets the SQL type hint returned by SQLType.
func WithSQLType[V any](sqlType string) ColumnOption[V] {
	return func(c *Column[V]) { c.sqlType = sqlType }
}

// NewColumn creates a column for class. A nil class is allowed when both a
// decoder and a type name are given.
func NewColumn[V any](class Class[V], opts ...ColumnOption[V]) (*Column[V], error) {
	c := &Column[V]{class: class}
	for _, opt := range opts {
		opt(c)
	}
	if isNil(class) {
		c.class = nil
		if c.decode == nil || c.typeName == "" {
			return nil, errors.New("sqltype: a column needs a class, or a decoder and a type name")
		}
	}
	if c.typeName == "" {
		c.typeName = class.Name() + "Column"
	}
	if c.sqlType == "" {
		c.sqlType = defaultSQLType(c.class)
	}
	if c.encode == nil {
		c.encode = encodeText[V]
	}
	if c.decode == nil {
		c.decode = c.parse
	}
	return c, nil
}

// MustColumn is like NewColumn but panics on error.
func MustColumn[V any](class Class[V], opts ...ColumnOption[V]) *Column[V] {
	return vo.Must(NewColumn(class, opts...))
}

// TypeName returns the column type name.
func (c *Column[V]) TypeName() string {
	return c.typeName
}

// SQLType returns the SQL type hint.
func (c *Column[V]) SQLType() string {
	return c.sqlType
}

// Encode converts v to a driver value. The zero value is stored as NULL.
func (c *Column[V]) Encode(v V) (driver.Value, error) {
	if isZero(v) {
		return nil, nil
	}
	out, err := c.encode(v)
	if err != nil {
		return nil, fmt.Errorf("%s: encode: %w", c.typeName, err)
	}
	return out, nil
}

// Decode converts column data to a value. NULL decodes to the zero value.
func (c *Column[V]) Decode(src any) (V, error) {
	if src == nil {
		var zero V
		return zero, nil
	}
	return c.decode(src)
}

// Field returns a Field bound to the column.
func (c *Column[V]) Field(v V) Field[V] {
	return Field[V]{V: v, Valid: !isZero(v), column: c}
}

// Bind makes c the column used by fields of type V that were created
// without one, such as the elements sqlx.Select appends.
func (c *Column[V]) Bind() *Column[V] {
	bound.Store(reflect.TypeFor[V](), c)
	return c
}

func (c *Column[V]) parse(src any) (V, error) {
	var text string
	switch s := src.(type) {
	case string:
		text = s
	case []byte:
		text = string(s)
	case int64:
		text = strconv.FormatInt(s, 10)
	case float64:
		text = strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		text = strconv.FormatBool(s)
	case time.Time:
		text = s.Format(time.RFC3339Nano)
	default:
		var zero V
		return zero, fmt.Errorf("%s: cannot decode %T", c.typeName, src)
	}
	return c.class.Parse(text)
}

func encodeText[V any](v V) (driver.Value, error) {
	m, ok := any(v).(encoding.TextMarshaler)
	if !ok {
		return nil, fmt.Errorf("%T has no text form", v)
	}
	text, err := m.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(text), nil
}

func defaultSQLType[V any](class Class[V]) string {
	if class == nil {
		return TypeText
	}
	switch k := class.Kind(); {
	case k.DerivesFrom(vo.IntKind):
		return TypeInteger
	case k.DerivesFrom(vo.FloatKind):
		return TypeReal
	case k.DerivesFrom(vo.BytesKind):
		return TypeBlob
	}
	return TypeText
}

func isNil(x any) bool {
	if x == nil {
		return true
	}
	rv := reflect.ValueOf(x)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func isZero[V any](v V) bool {
	if z, ok := any(v).(interface{ IsZero() bool }); ok {
		return z.IsZero()
	}
	return reflect.ValueOf(&v).Elem().IsZero()
}

var bound sync.Map

// Field holds a nullable value object for database/sql scanning.
type Field[V any] struct {
	V      V
	Valid  bool
	column *Column[V]
}

var (
	_ sql.Scanner   = (*Field[vo.String])(nil)
	_ driver.Valuer = Field[vo.String]{}
)

func (f *Field[V]) col() (*Column[V], error) {
	if f.column != nil {
		return f.column, nil
	}
	if c, ok := bound.Load(reflect.TypeFor[V]()); ok {
		return c.(*Column[V]), nil
	}
	return nil, fmt.Errorf("%w %s", ErrNoColumn, reflect.TypeFor[V]())
}

// Scan implements sql.Scanner.
func (f *Field[V]) Scan(src any) error {
	c, err := f.col()
	if err != nil {
		return err
	}
	v, err := c.Decode(src)
	if err != nil {
		return err
	}
	f.V, f.Valid, f.column = v, src != nil, c
	return nil
}

// Value implements driver.Valuer.
func (f Field[V]) Value() (driver.Value, error) {
	if !f.Valid {
		return nil, nil
	}
	c, err := f.col()
	if err != nil {
		return nil, err
	}
	return c.Encode(f.V)
}
