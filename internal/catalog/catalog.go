// Package catalog builds value object classes from a YAML description.
//
// A catalog file lists named types:
//
//	types:
//	  - name: Email
//	    type: string
//	    rules: required,max=254,email
//	    transform: [trim, lower]
//	  - name: Password
//	    type: string
//	    rules: required,min=8
//	    sensitive: true
//
// Each type is synthesized through a kind registry, so its kind is the most
// specific one registered for the payload type.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/authcorp/valueobject/schema"
	"github.com/authcorp/valueobject/validation"
	"github.com/authcorp/valueobject/vo"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Payload type names accepted in the type field.
const (
	TypeInt      = "int"
	TypeFloat    = "float"
	TypeDecimal  = "decimal"
	TypeString   = "string"
	TypeBytes    = "bytes"
	TypeDate     = "date"
	TypeDateTime = "datetime"
	TypeMap      = "map"
)

// ErrUnknownType is returned for a type name that is not in the catalog.
var ErrUnknownType = errors.New("unknown type")

// File is the YAML document.
type File struct {
	Types []TypeSpec `yaml:"types"`
}

// TypeSpec describes one class.
type TypeSpec struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	Rules       string   `yaml:"rules,omitempty"`
	Transform   []string `yaml:"transform,omitempty"`
	Sensitive   bool     `yaml:"sensitive,omitempty"`
	Description string   `yaml:"description,omitempty"`
}

// Entry is a class built from a TypeSpec.
type Entry struct {
	Spec   TypeSpec
	kind   *vo.Kind
	schema func() *schema.Schema
	parse  func(text string) (vo.Object, error)
}

// Name returns the class name.
func (e *Entry) Name() string { return e.Spec.Name }

// Kind returns the kind the class was bound to.
func (e *Entry) Kind() *vo.Kind { return e.kind }

// Schema describes the class.
func (e *Entry) Schema() *schema.Schema { return e.schema() }

// Parse reads the text form of a payload and constructs a validated value.
func (e *Entry) Parse(text string) (vo.Object, error) { return e.parse(text) }

// Catalog holds the classes of a catalog file in file order.
type Catalog struct {
	entries []*Entry
	byName  map[string]*Entry
}

type options struct {
	registry     *vo.Registry
	logger       *slog.Logger
	classOptions []vo.Option
}

// Option configures catalog construction.
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{registry: vo.DefaultRegistry(), logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithRegistry sets the registry used to pick kinds.
func WithRegistry(r *vo.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClassOptions adds options to every class, e.g. vo.WithObserver.
func WithClassOptions(opts ...vo.Option) Option {
	return func(o *options) { o.classOptions = append(o.classOptions, opts...) }
}

// Load reads and builds the catalog at path.
func Load(path string, opts ...Option) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data, opts...)
}

// Parse builds a catalog from YAML. Unknown fields are rejected.
func Parse(data []byte, opts ...Option) (*Catalog, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return Build(f, opts...)
}

// Build creates the classes of f.
func Build(f File, opts ...Option) (*Catalog, error) {
	o := newOptions(opts)

	c := &Catalog{byName: make(map[string]*Entry, len(f.Types))}
	for i, spec := range f.Types {
		spec.Name = strings.TrimSpace(spec.Name)
		if spec.Name == "" {
			return nil, fmt.Errorf("type %d: missing name", i)
		}
		if _, dup := c.byName[spec.Name]; dup {
			return nil, fmt.Errorf("type %s: defined twice", spec.Name)
		}
		e, err := build(spec, o)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", spec.Name, err)
		}
		o.logger.Debug("catalog type built", "name", spec.Name, "kind", e.kind.Name(), "rules", spec.Rules)
		c.entries = append(c.entries, e)
		c.byName[spec.Name] = e
	}
	return c, nil
}

// Lookup returns the entry named name.
func (c *Catalog) Lookup(name string) (*Entry, error) {
	e, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownType, name)
	}
	return e, nil
}

// Entries returns the entries in file order.
func (c *Catalog) Entries() []*Entry {
	return append([]*Entry(nil), c.entries...)
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

func build(spec TypeSpec, o options) (*Entry, error) {
	if len(spec.Transform) > 0 && spec.Type != TypeString {
		return nil, fmt.Errorf("transform is only supported for %s types", TypeString)
	}
	switch spec.Type {
	case TypeInt:
		return synthesize[int64](spec, o)
	case TypeFloat:
		return synthesize[float64](spec, o)
	case TypeDecimal:
		return synthesize[decimal.Decimal](spec, o)
	case TypeString:
		transforms, err := stringTransforms(spec.Transform)
		if err != nil {
			return nil, err
		}
		return synthesize(spec, o, transforms...)
	case TypeBytes:
		return synthesize[[]byte](spec, o)
	case TypeDate:
		return synthesize[vo.Date](spec, o)
	case TypeDateTime:
		return synthesize[time.Time](spec, o)
	case TypeMap:
		return synthesize[map[string]any](spec, o)
	}
	return nil, fmt.Errorf("unsupported type %q", spec.Type)
}

func synthesize[T any](spec TypeSpec, o options, ruleOpts ...validation.RuleOption[T]) (*Entry, error) {
	if spec.Description != "" {
		desc := spec.Description
		ruleOpts = append(ruleOpts, validation.Describe[T](func(s *schema.Schema) { s.Description = desc }))
	}
	rules := validation.Tag(spec.Rules, ruleOpts...)
	if err := rules.Compile(); err != nil {
		return nil, err
	}

	classOpts := append([]vo.Option(nil), o.classOptions...)
	if spec.Sensitive {
		classOpts = append(classOpts, vo.Sensitive())
	}
	class, err := vo.Synthesize[T](o.registry, spec.Name, rules, classOpts...)
	if err != nil {
		return nil, err
	}
	return &Entry{
		Spec:   spec,
		kind:   class.Kind(),
		schema: class.Schema,
		parse: func(text string) (vo.Object, error) {
			v, err := class.Parse(text)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	}, nil
}

var transformers = map[string]func(string) string{
	"trim":  strings.TrimSpace,
	"lower": strings.ToLower,
	"upper": strings.ToUpper,
}

func stringTransforms(names []string) ([]validation.RuleOption[string], error) {
	out := make([]validation.RuleOption[string], 0, len(names))
	for _, name := range names {
		fn, ok := transformers[name]
		if !ok {
			return nil, fmt.Errorf("unknown transform %q", name)
		}
		out = append(out, validation.Transform(fn))
	}
	return out, nil
}
