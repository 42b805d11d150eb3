package vo

import (
	"bytes"
	"iter"
	"slices"
	"strings"
	"unicode/utf8"
)

// StringClass is a class of String values.
type StringClass struct {
	*Class[string]
}

// String is a value of a StringClass.
type String struct {
	Value[string]
}

// DefineString creates a String class.
func DefineString(name string, validator Validator[string], opts ...Option) (*StringClass, error) {
	tr := defaultTraits[string]()
	tr.equal = func(a, b string) bool { return a == b }
	tr.compare = strings.Compare
	tr.clone = func(v string) string { return v }
	tr.deepClone = tr.clone
	tr.truthy = func(v string) bool { return v != "" }
	tr.text = func(v string) string { return v }
	tr.parse = func(s string) (string, error) { return s, nil }
	c, err := define(name, validator, StringKind, tr, opts)
	if err != nil {
		return nil, err
	}
	return &StringClass{Class: c}, nil
}

// New validates raw and wraps the result.
func (c *StringClass) New(raw string) (String, error) {
	v, err := c.Class.New(raw)
	return String{Value: v}, err
}

// MustNew is like New but panics on error.
func (c *StringClass) MustNew(raw string) String {
	return Must(c.New(raw))
}

// Parse is New: the display form of a string is the string itself.
func (c *StringClass) Parse(text string) (String, error) {
	return c.New(text)
}

func (s String) rebuild(v string) (String, error) {
	out, err := s.class.New(v)
	if err != nil {
		return String{}, err
	}
	return String{Value: out}, nil
}

// Concat returns s followed by other. Both must belong to the same class.
func (s String) Concat(other any) (String, error) {
	o, err := s.sameClass("+", other)
	if err != nil {
		return String{}, err
	}
	return s.rebuild(s.value + o.value)
}

// RConcat returns other followed by s.
func (s String) RConcat(other any) (String, error) {
	o, err := s.sameClass("+", other)
	if err != nil {
		return String{}, err
	}
	return s.rebuild(o.value + s.value)
}

// Reversed returns a value holding the code points of s in reverse order.
func (s String) Reversed() (String, error) {
	runes := []rune(s.value)
	slices.Reverse(runes)
	return s.rebuild(string(runes))
}

// Len returns the number of code points.
func (s String) Len() int {
	return utf8.RuneCountInString(s.value)
}

// Contains reports whether sub occurs in s.
func (s String) Contains(sub string) bool {
	return strings.Contains(s.value, sub)
}

// Runes yields the code points of s.
func (s String) Runes() iter.Seq[rune] {
	return func(yield func(rune) bool) {
		for _, r := range s.value {
			if !yield(r) {
				return
			}
		}
	}
}

// At returns the code point at index i. Negative indices count from the
// end.
func (s String) At(i int) (rune, error) {
	runes := []rune(s.value)
	idx, ok := resolveIndex(i, len(runes))
	if !ok {
		return 0, indexError(s.ClassName(), i)
	}
	return runes[idx], nil
}

// HasPrefix reports whether s, optionally restricted to the code point
// range [start, end), begins with prefix. Bounds follow slice semantics:
// negative values count from the end and out-of-range values are clamped.
func (s String) HasPrefix(prefix string, bounds ...int) bool {
	if len(bounds) == 0 {
		return strings.HasPrefix(s.value, prefix)
	}
	return hasPrefixIn([]rune(s.value), []rune(prefix), bounds)
}

// HasAnyPrefix reports whether s begins with any of the prefixes.
func (s String) HasAnyPrefix(prefixes []string, bounds ...int) bool {
	for _, p := range prefixes {
		if s.HasPrefix(p, bounds...) {
			return true
		}
	}
	return false
}

// Encode converts s to UTF-8 bytes, failing on invalid UTF-8.
func (s String) Encode() ([]byte, error) {
	return s.EncodeAs(DefaultEncoding, ErrorsStrict)
}

// EncodeAs converts s to bytes in the named encoding. errors selects how
// unencodable characters are handled: strict, replace or ignore.
func (s String) EncodeAs(encoding, errors string) ([]byte, error) {
	if s.Sensitive() {
		return nil, NewSensitiveAccessError(s.ClassName())
	}
	return encodeText(s.ClassName(), s.value, encoding, errors)
}

// BytesClass is a class of Bytes values.
type BytesClass struct {
	*Class[[]byte]
}

// Bytes is a value of a BytesClass.
type Bytes struct {
	Value[[]byte]
}

// DefineBytes creates a Bytes class.
func DefineBytes(name string, validator Validator[[]byte], opts ...Option) (*BytesClass, error) {
	tr := defaultTraits[[]byte]()
	tr.equal = bytes.Equal
	tr.compare = bytes.Compare
	tr.clone = bytes.Clone
	tr.deepClone = bytes.Clone
	tr.truthy = func(v []byte) bool { return len(v) > 0 }
	tr.text = func(v []byte) string { return string(v) }
	tr.parse = func(s string) ([]byte, error) { return []byte(s), nil }
	tr.key = func(v []byte) any { return string(v) }
	c, err := define(name, validator, BytesKind, tr, opts)
	if err != nil {
		return nil, err
	}
	return &BytesClass{Class: c}, nil
}

// New validates raw and wraps the result.
func (c *BytesClass) New(raw []byte) (Bytes, error) {
	v, err := c.Class.New(raw)
	return Bytes{Value: v}, err
}

// MustNew is like New but panics on error.
func (c *BytesClass) MustNew(raw []byte) Bytes {
	return Must(c.New(raw))
}

// Parse constructs a value from the bytes of text.
func (c *BytesClass) Parse(text string) (Bytes, error) {
	return c.New([]byte(text))
}

func (b Bytes) rebuild(v []byte) (Bytes, error) {
	out, err := b.class.New(v)
	if err != nil {
		return Bytes{}, err
	}
	return Bytes{Value: out}, nil
}

// Concat returns b followed by other. Both must belong to the same class.
func (b Bytes) Concat(other any) (Bytes, error) {
	o, err := b.sameClass("+", other)
	if err != nil {
		return Bytes{}, err
	}
	return b.rebuild(slices.Concat(b.value, o.value))
}

// RConcat returns other followed by b.
func (b Bytes) RConcat(other any) (Bytes, error) {
	o, err := b.sameClass("+", other)
	if err != nil {
		return Bytes{}, err
	}
	return b.rebuild(slices.Concat(o.value, b.value))
}

// Reversed returns a value holding the bytes of b in reverse order.
func (b Bytes) Reversed() (Bytes, error) {
	out := bytes.Clone(b.value)
	slices.Reverse(out)
	return b.rebuild(out)
}

// Len returns the number of bytes.
func (b Bytes) Len() int {
	return len(b.value)
}

// Contains reports whether sub occurs in b.
func (b Bytes) Contains(sub []byte) bool {
	return bytes.Contains(b.value, sub)
}

// All yields the bytes of b.
func (b Bytes) All() iter.Seq[byte] {
	return func(yield func(byte) bool) {
		for _, c := range b.value {
			if !yield(c) {
				return
			}
		}
	}
}

// At returns the byte at index i. Negative indices count from the end.
func (b Bytes) At(i int) (byte, error) {
	idx, ok := resolveIndex(i, len(b.value))
	if !ok {
		return 0, indexError(b.ClassName(), i)
	}
	return b.value[idx], nil
}

// HasPrefix reports whether b, optionally restricted to [start, end),
// begins with prefix.
func (b Bytes) HasPrefix(prefix []byte, bounds ...int) bool {
	if len(bounds) == 0 {
		return bytes.HasPrefix(b.value, prefix)
	}
	return hasPrefixIn(b.value, prefix, bounds)
}

// HasAnyPrefix reports whether b begins with any of the prefixes.
func (b Bytes) HasAnyPrefix(prefixes [][]byte, bounds ...int) bool {
	for _, p := range prefixes {
		if b.HasPrefix(p, bounds...) {
			return true
		}
	}
	return false
}

// Decode interprets b as strict UTF-8.
func (b Bytes) Decode() (string, error) {
	return b.DecodeAs(DefaultEncoding, ErrorsStrict)
}

// DecodeAs interprets b in the named encoding with the given error policy.
func (b Bytes) DecodeAs(encoding, errors string) (string, error) {
	if b.Sensitive() {
		return "", NewSensitiveAccessError(b.ClassName())
	}
	return decodeText(b.ClassName(), b.value, encoding, errors)
}

func resolveIndex(i, n int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}

func indexError(class string, i int) *Error {
	return (&Error{
		Code:    CodeIndexOutOfRange,
		Message: class + " index out of range",
	}).WithDetail("index", i)
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
		if i < 0 {
			i = 0
		}
	}
	return min(i, n)
}

func hasPrefixIn[E comparable](seq, prefix []E, bounds []int) bool {
	start, end := 0, len(seq)
	if len(bounds) > 0 {
		start = bounds[0]
		if start < 0 {
			start = max(start+len(seq), 0)
		}
	}
	if len(bounds) > 1 {
		end = clampIndex(bounds[1], len(seq))
	}
	if end-start < len(prefix) {
		return false
	}
	return slices.Equal(seq[start:start+len(prefix)], prefix)
}
