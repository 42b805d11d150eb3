package vo

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// Defaults for String.Encode and Bytes.Decode.
const (
	DefaultEncoding = "utf-8"
	ErrorsStrict    = "strict"
	ErrorsReplace   = "replace"
	ErrorsIgnore    = "ignore"
)

var encodingAliases = map[string]string{
	"latin-1": "iso-8859-1",
	"latin_1": "iso-8859-1",
	"ascii":   "us-ascii",
	"cp1252":  "windows-1252",
}

// lookupEncoding resolves an encoding name. nil means native UTF-8.
func lookupEncoding(name string) (encoding.Encoding, error) {
	norm := strings.ToLower(strings.TrimSpace(name))
	switch norm {
	case "", "utf-8", "utf8", "utf_8", "u8":
		return nil, nil
	}
	if alias, ok := encodingAliases[norm]; ok {
		norm = alias
	}
	if enc, err := ianaindex.IANA.Encoding(norm); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(norm); err == nil {
		return enc, nil
	}
	return nil, fmt.Errorf("unknown encoding: %s", name)
}

func checkPolicy(class, policy string) error {
	switch policy {
	case "", ErrorsStrict, ErrorsReplace, ErrorsIgnore:
		return nil
	}
	return NewInvalidValueError(class, fmt.Sprintf("unknown error handler name %q", policy))
}

// encodeText converts s to the named encoding. Bytes of s that are not valid
// UTF-8 fail under strict, become '?' under replace and are dropped under
// ignore.
func encodeText(class, s, name, policy string) ([]byte, error) {
	if err := checkPolicy(class, policy); err != nil {
		return nil, err
	}
	enc, err := lookupEncoding(name)
	if err != nil {
		return nil, NewInvalidValueError(class, err.Error())
	}
	if !utf8.ValidString(s) {
		switch policy {
		case ErrorsReplace:
			s = strings.ToValidUTF8(s, "?")
		case ErrorsIgnore:
			s = strings.ToValidUTF8(s, "")
		default:
			return nil, NewInvalidValueError(class, "string is not valid utf-8").
				WithDetail("offset", invalidOffset(s))
		}
	}
	if enc == nil {
		return []byte(s), nil
	}

	switch policy {
	case ErrorsReplace:
		out, err := encoding.ReplaceUnsupported(enc.NewEncoder()).String(s)
		if err != nil {
			return nil, NewInvalidValueError(class, "cannot encode").WithCause(err)
		}
		return []byte(out), nil
	case ErrorsIgnore:
		var b strings.Builder
		e := enc.NewEncoder()
		for _, r := range s {
			if out, err := e.String(string(r)); err == nil {
				b.WriteString(out)
			}
		}
		return []byte(b.String()), nil
	default:
		out, err := enc.NewEncoder().String(s)
		if err != nil {
			return nil, NewInvalidValueError(class, fmt.Sprintf("cannot encode to %s", name)).WithCause(err)
		}
		return []byte(out), nil
	}
}

// decodeText converts b from the named encoding. x/text decoders substitute
// U+FFFD for malformed input, so a U+FFFD in the output only counts as
// decoded text when re-encoding reproduces b.
func decodeText(class string, b []byte, name, policy string) (string, error) {
	if err := checkPolicy(class, policy); err != nil {
		return "", err
	}
	enc, err := lookupEncoding(name)
	if err != nil {
		return "", NewInvalidValueError(class, err.Error())
	}
	if enc == nil {
		switch {
		case utf8.Valid(b):
			return string(b), nil
		case policy == ErrorsReplace:
			return strings.ToValidUTF8(string(b), string(utf8.RuneError)), nil
		case policy == ErrorsIgnore:
			return strings.ToValidUTF8(string(b), ""), nil
		}
		return "", NewInvalidValueError(class, "invalid utf-8 byte sequence").
			WithDetail("offset", invalidOffset(string(b)))
	}

	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(b), enc.NewDecoder()))
	malformed := err != nil || substituted(enc, b, out)
	switch {
	case !malformed:
		return string(out), nil
	case policy == ErrorsReplace:
		if err != nil {
			out = append(out, string(utf8.RuneError)...)
		}
		return string(out), nil
	case policy == ErrorsIgnore:
		return strings.ReplaceAll(string(out), string(utf8.RuneError), ""), nil
	}
	failure := NewInvalidValueError(class, fmt.Sprintf("cannot decode from %s", name))
	if err != nil {
		return "", failure.WithCause(err)
	}
	return "", failure
}

// substituted reports whether out carries a replacement character that the
// decoder produced for malformed input rather than one encoded in in.
func substituted(enc encoding.Encoding, in, out []byte) bool {
	if !bytes.ContainsRune(out, utf8.RuneError) {
		return false
	}
	back, err := enc.NewEncoder().Bytes(out)
	return err != nil || !bytes.Equal(back, in)
}

func invalidOffset(s string) int {
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size == 1 {
				return i
			}
		}
	}
	return len(s)
}
