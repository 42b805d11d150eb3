// Package logging builds the slog loggers used by vocat. Attributes whose
// keys look like secrets are redacted, and PII patterns in string values
// are masked.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// Redaction placeholders.
const (
	RedactedValue = "[REDACTED]"
	PIIValue      = "[PII]"
)

var sensitiveKeyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(password|passwd|pwd)`),
	regexp.MustCompile(`(?i)(token|api[_-]?key|secret|credential)`),
	regexp.MustCompile(`(?i)(private[_-]?key|secret[_-]?key)`),
}

var piiPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	regexp.MustCompile(`\+[1-9]\d{7,14}\b`),
	regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`),
}

// ParseLevel converts a configuration level name.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}

// New creates a logger writing to w in the given format, "json" or "text".
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl, ReplaceAttr: Redact}
	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", format)
}

// Redact is a slog.HandlerOptions.ReplaceAttr function.
func Redact(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.MessageKey || a.Key == slog.TimeKey || a.Key == slog.LevelKey {
		return a
	}
	for _, pattern := range sensitiveKeyPatterns {
		if pattern.MatchString(a.Key) {
			return slog.String(a.Key, RedactedValue)
		}
	}
	if a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, RedactPII(a.Value.String()))
	}
	return a
}

// RedactPII masks PII patterns in s.
func RedactPII(s string) string {
	for _, pattern := range piiPatterns {
		s = pattern.ReplaceAllString(s, PIIValue)
	}
	return s
}

// ContainsPII reports whether s matches a PII pattern.
func ContainsPII(s string) bool {
	for _, pattern := range piiPatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}
