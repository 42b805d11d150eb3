package validation

import (
	"errors"
	"testing"
)

func TestPositive(t *testing.T) {
	check := Positive[int]()

	tests := []struct {
		value   int
		wantErr bool
	}{
		{1, false},
		{100, false},
		{0, true},
		{-1, true},
	}

	for _, tt := range tests {
		err := check("field", tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Positive(%d) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestNonNegative(t *testing.T) {
	check := NonNegative[int64]()

	tests := []struct {
		value   int64
		wantErr bool
	}{
		{0, false},
		{1, false},
		{-1, true},
	}

	for _, tt := range tests {
		err := check("field", tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("NonNegative(%d) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestInRange(t *testing.T) {
	check := InRange[int](1, 10)

	tests := []struct {
		value   int
		wantErr bool
	}{
		{1, false},
		{5, false},
		{10, false},
		{0, true},
		{11, true},
	}

	for _, tt := range tests {
		err := check("field", tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("InRange(1,10)(%d) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
	if err := check("field", 11); err.Error() != "field: must be in range [1, 10]" {
		t.Errorf("unexpected message %q", err)
	}
}

func TestNonEmpty(t *testing.T) {
	check := NonEmpty()

	tests := []struct {
		value   string
		wantErr bool
	}{
		{"hello", false},
		{"a", false},
		{"", true},
		{"   ", true},
	}

	for _, tt := range tests {
		err := check("field", tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("NonEmpty(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestLengthChecksCountRunes(t *testing.T) {
	tests := []struct {
		name    string
		check   Check[string]
		value   string
		wantErr bool
	}{
		{"min ascii", MinLength(3), "abc", false},
		{"min short", MinLength(3), "ab", true},
		{"min multibyte", MinLength(3), "äöü", false},
		{"max ascii", MaxLength(5), "abcde", false},
		{"max long", MaxLength(5), "abcdef", true},
		{"max multibyte", MaxLength(3), "日本語", false},
	}

	for _, tt := range tests {
		err := tt.check("field", tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestOneOf(t *testing.T) {
	check := OneOf("a", "b", "c")

	tests := []struct {
		value   string
		wantErr bool
	}{
		{"a", false},
		{"c", false},
		{"d", true},
		{"", true},
	}

	for _, tt := range tests {
		err := check("field", tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("OneOf(a,b,c)(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestCompose(t *testing.T) {
	check := Compose(
		Positive[int](),
		InRange[int](1, 100),
	)

	tests := []struct {
		value   int
		wantErr string
	}{
		{1, ""},
		{100, ""},
		{0, "field: must be positive"},
		{101, "field: must be in range [1, 100]"},
	}

	for _, tt := range tests {
		err := check("field", tt.value)
		if tt.wantErr == "" {
			if err != nil {
				t.Errorf("Compose(%d) unexpected error: %v", tt.value, err)
			}
			continue
		}
		if err == nil || err.Error() != tt.wantErr {
			t.Errorf("Compose(%d) error = %v, want %q", tt.value, err, tt.wantErr)
		}
	}
}

func TestBuilder(t *testing.T) {
	b := NewBuilder()
	b.Validate("f", nil).Validate("f", nil)
	if b.HasErrors() {
		t.Error("expected no errors")
	}
	if err := b.Build(); err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	b = NewBuilder()
	b.Validate("f1", &ValidationError{Field: "f1", Message: "error1"})
	b.Validate("f2", errors.New("error2"))
	b.Validate("f3", &Error{Issues: []*ValidationError{{Field: "f3", Message: "error3"}}})

	err := b.Build()
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	want := []string{"f1: error1", "f2: error2", "f3: error3"}
	got := verr.Messages()
	if len(got) != len(want) {
		t.Fatalf("expected %d issues, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("issue %d = %q, want %q", i, got[i], want[i])
		}
	}
	if verr.Error() != "3 validation errors: f1: error1" {
		t.Errorf("unexpected summary %q", verr.Error())
	}
}

func TestErrorSummary(t *testing.T) {
	if got := (&Error{}).Error(); got != "validation failed" {
		t.Errorf("empty error = %q", got)
	}
	single := &Error{Issues: []*ValidationError{{Message: "bad"}}}
	if got := single.Error(); got != "bad" {
		t.Errorf("single error = %q", got)
	}
}
