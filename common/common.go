package common

import (
	"math"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/authcorp/valueobject/schema"
	"github.com/authcorp/valueobject/validation"
	"github.com/authcorp/valueobject/vo"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllowedSchemes lists the URL schemes accepted by URL.
var AllowedSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ftp":   true,
	"ftps":  true,
}

// PositiveInt32 holds integers in (0, 2147483647].
var PositiveInt32 = vo.Must(vo.DefineInt("PositiveInt32", validation.Tag[int64](
	"gt=0,lte=2147483647",
)))

// Email holds lower-cased email addresses.
var Email = vo.Must(vo.DefineString("Email", validation.Tag[string](
	"required,max=254,email",
	validation.Transform(normalizeEmail),
)))

// UUID holds identifiers in canonical lower-case form.
var UUID = vo.Must(vo.DefineString("UUID", validation.Tag[string](
	"required,uuid",
	validation.Transform(canonicalUUID),
)))

// URL holds absolute URLs with an allowed scheme and a host.
var URL = vo.Must(vo.DefineString("URL", validation.Tag[string](
	"required,url",
	validation.Transform(strings.TrimSpace),
	validation.With(allowedURL),
)))

// Phone holds E.164 phone numbers. Spaces, dashes and parentheses are
// removed before validation.
var Phone = vo.Must(vo.DefineString("Phone", validation.Tag[string](
	"required,e164",
	validation.Transform(normalizePhone),
)))

// Password holds secrets of 8 to 128 characters with at least one letter
// and one digit. Its text form is denied.
var Password = vo.Must(vo.DefineString("Password", validation.Tag[string](
	"required,min=8,max=128",
	validation.With(mixedPassword),
), vo.Sensitive()))

// Amount holds non-negative decimals.
var Amount = vo.Must(vo.DefineDecimal("Amount", validation.Tag[decimal.Decimal](
	"gte=0",
	validation.Describe[decimal.Decimal](func(s *schema.Schema) { s.Format = "decimal" }),
)))

// Timestamp holds non-zero instants in UTC.
var Timestamp = vo.Must(vo.DefineDateTime("Timestamp", validation.Tag[time.Time](
	"required",
	validation.Transform(time.Time.UTC),
)))

// Labels holds up to 64 entries with keys of 1 to 63 characters and values
// of at most 255 characters.
var Labels = vo.Must(vo.DefineMapping[string, string]("Labels", validation.Tag[map[string]string](
	"max=64,dive,keys,min=1,max=63,endkeys,max=255",
)))

// NewUUID returns a random version 4 UUID value.
func NewUUID() vo.String {
	return UUID.MustNew(uuid.NewString())
}

// Now returns the current instant as a Timestamp.
func Now() vo.DateTimeValue {
	return Timestamp.MustNew(time.Now())
}

// Int32 returns a PositiveInt32 payload as an int32.
func Int32(v vo.Numeric[int64]) int32 {
	n := v.Raw()
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(n)
}

// EmailParts splits an email value into its local part and domain.
func EmailParts(v vo.String) (local, domain string) {
	local, domain, _ = strings.Cut(v.Raw(), "@")
	return local, domain
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func canonicalUUID(s string) string {
	s = strings.TrimSpace(s)
	if u, err := uuid.Parse(s); err == nil {
		return u.String()
	}
	return s
}

func normalizePhone(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '+' {
			return r
		}
		return -1
	}, s)
}

func allowedURL(field, value string) error {
	u, err := url.Parse(value)
	if err != nil {
		return nil
	}
	if !AllowedSchemes[strings.ToLower(u.Scheme)] {
		return &validation.ValidationError{Field: field, Message: "unsupported URL scheme: " + u.Scheme}
	}
	if u.Host == "" {
		return &validation.ValidationError{Field: field, Message: "must have a host"}
	}
	return nil
}

func mixedPassword(field, value string) error {
	var letter, digit bool
	for _, r := range value {
		letter = letter || unicode.IsLetter(r)
		digit = digit || unicode.IsDigit(r)
	}
	if !letter || !digit {
		return &validation.ValidationError{Field: field, Message: "must contain a letter and a digit"}
	}
	return nil
}
