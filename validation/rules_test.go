package validation_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/authcorp/valueobject/schema"
	"github.com/authcorp/valueobject/validation"
	"github.com/authcorp/valueobject/vo"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagRulesAsClassValidator(t *testing.T) {
	username := vo.Must(vo.DefineString("Username", validation.Tag[string]("required,min=3,max=10,alphanum",
		validation.Transform(strings.TrimSpace),
		validation.Transform(strings.ToLower),
	)))

	v, err := username.New("  Alice ")
	require.NoError(t, err)
	assert.Equal(t, "alice", v.Raw())

	cases := []struct {
		raw  string
		want string
	}{
		{" ab ", "value: must have at least 3 characters"},
		{"", "value: is required"},
		{"abcdefghijk", "value: must have at most 10 characters"},
		{"al ice", "value: failed on the 'alphanum' rule"},
	}
	for _, tc := range cases {
		_, err := username.New(tc.raw)
		require.Error(t, err, tc.raw)
		assert.EqualError(t, err, tc.want)

		verr, ok := vo.AsType[*validation.Error](err)
		require.True(t, ok)
		assert.Len(t, verr.Issues, 1)
	}
}

func TestRulesReportEveryIssue(t *testing.T) {
	rules := validation.Tag[string]("max=4",
		validation.Field[string]("code"),
		validation.With(validation.OneOf("A1", "B2"), validation.NonEmpty()),
	)

	_, err := rules.Validate("toolong")
	verr, ok := vo.AsType[*validation.Error](err)
	require.True(t, ok)
	assert.Equal(t, []string{
		"code: must have at most 4 characters",
		"code: must be one of [A1 B2]",
	}, verr.Messages())

	out, err := rules.Validate("A1")
	require.NoError(t, err)
	assert.Equal(t, "A1", out)
}

func TestRulesNumericMessages(t *testing.T) {
	percent := vo.Must(vo.DefineInt("Percent", validation.Tag[int]("gte=0,lte=100")))

	_, err := percent.New(101)
	assert.EqualError(t, err, "value: must be <= 100")
	_, err = percent.New(-1)
	assert.EqualError(t, err, "value: must be >= 0")

	level := vo.Must(vo.DefineString("Level", validation.Tag[string]("oneof=debug info warn error")))
	_, err = level.New("trace")
	assert.EqualError(t, err, "value: must be one of [debug info warn error]")
}

func TestRulesDecimalAndDate(t *testing.T) {
	amount := vo.Must(vo.DefineDecimal("Amount", validation.Tag[decimal.Decimal]("gte=0,lt=1000000")))
	_, err := amount.New(decimal.RequireFromString("12.50"))
	require.NoError(t, err)
	_, err = amount.New(decimal.RequireFromString("-0.01"))
	assert.EqualError(t, err, "value: must be >= 0")

	expiry := vo.Must(vo.DefineDate("Expiry", validation.Tag[vo.Date]("required,gt")))
	_, err = expiry.New(vo.MustDate(9999, time.December, 31))
	require.NoError(t, err)
	_, err = expiry.New(vo.MustDate(2000, time.January, 1))
	assert.EqualError(t, err, "value: must be in the future")
	_, err = expiry.New(vo.Date{})
	assert.EqualError(t, err, "value: is required")
}

func TestCompileRejectsMalformedTags(t *testing.T) {
	require.NoError(t, validation.Tag[string]("required,email").Compile())
	require.NoError(t, validation.Tag[string]("").Compile())

	bad := validation.Tag[string]("required,nosuchrule")
	err := bad.Compile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `validation rules "required,nosuchrule"`)

	_, err = bad.Validate("x")
	require.Error(t, err)
	_, ok := vo.AsType[*validation.Error](err)
	assert.False(t, ok, "a malformed tag is not a validation failure")
}

func TestRegisterValidation(t *testing.T) {
	require.NoError(t, validation.RegisterValidation("even", func(fl validator.FieldLevel) bool {
		return fl.Field().Int()%2 == 0
	}))

	even := validation.Tag[int]("even")
	require.NoError(t, even.Compile())
	_, err := even.Validate(3)
	assert.EqualError(t, err, "value: failed on the 'even' rule")
	_, err = even.Validate(4)
	assert.NoError(t, err)
}

func TestRulesDescribeSchema(t *testing.T) {
	email := vo.Must(vo.DefineString("Email", validation.Tag[string]("required,max=254,email",
		validation.Describe[string](func(s *schema.Schema) { s.Description = "contact address" }),
	)))

	s := email.Schema()
	assert.Equal(t, "Email", s.Title)
	assert.Equal(t, schema.TypeString, s.Type)
	assert.Equal(t, schema.FormatEmail, s.Format)
	assert.Equal(t, "contact address", s.Description)
	require.NotNil(t, s.MaxLength)
	assert.Equal(t, uint64(254), *s.MaxLength)

	amount := vo.Must(vo.DefineDecimal("Amount", validation.Tag[decimal.Decimal]("gte=0")))
	s = amount.Schema()
	assert.Equal(t, schema.TypeNumber, s.Type)
	assert.Equal(t, json.Number("0"), s.Minimum)
}

func TestRulesUnderlyingType(t *testing.T) {
	rules := validation.Tag[any]("required", validation.Underlying[any](reflect.TypeFor[int]()))
	assert.Equal(t, reflect.TypeFor[int](), rules.UnderlyingType())
	assert.Equal(t, reflect.TypeFor[string](), validation.Tag[string]("").UnderlyingType())

	var nilRules *validation.Rules[float64]
	assert.Equal(t, reflect.TypeFor[float64](), nilRules.UnderlyingType())

	count, err := vo.Synthesize[any](nil, "Count", rules)
	require.NoError(t, err)
	assert.Equal(t, vo.IntKind, count.Kind())
	assert.Equal(t, "required", rules.String())
}
