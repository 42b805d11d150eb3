package schema_test

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/authcorp/valueobject/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type token struct{}

func (token) MarshalText() ([]byte, error) { return []byte("t"), nil }

func TestForPayloadTypes(t *testing.T) {
	cases := []struct {
		raw        reflect.Type
		typ, wantF string
	}{
		{reflect.TypeFor[string](), schema.TypeString, ""},
		{reflect.TypeFor[bool](), schema.TypeBoolean, ""},
		{reflect.TypeFor[int16](), schema.TypeInteger, ""},
		{reflect.TypeFor[uint64](), schema.TypeInteger, ""},
		{reflect.TypeFor[float32](), schema.TypeNumber, ""},
		{reflect.TypeFor[[]byte](), schema.TypeString, schema.FormatBinary},
		{reflect.TypeFor[[]int](), schema.TypeArray, ""},
		{reflect.TypeFor[map[string]int](), schema.TypeObject, ""},
		{reflect.TypeFor[time.Time](), schema.TypeString, schema.FormatDateTime},
		{reflect.TypeFor[token](), schema.TypeString, ""},
		{reflect.TypeFor[struct{ X int }](), schema.TypeObject, ""},
		{reflect.TypeFor[chan int](), "", ""},
		{nil, "", ""},
	}
	for _, tc := range cases {
		s := schema.For(tc.raw)
		assert.Equal(t, tc.typ, s.Type, "%v", tc.raw)
		assert.Equal(t, tc.wantF, s.Format, "%v", tc.raw)
	}
}

func TestApplyTagStringRules(t *testing.T) {
	s := schema.For(reflect.TypeFor[string]())
	schema.ApplyTag(s, "required, min=3,max=64,email")

	require.NotNil(t, s.MinLength)
	require.NotNil(t, s.MaxLength)
	assert.Equal(t, uint64(3), *s.MinLength)
	assert.Equal(t, uint64(64), *s.MaxLength)
	assert.Equal(t, schema.FormatEmail, s.Format)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"string","minLength":3,"maxLength":64,"format":"email"}`, string(out))
}

func TestApplyTagNumericRules(t *testing.T) {
	s := schema.For(reflect.TypeFor[int]())
	schema.ApplyTag(s, "gt=0,lte=100,oneof=1 5 10")

	assert.Equal(t, json.Number("0"), s.ExclusiveMinimum)
	assert.Equal(t, json.Number("100"), s.Maximum)
	assert.Equal(t, []any{int64(1), int64(5), int64(10)}, s.Enum)
	assert.Empty(t, s.Minimum)

	ratio := schema.For(reflect.TypeFor[float64]())
	schema.ApplyTag(ratio, "gte=0.5,lt=1e2,max=oops")
	assert.Equal(t, json.Number("0.5"), ratio.Minimum)
	assert.Equal(t, json.Number("100"), ratio.ExclusiveMaximum)
	assert.Empty(t, ratio.Maximum)

	out, err := json.Marshal(ratio)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"number","minimum":0.5,"exclusiveMaximum":100}`, string(out))
}

func TestApplyTagCollectionsAndPatterns(t *testing.T) {
	labels := schema.For(reflect.TypeFor[map[string]string]())
	schema.ApplyTag(labels, "min=1,max=8,dive,keys,alpha")
	assert.Equal(t, uint64(1), *labels.MinProperties)
	assert.Equal(t, uint64(8), *labels.MaxProperties)
	assert.Empty(t, labels.Pattern, "element rules are not represented")

	tags := schema.For(reflect.TypeFor[[]string]())
	schema.ApplyTag(tags, "len=2")
	assert.Equal(t, uint64(2), *tags.MinItems)
	assert.Equal(t, uint64(2), *tags.MaxItems)

	code := schema.For(reflect.TypeFor[string]())
	schema.ApplyTag(code, "startswith=v1.,gt=2,alpha|numeric")
	assert.Equal(t, `^v1\.`, code.Pattern)
	assert.Equal(t, uint64(3), *code.MinLength)

	empty := schema.For(reflect.TypeFor[string]())
	schema.ApplyTag(empty, "lt=0,max=-1")
	assert.Nil(t, empty.MaxLength)

	day := schema.For(reflect.TypeFor[string]())
	schema.ApplyTag(day, "datetime=2006-01-02")
	assert.Equal(t, schema.FormatDate, day.Format)

	phone := schema.For(reflect.TypeFor[string]())
	schema.ApplyTag(phone, "e164")
	assert.Equal(t, `^\+[1-9]?[0-9]{7,14}$`, phone.Pattern)
}

type address struct {
	Street string   `json:"street"`
	Zip    int      `json:"zip,omitempty"`
	Tags   []string `json:"tags,omitempty"`
	Next   *address `json:"next,omitempty"`
}

func TestForReflectsComposites(t *testing.T) {
	s := schema.For(reflect.TypeFor[address]())
	assert.Equal(t, schema.TypeObject, s.Type)
	assert.Empty(t, s.Version)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	var doc struct {
		Schema     string                    `json:"$schema"`
		Properties map[string]map[string]any `json:"properties"`
		Defs       map[string]any            `json:"$defs"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Empty(t, doc.Schema)
	assert.Equal(t, "string", doc.Properties["street"]["type"])
	assert.Equal(t, "integer", doc.Properties["zip"]["type"])
	assert.Equal(t, "array", doc.Properties["tags"]["type"])
	require.Contains(t, doc.Properties, "next")
	ref, _ := doc.Properties["next"]["$ref"].(string)
	if ref != "" {
		name := ref[len("#/$defs/"):]
		assert.Contains(t, doc.Defs, name, "recursive reference resolves")
	}

	list := schema.For(reflect.TypeFor[[]int]())
	require.NotNil(t, list.Items)
	assert.Equal(t, schema.TypeInteger, list.Items.Type)

	labels := schema.For(reflect.TypeFor[map[string]float64]())
	assert.Equal(t, schema.TypeObject, labels.Type)
	assert.Empty(t, labels.Version)
}
