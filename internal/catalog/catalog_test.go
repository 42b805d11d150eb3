package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/authcorp/valueobject/codec"
	"github.com/authcorp/valueobject/internal/catalog"
	"github.com/authcorp/valueobject/metrics"
	"github.com/authcorp/valueobject/schema"
	"github.com/authcorp/valueobject/validation"
	"github.com/authcorp/valueobject/vo"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
types:
  - name: Email
    type: string
    rules: required,max=254,email
    transform: [trim, lower]
    description: Contact address
  - name: Password
    type: string
    rules: required,min=8
    sensitive: true
  - name: Port
    type: int
    rules: gte=1,lte=65535
  - name: Ratio
    type: float
    rules: gte=0,lte=1
  - name: Price
    type: decimal
    rules: gte=0
  - name: Blob
    type: bytes
    rules: max=4
  - name: Birthday
    type: date
    rules: required
  - name: Seen
    type: datetime
  - name: Tags
    type: map
    rules: max=2
`

func parseSample(t *testing.T, opts ...catalog.Option) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Parse([]byte(sample), opts...)
	require.NoError(t, err)
	return c
}

func TestParseBindsKinds(t *testing.T) {
	c := parseSample(t)
	require.Equal(t, 9, c.Len())

	want := map[string]*vo.Kind{
		"Email":    vo.StringKind,
		"Password": vo.StringKind,
		"Port":     vo.IntKind,
		"Ratio":    vo.FloatKind,
		"Price":    vo.DecimalKind,
		"Blob":     vo.BytesKind,
		"Birthday": vo.DateKind,
		"Seen":     vo.DateTimeKind,
		"Tags":     vo.MappingKind,
	}
	for _, e := range c.Entries() {
		assert.Equal(t, want[e.Name()], e.Kind(), e.Name())
	}
	assert.Equal(t, "Email", c.Entries()[0].Name(), "entries keep file order")
}

func TestEntryParse(t *testing.T) {
	c := parseSample(t)

	tests := []struct {
		name    string
		typ     string
		text    string
		want    any
		wantErr bool
	}{
		{"normalized email", "Email", "  Ada@Example.COM ", "ada@example.com", false},
		{"bad email", "Email", "nope", nil, true},
		{"port", "Port", "8080", int64(8080), false},
		{"port out of range", "Port", "70000", nil, true},
		{"port not a number", "Port", "http", nil, true},
		{"ratio", "Ratio", "0.25", 0.25, false},
		{"negative price", "Price", "-1.50", nil, true},
		{"blob too long", "Blob", "abcdef", nil, true},
		{"tags", "Tags", `{"env":"prod"}`, map[string]any{"env": "prod"}, false},
		{"too many tags", "Tags", `{"a":1,"b":2,"c":3}`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := c.Lookup(tt.typ)
			require.NoError(t, err)
			obj, err := e.Parse(tt.text)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.typ, obj.ClassName())
			assert.Equal(t, tt.want, obj.RawValue())
		})
	}
}

func TestEntryParseDates(t *testing.T) {
	c := parseSample(t)

	birthday, err := c.Lookup("Birthday")
	require.NoError(t, err)
	obj, err := birthday.Parse("1990-02-28")
	require.NoError(t, err)
	assert.Equal(t, vo.MustDate(1990, 2, 28), obj.RawValue())

	_, err = birthday.Parse("1990-02-30")
	assert.ErrorIs(t, err, vo.ErrInvalidValue)

	seen, err := c.Lookup("Seen")
	require.NoError(t, err)
	obj, err = seen.Parse("2024-05-01T10:00:00Z")
	require.NoError(t, err)
	out, err := codec.JSON.Encode(obj)
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-05-01T10:00:00Z"`, string(out))
}

func TestValidationIssues(t *testing.T) {
	c := parseSample(t)
	e, err := c.Lookup("Password")
	require.NoError(t, err)

	_, err = e.Parse("short")
	verr, ok := vo.AsType[*validation.Error](err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, []string{"value: must have at least 8 characters"}, verr.Messages())

	obj, err := e.Parse("correct horse")
	require.NoError(t, err)
	assert.True(t, obj.Sensitive())
}

func TestEntrySchema(t *testing.T) {
	c := parseSample(t)

	email, _ := c.Lookup("Email")
	s := email.Schema()
	assert.Equal(t, "Email", s.Title)
	assert.Equal(t, schema.TypeString, s.Type)
	assert.Equal(t, "Contact address", s.Description)

	password, _ := c.Lookup("Password")
	assert.True(t, password.Schema().WriteOnly)

	birthday, _ := c.Lookup("Birthday")
	assert.Equal(t, schema.FormatDate, birthday.Schema().Format)
}

func TestLookupUnknown(t *testing.T) {
	c := parseSample(t)
	_, err := c.Lookup("Missing")
	assert.ErrorIs(t, err, catalog.ErrUnknownType)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "types:\n  - name: A\n    type: string\n    pattern: x\n", "field pattern not found"},
		{"missing name", "types:\n  - type: string\n", "missing name"},
		{"duplicate", "types:\n  - name: A\n    type: int\n  - name: A\n    type: int\n", "defined twice"},
		{"unknown type", "types:\n  - name: A\n    type: uuid\n", `unsupported type "uuid"`},
		{"bad rule", "types:\n  - name: A\n    type: string\n    rules: nosuchrule\n", "nosuchrule"},
		{"unknown transform", "types:\n  - name: A\n    type: string\n    transform: [reverse]\n", `unknown transform "reverse"`},
		{"transform on int", "types:\n  - name: A\n    type: int\n    transform: [trim]\n", "only supported for string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEmptyCatalog(t *testing.T) {
	c, err := catalog.Parse(nil)
	require.NoError(t, err)
	assert.Zero(t, c.Len())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	c, err := catalog.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, c.Len())

	_, err = catalog.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCustomRegistryAndObserver(t *testing.T) {
	reg := vo.NewRegistry()
	reg.MustRegister(vo.IntKind)

	promReg := prometheus.NewRegistry()
	obs := metrics.NewObserver("catalog_test", promReg)

	c, err := catalog.Parse([]byte(sample),
		catalog.WithRegistry(reg),
		catalog.WithClassOptions(vo.WithObserver(obs)),
	)
	require.NoError(t, err)

	port, _ := c.Lookup("Port")
	assert.Equal(t, vo.IntKind, port.Kind())
	email, _ := c.Lookup("Email")
	assert.Equal(t, vo.RootKind, email.Kind(), "string kind is not registered")

	_, err = port.Parse("22")
	require.NoError(t, err)
	_, err = port.Parse("0")
	require.Error(t, err)

	assert.Equal(t, 1.0, promtest.ToFloat64(obs.ConstructedTotal.WithLabelValues("Port", "ok")))
	assert.Equal(t, 1.0, promtest.ToFloat64(obs.ConstructedTotal.WithLabelValues("Port", "invalid")))
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("types:\n  - name: A\n    type: int\n"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type reload struct {
		c   *catalog.Catalog
		err error
	}
	reloads := make(chan reload, 64)
	done := make(chan error, 1)
	go func() {
		done <- catalog.Watch(ctx, path, func(c *catalog.Catalog, err error) {
			select {
			case reloads <- reload{c, err}:
			default:
			}
		})
	}()

	// The watcher is registered asynchronously; keep rewriting until a
	// reload with the new content arrives.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(sample), 0o600)
		select {
		case r := <-reloads:
			return r.err == nil && r.c.Len() == 9
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("types:\n  - name: A\n    type: nope\n"), 0o600))
	require.Eventually(t, func() bool {
		select {
		case r := <-reloads:
			return r.err != nil && r.c == nil
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
