package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
types:
  - name: Email
    type: string
    rules: required,max=254,email
    transform: [trim, lower]
  - name: Password
    type: string
    rules: required,min=8
    sensitive: true
  - name: Port
    type: int
    rules: gte=1,lte=65535
    description: TCP port
  - name: Birthday
    type: date
    rules: required
`

// setupDir writes the test catalog into a fresh working directory and
// returns its path.
func setupDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "types.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestValidateCommand(t *testing.T) {
	path := setupDir(t)

	tests := []struct {
		name    string
		args    []string
		wantOut string
		wantErr string
	}{
		{
			name:    "normalized email",
			args:    []string{"validate", "--catalog", path, "--type", "Email", " Ada@Example.COM "},
			wantOut: "\"ada@example.com\"\n",
		},
		{
			name:    "several ports",
			args:    []string{"validate", "--catalog", path, "-t", "Port", "80", "443"},
			wantOut: "80\n443\n",
		},
		{
			name:    "date",
			args:    []string{"validate", "--catalog", path, "-t", "Birthday", "2000-02-29"},
			wantOut: "\"2000-02-29\"\n",
		},
		{
			name:    "sensitive payload is masked",
			args:    []string{"validate", "--catalog", path, "-t", "Password", "correct horse"},
			wantOut: "\"[MASKED]\"\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOut, out)
		})
	}
}

func TestValidateReportsIssues(t *testing.T) {
	path := setupDir(t)

	out, errOut, err := execute(t, "validate", "--catalog", path, "-t", "Port", "80", "0", "http")
	require.ErrorIs(t, err, errInvalidValues)
	assert.Equal(t, "80\n", out, "valid values are still printed")
	assert.Contains(t, errOut, `"0": value: must be >= 1`)
	assert.Contains(t, errOut, `"http": [INVALID_VALUE] Port: cannot parse "http"`)

	_, errOut, err = execute(t, "validate", "--catalog", path, "-t", "Password", "hunter2")
	require.ErrorIs(t, err, errInvalidValues)
	assert.NotContains(t, errOut, "hunter2")
	assert.Contains(t, errOut, `"[MASKED]": value: must have at least 8 characters`)
}

func TestValidateUnknownType(t *testing.T) {
	path := setupDir(t)

	_, _, err := execute(t, "validate", "--catalog", path, "-t", "Missing", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown type "Missing"`)

	_, _, err = execute(t, "validate", "--catalog", path, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "type" not set`)
}

func TestSchemaCommand(t *testing.T) {
	path := setupDir(t)

	out, _, err := execute(t, "schema", "--catalog", path)
	require.NoError(t, err)
	var all map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &all))
	assert.Len(t, all, 4)
	assert.Equal(t, "integer", all["Port"]["type"])
	assert.Equal(t, "TCP port", all["Port"]["description"])
	assert.Equal(t, true, all["Password"]["writeOnly"])

	out, _, err = execute(t, "schema", "--catalog", path, "--type", "Birthday")
	require.NoError(t, err)
	var one map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &one))
	assert.Equal(t, "Birthday", one["title"])
	assert.Equal(t, "date", one["format"])
}

func TestKindsCommand(t *testing.T) {
	path := setupDir(t)

	out, _, err := execute(t, "kinds", "--catalog", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 9)
	assert.True(t, strings.HasPrefix(lines[0], "KIND"))
	assert.Contains(t, out, "DateTime")
	assert.Contains(t, out, "time.Time")
	assert.Contains(t, out, "decimal.Decimal")
}

func TestConfigFileAndMetrics(t *testing.T) {
	path := setupDir(t)
	cfg := "catalog:\n  path: " + path + "\nlogging:\n  level: debug\n  format: json\nmetrics:\n  enabled: true\n  namespace: vocattest\n"
	require.NoError(t, os.WriteFile("vocat.yaml", []byte(cfg), 0o600))

	out, errOut, err := execute(t, "validate", "-t", "Email", "ada@example.com", "nope")
	require.ErrorIs(t, err, errInvalidValues)
	assert.Equal(t, "\"ada@example.com\"\n", out)
	assert.Contains(t, errOut, `"msg":"catalog loaded"`)
	assert.Contains(t, errOut, `vocattest_constructed_total{class="Email",outcome="ok"} 1`)
	assert.Contains(t, errOut, `vocattest_constructed_total{class="Email",outcome="invalid"} 1`)
}

func TestMissingCatalog(t *testing.T) {
	setupDir(t)

	_, _, err := execute(t, "kinds", "--catalog", "nowhere.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestInvalidLogLevel(t *testing.T) {
	path := setupDir(t)

	_, _, err := execute(t, "kinds", "--catalog", path, "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}

// syncBuffer is written by the watcher goroutine while the test reads it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSchemaWatch(t *testing.T) {
	path := setupDir(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out, errOut syncBuffer
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, []string{"schema", "--catalog", path, "-t", "Port", "--watch"}, &out, &errOut)
	}()

	updated := strings.Replace(testCatalog, "TCP port", "Listening port", 1)
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(updated), 0o600)
		return strings.Contains(out.String(), "Listening port")
	}, 5*time.Second, 50*time.Millisecond)
	assert.Contains(t, out.String(), "TCP port", "initial schema is printed first")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
