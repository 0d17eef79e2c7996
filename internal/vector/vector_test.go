package vector

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"firestige.xyz/attrcodec/internal/config"
	"firestige.xyz/attrcodec/internal/log"
)

const yamlVectors = `
vectors:
  - name: nas-ip
    type: ipaddr
    value: 192.168.0.255
    expect_hex: "c0a800ff"
  - name: bad-prefix
    type: ipv4prefix
    value: 1.2.3.4/24
    expect_error: invalid prefix
  - name: session-timeout
    type: integer
    hex: "00000e10"
    expect_value: 3600
  - type: byte
    value: 7
`

const tomlVectors = `
[[vectors]]
name = "nas-ip"
type = "ipaddr"
value = "10.0.0.1"
expect_hex = "0a000001"

[[vectors]]
name = "port"
type = "short"
hex = "01bb"
expect_value = 443
`

type mockCodec struct {
	mock.Mock
}

func (m *mockCodec) Encode(tag string, v any) ([]byte, error) {
	args := m.Called(tag, v)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *mockCodec) Decode(tag string, b []byte) (any, error) {
	args := m.Called(tag, b)
	return args.Get(0), args.Error(1)
}

func quietLogger(t *testing.T, buf *bytes.Buffer) log.Logger {
	t.Helper()
	l, err := log.New(config.LogConfig{Level: "warn", Pattern: "%level %field %msg\n"}, buf)
	require.NoError(t, err)
	return l
}

func TestParseYAML(t *testing.T) {
	f, err := Parse([]byte(yamlVectors), ".yaml")
	require.NoError(t, err)
	require.Len(t, f.Vectors, 4)

	assert.Equal(t, "nas-ip", f.Vectors[0].Name)
	assert.Equal(t, "encode", f.Vectors[0].Direction())
	assert.Equal(t, "c0a800ff", f.Vectors[0].ExpectHex)
	assert.Equal(t, "decode", f.Vectors[2].Direction())
	assert.Equal(t, "3600", f.Vectors[2].ExpectValue)
	assert.Equal(t, "1.2.3.4/24", f.Vectors[1].Value)
	assert.Equal(t, "7", f.Vectors[3].Value)
	assert.Equal(t, "#4", f.Vectors[3].Name)
}

func TestParseYAMLKeepsLiteralText(t *testing.T) {
	f, err := Parse([]byte(`
vectors:
  - name: unquoted-hex
    type: integer
    hex: 01020304
    expect_value: 16909060
  - name: hex-octets
    type: octets
    value: 0x0102
    expect_hex: 0102
  - name: flag
    type: bool
    value: true
    expect_hex: 01
  - name: expiry
    type: date
    value: 3600
    expect_hex: 00000e10
`), ".yaml")
	require.NoError(t, err)
	require.Len(t, f.Vectors, 4)

	assert.Equal(t, "01020304", f.Vectors[0].Hex)
	assert.Equal(t, "0x0102", f.Vectors[1].Value)
	assert.Equal(t, "0102", f.Vectors[1].ExpectHex)
	assert.Equal(t, "true", f.Vectors[2].Value)

	var buf bytes.Buffer
	results := NewRunner(nil, quietLogger(t, &buf)).Run(f.Vectors)
	for _, r := range results {
		assert.True(t, r.Pass, "%s: %s %s", r.Name, r.Reason, r.Error)
	}
	assert.Equal(t, "16909060", results[0].Output)
	assert.Equal(t, "0102", results[1].Output)
}

func TestParseYAMLEmpty(t *testing.T) {
	f, err := Parse(nil, ".yaml")
	require.NoError(t, err)
	assert.Empty(t, f.Vectors)

	_, err = Parse([]byte("- a\n- b\n"), ".yaml")
	assert.ErrorIs(t, err, ErrInvalidVector)
}

func TestTextValue(t *testing.T) {
	assert.Equal(t, "42", TextValue("integer", "42"))
	assert.Equal(t, int64(42), TextValue("date", "42"))
	assert.Equal(t, time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC), TextValue("date", "2026-01-02T15:04:05Z"))
	assert.Equal(t, "yesterday", TextValue("date", "yesterday"))
}

func TestParseTOML(t *testing.T) {
	f, err := Parse([]byte(tomlVectors), ".toml")
	require.NoError(t, err)
	require.Len(t, f.Vectors, 2)

	assert.Equal(t, "10.0.0.1", f.Vectors[0].Value)
	assert.Equal(t, "01bb", f.Vectors[1].Hex)
	assert.Equal(t, int64(443), f.Vectors[1].ExpectValue)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		ext  string
		err  error
	}{
		{"unknown extension", yamlVectors, ".json", ErrUnknownFormat},
		{"missing type", "vectors:\n  - value: 1\n", ".yaml", ErrInvalidVector},
		{"value and hex", "vectors:\n  - type: byte\n    value: 1\n    hex: \"01\"\n", ".yaml", ErrInvalidVector},
		{"neither value nor hex", "vectors:\n  - type: byte\n", ".yaml", ErrInvalidVector},
		{"unknown key", "vectors:\n  - type: byte\n    value: 1\n    expect: 1\n", ".yml", ErrInvalidVector},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.ext)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	_, err := Parse([]byte("vectors: [unclosed"), ".yaml")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.toml")
	require.NoError(t, os.WriteFile(path, []byte(tomlVectors), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Vectors, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRunAgainstAttrCodec(t *testing.T) {
	f, err := Parse([]byte(yamlVectors), ".yaml")
	require.NoError(t, err)

	var buf bytes.Buffer
	results := NewRunner(nil, quietLogger(t, &buf)).Run(f.Vectors)
	require.Len(t, results, 4)

	for _, r := range results {
		assert.True(t, r.Pass, "%s: %s", r.Name, r.Reason)
	}
	assert.Equal(t, "c0a800ff", results[0].Output)
	assert.Contains(t, results[1].Error, "invalid prefix")
	assert.Equal(t, "3600", results[2].Output)
	assert.Equal(t, "07", results[3].Output)
	assert.Empty(t, buf.String())
}

func TestRunReportsFailures(t *testing.T) {
	vectors := []Vector{
		{Name: "wrong-hex", Type: "ipaddr", Value: "10.0.0.1", ExpectHex: "0a000002"},
		{Name: "wrong-value", Type: "short", Hex: "01bb", ExpectValue: 80},
		{Name: "missing-error", Type: "byte", Value: 1, ExpectError: "malformed"},
		{Name: "unexpected-error", Type: "nosuchtype", Value: 1},
		{Name: "other-error", Type: "ipaddr", Value: "nope", ExpectError: "too long"},
		{Name: "bad-hex", Type: "byte", Hex: "zz"},
	}

	var buf bytes.Buffer
	results := NewRunner(nil, quietLogger(t, &buf)).Run(vectors)
	require.Len(t, results, len(vectors))
	for _, r := range results {
		assert.False(t, r.Pass, r.Name)
		assert.NotEmpty(t, r.Reason, r.Name)
	}
	assert.Contains(t, buf.String(), "vector failed")
	assert.Contains(t, buf.String(), "vector=wrong-hex")
}

func TestRunUsesCodec(t *testing.T) {
	codec := new(mockCodec)
	codec.On("Encode", "string", "x").Return([]byte{0x78}, nil)
	codec.On("Decode", "octets", []byte{0xde, 0xad}).Return([]byte{0xde, 0xad}, nil)
	codec.On("Encode", "integer", 1).Return(nil, errors.New("boom"))

	var buf bytes.Buffer
	results := NewRunner(codec, quietLogger(t, &buf)).Run([]Vector{
		{Name: "a", Type: "string", Value: "x", ExpectHex: "78"},
		{Name: "b", Type: "octets", Hex: "de:ad", ExpectValue: "dead"},
		{Name: "c", Type: "integer", Value: 1, ExpectError: "boom"},
	})

	codec.AssertExpectations(t)
	for _, r := range results {
		assert.True(t, r.Pass, "%s: %s", r.Name, r.Reason)
	}
}

func TestParseHex(t *testing.T) {
	b, err := ParseHex("0xDE AD:be ef")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, b)

	_, err = ParseHex("abc")
	assert.ErrorIs(t, err, ErrInvalidVector)
}

func TestReport(t *testing.T) {
	rep := NewReport([]Result{
		{Name: "a", Type: "byte", Direction: "encode", Output: "01", Pass: true},
		{Name: "b", Type: "byte", Direction: "decode", Error: "attr: malformed input", Reason: "unexpected error"},
	})
	assert.Equal(t, 2, rep.Total)
	assert.Equal(t, 1, rep.Passed)
	assert.Equal(t, 1, rep.Failed)

	var buf bytes.Buffer
	require.NoError(t, rep.Write(&buf))

	var back Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, rep, back)
}
