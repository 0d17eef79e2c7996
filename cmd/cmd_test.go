package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"firestige.xyz/attrcodec/internal/config"
	"firestige.xyz/attrcodec/pkg/attr"
)

// MockCodec implements Codec
type MockCodec struct {
	mock.Mock
}

func (m *MockCodec) Encode(tag string, v any) ([]byte, error) {
	args := m.Called(tag, v)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *MockCodec) Decode(tag string, b []byte) (any, error) {
	args := m.Called(tag, b)
	return args.Get(0), args.Error(1)
}

var hexOutput = config.OutputConfig{Format: "hex"}

func TestRunEncode_Success(t *testing.T) {
	mockCodec := new(MockCodec)
	mockCodec.On("Encode", "ipaddr", "192.168.0.255").Return([]byte{0xc0, 0xa8, 0x00, 0xff}, nil)

	var buf bytes.Buffer
	err := runEncode(mockCodec, hexOutput, &buf, "ipaddr", "192.168.0.255")

	assert.NoError(t, err)
	assert.Equal(t, "c0a800ff\n", buf.String())
	mockCodec.AssertExpectations(t)
}

func TestRunEncode_Failure(t *testing.T) {
	mockCodec := new(MockCodec)
	mockCodec.On("Encode", "ipaddr", "nope").Return(nil, attr.ErrInvalidAddress)

	var buf bytes.Buffer
	err := runEncode(mockCodec, hexOutput, &buf, "ipaddr", "nope")

	assert.ErrorIs(t, err, attr.ErrInvalidAddress)
	assert.Contains(t, err.Error(), "failed to encode ipaddr")
	assert.Empty(t, buf.String())
	mockCodec.AssertExpectations(t)
}

func TestRunEncode_DateArguments(t *testing.T) {
	ts := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	mockCodec := new(MockCodec)
	mockCodec.On("Encode", "date", int64(3600)).Return([]byte{0, 0, 0x0e, 0x10}, nil)
	mockCodec.On("Encode", "date", ts).Return([]byte{1, 2, 3, 4}, nil)

	var buf bytes.Buffer
	require.NoError(t, runEncode(mockCodec, hexOutput, &buf, "date", "3600"))
	require.NoError(t, runEncode(mockCodec, hexOutput, &buf, "date", "2026-01-02T15:04:05Z"))

	assert.Equal(t, "00000e10\n01020304\n", buf.String())
	mockCodec.AssertExpectations(t)
}

func TestRunDecode_Success(t *testing.T) {
	mockCodec := new(MockCodec)
	mockCodec.On("Decode", "integer", []byte{0, 0, 0x0e, 0x10}).Return(uint32(3600), nil)

	var buf bytes.Buffer
	err := runDecode(mockCodec, hexOutput, &buf, "integer", "00000e10", false)

	assert.NoError(t, err)
	assert.Equal(t, "3600\n", buf.String())
	mockCodec.AssertExpectations(t)
}

func TestRunDecode_Errors(t *testing.T) {
	mockCodec := new(MockCodec)
	mockCodec.On("Decode", "ipaddr", []byte{1, 2, 3}).Return(nil, attr.ErrMalformedInput)

	var buf bytes.Buffer
	err := runDecode(mockCodec, hexOutput, &buf, "ipaddr", "010203", false)
	assert.ErrorIs(t, err, attr.ErrMalformedInput)

	err = runDecode(mockCodec, hexOutput, &buf, "ipaddr", "xyz", false)
	assert.Error(t, err)

	err = runDecode(mockCodec, hexOutput, &buf, "octets", "00", true)
	assert.ErrorContains(t, err, "--rule only applies to abinary")

	assert.Empty(t, buf.String())
	mockCodec.AssertExpectations(t)
}

func TestRunDecode_Rule(t *testing.T) {
	const rule = "family=ipv4 action=discard direction=in dst=10.10.255.254/32"
	wire, err := attr.EncodeFilterRule(rule)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = runDecode(attr.Codec{}, hexOutput, &buf, "abinary", formatBytes(wire, hexOutput), true)

	require.NoError(t, err)
	assert.Equal(t, "family=ipv4 action=discard direction=in src=0.0.0.0/0 dst=10.10.255.254/32 "+
		"proto=0 sport=0 dport=0 sportq=0 dportq=0\n", buf.String())
}

func TestOutputFormats(t *testing.T) {
	b := []byte{0xde, 0xad, 0xbe, 0xef}
	tests := []struct {
		name string
		cfg  config.OutputConfig
		want string
	}{
		{"hex", hexOutput, "deadbeef"},
		{"upper with separator", config.OutputConfig{Format: "hex", Uppercase: true, Separator: ":"}, "DE:AD:BE:EF"},
		{"base64", config.OutputConfig{Format: "base64"}, "3q2+7w=="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatBytes(b, tt.cfg)
			assert.Equal(t, tt.want, got)

			back, err := parseBytes(got, tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, b, back)
		})
	}

	assert.Equal(t, "true", formatValue(true, hexOutput))
	assert.Equal(t, "DEAD", formatValue([]byte{0xde, 0xad}, config.OutputConfig{Format: "hex", Uppercase: true}))
}

func TestRunTypes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runTypes(&buf))

	out := buf.String()
	assert.Contains(t, out, "TYPE")
	assert.Regexp(t, `(?m)^ipaddr\s+4$`, out)
	assert.Regexp(t, `(?m)^ipv6prefix\s+18$`, out)
	assert.Regexp(t, `(?m)^string\s+variable$`, out)
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`
vectors:
  - name: nas-ip
    type: ipaddr
    value: 192.168.0.255
    expect_hex: "c0a800ff"
  - name: timeout
    type: integer
    hex: "00000e10"
    expect_value: 3600
`), 0o644))

	var buf bytes.Buffer
	require.NoError(t, runBatch(attr.Codec{}, &buf, good))
	assert.Contains(t, buf.String(), "total: 2")
	assert.Contains(t, buf.String(), "failed: 0")

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte(`
[[vectors]]
name = "wrong"
type = "byte"
value = 1
expect_hex = "02"
`), 0o644))

	buf.Reset()
	err := runBatch(attr.Codec{}, &buf, bad)
	assert.ErrorContains(t, err, "1 of 1 vectors failed")
	assert.Contains(t, buf.String(), "reason: expected hex 02")

	assert.Error(t, runBatch(attr.Codec{}, &buf, filepath.Join(dir, "missing.yaml")))
}

func TestRunBatch_UsesCodec(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v.yml")
	require.NoError(t, os.WriteFile(path, []byte("vectors:\n  - type: string\n    value: hi\n"), 0o644))

	mockCodec := new(MockCodec)
	mockCodec.On("Encode", "string", "hi").Return(nil, errors.New("boom"))

	var buf bytes.Buffer
	err := runBatch(mockCodec, &buf, path)

	assert.Error(t, err)
	assert.Contains(t, buf.String(), "error: boom")
	mockCodec.AssertExpectations(t)
}

// Cobra command integration
func TestEncodeCmd_Execute(t *testing.T) {
	mockCodec := new(MockCodec)
	mockCodec.On("Encode", "byte", "7").Return([]byte{7}, nil)

	original := GetCodec()
	SetCodec(mockCodec)
	defer SetCodec(original)

	root := &cobra.Command{Use: "attrcodec"}
	root.AddCommand(encodeCmd)

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"encode", "byte", "7"})

	assert.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "07")
	mockCodec.AssertExpectations(t)
}

func TestSetup_LogLevelOverride(t *testing.T) {
	origFile, origLevel, origCfg := configFile, logLevel, appConfig
	defer func() { configFile, logLevel, appConfig = origFile, origLevel, origCfg }()

	configFile, logLevel = "", "DEBUG"
	require.NoError(t, setup())
	assert.Equal(t, "debug", appConfig.Log.Level)
	assert.Equal(t, "hex", appConfig.Output.Format)

	logLevel = "loud"
	assert.Error(t, setup())
}
