package cmd

import (
	"encoding/base64"
	"fmt"
	"strings"

	"firestige.xyz/attrcodec/internal/config"
	"firestige.xyz/attrcodec/internal/vector"
)

// formatBytes renders wire bytes per the output config.
func formatBytes(b []byte, cfg config.OutputConfig) string {
	if cfg.Format == "base64" {
		return base64.StdEncoding.EncodeToString(b)
	}
	digits := "%02x"
	if cfg.Uppercase {
		digits = "%02X"
	}
	parts := make([]string, len(b))
	for i, c := range b {
		parts[i] = fmt.Sprintf(digits, c)
	}
	return strings.Join(parts, cfg.Separator)
}

// parseBytes reads wire bytes given on the command line, in the configured format.
func parseBytes(s string, cfg config.OutputConfig) ([]byte, error) {
	if cfg.Format == "base64" {
		b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("invalid base64 %q: %w", s, err)
		}
		return b, nil
	}
	if cfg.Separator != "" {
		s = strings.ReplaceAll(s, cfg.Separator, "")
	}
	b, err := vector.ParseHex(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q: %w", s, err)
	}
	return b, nil
}

// formatValue renders a decoded value. Byte values follow the output config.
func formatValue(v any, cfg config.OutputConfig) string {
	if b, ok := v.([]byte); ok {
		return formatBytes(b, cfg)
	}
	return fmt.Sprint(v)
}
