package attr

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"
)

const hexPrefix = "0x"

// EncodeString encodes text as UTF-8. A []byte value is taken as already encoded.
func EncodeString(v any) ([]byte, error) {
	switch s := v.(type) {
	case string:
		if !utf8.ValidString(s) {
			return nil, fmt.Errorf("%w: string is not valid UTF-8", ErrInvalidEncoding)
		}
		return checkLen([]byte(s))
	case []byte:
		return checkLen(bytes.Clone(s))
	default:
		return nil, fmt.Errorf("%w: string requires text, got %T", ErrInvalidType, v)
	}
}

// DecodeString interprets b as UTF-8 text.
func DecodeString(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: string is not valid UTF-8", ErrInvalidEncoding)
	}
	return string(b), nil
}

// EncodeOctets accepts "0x"-prefixed hex, a decimal number (packed big-endian
// into the fewest bytes) or raw bytes taken verbatim.
func EncodeOctets(v any) ([]byte, error) {
	var out []byte
	switch s := v.(type) {
	case string:
		if len(s) > MaxOctetsInputLen {
			return nil, fmt.Errorf("%w: octets input of %d characters", ErrValueTooLong, len(s))
		}
		switch {
		case strings.HasPrefix(s, hexPrefix):
			b, err := unhex(s[len(hexPrefix):])
			if err != nil {
				return nil, err
			}
			out = b
		case isDecimal(s):
			n, _ := new(big.Int).SetString(s, 10)
			out = n.Bytes()
		default:
			out = []byte(s)
		}
	case []byte:
		if len(s) > MaxOctetsInputLen {
			return nil, fmt.Errorf("%w: octets input of %d bytes", ErrValueTooLong, len(s))
		}
		if bytes.HasPrefix(s, []byte(hexPrefix)) {
			b, err := unhex(string(s[len(hexPrefix):]))
			if err != nil {
				return nil, err
			}
			out = b
		} else {
			out = bytes.Clone(s)
		}
	default:
		return nil, fmt.Errorf("%w: octets requires text or bytes, got %T", ErrInvalidType, v)
	}
	return checkLen(out)
}

// DecodeOctets returns a copy of b.
func DecodeOctets(b []byte) ([]byte, error) {
	return bytes.Clone(b), nil
}

func unhex(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return b, nil
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
