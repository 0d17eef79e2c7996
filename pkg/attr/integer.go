package attr

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// integerEncoder returns an encoder packing any integer-convertible value
// big-endian into width bytes. Values wrap modulo 2^(8*width), so -1 encodes
// as all ones at every width.
func integerEncoder(width int) encodeFunc {
	return func(v any) ([]byte, error) {
		u, err := toBits(v)
		if err != nil {
			return nil, err
		}
		return putBits(u, width), nil
	}
}

// EncodeInteger encodes v as a 32-bit unsigned integer.
func EncodeInteger(v any) ([]byte, error) { return integerEncoder(4)(v) }

// EncodeInteger64 encodes v as a 64-bit unsigned integer.
func EncodeInteger64(v any) ([]byte, error) { return integerEncoder(8)(v) }

// EncodeDate encodes seconds since the Unix epoch as a 32-bit unsigned
// integer. Unlike the integer types, text is not accepted.
func EncodeDate(v any) ([]byte, error) {
	switch d := v.(type) {
	case time.Time:
		return putBits(uint64(d.Unix()), 4), nil
	case string, bool, float32, float64:
		return nil, fmt.Errorf("%w: date requires an integer, got %T", ErrInvalidType, v)
	}
	u, err := toBits(v)
	if err != nil {
		return nil, err
	}
	return putBits(u, 4), nil
}

// EncodeFloat encodes v as an IEEE-754 binary32 value.
func EncodeFloat(v any) ([]byte, error) {
	var f float32
	switch n := v.(type) {
	case float32:
		f = n
	case float64:
		f = float32(n)
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(n), 32)
		if err != nil {
			return nil, fmt.Errorf("%w: float requires a number, got %q", ErrInvalidType, n)
		}
		f = float32(p)
	case bool:
		return nil, fmt.Errorf("%w: float requires a number, got bool", ErrInvalidType)
	default:
		u, err := toBits(v)
		if err != nil {
			return nil, err
		}
		if isUnsigned(v) {
			f = float32(u)
		} else {
			f = float32(int64(u))
		}
	}
	return binary.BigEndian.AppendUint32(nil, math.Float32bits(f)), nil
}

// EncodeBool encodes a truthy value as 1 and a falsy one as 0.
func EncodeBool(v any) ([]byte, error) {
	var b bool
	switch x := v.(type) {
	case bool:
		b = x
	case string:
		p, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return nil, fmt.Errorf("%w: bool requires a boolean, got %q", ErrInvalidType, x)
		}
		b = p
	case float32, float64, nil:
		return nil, fmt.Errorf("%w: bool requires a boolean, got %T", ErrInvalidType, v)
	default:
		u, err := toBits(v)
		if err != nil {
			return nil, err
		}
		b = u != 0
	}
	if b {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}

func DecodeUint8(b []byte) (uint8, error) {
	if err := expectLen(b, 1, "uint8"); err != nil {
		return 0, err
	}
	return b[0], nil
}

func DecodeUint16(b []byte) (uint16, error) {
	if err := expectLen(b, 2, "uint16"); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func DecodeUint32(b []byte) (uint32, error) {
	if err := expectLen(b, 4, "uint32"); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func DecodeUint64(b []byte) (uint64, error) {
	if err := expectLen(b, 8, "uint64"); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func DecodeInt32(b []byte) (int32, error) {
	u, err := DecodeUint32(b)
	return int32(u), err
}

func DecodeInt64(b []byte) (int64, error) {
	u, err := DecodeUint64(b)
	return int64(u), err
}

// DecodeDate returns seconds since the Unix epoch.
func DecodeDate(b []byte) (uint32, error) {
	return DecodeUint32(b)
}

// DecodeFloat accepts any four bytes, NaN and infinities included.
func DecodeFloat(b []byte) (float32, error) {
	if err := expectLen(b, 4, "float"); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
}

// DecodeBool reports whether the single value byte is nonzero.
func DecodeBool(b []byte) (bool, error) {
	if err := expectLen(b, 1, "bool"); err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

func expectLen(b []byte, n int, what string) error {
	if len(b) != n {
		return fmt.Errorf("%w: %s needs %d bytes, got %d", ErrMalformedInput, what, n, len(b))
	}
	return nil
}

// putBits writes the low width bytes of u big-endian.
func putBits(u uint64, width int) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], u)
	out := make([]byte, width)
	copy(out, buf[8-width:])
	return out
}

var twoTo64 = new(big.Int).Lsh(big.NewInt(1), 64)

// toBits converts an integer-like value to its 64-bit two's-complement
// pattern. Decimal strings of any size wrap the same way as native integers.
func toBits(v any) (uint64, error) {
	switch n := v.(type) {
	case int:
		return uint64(n), nil
	case int8:
		return uint64(n), nil
	case int16:
		return uint64(n), nil
	case int32:
		return uint64(n), nil
	case int64:
		return uint64(n), nil
	case uint:
		return uint64(n), nil
	case uint8:
		return uint64(n), nil
	case uint16:
		return uint64(n), nil
	case uint32:
		return uint64(n), nil
	case uint64:
		return n, nil
	case uintptr:
		return uint64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	case float32:
		return floatBits(float64(n))
	case float64:
		return floatBits(n)
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return uint64(i), nil
		}
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return u, nil
		}
		if b, ok := new(big.Int).SetString(s, 10); ok {
			return b.Mod(b, twoTo64).Uint64(), nil
		}
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidType, n)
	default:
		return 0, fmt.Errorf("%w: cannot encode %T as integer", ErrInvalidType, v)
	}
}

// floatBits truncates f toward zero.
func floatBits(f float64) (uint64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: cannot encode %v as integer", ErrInvalidType, f)
	}
	f = math.Trunc(f)
	if f >= math.MaxInt64 {
		if f >= math.MaxUint64 {
			return 0, fmt.Errorf("%w: %v is not a 64-bit integer", ErrInvalidType, f)
		}
		return uint64(f), nil
	}
	if f < math.MinInt64 {
		return 0, fmt.Errorf("%w: %v is not a 64-bit integer", ErrInvalidType, f)
	}
	return uint64(int64(f)), nil
}

func isUnsigned(v any) bool {
	switch v.(type) {
	case uint, uint8, uint16, uint32, uint64, uintptr:
		return true
	}
	return false
}
