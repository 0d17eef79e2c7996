package attr

import (
	"fmt"
	"net/netip"
	"strings"
)

// Prefix values travel as [reserved=0][prefix length][address]. The address
// may be truncated on the wire; decoders restore it to full width.
const prefixHeaderLen = 2

// EncodeIPv4Prefix encodes "a.b.c.d/n" into six bytes. Host bits beyond n must be zero.
func EncodeIPv4Prefix(v any) ([]byte, error) {
	return encodePrefix(v, "ipv4prefix", 32)
}

// DecodeIPv4Prefix decodes up to six bytes into "a.b.c.d/n".
func DecodeIPv4Prefix(b []byte) (string, error) {
	return decodePrefix(b, "ipv4prefix", 32)
}

// EncodeIPv6Prefix encodes "x::/n" into eighteen bytes. Host bits beyond n must be zero.
func EncodeIPv6Prefix(v any) ([]byte, error) {
	return encodePrefix(v, "ipv6prefix", 128)
}

// DecodeIPv6Prefix decodes up to eighteen bytes into "x::/n".
func DecodeIPv6Prefix(b []byte) (string, error) {
	return decodePrefix(b, "ipv6prefix", 128)
}

func encodePrefix(v any, what string, bits int) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s requires a string, got %T", ErrInvalidType, what, v)
	}
	p, err := parseNetwork(s, bits)
	if err != nil {
		return nil, err
	}
	out := make([]byte, prefixHeaderLen, prefixHeaderLen+bits/8)
	out[1] = byte(p.Bits())
	return append(out, p.Addr().AsSlice()...), nil
}

func decodePrefix(b []byte, what string, bits int) (string, error) {
	width := bits / 8
	if len(b) < prefixHeaderLen || len(b) > prefixHeaderLen+width {
		return "", fmt.Errorf("%w: %s needs %d to %d bytes, got %d",
			ErrMalformedInput, what, prefixHeaderLen, prefixHeaderLen+width, len(b))
	}
	length := int(b[1])
	if length > bits {
		return "", fmt.Errorf("%w: %s length %d exceeds %d", ErrInvalidPrefix, what, length, bits)
	}
	var raw [16]byte
	copy(raw[:], b[prefixHeaderLen:])
	var addr netip.Addr
	if bits == 32 {
		addr = netip.AddrFrom4([4]byte(raw[:4]))
	} else {
		addr = netip.AddrFrom16(raw)
	}
	p := netip.PrefixFrom(addr, length)
	if p.Masked() != p {
		return "", fmt.Errorf("%w: %s has host bits set", ErrInvalidPrefix, p)
	}
	return p.String(), nil
}

// parseNetwork parses CIDR text of the given address width. A bare address
// is a host route. Host bits beyond the prefix length must be zero.
func parseNetwork(s string, bits int) (netip.Prefix, error) {
	var p netip.Prefix
	if strings.Contains(s, "/") {
		var err error
		if p, err = netip.ParsePrefix(s); err != nil {
			return netip.Prefix{}, fmt.Errorf("%w: %q", ErrInvalidPrefix, s)
		}
	} else {
		a, err := netip.ParseAddr(s)
		if err != nil || a.Zone() != "" {
			return netip.Prefix{}, fmt.Errorf("%w: %q", ErrInvalidPrefix, s)
		}
		p = netip.PrefixFrom(a, a.BitLen())
	}
	if p.Addr().BitLen() != bits {
		return netip.Prefix{}, fmt.Errorf("%w: %q is not a %d-bit prefix", ErrInvalidPrefix, s, bits)
	}
	if p.Masked() != p {
		return netip.Prefix{}, fmt.Errorf("%w: %q has host bits set", ErrInvalidPrefix, s)
	}
	return p, nil
}
