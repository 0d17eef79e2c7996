package attr

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

const (
	ipv4Len  = 4
	ipv6Len  = 16
	etherLen = 6
	ifidLen  = 8
)

// EncodeAddress encodes a dotted-quad IPv4 address.
func EncodeAddress(v any) ([]byte, error) {
	s, err := addressText(v, "ipaddr")
	if err != nil {
		return nil, err
	}
	a, err := netip.ParseAddr(s)
	if err != nil || !a.Is4() {
		return nil, fmt.Errorf("%w: %q is not an IPv4 address", ErrInvalidAddress, s)
	}
	b := a.As4()
	return b[:], nil
}

// DecodeAddress decodes exactly four bytes into dotted-quad text.
func DecodeAddress(b []byte) (string, error) {
	if err := expectLen(b, ipv4Len, "ipaddr"); err != nil {
		return "", err
	}
	return netip.AddrFrom4([ipv4Len]byte(b)).String(), nil
}

// EncodeIPv6Address encodes textual IPv6 into 16 bytes. Zoned addresses are rejected.
func EncodeIPv6Address(v any) ([]byte, error) {
	s, err := addressText(v, "ipv6addr")
	if err != nil {
		return nil, err
	}
	a, err := netip.ParseAddr(s)
	if err != nil || !a.Is6() || a.Zone() != "" {
		return nil, fmt.Errorf("%w: %q is not an IPv6 address", ErrInvalidAddress, s)
	}
	b := a.As16()
	return b[:], nil
}

// DecodeIPv6Address right-pads up to 16 bytes with zeros and returns the
// canonical text form.
func DecodeIPv6Address(b []byte) (string, error) {
	if len(b) > ipv6Len {
		return "", fmt.Errorf("%w: ipv6addr needs at most %d bytes, got %d", ErrMalformedInput, ipv6Len, len(b))
	}
	var a [ipv6Len]byte
	copy(a[:], b)
	return netip.AddrFrom16(a).String(), nil
}

// comboFamily selects which address codec handles a combo-ip value.
type comboFamily uint8

const (
	comboIPv4 comboFamily = iota
	comboIPv6
)

// comboFamilyOfText treats exactly four dot-separated components as IPv4.
func comboFamilyOfText(s string) comboFamily {
	if strings.Count(s, ".") == 3 {
		return comboIPv4
	}
	return comboIPv6
}

func comboFamilyOfWire(b []byte) comboFamily {
	if len(b) == ipv4Len {
		return comboIPv4
	}
	return comboIPv6
}

// EncodeComboIP encodes either an IPv4 or an IPv6 address, chosen by the shape of the text.
func EncodeComboIP(v any) ([]byte, error) {
	s, err := addressText(v, "combo-ip")
	if err != nil {
		return nil, err
	}
	if comboFamilyOfText(s) == comboIPv4 {
		return EncodeAddress(s)
	}
	return EncodeIPv6Address(s)
}

// DecodeComboIP decodes four bytes as IPv4 and anything else as IPv6.
func DecodeComboIP(b []byte) (string, error) {
	if comboFamilyOfWire(b) == comboIPv4 {
		return DecodeAddress(b)
	}
	return DecodeIPv6Address(b)
}

// EncodeEther encodes six colon-separated hex octets.
func EncodeEther(v any) ([]byte, error) {
	s, err := addressText(v, "ether")
	if err != nil {
		return nil, err
	}
	parts := strings.Split(s, ":")
	if len(parts) != etherLen {
		return nil, fmt.Errorf("%w: ether needs %d octets, got %d", ErrMalformedInput, etherLen, len(parts))
	}
	out := make([]byte, 0, etherLen)
	for _, p := range parts {
		n, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: ether octet %q in %q", ErrInvalidAddress, p, s)
		}
		out = append(out, byte(n))
	}
	return out, nil
}

// DecodeEther renders six bytes as lowercase colon-separated hex.
func DecodeEther(b []byte) (string, error) {
	if err := expectLen(b, etherLen, "ether"); err != nil {
		return "", err
	}
	var sb strings.Builder
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(':')
		}
		fmt.Fprintf(&sb, "%02x", c)
	}
	return sb.String(), nil
}

// EncodeIfid encodes an interface identifier written as four colon-separated
// 16-bit hex groups.
func EncodeIfid(v any) ([]byte, error) {
	s, err := addressText(v, "ifid")
	if err != nil {
		return nil, err
	}
	groups := strings.Split(s, ":")
	if len(groups) != ifidLen/2 {
		return nil, fmt.Errorf("%w: ifid needs %d groups, got %d", ErrMalformedInput, ifidLen/2, len(groups))
	}
	out := make([]byte, 0, ifidLen)
	for _, g := range groups {
		n, err := strconv.ParseUint(g, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("%w: ifid group %q in %q", ErrInvalidAddress, g, s)
		}
		out = append(out, byte(n>>8), byte(n))
	}
	return out, nil
}

// DecodeIfid renders eight bytes as four zero-padded hex groups.
func DecodeIfid(b []byte) (string, error) {
	if err := expectLen(b, ifidLen, "ifid"); err != nil {
		return "", err
	}
	return fmt.Sprintf("%02x%02x:%02x%02x:%02x%02x:%02x%02x",
		b[0], b[1], b[2], b[3], b[4], b[5], b[6], b[7]), nil
}

func addressText(v any, what string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s requires a string, got %T", ErrInvalidType, what, v)
	}
	return s, nil
}
