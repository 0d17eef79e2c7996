package attr

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

// FilterFamily selects the address width of a filter rule.
type FilterFamily uint8

const (
	FamilyIPv4 FilterFamily = 0x01
	FamilyIPv6 FilterFamily = 0x03
)

// FilterAction is what the NAS does with matching packets.
type FilterAction uint8

const (
	ActionDiscard  FilterAction = 0x00
	ActionAccept   FilterAction = 0x01
	ActionRedirect FilterAction = 0x20 // http-redirect, used for walled gardens
)

// FilterDirection is the traffic direction a rule applies to.
type FilterDirection uint8

const (
	DirectionOut FilterDirection = 0x00
	DirectionIn  FilterDirection = 0x01
)

// PortQualifier compares a packet port with the rule port.
type PortQualifier uint8

const (
	PortNoCompare PortQualifier = iota
	PortLess
	PortEqual
	PortGreater
	PortNotEqual
)

// FilterRule is the structured form of an abinary (Ascend binary) filter.
type FilterRule struct {
	Family           FilterFamily
	Action           FilterAction
	Direction        FilterDirection
	Src              netip.Addr
	Dst              netip.Addr
	SrcLen           uint8
	DstLen           uint8
	Proto            uint8
	SrcPort          uint16
	DstPort          uint16
	SrcPortQualifier PortQualifier
	DstPortQualifier PortQualifier
}

const filterTrailerLen = 8

// DefaultFilterRule returns a rule discarding inbound IPv4 with every match
// field left as a wildcard.
func DefaultFilterRule() FilterRule {
	return FilterRule{
		Family:    FamilyIPv4,
		Action:    ActionDiscard,
		Direction: DirectionIn,
		Src:       netip.IPv4Unspecified(),
		Dst:       netip.IPv4Unspecified(),
	}
}

func (f FilterFamily) bits() int {
	if f == FamilyIPv6 {
		return 128
	}
	return 32
}

func (f FilterFamily) String() string {
	switch f {
	case FamilyIPv4:
		return "ipv4"
	case FamilyIPv6:
		return "ipv6"
	}
	return fmt.Sprintf("FilterFamily(%#02x)", uint8(f))
}

func (a FilterAction) String() string {
	switch a {
	case ActionDiscard:
		return "discard"
	case ActionAccept:
		return "accept"
	case ActionRedirect:
		return "redirect"
	}
	return fmt.Sprintf("FilterAction(%#02x)", uint8(a))
}

func (d FilterDirection) String() string {
	switch d {
	case DirectionIn:
		return "in"
	case DirectionOut:
		return "out"
	}
	return fmt.Sprintf("FilterDirection(%#02x)", uint8(d))
}

// filterRuleBuilder applies key=value terms over a default rule.
type filterRuleBuilder struct {
	rule      FilterRule
	addressed bool
}

// ParseFilterRule parses space-separated key=value terms. Recognised keys are
// family, action, direction, src, dst, proto, sport, dport, sportq and dportq;
// other keys are ignored. family must come before src and dst.
func ParseFilterRule(s string) (FilterRule, error) {
	b := filterRuleBuilder{rule: DefaultFilterRule()}
	for _, term := range strings.Fields(s) {
		key, value, ok := strings.Cut(term, "=")
		if !ok {
			return FilterRule{}, fmt.Errorf("%w: filter term %q is not key=value", ErrMalformedInput, term)
		}
		if err := b.apply(key, value); err != nil {
			return FilterRule{}, err
		}
	}
	return b.rule, nil
}

func (b *filterRuleBuilder) apply(key, value string) error {
	r := &b.rule
	switch key {
	case "family":
		var f FilterFamily
		switch value {
		case "ipv4":
			f = FamilyIPv4
		case "ipv6":
			f = FamilyIPv6
		default:
			return fmt.Errorf("%w: filter family %q", ErrMalformedInput, value)
		}
		if f == r.Family {
			return nil
		}
		if b.addressed {
			return fmt.Errorf("%w: filter family must precede src and dst", ErrMalformedInput)
		}
		r.Family = f
		if f == FamilyIPv6 {
			r.Src, r.Dst = netip.IPv6Unspecified(), netip.IPv6Unspecified()
		} else {
			r.Src, r.Dst = netip.IPv4Unspecified(), netip.IPv4Unspecified()
		}
	case "action":
		switch value {
		case "discard":
			r.Action = ActionDiscard
		case "accept":
			r.Action = ActionAccept
		case "redirect":
			r.Action = ActionRedirect
		default:
			return fmt.Errorf("%w: filter action %q", ErrMalformedInput, value)
		}
	case "direction":
		switch value {
		case "in":
			r.Direction = DirectionIn
		case "out":
			r.Direction = DirectionOut
		default:
			return fmt.Errorf("%w: filter direction %q", ErrMalformedInput, value)
		}
	case "src", "dst":
		p, err := parseNetwork(value, r.Family.bits())
		if err != nil {
			return err
		}
		if key == "src" {
			r.Src, r.SrcLen = p.Addr(), uint8(p.Bits())
		} else {
			r.Dst, r.DstLen = p.Addr(), uint8(p.Bits())
		}
		b.addressed = true
	case "proto":
		n, err := parseFilterUint(key, value, 8)
		if err != nil {
			return err
		}
		r.Proto = uint8(n)
	case "sport", "dport":
		n, err := parseFilterUint(key, value, 16)
		if err != nil {
			return err
		}
		if key == "sport" {
			r.SrcPort = uint16(n)
		} else {
			r.DstPort = uint16(n)
		}
	case "sportq", "dportq":
		n, err := parseFilterUint(key, value, 8)
		if err != nil {
			return err
		}
		if PortQualifier(n) > PortNotEqual {
			return fmt.Errorf("%w: filter %s %d is not a port qualifier", ErrMalformedInput, key, n)
		}
		if key == "sportq" {
			r.SrcPortQualifier = PortQualifier(n)
		} else {
			r.DstPortQualifier = PortQualifier(n)
		}
	}
	return nil
}

func parseFilterUint(key, value string, bits int) (uint64, error) {
	n, err := strconv.ParseUint(value, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("%w: filter %s %q is not a %d-bit number", ErrInvalidType, key, value, bits)
	}
	return n, nil
}

// MarshalBinary writes the fixed abinary layout: 32 bytes for IPv4 rules and
// 56 bytes for IPv6 rules.
func (r FilterRule) MarshalBinary() ([]byte, error) {
	bits := r.Family.bits()
	if r.Family != FamilyIPv4 && r.Family != FamilyIPv6 {
		return nil, fmt.Errorf("%w: filter family %s", ErrMalformedInput, r.Family)
	}
	if r.Src.BitLen() != bits || r.Dst.BitLen() != bits {
		return nil, fmt.Errorf("%w: filter addresses do not match family %s", ErrInvalidPrefix, r.Family)
	}
	if int(r.SrcLen) > bits || int(r.DstLen) > bits {
		return nil, fmt.Errorf("%w: filter prefix length exceeds %d", ErrInvalidPrefix, bits)
	}
	if err := r.checkHostBits(); err != nil {
		return nil, err
	}

	buf := make([]byte, 0, filterRuleLen(r.Family))
	buf = append(buf, byte(r.Family), byte(r.Action), byte(r.Direction), 0)
	buf = append(buf, r.Src.AsSlice()...)
	buf = append(buf, r.Dst.AsSlice()...)
	buf = append(buf, r.SrcLen, r.DstLen, r.Proto, 0)
	buf = binary.BigEndian.AppendUint16(buf, r.SrcPort)
	buf = binary.BigEndian.AppendUint16(buf, r.DstPort)
	buf = append(buf, byte(r.SrcPortQualifier), byte(r.DstPortQualifier), 0, 0)
	buf = append(buf, make([]byte, filterTrailerLen)...)
	return buf, nil
}

// UnmarshalBinary parses the layout written by MarshalBinary.
func (r *FilterRule) UnmarshalBinary(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("%w: empty filter rule", ErrMalformedInput)
	}
	family := FilterFamily(b[0])
	if family != FamilyIPv4 && family != FamilyIPv6 {
		return fmt.Errorf("%w: filter family %s", ErrMalformedInput, family)
	}
	if len(b) != filterRuleLen(family) {
		return fmt.Errorf("%w: %s filter rule needs %d bytes, got %d",
			ErrMalformedInput, family, filterRuleLen(family), len(b))
	}

	out := FilterRule{
		Family:    family,
		Action:    FilterAction(b[1]),
		Direction: FilterDirection(b[2]),
	}
	switch out.Action {
	case ActionDiscard, ActionAccept, ActionRedirect:
	default:
		return fmt.Errorf("%w: filter action %s", ErrMalformedInput, out.Action)
	}
	if out.Direction != DirectionIn && out.Direction != DirectionOut {
		return fmt.Errorf("%w: filter direction %s", ErrMalformedInput, out.Direction)
	}

	width := family.bits() / 8
	off := 4
	src, _ := netip.AddrFromSlice(b[off : off+width])
	off += width
	dst, _ := netip.AddrFromSlice(b[off : off+width])
	off += width
	out.Src, out.Dst = src, dst
	out.SrcLen, out.DstLen, out.Proto = b[off], b[off+1], b[off+2]
	off += 4
	out.SrcPort = binary.BigEndian.Uint16(b[off:])
	out.DstPort = binary.BigEndian.Uint16(b[off+2:])
	off += 4
	out.SrcPortQualifier, out.DstPortQualifier = PortQualifier(b[off]), PortQualifier(b[off+1])

	if int(out.SrcLen) > family.bits() || int(out.DstLen) > family.bits() {
		return fmt.Errorf("%w: filter prefix length exceeds %d", ErrInvalidPrefix, family.bits())
	}
	if err := out.checkHostBits(); err != nil {
		return err
	}
	*r = out
	return nil
}

// checkHostBits rejects src or dst addresses with bits set past their prefix
// length, which ParseFilterRule would refuse.
func (r FilterRule) checkHostBits() error {
	for _, p := range []netip.Prefix{
		netip.PrefixFrom(r.Src, int(r.SrcLen)),
		netip.PrefixFrom(r.Dst, int(r.DstLen)),
	} {
		if p.Masked() != p {
			return fmt.Errorf("%w: filter network %s has host bits set", ErrInvalidPrefix, p)
		}
	}
	return nil
}

// String renders r as terms ParseFilterRule accepts.
func (r FilterRule) String() string {
	return fmt.Sprintf("family=%s action=%s direction=%s src=%s dst=%s proto=%d sport=%d dport=%d sportq=%d dportq=%d",
		r.Family, r.Action, r.Direction,
		netip.PrefixFrom(r.Src, int(r.SrcLen)), netip.PrefixFrom(r.Dst, int(r.DstLen)),
		r.Proto, r.SrcPort, r.DstPort, r.SrcPortQualifier, r.DstPortQualifier)
}

func filterRuleLen(f FilterFamily) int {
	return 4 + 2*(f.bits()/8) + 4 + 4 + 4 + filterTrailerLen
}

// EncodeFilterRule encodes abinary filter text such as
// "family=ipv4 action=discard direction=in dst=10.10.255.254/32".
func EncodeFilterRule(v any) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: abinary requires a string, got %T", ErrInvalidType, v)
	}
	r, err := ParseFilterRule(s)
	if err != nil {
		return nil, err
	}
	b, err := r.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return checkLen(b)
}

// DecodeFilterRule returns a copy of b; use FilterRule.UnmarshalBinary for
// the structured form.
func DecodeFilterRule(b []byte) ([]byte, error) {
	return bytes.Clone(b), nil
}
