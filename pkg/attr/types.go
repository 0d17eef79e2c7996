// Package attr converts RADIUS attribute values between their semantic Go
// representation and the canonical wire bytes carried inside one attribute.
//
// Every codec is a pure function: no call retains or mutates its input, and
// all exported functions are safe for concurrent use.
package attr

import "fmt"

const (
	// MaxValueLen is the largest value a single attribute can carry.
	MaxValueLen = 253

	// MaxOctetsInputLen bounds textual octets input ("0x" plus two hex digits per byte).
	MaxOctetsInputLen = 508
)

// Type identifies the wire data type of an attribute value.
type Type uint8

const (
	TypeInvalid Type = iota
	TypeString
	TypeOctets
	TypeInteger
	TypeIPAddr
	TypeIPv6Prefix
	TypeIPv6Addr
	TypeABinary
	TypeSigned
	TypeShort
	TypeByte
	TypeDate
	TypeInteger64
	TypeComboIP
	TypeBool
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64
	TypeInt64
	TypeFloat
	TypeIfid
	TypeEther
	TypeIPv4Prefix

	typeCount
)

var typeNames = [typeCount]string{
	TypeString:     "string",
	TypeOctets:     "octets",
	TypeInteger:    "integer",
	TypeIPAddr:     "ipaddr",
	TypeIPv6Prefix: "ipv6prefix",
	TypeIPv6Addr:   "ipv6addr",
	TypeABinary:    "abinary",
	TypeSigned:     "signed",
	TypeShort:      "short",
	TypeByte:       "byte",
	TypeDate:       "date",
	TypeInteger64:  "integer64",
	TypeComboIP:    "combo-ip",
	TypeBool:       "bool",
	TypeUint8:      "uint8",
	TypeUint16:     "uint16",
	TypeUint32:     "uint32",
	TypeUint64:     "uint64",
	TypeInt64:      "int64",
	TypeFloat:      "float",
	TypeIfid:       "ifid",
	TypeEther:      "ether",
	TypeIPv4Prefix: "ipv4prefix",
}

// Fixed wire widths in bytes; zero means the encoded length varies.
var typeWidths = [typeCount]int{
	TypeInteger:    4,
	TypeIPAddr:     4,
	TypeIPv6Prefix: 18,
	TypeIPv6Addr:   16,
	TypeSigned:     4,
	TypeShort:      2,
	TypeByte:       1,
	TypeDate:       4,
	TypeInteger64:  8,
	TypeBool:       1,
	TypeUint8:      1,
	TypeUint16:     2,
	TypeUint32:     4,
	TypeUint64:     8,
	TypeInt64:      8,
	TypeFloat:      4,
	TypeIfid:       8,
	TypeEther:      6,
	TypeIPv4Prefix: 6,
}

var typesByName = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for t := TypeString; t < typeCount; t++ {
		m[typeNames[t]] = t
	}
	return m
}()

// ParseType maps a dictionary type tag such as "ipaddr" to its Type.
func ParseType(name string) (Type, error) {
	t, ok := typesByName[name]
	if !ok {
		return TypeInvalid, fmt.Errorf("%w: %q", ErrUnsupportedType, name)
	}
	return t, nil
}

// Types returns every supported type in declaration order.
func Types() []Type {
	out := make([]Type, 0, typeCount-1)
	for t := TypeString; t < typeCount; t++ {
		out = append(out, t)
	}
	return out
}

// Valid reports whether t is one of the supported types.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < typeCount
}

// String returns the dictionary tag of t.
func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
	return typeNames[t]
}

// Width returns the encoded length of fixed-width types and 0 otherwise.
// IPv6 addresses and prefixes may arrive shorter on the wire; Width reports
// the length this package writes.
func (t Type) Width() int {
	if !t.Valid() {
		return 0
	}
	return typeWidths[t]
}
