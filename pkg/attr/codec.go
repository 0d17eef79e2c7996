package attr

import "fmt"

type encodeFunc func(v any) ([]byte, error)
type decodeFunc func(b []byte) (any, error)

type codec struct {
	encode encodeFunc
	decode decodeFunc
}

// codecs holds exactly one encoder and one decoder per Type. An entry left
// zero here is caught by TestCodecTableComplete.
var codecs = [typeCount]codec{
	TypeString:     {EncodeString, decoder(DecodeString)},
	TypeOctets:     {EncodeOctets, decoder(DecodeOctets)},
	TypeInteger:    {integerEncoder(4), decoder(DecodeUint32)},
	TypeIPAddr:     {EncodeAddress, decoder(DecodeAddress)},
	TypeIPv6Prefix: {EncodeIPv6Prefix, decoder(DecodeIPv6Prefix)},
	TypeIPv6Addr:   {EncodeIPv6Address, decoder(DecodeIPv6Address)},
	TypeABinary:    {EncodeFilterRule, decoder(DecodeFilterRule)},
	TypeSigned:     {integerEncoder(4), decoder(DecodeInt32)},
	TypeShort:      {integerEncoder(2), decoder(DecodeUint16)},
	TypeByte:       {integerEncoder(1), decoder(DecodeUint8)},
	TypeDate:       {EncodeDate, decoder(DecodeDate)},
	TypeInteger64:  {integerEncoder(8), decoder(DecodeUint64)},
	TypeComboIP:    {EncodeComboIP, decoder(DecodeComboIP)},
	TypeBool:       {EncodeBool, decoder(DecodeBool)},
	TypeUint8:      {integerEncoder(1), decoder(DecodeUint8)},
	TypeUint16:     {integerEncoder(2), decoder(DecodeUint16)},
	TypeUint32:     {integerEncoder(4), decoder(DecodeUint32)},
	TypeUint64:     {integerEncoder(8), decoder(DecodeUint64)},
	TypeInt64:      {integerEncoder(8), decoder(DecodeInt64)},
	TypeFloat:      {EncodeFloat, decoder(DecodeFloat)},
	TypeIfid:       {EncodeIfid, decoder(DecodeIfid)},
	TypeEther:      {EncodeEther, decoder(DecodeEther)},
	TypeIPv4Prefix: {EncodeIPv4Prefix, decoder(DecodeIPv4Prefix)},
}

func decoder[T any](f func([]byte) (T, error)) decodeFunc {
	return func(b []byte) (any, error) {
		v, err := f(b)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

func lookup(t Type) (codec, error) {
	if !t.Valid() {
		return codec{}, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	return codecs[t], nil
}

// Encode converts v into the wire bytes of type t.
func Encode(t Type, v any) ([]byte, error) {
	c, err := lookup(t)
	if err != nil {
		return nil, err
	}
	return c.encode(v)
}

// Decode converts wire bytes of type t into their semantic value. The
// concrete type of the result depends on t; see the Decode* functions.
func Decode(t Type, b []byte) (any, error) {
	c, err := lookup(t)
	if err != nil {
		return nil, err
	}
	return c.decode(b)
}

// EncodeAttr is Encode keyed by the dictionary type tag.
func EncodeAttr(tag string, v any) ([]byte, error) {
	t, err := ParseType(tag)
	if err != nil {
		return nil, err
	}
	return Encode(t, v)
}

// DecodeAttr is Decode keyed by the dictionary type tag.
func DecodeAttr(tag string, b []byte) (any, error) {
	t, err := ParseType(tag)
	if err != nil {
		return nil, err
	}
	return Decode(t, b)
}

// checkLen enforces the attribute value ceiling on encoder output.
func checkLen(b []byte) ([]byte, error) {
	if len(b) > MaxValueLen {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrValueTooLong, len(b), MaxValueLen)
	}
	return b, nil
}

// Codec exposes the tag-keyed entry points as methods for callers that take
// the codec as a dependency. The zero value is ready to use.
type Codec struct{}

func (Codec) Encode(tag string, v any) ([]byte, error) { return EncodeAttr(tag, v) }

func (Codec) Decode(tag string, b []byte) (any, error) { return DecodeAttr(tag, b) }
