package cmd

import (
	"sync"

	"firestige.xyz/attrcodec/pkg/attr"
)

// Codec is the part of the attribute codec the commands need; tests swap it
// for a mock.
type Codec interface {
	Encode(tag string, v any) ([]byte, error)
	Decode(tag string, b []byte) (any, error)
}

var (
	codecMu sync.RWMutex
	codec   Codec = attr.Codec{}
)

// GetCodec returns the codec used by the commands.
func GetCodec() Codec {
	codecMu.RLock()
	defer codecMu.RUnlock()
	return codec
}

// SetCodec replaces the codec used by the commands.
func SetCodec(c Codec) {
	codecMu.Lock()
	defer codecMu.Unlock()
	codec = c
}
