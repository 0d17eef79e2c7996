package vector

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"firestige.xyz/attrcodec/internal/log"
	"firestige.xyz/attrcodec/pkg/attr"
)

// Codec is the tag-keyed codec a Runner drives.
type Codec interface {
	Encode(tag string, v any) ([]byte, error)
	Decode(tag string, b []byte) (any, error)
}

// Result records the outcome of one vector.
type Result struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Direction string `yaml:"direction"`
	Output    string `yaml:"output,omitempty"`
	Error     string `yaml:"error,omitempty"`
	Pass      bool   `yaml:"pass"`
	Reason    string `yaml:"reason,omitempty"`
}

// Runner executes vectors against a codec.
type Runner struct {
	codec  Codec
	logger log.Logger
}

// NewRunner returns a Runner over codec; a nil codec means the attr package.
func NewRunner(codec Codec, logger log.Logger) *Runner {
	if codec == nil {
		codec = attr.Codec{}
	}
	if logger == nil {
		logger = log.GetLogger()
	}
	return &Runner{codec: codec, logger: logger}
}

// Run executes every vector in order. Vectors never stop the run early.
func (r *Runner) Run(vectors []Vector) []Result {
	results := make([]Result, 0, len(vectors))
	for _, v := range vectors {
		res := r.runOne(v)
		l := r.logger.WithFields(map[string]interface{}{
			"vector":    res.Name,
			"type":      res.Type,
			"direction": res.Direction,
		})
		if res.Pass {
			l.Debug("vector passed")
		} else {
			l.Warnf("vector failed: %s", res.Reason)
		}
		results = append(results, res)
	}
	return results
}

func (r *Runner) runOne(v Vector) Result {
	res := Result{Name: v.Name, Type: v.Type, Direction: v.Direction()}

	var out any
	var err error
	if res.Direction == "encode" {
		value := v.Value
		if text, ok := value.(string); ok {
			value = TextValue(v.Type, text)
		}
		out, err = r.codec.Encode(v.Type, value)
	} else {
		var wire []byte
		wire, err = ParseHex(v.Hex)
		if err == nil {
			out, err = r.codec.Decode(v.Type, wire)
		}
	}

	if err != nil {
		res.Error = err.Error()
		switch {
		case v.ExpectError == "":
			res.Reason = "unexpected error"
		case !strings.Contains(res.Error, v.ExpectError):
			res.Reason = fmt.Sprintf("error does not mention %q", v.ExpectError)
		default:
			res.Pass = true
		}
		return res
	}

	res.Output = FormatValue(out)
	switch {
	case v.ExpectError != "":
		res.Reason = fmt.Sprintf("expected error mentioning %q", v.ExpectError)
	case v.ExpectHex != "" && !sameHex(res.Output, v.ExpectHex):
		res.Reason = fmt.Sprintf("expected hex %s", v.ExpectHex)
	case v.ExpectValue != nil && res.Output != FormatValue(v.ExpectValue):
		res.Reason = fmt.Sprintf("expected value %v", v.ExpectValue)
	default:
		res.Pass = true
	}
	return res
}

// TextValue converts value text into the shape a type expects. Only date needs
// help: it takes a Unix time or an RFC 3339 timestamp.
func TextValue(typ, text string) any {
	if typ != "date" {
		return text
	}
	if n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64); err == nil {
		return n
	}
	if ts, err := time.Parse(time.RFC3339, strings.TrimSpace(text)); err == nil {
		return ts
	}
	return text
}

// FormatValue renders a codec value: bytes as lowercase hex, everything else with fmt.
func FormatValue(v any) string {
	if b, ok := v.([]byte); ok {
		return hex.EncodeToString(b)
	}
	return fmt.Sprint(v)
}

// ParseHex accepts hex with optional spaces, colons and a 0x prefix.
func ParseHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(normalizeHex(s))
	if err != nil {
		return nil, fmt.Errorf("%w: hex %q: %v", ErrInvalidVector, s, err)
	}
	return b, nil
}

func normalizeHex(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	return strings.ToLower(strings.NewReplacer(" ", "", ":", "").Replace(s))
}

func sameHex(got, want string) bool {
	return normalizeHex(got) == normalizeHex(want)
}
