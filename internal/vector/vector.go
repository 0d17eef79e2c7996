// Package vector loads and runs attribute codec test vectors.
//
// A vector file lists values to push through the codec, in YAML or TOML:
//
//	vectors:
//	  - name: nas-ip
//	    type: ipaddr
//	    value: 192.168.0.255
//	    expect_hex: "c0a800ff"
//	  - name: bad-prefix
//	    type: ipv4prefix
//	    value: 1.2.3.4/24
//	    expect_error: invalid prefix
//	  - name: session-timeout
//	    type: integer
//	    hex: 00000e10
//	    expect_value: 3600
//
// A vector with value is encoded; a vector with hex is decoded. In YAML the
// value, hex and expect fields are read as written, so hex needs no quotes.
package vector

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownFormat = errors.New("vector: unknown file format")
	ErrInvalidVector = errors.New("vector: invalid vector")
)

// Vector is one codec case.
type Vector struct {
	Name        string `mapstructure:"name"`
	Type        string `mapstructure:"type"`
	Value       any    `mapstructure:"value"`
	Hex         string `mapstructure:"hex"`
	ExpectHex   string `mapstructure:"expect_hex"`
	ExpectValue any    `mapstructure:"expect_value"`
	ExpectError string `mapstructure:"expect_error"`
}

// Direction reports whether v encodes or decodes.
func (v Vector) Direction() string {
	if v.Value != nil {
		return "encode"
	}
	return "decode"
}

// File is the top level of a vector file.
type File struct {
	Vectors []Vector `mapstructure:"vectors"`
}

// Load reads a vector file; the format follows the extension (.yaml, .yml, .toml).
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vector file %s: %w", path, err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes vector file content of the given extension.
func Parse(data []byte, ext string) (*File, error) {
	raw := make(map[string]any)
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse yaml vectors: %w", err)
		}
		tree, err := yamlTree(&doc, false)
		if err != nil {
			return nil, fmt.Errorf("failed to parse yaml vectors: %w", err)
		}
		switch t := tree.(type) {
		case nil:
		case map[string]any:
			raw = t
		default:
			return nil, fmt.Errorf("%w: top level must be a mapping", ErrInvalidVector)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse toml vectors: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}

	var f File
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &f,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidVector, err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// literalKeys hold codec input or output text. Their scalars are kept as
// written, so 01020304 stays hex and 0x0102 stays an octets literal instead
// of resolving to YAML integers.
var literalKeys = map[string]bool{
	"value":        true,
	"hex":          true,
	"expect_hex":   true,
	"expect_value": true,
}

// yamlTree converts a node into maps, slices and scalars. With literal set, a
// non-null scalar is returned as its source text.
func yamlTree(n *yaml.Node, literal bool) (any, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlTree(n.Content[0], false)
	case yaml.AliasNode:
		return yamlTree(n.Alias, literal)
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			v, err := yamlTree(n.Content[i+1], literalKeys[key])
			if err != nil {
				return nil, err
			}
			m[key] = v
		}
		return m, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := yamlTree(c, false)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		if literal && n.ShortTag() != "!!null" {
			return n.Value, nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, fmt.Errorf("line %d: unsupported yaml node", n.Line)
}

func (f *File) validate() error {
	for i := range f.Vectors {
		v := &f.Vectors[i]
		if v.Name == "" {
			v.Name = fmt.Sprintf("#%d", i+1)
		}
		if v.Type == "" {
			return fmt.Errorf("%w: %s has no type", ErrInvalidVector, v.Name)
		}
		if (v.Value == nil) == (v.Hex == "") {
			return fmt.Errorf("%w: %s needs exactly one of value or hex", ErrInvalidVector, v.Name)
		}
	}
	return nil
}
