// Package loader reads test-vector documents into ordered record lists.
//
// Two document formats are accepted:
//   - HJSON (and therefore plain JSON), the format the vector sets ship in
//   - YAML
//
// Integer values are returned as *big.Int regardless of size; neither
// format's numbers ever pass through float64.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v3"

	"github.com/remiblancher/vecgen/internal/vector"
)

// ErrParse indicates the input document is malformed or has the wrong shape.
var ErrParse = errors.New("failed to parse test vectors")

// Format identifies an input document format.
type Format string

const (
	FormatHJSON Format = "hjson"
	FormatYAML  Format = "yaml"
)

// FormatFor picks the format from a file extension. Anything that is not
// YAML is read as HJSON, which also covers JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatHJSON
	}
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatHJSON, "json":
		return FormatHJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported input format %q (hjson, json, yaml)", s)
	}
}

// LoadFile reads and parses the document at path. The format is taken from
// the extension unless format is non-empty.
func LoadFile(path string, format Format) ([]vector.Record, error) {
	if format == "" {
		format = FormatFor(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open test vectors: %w", err)
	}
	defer func() { _ = f.Close() }()

	records, err := Load(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Load parses a document from r.
func Load(r io.Reader, format Format) ([]vector.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read test vectors: %w", err)
	}

	var doc any
	switch format {
	case FormatHJSON:
		doc, err = decodeHJSON(data)
	case FormatYAML:
		doc, err = decodeYAML(data)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrParse, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return toRecords(doc)
}

func decodeHJSON(data []byte) (any, error) {
	opts := hjson.DefaultDecoderOptions()
	opts.UseJSONNumber = true

	var doc any
	if err := hjson.UnmarshalWithOptions(data, &doc, opts); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeYAML(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 {
		return nil, errors.New("empty document")
	}
	return nodeValue(&root)
}

// nodeValue converts a YAML node to plain Go values. Integer scalars are
// kept as their literal text so no precision is lost.
func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeValue(n.Content[0])

	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeValue(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil

	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := nodeValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			out[n.Content[i].Value] = v
		}
		return out, nil

	case yaml.AliasNode:
		return nodeValue(n.Alias)

	case yaml.ScalarNode:
		// yaml.v3 resolves integers wider than 64 bits to !!float (decimal)
		// or !!str (hex), so plain integer literals are detected here.
		if n.Style == 0 && intLiteral.MatchString(n.Value) {
			return json.Number(n.Value), nil
		}
		switch n.ShortTag() {
		case "!!int":
			return json.Number(n.Value), nil
		case "!!str":
			return n.Value, nil
		case "!!null":
			return nil, nil
		default:
			var v any
			if err := n.Decode(&v); err != nil {
				return nil, fmt.Errorf("line %d: %w", n.Line, err)
			}
			return v, nil
		}
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
}

// toRecords checks the document shape and normalizes integer fields.
func toRecords(doc any) ([]vector.Record, error) {
	items, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: top level must be a list of test vectors, got %T", ErrParse, doc)
	}

	records := make([]vector.Record, 0, len(items))
	for i, item := range items {
		fields, err := mapping(item)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrParse, i, err)
		}
		rec := make(vector.Record, len(fields))
		for k, v := range fields {
			nv, err := normalize(v)
			if err != nil {
				return nil, fmt.Errorf("%w: entry %d field %q: %v", ErrParse, i, k, err)
			}
			rec[k] = nv
		}
		records = append(records, rec)
	}
	return records, nil
}

func mapping(v any) (map[string]any, error) {
	switch m := v.(type) {
	case map[string]any:
		return m, nil
	case *hjson.OrderedMap:
		return m.Map, nil
	default:
		return nil, fmt.Errorf("expected a mapping, got %T", v)
	}
}

// normalize turns integer literals into *big.Int. Numbers with a fraction
// or exponent stay as json.Number. Strings, including quoteless HJSON hex
// such as 0x1f, stay strings; encoded fields parse them when enriched.
func normalize(v any) (any, error) {
	switch x := v.(type) {
	case json.Number:
		s := string(x)
		if !intLiteral.MatchString(s) {
			return x, nil
		}
		n, ok := parseLiteral(s)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", s)
		}
		return n, nil
	default:
		return v, nil
	}
}

// intLiteral matches decimal and 0x/0o/0b prefixed integer literals.
var intLiteral = regexp.MustCompile(`^[-+]?(0[xX][0-9a-fA-F_]+|0[oO][0-7_]+|0[bB][01_]+|[0-9][0-9_]*)$`)

// parseLiteral parses an integer literal. Unprefixed literals are always
// decimal, so a leading zero does not select octal.
func parseLiteral(s string) (*big.Int, bool) {
	if isPrefixed(s) {
		return new(big.Int).SetString(s, 0)
	}
	return new(big.Int).SetString(strings.ReplaceAll(s, "_", ""), 10)
}

func isPrefixed(s string) bool {
	s = strings.TrimLeft(s, "+-")
	if len(s) < 3 || s[0] != '0' {
		return false
	}
	switch s[1] {
	case 'x', 'X', 'o', 'O', 'b', 'B':
		return true
	}
	return false
}
