// internal/productio/document.go
package productio

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/solatis/prodrules/internal/types"
)

/*
 * Product documents.
 *
 * A document lists products either under a top-level "products" key or as
 * a bare list:
 *
 *   products:
 *     - typeclass: W600
 *       part: H
 *       attributes:
 *         TYP: W600
 *
 * Encode always writes the wrapped form. Attribute maps are emitted with
 * sorted keys by both encoders, so output is deterministic.
 */

// Format selects the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Stdin is the path that reads a document from standard input.
const Stdin = "-"

type entry struct {
	Typeclass  string            `json:"typeclass" yaml:"typeclass"`
	Part       *string           `json:"part,omitempty" yaml:"part,omitempty"`
	Attributes map[string]string `json:"attributes" yaml:"attributes"`
}

type document struct {
	Products []entry `json:"products" yaml:"products"`
}

// ParseFormat converts a format name. Accepts "yml" as an alias for yaml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported document format: %q", s)
	}
}

// FormatFromPath infers the format from a file extension. Stdin reads YAML,
// which also accepts JSON input.
func FormatFromPath(path string) (Format, error) {
	if path == Stdin {
		return FormatYAML, nil
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot infer document format from %q", path)
	}
	return ParseFormat(ext)
}

// Decode reads a product document.
func Decode(r io.Reader, format Format) ([]*types.Product, error) {
	var entries []entry

	switch format {
	case FormatJSON:
		var err error
		if entries, err = decodeJSON(r); err != nil {
			return nil, err
		}
	case FormatYAML:
		var err error
		if entries, err = decodeYAML(r); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported document format: %q", format)
	}

	products := make([]*types.Product, 0, len(entries))
	for i, e := range entries {
		if e.Typeclass == "" {
			return nil, fmt.Errorf("%w: products[%d]: typeclass is required", types.ErrInvalidDocument, i)
		}
		var p *types.Product
		if e.Part != nil {
			p = types.NewProductWithPart(e.Typeclass, *e.Part)
		} else {
			p = types.NewProduct(e.Typeclass)
		}
		for k, v := range e.Attributes {
			if k == "" {
				return nil, fmt.Errorf("%w: products[%d]: %w", types.ErrInvalidDocument, i, types.ErrEmptyAttribute)
			}
			p.Set(k, v)
		}
		products = append(products, p)
	}
	return products, nil
}

func decodeJSON(r io.Reader) ([]entry, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(br)
	dec.DisallowUnknownFields()

	if first == '[' {
		var entries []entry
		if err := dec.Decode(&entries); err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrInvalidDocument, err)
		}
		return entries, nil
	}

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidDocument, err)
	}
	return doc.Products, nil
}

func decodeYAML(r io.Reader) ([]entry, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidDocument, err)
	}

	node := &root
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}

	if node.Kind == yaml.SequenceNode {
		var entries []entry
		if err := node.Decode(&entries); err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrInvalidDocument, err)
		}
		return entries, nil
	}

	var doc document
	if err := node.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidDocument, err)
	}
	return doc.Products, nil
}

// peekNonSpace returns the first non-whitespace byte without consuming it.
func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			if err == io.EOF {
				return 0, fmt.Errorf("%w: empty input", types.ErrInvalidDocument)
			}
			return 0, err
		}
		if !bytes.ContainsAny(b, " \t\r\n") {
			return b[0], nil
		}
		if _, err := br.ReadByte(); err != nil {
			return 0, err
		}
	}
}

// Encode writes products as a wrapped document.
func Encode(w io.Writer, products []*types.Product, format Format) error {
	doc := document{Products: make([]entry, 0, len(products))}
	for _, p := range products {
		e := entry{Typeclass: p.Typeclass(), Attributes: p.Attributes()}
		if p.HasPart() {
			part := p.Part()
			e.Part = &part
		}
		doc.Products = append(doc.Products, e)
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported document format: %q", format)
	}
}
