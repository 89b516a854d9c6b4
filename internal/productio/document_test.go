package productio

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/solatis/prodrules/internal/catalog"
	"github.com/solatis/prodrules/internal/core/store"
	"github.com/solatis/prodrules/internal/rules"
	"github.com/solatis/prodrules/internal/types"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"products.yaml", FormatYAML, false},
		{"products.YML", FormatYAML, false},
		{"dir/products.json", FormatJSON, false},
		{"-", FormatYAML, false},
		{"products.toml", "", true},
		{"products", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("FormatFromPath(%q) error = nil, want error", tt.path)
				}
				return
			}
			if err != nil {
				t.Fatalf("FormatFromPath(%q) error = %v, want nil", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestDecode_YAML(t *testing.T) {
	input := `
products:
  - typeclass: W600
    part: H
    attributes:
      TYP: W600
      CONN: "R1/2"
  - typeclass: P600
`
	got, err := Decode(strings.NewReader(input), FormatYAML)
	if err != nil {
		t.Fatalf("Decode() error = %v, want nil", err)
	}
	if len(got) != 2 {
		t.Fatalf("Decode() returned %d products, want 2", len(got))
	}

	want := types.NewProductWithPart("W600", "H")
	want.Set("TYP", "W600")
	want.Set("CONN", "R1/2")
	if !got[0].Equal(want) {
		t.Errorf("Decode()[0] = %s, want %s", got[0], want)
	}
	if got[1].HasPart() || got[1].Typeclass() != "P600" || got[1].Len() != 0 {
		t.Errorf("Decode()[1] = %s, want bare P600", got[1])
	}
}

func TestDecode_BareList(t *testing.T) {
	yamlInput := "- typeclass: W600\n  attributes: {TYP: W600}\n"
	jsonInput := `  [{"typeclass": "W600", "attributes": {"TYP": "W600"}}]`

	for name, tc := range map[string]struct {
		input  string
		format Format
	}{
		"yaml": {yamlInput, FormatYAML},
		"json": {jsonInput, FormatJSON},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := Decode(strings.NewReader(tc.input), tc.format)
			if err != nil {
				t.Fatalf("Decode() error = %v, want nil", err)
			}
			if len(got) != 1 {
				t.Fatalf("Decode() returned %d products, want 1", len(got))
			}
			if v, _ := got[0].Get("TYP"); v != "W600" {
				t.Errorf("TYP = %q, want W600", v)
			}
		})
	}
}

func TestDecode_JSONAsYAML(t *testing.T) {
	input := `{"products": [{"typeclass": "W600", "part": "H", "attributes": {"TYP": "W600"}}]}`

	got, err := Decode(strings.NewReader(input), FormatYAML)
	if err != nil {
		t.Fatalf("Decode() error = %v, want nil", err)
	}
	if len(got) != 1 || got[0].Part() != "H" {
		t.Errorf("Decode() = %v, want one W600/H product", got)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
		want   string
	}{
		{"missing typeclass", "products:\n  - typeclass: W600\n  - attributes: {TYP: X}\n", FormatYAML, "products[1]"},
		{"empty attribute name", `[{"typeclass": "W600", "attributes": {"": "x"}}]`, FormatJSON, "products[0]"},
		{"unknown json field", `{"products": [], "rules": []}`, FormatJSON, ""},
		{"empty json", "   ", FormatJSON, "empty input"},
		{"malformed yaml", "products: [", FormatYAML, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input), tt.format)
			if !errors.Is(err, types.ErrInvalidDocument) {
				t.Fatalf("Decode() error = %v, want ErrInvalidDocument", err)
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Decode() error = %q, want to contain %q", err, tt.want)
			}
		})
	}
}

func TestDecode_EmptyYAML(t *testing.T) {
	got, err := Decode(strings.NewReader(""), FormatYAML)
	if err != nil {
		t.Fatalf("Decode() error = %v, want nil", err)
	}
	if len(got) != 0 {
		t.Errorf("Decode() returned %d products, want 0", len(got))
	}
}

func TestEncodeDecode(t *testing.T) {
	a := types.NewProductWithPart("W600", "H")
	a.Set("TYP", "W600")
	a.Set("HOUSING", "true")
	b := types.NewProduct("P600")
	b.Set("DN", "15")
	products := []*types.Product{a, b}

	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, products, format); err != nil {
				t.Fatalf("Encode() error = %v, want nil", err)
			}
			if !strings.Contains(buf.String(), "products") {
				t.Errorf("Encode() output missing products key:\n%s", buf.String())
			}

			got, err := Decode(&buf, format)
			if err != nil {
				t.Fatalf("Decode() error = %v, want nil", err)
			}
			if len(got) != len(products) {
				t.Fatalf("Decode() returned %d products, want %d", len(got), len(products))
			}
			for i := range products {
				if !got[i].Equal(products[i]) {
					t.Errorf("product %d = %s, want %s", i, got[i], products[i])
				}
			}
		})
	}
}

func TestEncode_UnsupportedFormat(t *testing.T) {
	if err := Encode(&bytes.Buffer{}, nil, "xml"); err == nil {
		t.Error("Encode(xml) error = nil, want error")
	}
}

func TestRenderTable(t *testing.T) {
	p := types.NewProductWithPart("W600", "H")
	p.Set("TYP", "W600")
	p.Set("HOUSING", "true")

	var buf bytes.Buffer
	if err := RenderTable(&buf, []*types.Product{p, types.NewProduct("P600")}); err != nil {
		t.Fatalf("RenderTable() error = %v, want nil", err)
	}

	out := buf.String()
	for _, want := range []string{"W600", "P600", "HOUSING=true TYP=W600"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderTable() output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderRules(t *testing.T) {
	reg := rules.NewRegistry()
	if err := catalog.Load(catalog.DefaultRuleset, reg); err != nil {
		t.Fatalf("catalog.Load() error = %v, want nil", err)
	}

	var buf bytes.Buffer
	if err := RenderRules(&buf, reg); err != nil {
		t.Fatalf("RenderRules() error = %v, want nil", err)
	}

	out := buf.String()
	for _, want := range []string{"W600", "P600", `has("TYP", "W600")`, "always"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderRules() output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderStored(t *testing.T) {
	p := types.NewProduct("W600")
	p.Set("TYP", "514")
	id := types.NewProductID()
	ts := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	var buf bytes.Buffer
	err := RenderStored(&buf, []*store.StoredProduct{{ID: id, Product: p, CreatedAt: ts, UpdatedAt: ts}})
	if err != nil {
		t.Fatalf("RenderStored() error = %v, want nil", err)
	}

	out := buf.String()
	for _, want := range []string{string(id), "TYP=514", "2026-03-01 09:30"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderStored() output missing %q:\n%s", want, out)
		}
	}
}
