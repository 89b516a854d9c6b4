// internal/productio/render.go
package productio

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/solatis/prodrules/internal/core/store"
	"github.com/solatis/prodrules/internal/rules"
	"github.com/solatis/prodrules/internal/types"
)

// RenderTable writes one row per product.
func RenderTable(w io.Writer, products []*types.Product) error {
	table := tablewriter.NewWriter(w)
	table.Header("#", "Typeclass", "Part", "Attributes")

	for i, p := range products {
		part := "-"
		if p.HasPart() {
			part = p.Part()
		}
		if err := table.Append(fmt.Sprint(i), p.Typeclass(), part, formatAttributes(p)); err != nil {
			return err
		}
	}

	return table.Render()
}

// RenderStored writes stored products with their IDs and update time.
func RenderStored(w io.Writer, stored []*store.StoredProduct) error {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Typeclass", "Part", "Attributes", "Updated At", "Age")

	for _, sp := range stored {
		part := "-"
		if sp.Product.HasPart() {
			part = sp.Product.Part()
		}
		err := table.Append(
			string(sp.ID),
			sp.Product.Typeclass(),
			part,
			formatAttributes(sp.Product),
			sp.UpdatedAt.Format("2006-01-02 15:04"),
			humanize.Time(sp.UpdatedAt),
		)
		if err != nil {
			return err
		}
	}

	return table.Render()
}

// RenderRules writes the registry grouped by typeclass in evaluation order.
func RenderRules(w io.Writer, reg *rules.Registry) error {
	table := tablewriter.NewWriter(w)
	table.Header("Typeclass", "#", "When", "Then")

	for _, tc := range reg.Typeclasses() {
		for i, r := range reg.Rules(tc) {
			if err := table.Append(tc, fmt.Sprint(i), formatConditions(r.Conditions), formatActions(r.Actions)); err != nil {
				return err
			}
		}
	}

	return table.Render()
}

func formatAttributes(p *types.Product) string {
	attrs := p.Attributes()
	parts := make([]string, 0, len(attrs))
	for _, k := range p.Keys() {
		parts = append(parts, k+"="+attrs[k])
	}
	return strings.Join(parts, " ")
}

func formatConditions(conds []rules.Condition) string {
	if len(conds) == 0 {
		return "always"
	}
	parts := make([]string, len(conds))
	for i, c := range conds {
		parts[i] = c.String()
	}
	return strings.Join(parts, " and ")
}

func formatActions(actions []rules.Action) string {
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}
