// Package types provides domain models shared across prodrules components.
//
// Product is the record rewritten by the rule engine. It carries a typeclass
// that selects the applicable rule set, an optional part classifier, and a
// string-keyed attribute map. Identifier helpers live in ids.go and are the
// only part of this package with an external dependency.
package types

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Product is a typed record identified by its typeclass.
// Typeclass and part are fixed at construction; attributes change only
// through Set and Delete.
type Product struct {
	typeclass  string
	part       string
	hasPart    bool
	attributes map[string]string
}

// NewProduct creates a product of the given typeclass with no part and an
// empty attribute map.
func NewProduct(typeclass string) *Product {
	return &Product{
		typeclass:  typeclass,
		attributes: make(map[string]string),
	}
}

// NewProductWithPart creates a product carrying a part classifier.
func NewProductWithPart(typeclass, part string) *Product {
	p := NewProduct(typeclass)
	p.part = part
	p.hasPart = true
	return p
}

// Typeclass returns the partition key selecting the rule set.
func (p *Product) Typeclass() string {
	return p.typeclass
}

// Part returns the part classifier, or "" if the product has none.
func (p *Product) Part() string {
	return p.part
}

// HasPart reports whether the product was constructed with a part.
// Distinguishes an explicit empty part from no part for encoding.
func (p *Product) HasPart() bool {
	return p.hasPart
}

// Set inserts or overwrites an attribute.
func (p *Product) Set(key, value string) {
	if p.attributes == nil {
		p.attributes = make(map[string]string)
	}
	p.attributes[key] = value
}

// Get returns the attribute value and whether it is present.
// An attribute set to "" is present; an unset attribute is not.
func (p *Product) Get(key string) (string, bool) {
	v, ok := p.attributes[key]
	return v, ok
}

// Delete removes an attribute. Deleting an absent attribute is a no-op.
func (p *Product) Delete(key string) {
	delete(p.attributes, key)
}

// Len returns the number of attributes.
func (p *Product) Len() int {
	return len(p.attributes)
}

// Keys returns attribute names in sorted order.
func (p *Product) Keys() []string {
	return slices.Sorted(maps.Keys(p.attributes))
}

// Attributes returns a copy of the attribute map.
func (p *Product) Attributes() map[string]string {
	out := make(map[string]string, len(p.attributes))
	maps.Copy(out, p.attributes)
	return out
}

// Clone returns a deep copy. The copy shares no state with p.
func (p *Product) Clone() *Product {
	return &Product{
		typeclass:  p.typeclass,
		part:       p.part,
		hasPart:    p.hasPart,
		attributes: p.Attributes(),
	}
}

// Equal reports whether both products have the same typeclass, part and
// attributes.
func (p *Product) Equal(other *Product) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.typeclass == other.typeclass &&
		p.part == other.part &&
		p.hasPart == other.hasPart &&
		maps.Equal(p.attributes, other.attributes)
}

// String renders the product with attributes in key order.
func (p *Product) String() string {
	var b strings.Builder
	b.WriteString(p.typeclass)
	if p.hasPart {
		fmt.Fprintf(&b, "/%s", p.part)
	}
	b.WriteString(" {")
	for i, k := range p.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%q", k, p.attributes[k])
	}
	b.WriteString("}")
	return b.String()
}
