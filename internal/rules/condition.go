// internal/rules/condition.go
package rules

import (
	"fmt"

	"github.com/solatis/prodrules/internal/types"
)

/*
 * Condition predicates.
 *
 * A Condition is a closed tagged union evaluated with an exhaustive switch.
 * Two kinds exist:
 *   - has: attribute present with an exactly equal value
 *   - is:  product part exactly equal
 *
 * Equality is byte-exact: no trimming, no case folding, no wildcards.
 * An absent attribute never matches, even against an empty expected value.
 *
 * Conditions hold no mutable state and can be shared by any number of rules
 * and evaluations. Disjunction and negation are not modelled here; they need
 * a recursive expression node rather than more kinds in this flat union.
 */

// ConditionKind discriminates the Condition union.
type ConditionKind int

const (
	ConditionUnspecified ConditionKind = iota
	ConditionHas
	ConditionIs
)

func (k ConditionKind) String() string {
	switch k {
	case ConditionHas:
		return "has"
	case ConditionIs:
		return "is"
	default:
		return "unspecified"
	}
}

// Condition is a side-effect free predicate over a product.
type Condition struct {
	Kind      ConditionKind
	Attribute string // has only
	Value     string // has only
	Part      string // is only
}

// Has matches products whose attribute equals value exactly.
func Has(attribute, value string) Condition {
	return Condition{Kind: ConditionHas, Attribute: attribute, Value: value}
}

// Is matches products whose part equals part exactly.
func Is(part string) Condition {
	return Condition{Kind: ConditionIs, Part: part}
}

// Matches evaluates the condition. Unspecified conditions never match.
func (c Condition) Matches(p *types.Product) bool {
	switch c.Kind {
	case ConditionHas:
		v, ok := p.Get(c.Attribute)
		return ok && v == c.Value
	case ConditionIs:
		return p.Part() == c.Part
	default:
		return false
	}
}

// validate rejects conditions that could never be meaningfully authored.
func (c Condition) validate() error {
	switch c.Kind {
	case ConditionHas:
		if c.Attribute == "" {
			return fmt.Errorf("has condition: %w", types.ErrEmptyAttribute)
		}
	case ConditionIs:
	default:
		return fmt.Errorf("unknown condition kind %d", c.Kind)
	}
	return nil
}

func (c Condition) String() string {
	switch c.Kind {
	case ConditionHas:
		return fmt.Sprintf("has(%q, %q)", c.Attribute, c.Value)
	case ConditionIs:
		return fmt.Sprintf("is(%q)", c.Part)
	default:
		return "unspecified()"
	}
}
