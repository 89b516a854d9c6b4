// internal/rules/rule.go
package rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/solatis/prodrules/internal/types"
)

/*
 * Rule definition and validation.
 *
 * A Rule is a typeclass-scoped (conditions -> actions) unit. Conditions are a
 * conjunction evaluated in declaration order with short-circuit; an empty list
 * is vacuously true. Actions are applied in declaration order, so a later set
 * on the same attribute wins.
 *
 * Validation workflow (compile):
 *   1. Typeclass must be non-empty
 *   2. At least one action must be present
 *   3. Every condition and action must be well-formed
 *
 * Rules are immutable after compile: the slices are copied so builders and
 * callers cannot alias registry state.
 */

// Rule is an immutable, validated transformation unit.
type Rule struct {
	ID         types.RuleID
	Typeclass  string
	Conditions []Condition
	Actions    []Action
}

// compile validates the parts of a rule and returns an owned Rule.
func compile(typeclass string, conditions []Condition, actions []Action) (*Rule, error) {
	if typeclass == "" {
		return nil, types.ErrEmptyTypeclass
	}
	if len(actions) == 0 {
		return nil, fmt.Errorf("typeclass %q: %w", typeclass, types.ErrNoActions)
	}

	for i, c := range conditions {
		if err := c.validate(); err != nil {
			return nil, fmt.Errorf("typeclass %q condition %d: %w", typeclass, i, err)
		}
	}
	for i, a := range actions {
		if err := a.validate(); err != nil {
			return nil, fmt.Errorf("typeclass %q action %d: %w", typeclass, i, err)
		}
	}

	return &Rule{
		ID:         types.NewRuleID(),
		Typeclass:  typeclass,
		Conditions: append([]Condition(nil), conditions...),
		Actions:    append([]Action(nil), actions...),
	}, nil
}

// clone returns a copy that shares no slices with r.
func (r *Rule) clone() *Rule {
	return &Rule{
		ID:         r.ID,
		Typeclass:  r.Typeclass,
		Conditions: slices.Clone(r.Conditions),
		Actions:    slices.Clone(r.Actions),
	}
}

// Applicable reports whether every condition holds for p.
// Stops at the first condition that does not hold.
func (r *Rule) Applicable(p *types.Product) bool {
	for _, c := range r.Conditions {
		if !c.Matches(p) {
			return false
		}
	}
	return true
}

// Apply runs the rule's actions against p in declaration order.
// It does not check conditions.
func (r *Rule) Apply(p *types.Product) {
	for _, a := range r.Actions {
		a.Apply(p)
	}
}

// String renders the rule in builder form, e.g.
// typeclass("W600").when(has("TYP", "W600")).then(set("TYP", "514")).
func (r *Rule) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "typeclass(%q)", r.Typeclass)
	for i, c := range r.Conditions {
		if i == 0 {
			fmt.Fprintf(&b, ".when(%s)", c)
		} else {
			fmt.Fprintf(&b, ".and(%s)", c)
		}
	}
	for i, a := range r.Actions {
		if i == 0 {
			fmt.Fprintf(&b, ".then(%s)", a)
		} else {
			fmt.Fprintf(&b, ".and_then(%s)", a)
		}
	}
	return b.String()
}
