// internal/rules/evaluate.go
package rules

import (
	"github.com/solatis/prodrules/internal/types"
)

/*
 * Rule application.
 *
 * Applies the rule sequence of a product's typeclass in a single linear pass.
 *
 * Evaluation flow:
 *   1. Look up rules for product typeclass (none -> product returned unchanged)
 *   2. For each rule in registration order: evaluate conditions (short-circuit)
 *   3. If all hold, apply actions in order, mutating the running product
 *   4. The next rule sees the mutated product
 *
 * Sequential semantics: rules read the evolving product, not a snapshot, so a
 * later rule can react to an earlier rule's effect within the same call. There
 * is exactly one pass; no rule is evaluated twice and there is no fixpoint loop.
 */

// Firing records one rule that applied during ApplyRulesTrace.
type Firing struct {
	RuleID    types.RuleID
	Typeclass string
	Index     int   // position within the typeclass sequence
	Rule      *Rule // copy; not registry-owned
}

// Trace lists the rules that fired, in firing order.
type Trace struct {
	Typeclass string
	Evaluated int
	Fired     []Firing
}

// ApplyRules applies all rules of p's typeclass to p and returns p.
// The product is mutated in place.
func (r *Registry) ApplyRules(p *types.Product) *types.Product {
	for _, rule := range r.rules[p.Typeclass()] {
		if rule.Applicable(p) {
			rule.Apply(p)
		}
	}
	return p
}

// ApplyRulesTrace behaves like ApplyRules and also reports which rules fired.
func (r *Registry) ApplyRulesTrace(p *types.Product) (*types.Product, Trace) {
	rules := r.rules[p.Typeclass()]
	trace := Trace{
		Typeclass: p.Typeclass(),
		Evaluated: len(rules),
	}

	for i, rule := range rules {
		if !rule.Applicable(p) {
			continue
		}
		rule.Apply(p)
		trace.Fired = append(trace.Fired, Firing{
			RuleID:    rule.ID,
			Typeclass: rule.Typeclass,
			Index:     i,
			Rule:      rule.clone(),
		})
	}

	return p, trace
}
