package rules

import (
	"maps"
	"slices"
)

// Registry owns all registered rules, indexed by typeclass.
// Registration order within a typeclass is evaluation order.
//
// A Registry is built once with sequential Register calls and is read-only
// afterwards. Concurrent ApplyRules calls are safe as long as registration
// has finished and each call gets its own product. Register is not safe to
// call concurrently with anything else.
type Registry struct {
	rules map[string][]*Rule
	count int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rules: make(map[string][]*Rule),
	}
}

// Register appends rule to its typeclass sequence. It never rejects a rule:
// duplicates are kept and evaluated twice. rule is expected to come from
// the builder (Build, Create), which is where validation happens; a nil rule
// is ignored.
func (r *Registry) Register(rule *Rule) {
	if rule == nil {
		return
	}
	r.rules[rule.Typeclass] = append(r.rules[rule.Typeclass], rule)
	r.count++
}

// Rules returns copies of the rules registered for typeclass in evaluation
// order. Changing them does not affect the registry.
func (r *Registry) Rules(typeclass string) []*Rule {
	registered := r.rules[typeclass]
	out := make([]*Rule, len(registered))
	for i, rule := range registered {
		out[i] = rule.clone()
	}
	return out
}

// Typeclasses returns all typeclasses with at least one rule, sorted.
func (r *Registry) Typeclasses() []string {
	return slices.Sorted(maps.Keys(r.rules))
}

// Len returns the total number of registered rules.
func (r *Registry) Len() int {
	return r.count
}
