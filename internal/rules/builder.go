// internal/rules/builder.go
package rules

import (
	"slices"
)

/*
 * Staged rule builder.
 *
 * Each stage is a distinct type exposing only the next legal step:
 *
 *   Typeclass(name)          -> *TypeclassBuilder
 *     .When(cond)            -> *ConditionalBuilder
 *       .And(cond)*          -> *ConditionalBuilder
 *     .Then(action)          -> *ActionBuilder
 *       .AndThen(action)*    -> *ActionBuilder
 *         .Create(registry)
 *
 * Conditions after actions and rules without actions cannot be written.
 * Zero-value builders can still be declared directly, so Build validates again
 * and reports types.ErrNoActions or types.ErrEmptyTypeclass.
 *
 * Every step returns a new builder and never writes into a slice shared with
 * its receiver, so a partially built chain can be reused as a common prefix.
 */

// TypeclassBuilder is the first stage: the owning typeclass is fixed.
type TypeclassBuilder struct {
	typeclass string
}

// ConditionalBuilder accumulates the condition conjunction.
type ConditionalBuilder struct {
	typeclass  string
	conditions []Condition
}

// ActionBuilder accumulates actions and finalizes the rule.
type ActionBuilder struct {
	typeclass  string
	conditions []Condition
	actions    []Action
}

// Typeclass starts a rule scoped to the given typeclass.
func Typeclass(name string) *TypeclassBuilder {
	return &TypeclassBuilder{typeclass: name}
}

// When adds the first condition.
func (b *TypeclassBuilder) When(c Condition) *ConditionalBuilder {
	return &ConditionalBuilder{
		typeclass:  b.typeclass,
		conditions: []Condition{c},
	}
}

// Then adds the first action of a rule without conditions. Such a rule
// applies to every product of the typeclass.
func (b *TypeclassBuilder) Then(a Action) *ActionBuilder {
	return &ActionBuilder{
		typeclass: b.typeclass,
		actions:   []Action{a},
	}
}

// And adds another condition to the conjunction.
func (b *ConditionalBuilder) And(c Condition) *ConditionalBuilder {
	return &ConditionalBuilder{
		typeclass:  b.typeclass,
		conditions: append(slices.Clip(b.conditions), c),
	}
}

// Then adds the first action; no more conditions can follow.
func (b *ConditionalBuilder) Then(a Action) *ActionBuilder {
	return &ActionBuilder{
		typeclass:  b.typeclass,
		conditions: slices.Clip(b.conditions),
		actions:    []Action{a},
	}
}

// AndThen adds another action, applied after the previous ones.
func (b *ActionBuilder) AndThen(a Action) *ActionBuilder {
	return &ActionBuilder{
		typeclass:  b.typeclass,
		conditions: b.conditions,
		actions:    append(slices.Clip(b.actions), a),
	}
}

// Build validates the accumulated parts and returns an immutable Rule
// without registering it.
func (b *ActionBuilder) Build() (*Rule, error) {
	return compile(b.typeclass, b.conditions, b.actions)
}

// Create builds the rule and registers it into reg.
func (b *ActionBuilder) Create(reg *Registry) error {
	rule, err := b.Build()
	if err != nil {
		return err
	}
	reg.Register(rule)
	return nil
}

// MustCreate is like Create but panics on error.
// Intended for static rule catalogs declared at startup.
func (b *ActionBuilder) MustCreate(reg *Registry) {
	if err := b.Create(reg); err != nil {
		panic(err)
	}
}
