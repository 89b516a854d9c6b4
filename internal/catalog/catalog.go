// Package catalog declares the rule sets used by the prodrules host program.
//
// Rules are authored in Go with the staged builder and registered into a
// caller-owned registry; there is no global rule table.
package catalog

import (
	"fmt"
	"slices"

	"github.com/solatis/prodrules/internal/rules"
	"github.com/solatis/prodrules/internal/types"
)

// DefaultRuleset is the ruleset used when none is configured.
const DefaultRuleset = "default"

// loader registers one ruleset.
type loader func(reg *rules.Registry) error

var rulesets = map[string]loader{
	"default": Default,
	"cascade": Cascade,
}

// Names returns the known ruleset names, sorted.
func Names() []string {
	names := make([]string, 0, len(rulesets))
	for name := range rulesets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Load registers the named ruleset into reg.
func Load(name string, reg *rules.Registry) error {
	load, ok := rulesets[name]
	if !ok {
		return fmt.Errorf("%w: %q (known: %v)", types.ErrUnknownRuleset, name, Names())
	}
	return load(reg)
}

// Default registers the housing conversion for W600 and the nominal
// diameter for P600.
func Default(reg *rules.Registry) error {
	err := rules.Typeclass("W600").
		When(rules.Has("TYP", "W600")).
		And(rules.Has("GEHAEUSEFORM", "S")).
		Then(rules.Set("TYP", "514")).
		AndThen(rules.Set("GEHAEUSEFORM", "M")).
		Create(reg)
	if err != nil {
		return fmt.Errorf("W600 housing: %w", err)
	}

	if err := rules.Typeclass("P600").Then(rules.Set("DN", "15")).Create(reg); err != nil {
		return fmt.Errorf("P600 diameter: %w", err)
	}

	return nil
}

// Cascade extends Default with rules that react to earlier rewrites in the
// same pass.
func Cascade(reg *rules.Registry) error {
	if err := Default(reg); err != nil {
		return err
	}

	err := rules.Typeclass("W600").
		When(rules.Has("TYP", "514")).
		Then(rules.Set("STATUS", "DERIVED")).
		Create(reg)
	if err != nil {
		return fmt.Errorf("W600 status: %w", err)
	}

	err = rules.Typeclass("W600").
		When(rules.Has("STATUS", "DERIVED")).
		And(rules.Is("H")).
		Then(rules.Delete("LEGACY_TYP")).
		Create(reg)
	if err != nil {
		return fmt.Errorf("W600 legacy cleanup: %w", err)
	}

	return nil
}
