// internal/rules/action.go
package rules

import (
	"fmt"

	"github.com/solatis/prodrules/internal/types"
)

// ActionKind discriminates the Action union.
type ActionKind int

const (
	ActionUnspecified ActionKind = iota
	ActionSet
	ActionDelete
)

func (k ActionKind) String() string {
	switch k {
	case ActionSet:
		return "set"
	case ActionDelete:
		return "delete"
	default:
		return "unspecified"
	}
}

// Action is a mutation applied to a product's attributes.
// Applying an action cannot fail.
type Action struct {
	Kind      ActionKind
	Attribute string
	Value     string // set only
}

// Set writes value under attribute, creating or overwriting it.
func Set(attribute, value string) Action {
	return Action{Kind: ActionSet, Attribute: attribute, Value: value}
}

// Delete removes attribute if present.
func Delete(attribute string) Action {
	return Action{Kind: ActionDelete, Attribute: attribute}
}

// Apply mutates p in place.
func (a Action) Apply(p *types.Product) {
	switch a.Kind {
	case ActionSet:
		p.Set(a.Attribute, a.Value)
	case ActionDelete:
		p.Delete(a.Attribute)
	}
}

func (a Action) validate() error {
	switch a.Kind {
	case ActionSet, ActionDelete:
		if a.Attribute == "" {
			return fmt.Errorf("%s action: %w", a.Kind, types.ErrEmptyAttribute)
		}
		return nil
	default:
		return fmt.Errorf("unknown action kind %d", a.Kind)
	}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionSet:
		return fmt.Sprintf("set(%q, %q)", a.Attribute, a.Value)
	case ActionDelete:
		return fmt.Sprintf("delete(%q)", a.Attribute)
	default:
		return "unspecified()"
	}
}
