package types

import "errors"

// Sentinel errors for prodrules operations.
var (
	// ErrNoActions indicates a rule was finalized without any action.
	ErrNoActions = errors.New("rule has no actions")

	// ErrEmptyTypeclass indicates a rule or product without a typeclass.
	ErrEmptyTypeclass = errors.New("typeclass is empty")

	// ErrEmptyAttribute indicates a condition or action naming no attribute.
	ErrEmptyAttribute = errors.New("attribute name is empty")

	// ErrUnknownRuleset indicates a ruleset name with no catalog entry.
	ErrUnknownRuleset = errors.New("unknown ruleset")

	// ErrProductNotFound indicates a stored product could not be located.
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidDocument indicates a malformed product document.
	ErrInvalidDocument = errors.New("invalid product document")
)
