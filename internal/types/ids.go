package types

import (
	"time"

	"github.com/google/uuid"
)

// ProductID identifies a stored product.
// UUIDv7 time-ordering keeps sequential inserts clustered in B-tree indexes.
type ProductID string

// RuleID identifies a built rule in traces and listings.
// Rules are never persisted, so IDs are only stable for one registry.
type RuleID string

// NewProductID generates a UUIDv7 product identifier.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewProductID() ProductID {
	return ProductID(uuid.Must(uuid.NewV7()).String())
}

// NewRuleID generates a UUIDv7 rule identifier.
func NewRuleID() RuleID {
	return RuleID(uuid.Must(uuid.NewV7()).String())
}

// ParseProductID validates and converts a string to ProductID.
func ParseProductID(s string) (ProductID, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", err
	}
	return ProductID(s), nil
}

// ProductIDTime extracts the timestamp embedded in a UUIDv7 ID.
// Returns zero time for invalid UUIDs; caller should check IsZero().
func ProductIDTime(id ProductID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}
