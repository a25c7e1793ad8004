package wishlist

import (
	"fmt"
	"strings"
)

// StorageKey is the fixed device-storage key holding the wishlist JSON array.
const StorageKey = "wishlist"

// DuplicatePolicy decides what a repeat add of the same product id does.
type DuplicatePolicy int

const (
	// AllowDuplicates appends on every add, matching the long-standing
	// storefront behaviour.
	AllowDuplicates DuplicatePolicy = iota
	// DedupeByID ignores an add when the id is already saved.
	DedupeByID
)

func (p DuplicatePolicy) String() string {
	switch p {
	case DedupeByID:
		return "dedupe"
	default:
		return "allow"
	}
}

func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "allow":
		return AllowDuplicates, nil
	case "dedupe":
		return DedupeByID, nil
	default:
		return AllowDuplicates, fmt.Errorf("unknown wishlist duplicate policy %q", s)
	}
}
