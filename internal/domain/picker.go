package domain

import (
	"fmt"
	"strings"
)

// SortDirection is the chronological ordering of a displayed asset list
type SortDirection int

const (
	SortAscending  SortDirection = iota // oldest first
	SortDescending                      // newest first
)

// String returns the config name of the direction
func (d SortDirection) String() string {
	if d == SortDescending {
		return "descending"
	}
	return "ascending"
}

// Flip returns the opposite direction
func (d SortDirection) Flip() SortDirection {
	if d == SortDescending {
		return SortAscending
	}
	return SortDescending
}

// ParseSortDirection accepts "asc", "ascending", "desc", "descending" (any case)
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return SortAscending, nil
	case "desc", "descending":
		return SortDescending, nil
	default:
		return SortAscending, fmt.Errorf("invalid sort direction %q", s)
	}
}

// Mode is the selection policy of a picker
type Mode int

const (
	ModeMultiple Mode = iota
	ModeSingle
)

// String returns the config name of the mode
func (m Mode) String() string {
	if m == ModeSingle {
		return "single"
	}
	return "multiple"
}

// ParseMode accepts "single" or "multiple"/"multi" (any case)
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "multiple", "multi":
		return ModeMultiple, nil
	case "single":
		return ModeSingle, nil
	default:
		return ModeMultiple, fmt.Errorf("invalid mode %q", s)
	}
}

// Unlimited as Bounds.Max means no ceiling. A Max of 0 is literal: nothing
// can be picked.
const Unlimited = -1

// Bounds is the configured selection floor and ceiling
type Bounds struct {
	Min int
	Max int
}

// Unbounded reports whether no ceiling is configured
func (b Bounds) Unbounded() bool {
	return b.Max == Unlimited
}

// Allows reports whether a selection of size n may grow by one
func (b Bounds) Allows(n int) bool {
	return b.Unbounded() || n < b.Max
}

// Satisfied reports whether a selection of size n meets the floor
func (b Bounds) Satisfied(n int) bool {
	return n >= b.Min
}

// Validate rejects a negative floor, a ceiling below Unlimited, and a floor
// above a set ceiling
func (b Bounds) Validate() error {
	if b.Min < 0 {
		return fmt.Errorf("minimum selection must be non-negative (min=%d)", b.Min)
	}
	if b.Max < Unlimited {
		return fmt.Errorf("maximum selection must be non-negative or %d for unlimited (max=%d)", Unlimited, b.Max)
	}
	if !b.Unbounded() && b.Min > b.Max {
		return fmt.Errorf("minimum selection %d exceeds maximum %d", b.Min, b.Max)
	}
	return nil
}
