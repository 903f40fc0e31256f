// Package domain holds the pure core of character creation and progression:
// attribute allocation, the deterministic seed chain, the experience
// schedule, and the validation rules the forge service enforces.
package domain

import (
	apperrors "github.com/hollowvale/arenaforge/internal/platform/errors"
)

// Attribute bounds and budget for the six-attribute vector.
const (
	MinStat         = 3
	MaxStat         = 21
	MaxLevelingStat = 25
	TotalStats      = 72
	NumAttributes   = 6
)

// Attribute names one of the six character traits.
type Attribute int

const (
	Strength Attribute = iota
	Constitution
	Size
	Agility
	Stamina
	Luck
)

var attributeNames = [NumAttributes]string{
	"strength", "constitution", "size", "agility", "stamina", "luck",
}

// String returns the lowercase attribute name.
func (a Attribute) String() string {
	if a < 0 || int(a) >= NumAttributes {
		return "unknown"
	}
	return attributeNames[a]
}

// Valid reports whether a names one of the six attributes.
func (a Attribute) Valid() bool {
	return a >= 0 && int(a) < NumAttributes
}

// ParseAttribute resolves a lowercase attribute name.
func ParseAttribute(name string) (Attribute, error) {
	for i, n := range attributeNames {
		if n == name {
			return Attribute(i), nil
		}
	}
	return 0, apperrors.WithMetadata(apperrors.CodeUnknownAttribute, "unknown attribute",
		map[string]string{"attribute": name})
}

// Attributes is the six-attribute vector in declaration order.
type Attributes [NumAttributes]int

// Get returns the value of the named attribute.
func (s Attributes) Get(a Attribute) int {
	return s[a]
}

// Total returns the sum of all six attributes.
func (s Attributes) Total() int {
	total := 0
	for _, v := range s {
		total += v
	}
	return total
}

// ValidAtCreation reports whether the vector satisfies the creation
// invariant: every attribute in [MinStat, MaxStat] and the total exactly
// TotalStats.
func (s Attributes) ValidAtCreation() bool {
	for _, v := range s {
		if v < MinStat || v > MaxStat {
			return false
		}
	}
	return s.Total() == TotalStats
}
