package domain

import (
	"time"

	apperrors "github.com/hollowvale/arenaforge/internal/platform/errors"
)

// Stance is the combat posture a character fights in.
type Stance string

const (
	StanceDefensive Stance = "defensive"
	StanceBalanced  Stance = "balanced"
	StanceOffensive Stance = "offensive"
)

// Valid reports whether the stance is one of the three known postures.
func (s Stance) Valid() bool {
	switch s {
	case StanceDefensive, StanceBalanced, StanceOffensive:
		return true
	}
	return false
}

// ParseStance resolves a lowercase stance name.
func ParseStance(name string) (Stance, error) {
	s := Stance(name)
	if !s.Valid() {
		return "", apperrors.WithMetadata(apperrors.CodeInvalidStance, "invalid stance",
			map[string]string{"stance": name})
	}
	return s, nil
}

// SpecializationNone marks a character with no weapon or armor specialization.
const SpecializationNone = -1

// Skin is an equipped cosmetic item reference, opaque to the core.
type Skin struct {
	Collection int64
	TokenID    int64
}

// Character is one persisted character record. Records are created only by
// the creation coordinator on fulfillment and are never destroyed; retirement
// is a soft flag.
type Character struct {
	ID              int64
	Owner           string
	Attributes      Attributes
	FirstNameIndex  int
	SurnameIndex    int
	AltNameSet      bool
	Skin            Skin
	Stance          Stance
	Level           int
	XP              uint64
	AttributePoints int
	WeaponSpec      int
	ArmorSpec       int
	Retired         bool
	Immortal        bool
	CreatedAt       time.Time
}

// NewCharacter builds a freshly forged character at level 1 with no
// progression state. The ID is assigned by the store on insert.
func NewCharacter(owner string, attrs Attributes, firstName, surname int, altNameSet bool, createdAt time.Time) Character {
	return Character{
		Owner:          owner,
		Attributes:     attrs,
		FirstNameIndex: firstName,
		SurnameIndex:   surname,
		AltNameSet:     altNameSet,
		Stance:         StanceBalanced,
		Level:          1,
		WeaponSpec:     SpecializationNone,
		ArmorSpec:      SpecializationNone,
		CreatedAt:      createdAt,
	}
}

// Active reports whether the character counts toward its owner's slot
// allowance.
func (c Character) Active() bool {
	return !c.Retired
}
