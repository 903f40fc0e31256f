package domain

import (
	apperrors "github.com/hollowvale/arenaforge/internal/platform/errors"
)

// Progression constants.
const (
	MaxLevel = 10
	BaseXP   = 100
)

var (
	// ErrInsufficientPoints indicates no attribute points are available to spend.
	ErrInsufficientPoints = apperrors.New(apperrors.CodeInsufficientPoints, "insufficient attribute points")
	// ErrAttributeAtCap indicates the attribute cannot be raised further.
	ErrAttributeAtCap = apperrors.New(apperrors.CodeAttributeAtCap, "attribute at cap")
	// ErrAttributeAtFloor indicates the attribute cannot be lowered further.
	ErrAttributeAtFloor = apperrors.New(apperrors.CodeAttributeAtFloor, "attribute at floor")
)

// xpSchedule holds the experience required to reach each level, indexed by
// the target level. The schedule is the source system's truncated 1.5x
// geometric series on BaseXP and is part of the observable contract, so the
// exact values are carried verbatim rather than recomputed.
var xpSchedule = [MaxLevel + 1]uint64{
	2:  100,
	3:  150,
	4:  225,
	5:  337,
	6:  506,
	7:  759,
	8:  1139,
	9:  1706,
	10: 2559,
}

// RequiredForNextLevel returns the experience needed to advance to the given
// target level. Level 1 requires nothing; levels beyond MaxLevel are
// unreachable.
func RequiredForNextLevel(level int) uint64 {
	if level < 2 || level > MaxLevel {
		return 0
	}
	return xpSchedule[level]
}

// AwardExperience adds experience to the character and applies every level-up
// the new total affords, granting one attribute point per level gained. The
// requirement is subtracted from the running total on each level-up, and
// leveling stops at MaxLevel regardless of remaining experience.
func AwardExperience(c *Character, amount uint64) (levelsGained int) {
	c.XP += amount
	for c.Level < MaxLevel && c.XP >= RequiredForNextLevel(c.Level+1) {
		c.XP -= RequiredForNextLevel(c.Level + 1)
		c.Level++
		c.AttributePoints++
		levelsGained++
	}
	return levelsGained
}

// SpendAttributePoint converts one earned attribute point into a single
// increment of the named attribute. Leveling may push an attribute past the
// creation ceiling, up to MaxLevelingStat.
func SpendAttributePoint(c *Character, attr Attribute) error {
	if !attr.Valid() {
		return apperrors.New(apperrors.CodeUnknownAttribute, "unknown attribute")
	}
	if c.AttributePoints <= 0 {
		return ErrInsufficientPoints
	}
	if c.Attributes[attr] >= MaxLevelingStat {
		return ErrAttributeAtCap
	}
	c.AttributePoints--
	c.Attributes[attr]++
	return nil
}

// SwapAttributes moves one point from one attribute to another. The swap
// economy is distinct from leveling: the decreased attribute may not drop
// below MinStat+1 and the increased one may not exceed MaxStat-1, so a swap
// can never reach the absolute floor or the creation ceiling.
func SwapAttributes(c *Character, from, to Attribute) error {
	if !from.Valid() || !to.Valid() || from == to {
		return apperrors.New(apperrors.CodeUnknownAttribute, "invalid attribute pair")
	}
	if c.Attributes[from]-1 < MinStat+1 {
		return ErrAttributeAtFloor
	}
	if c.Attributes[to]+1 > MaxStat-1 {
		return ErrAttributeAtCap
	}
	c.Attributes[from]--
	c.Attributes[to]++
	return nil
}
