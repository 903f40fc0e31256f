package domain

import (
	"strconv"

	apperrors "github.com/hollowvale/arenaforge/internal/platform/errors"
)

// Requirements holds per-attribute minimums an equipment category demands.
type Requirements Attributes

// MeetsRequirements validates a character's attributes against the weapon and
// armor requirements of a candidate item. Every attribute must satisfy both
// categories simultaneously. The check is pure and side-effect free.
func MeetsRequirements(attrs Attributes, weapon, armor Requirements) error {
	for i := 0; i < NumAttributes; i++ {
		required := weapon[i]
		if armor[i] > required {
			required = armor[i]
		}
		if attrs[i] < required {
			return apperrors.WithMetadata(apperrors.CodeRequirementsNotMet, "equipment requirements not met",
				map[string]string{
					"attribute": Attribute(i).String(),
					"required":  strconv.Itoa(required),
					"actual":    strconv.Itoa(attrs[i]),
				})
		}
	}
	return nil
}
