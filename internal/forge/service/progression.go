package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/hollowvale/arenaforge/internal/forge/domain"
	"github.com/hollowvale/arenaforge/internal/forge/storage"
	apperrors "github.com/hollowvale/arenaforge/internal/platform/errors"
)

// Character returns one character by id.
func (s *Service) Character(ctx context.Context, id int64) (domain.Character, error) {
	c, err := s.store.GetCharacter(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Character{}, ErrCharacterNotFound
		}
		return domain.Character{}, fmt.Errorf("load character: %w", err)
	}
	return c, nil
}

// OwnerCharacters returns every character the owner holds.
func (s *Service) OwnerCharacters(ctx context.Context, owner string) ([]domain.Character, error) {
	characters, err := s.store.ListCharactersByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	return characters, nil
}

// AwardExperience adds experience to the character and applies every level-up
// the new total affords, one attribute point per level gained.
func (s *Service) AwardExperience(ctx context.Context, characterID int64, amount uint64) (domain.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, span := s.tracer.Start(ctx, "forge.AwardExperience")
	defer span.End()

	c, err := s.Character(ctx, characterID)
	if err != nil {
		return domain.Character{}, err
	}
	domain.AwardExperience(&c, amount)
	if err := s.store.UpdateCharacter(ctx, c); err != nil {
		return domain.Character{}, fmt.Errorf("store character: %w", err)
	}
	return c, nil
}

// SpendAttributePoint converts one earned point into an attribute increment.
func (s *Service) SpendAttributePoint(ctx context.Context, owner string, characterID int64, attr domain.Attribute) (domain.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, span := s.tracer.Start(ctx, "forge.SpendAttributePoint")
	defer span.End()

	c, err := s.ownedCharacter(ctx, owner, characterID)
	if err != nil {
		return domain.Character{}, err
	}
	if err := domain.SpendAttributePoint(&c, attr); err != nil {
		return domain.Character{}, err
	}
	if err := s.store.UpdateCharacter(ctx, c); err != nil {
		return domain.Character{}, fmt.Errorf("store character: %w", err)
	}
	return c, nil
}

// SwapAttributes moves one point between two attributes, consuming one swap
// charge from the payment collaborator. The swap bounds are distinct from the
// leveling cap.
func (s *Service) SwapAttributes(ctx context.Context, owner string, characterID int64, from, to domain.Attribute) (domain.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, span := s.tracer.Start(ctx, "forge.SwapAttributes")
	defer span.End()

	c, err := s.ownedCharacter(ctx, owner, characterID)
	if err != nil {
		return domain.Character{}, err
	}

	// Validate the swap before consuming the charge so a rejected swap
	// leaves the charge untouched.
	preview := c
	if err := domain.SwapAttributes(&preview, from, to); err != nil {
		return domain.Character{}, err
	}

	consumed, err := s.payments.ConsumeSwapCharge(ctx, owner)
	if err != nil {
		return domain.Character{}, fmt.Errorf("consume swap charge: %w", err)
	}
	if !consumed {
		return domain.Character{}, ErrInsufficientCharges
	}

	if err := s.store.UpdateCharacter(ctx, preview); err != nil {
		return domain.Character{}, fmt.Errorf("store character: %w", err)
	}
	return preview, nil
}

// SetStance changes the character's combat posture.
func (s *Service) SetStance(ctx context.Context, owner string, characterID int64, stance domain.Stance) (domain.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, span := s.tracer.Start(ctx, "forge.SetStance")
	defer span.End()

	c, err := s.ownedCharacter(ctx, owner, characterID)
	if err != nil {
		return domain.Character{}, err
	}
	if !stance.Valid() {
		_, err := domain.ParseStance(string(stance))
		return domain.Character{}, err
	}
	c.Stance = stance
	if err := s.store.UpdateCharacter(ctx, c); err != nil {
		return domain.Character{}, fmt.Errorf("store character: %w", err)
	}
	return c, nil
}

// SetNameIndices re-points the character's name indices within the registry
// pools. The first-name pool is the one the character was created against.
func (s *Service) SetNameIndices(ctx context.Context, owner string, characterID int64, first, surname int) (domain.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, span := s.tracer.Start(ctx, "forge.SetNameIndices")
	defer span.End()

	c, err := s.ownedCharacter(ctx, owner, characterID)
	if err != nil {
		return domain.Character{}, err
	}
	if !s.names.IsValidFirstNameIndex(c.AltNameSet, first) {
		return domain.Character{}, apperrors.WithMetadata(apperrors.CodeInvalidNameIndex, "invalid first name index",
			map[string]string{"index": strconv.Itoa(first)})
	}
	if surname < 0 || surname >= s.names.SurnameCount() {
		return domain.Character{}, apperrors.WithMetadata(apperrors.CodeInvalidNameIndex, "invalid surname index",
			map[string]string{"index": strconv.Itoa(surname)})
	}
	c.FirstNameIndex = first
	c.SurnameIndex = surname
	if err := s.store.UpdateCharacter(ctx, c); err != nil {
		return domain.Character{}, fmt.Errorf("store character: %w", err)
	}
	return c, nil
}

// SetSpecializations assigns weapon and armor specialization categories,
// consuming one respec charge. SpecializationNone clears a category.
func (s *Service) SetSpecializations(ctx context.Context, owner string, characterID int64, weapon, armor int) (domain.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, span := s.tracer.Start(ctx, "forge.SetSpecializations")
	defer span.End()

	c, err := s.ownedCharacter(ctx, owner, characterID)
	if err != nil {
		return domain.Character{}, err
	}

	consumed, err := s.payments.ConsumeRespecCharge(ctx, owner)
	if err != nil {
		return domain.Character{}, fmt.Errorf("consume respec charge: %w", err)
	}
	if !consumed {
		return domain.Character{}, ErrInsufficientCharges
	}

	c.WeaponSpec = weapon
	c.ArmorSpec = armor
	if err := s.store.UpdateCharacter(ctx, c); err != nil {
		return domain.Character{}, fmt.Errorf("store character: %w", err)
	}
	return c, nil
}

// SetRetired toggles the owner-facing soft retirement flag. Retired
// characters stop counting toward the slot allowance.
func (s *Service) SetRetired(ctx context.Context, owner string, characterID int64, retired bool) (domain.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, span := s.tracer.Start(ctx, "forge.SetRetired")
	defer span.End()

	c, err := s.ownedCharacter(ctx, owner, characterID)
	if err != nil {
		return domain.Character{}, err
	}
	c.Retired = retired
	if err := s.store.UpdateCharacter(ctx, c); err != nil {
		return domain.Character{}, fmt.Errorf("store character: %w", err)
	}
	return c, nil
}

// SetImmortal toggles the operator-controlled immortality flag.
func (s *Service) SetImmortal(ctx context.Context, characterID int64, immortal bool) (domain.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, span := s.tracer.Start(ctx, "forge.SetImmortal")
	defer span.End()

	c, err := s.Character(ctx, characterID)
	if err != nil {
		return domain.Character{}, err
	}
	c.Immortal = immortal
	if err := s.store.UpdateCharacter(ctx, c); err != nil {
		return domain.Character{}, fmt.Errorf("store character: %w", err)
	}
	return c, nil
}

func (s *Service) ownedCharacter(ctx context.Context, owner string, characterID int64) (domain.Character, error) {
	c, err := s.Character(ctx, characterID)
	if err != nil {
		return domain.Character{}, err
	}
	if c.Owner != owner {
		return domain.Character{}, ErrNotCharacterOwner
	}
	return c, nil
}
