package service

import (
	"context"
	"fmt"

	"github.com/hollowvale/arenaforge/internal/forge/domain"
)

// ValidateEquip runs the pure compatibility check for a candidate skin
// against the character's current attributes. Nothing is mutated.
func (s *Service) ValidateEquip(ctx context.Context, characterID int64, skin domain.Skin) error {
	c, err := s.Character(ctx, characterID)
	if err != nil {
		return err
	}
	weapon, armor, err := s.equipment.SkinRequirements(ctx, skin)
	if err != nil {
		return fmt.Errorf("load skin requirements: %w", err)
	}
	return domain.MeetsRequirements(c.Attributes, weapon, armor)
}

// EquipSkin validates ownership and attribute requirements, then commits the
// skin onto the character record.
func (s *Service) EquipSkin(ctx context.Context, owner string, characterID int64, skin domain.Skin) (domain.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, span := s.tracer.Start(ctx, "forge.EquipSkin")
	defer span.End()

	c, err := s.ownedCharacter(ctx, owner, characterID)
	if err != nil {
		return domain.Character{}, err
	}

	owns, err := s.equipment.OwnsSkin(ctx, owner, skin)
	if err != nil {
		return domain.Character{}, fmt.Errorf("check skin ownership: %w", err)
	}
	if !owns {
		return domain.Character{}, ErrSkinNotOwned
	}

	weapon, armor, err := s.equipment.SkinRequirements(ctx, skin)
	if err != nil {
		return domain.Character{}, fmt.Errorf("load skin requirements: %w", err)
	}
	if err := domain.MeetsRequirements(c.Attributes, weapon, armor); err != nil {
		return domain.Character{}, err
	}

	c.Skin = skin
	if err := s.store.UpdateCharacter(ctx, c); err != nil {
		return domain.Character{}, fmt.Errorf("store character: %w", err)
	}
	return c, nil
}
