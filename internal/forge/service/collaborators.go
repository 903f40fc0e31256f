// Package service orchestrates character creation and progression over the
// forge stores and the external collaborators.
package service

import (
	"context"

	"github.com/hollowvale/arenaforge/internal/forge/domain"
)

// RandomnessOracle accepts creation requests and later delivers exactly one
// random value per request id, out-of-band, by calling Fulfill on the
// service. The core treats the delivered value as opaque entropy.
type RandomnessOracle interface {
	Request(ctx context.Context) (requestID string, err error)
}

// NameRegistry supplies the two first-name pool sizes and the surname pool
// size used to derive name indices at fulfillment.
type NameRegistry interface {
	FirstNameCount(altSet bool) int
	SurnameCount() int
	IsValidFirstNameIndex(altSet bool, idx int) bool
}

// EquipmentRegistry supplies skin ownership checks and per-item attribute
// minimums for equip validation.
type EquipmentRegistry interface {
	OwnsSkin(ctx context.Context, owner string, skin domain.Skin) (bool, error)
	SkinRequirements(ctx context.Context, skin domain.Skin) (weapon, armor domain.Requirements, err error)
}

// PaymentLedger answers whether the caller paid or burned the right
// instrument for an operation. The core only needs the boolean outcome.
type PaymentLedger interface {
	ConfirmCreationPayment(ctx context.Context, owner string, method domain.PaymentMethod) (bool, error)
	ConfirmSlotPurchase(ctx context.Context, owner string, batches int) (bool, error)
	ConsumeSwapCharge(ctx context.Context, owner string) (bool, error)
	ConsumeRespecCharge(ctx context.Context, owner string) (bool, error)
	RefundCreationFee(ctx context.Context, owner string) error
}
