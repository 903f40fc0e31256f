package app

import (
	"context"

	"github.com/hollowvale/arenaforge/internal/forge/domain"
)

// staticNames is a fixed-size name registry for deployments that keep the
// real registry elsewhere. Pool sizes come from configuration.
type staticNames struct {
	first    int
	altFirst int
	surnames int
}

func (n staticNames) FirstNameCount(altSet bool) int {
	if altSet {
		return n.altFirst
	}
	return n.first
}

func (n staticNames) SurnameCount() int {
	return n.surnames
}

func (n staticNames) IsValidFirstNameIndex(altSet bool, idx int) bool {
	return idx >= 0 && idx < n.FirstNameCount(altSet)
}

// unstockedEquipment rejects every skin. Equip operations need a real
// registry; the local process runs without one.
type unstockedEquipment struct{}

func (unstockedEquipment) OwnsSkin(context.Context, string, domain.Skin) (bool, error) {
	return false, nil
}

func (unstockedEquipment) SkinRequirements(context.Context, domain.Skin) (domain.Requirements, domain.Requirements, error) {
	return domain.Requirements{}, domain.Requirements{}, nil
}

// trustingPayments accepts every instrument and refunds are no-ops. Real
// deployments substitute the economic collaborator.
type trustingPayments struct{}

func (trustingPayments) ConfirmCreationPayment(context.Context, string, domain.PaymentMethod) (bool, error) {
	return true, nil
}

func (trustingPayments) ConfirmSlotPurchase(context.Context, string, int) (bool, error) {
	return true, nil
}

func (trustingPayments) ConsumeSwapCharge(context.Context, string) (bool, error) {
	return true, nil
}

func (trustingPayments) ConsumeRespecCharge(context.Context, string) (bool, error) {
	return true, nil
}

func (trustingPayments) RefundCreationFee(context.Context, string) error {
	return nil
}
