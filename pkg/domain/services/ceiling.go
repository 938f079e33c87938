package services

import (
	"github.com/shopspring/decimal"

	"github.com/orderalloc/orderalloc/pkg/domain/entities"
)

var hundred = decimal.NewFromInt(100)

// MaxAllocatable computes the ceiling on how much one demand line may
// still receive. Two independent caps apply:
//
//	cap_by_quota    = effective * (P/100) - current_allocated
//	cap_by_delivery = pending - undelivered_allocated
//
// The quota cap stops commitments beyond the contractual quantity; the
// delivery cap stops commitments beyond what is still physically owed.
// A line fully covered by either cap gets zero and must receive no
// further allocation from any strategy.
func MaxAllocatable(line *entities.DemandLine, maxAllocationPercent decimal.Decimal) decimal.Decimal {
	capByQuota := line.EffectiveQty.
		Mul(maxAllocationPercent).
		Div(hundred).
		Sub(line.CurrentAllocated)

	capByDelivery := line.PendingQty.Sub(line.UndeliveredAllocated)

	ceiling := decimal.Min(capByQuota, capByDelivery)
	if ceiling.IsNegative() {
		return decimal.Zero
	}
	return ceiling
}
