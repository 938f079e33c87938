package services

import (
	"github.com/shopspring/decimal"

	"github.com/orderalloc/orderalloc/pkg/domain/entities"
)

// CommittedByProduct computes, per product, the supply already promised
// to demand lines but not yet delivered:
//
//	committed(product) = sum over lines of max(0, min(pending, undelivered))
//
// Taking the minimum against the pending quantity keeps a line with
// incomplete delivery linkage (undelivered larger than what is still
// owed) from falsely blocking supply; the outer clamp keeps negative
// bookkeeping values from reducing the total.
func CommittedByProduct(lines []*entities.DemandLine) map[entities.ProductID]decimal.Decimal {
	committed := make(map[entities.ProductID]decimal.Decimal)

	for _, line := range lines {
		contribution := decimal.Min(line.PendingQty, line.UndeliveredAllocated)
		if contribution.IsNegative() {
			contribution = decimal.Zero
		}

		if current, ok := committed[line.ProductID]; ok {
			committed[line.ProductID] = current.Add(contribution)
		} else {
			committed[line.ProductID] = contribution
		}
	}

	return committed
}

// BuildSupplySnapshots joins raw per-product supply totals with the
// commitment derived from the demand lines. Products that appear only in
// the totals map get a snapshot with zero commitment; products that
// appear only in demand lines get a snapshot with zero supply, so
// over-commitment still surfaces.
func BuildSupplySnapshots(
	totals map[entities.ProductID]decimal.Decimal,
	lines []*entities.DemandLine,
) entities.SupplyMap {
	committed := CommittedByProduct(lines)

	supplies := make(entities.SupplyMap, len(totals))
	for productID, total := range totals {
		supplies[productID] = &entities.SupplySnapshot{
			ProductID:   productID,
			TotalSupply: total,
			Committed:   committed[productID],
		}
	}
	for productID, committedQty := range committed {
		if _, ok := supplies[productID]; !ok {
			supplies[productID] = &entities.SupplySnapshot{
				ProductID: productID,
				Committed: committedQty,
			}
		}
	}

	return supplies
}
