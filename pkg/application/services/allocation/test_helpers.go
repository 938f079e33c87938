package allocation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/orderalloc/orderalloc/pkg/domain/entities"
)

// Test fixture builders shared by the allocation tests.

type lineSpec struct {
	id          entities.DemandID
	product     entities.ProductID
	pending     int64
	effective   int64
	current     int64
	undelivered int64
	orderDate   time.Time
	etd         time.Time
	revenue     int64
}

func buildLine(spec lineSpec) *entities.DemandLine {
	if spec.effective == 0 {
		spec.effective = spec.pending
	}
	if spec.orderDate.IsZero() {
		spec.orderDate = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if spec.etd.IsZero() {
		spec.etd = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	}
	return &entities.DemandLine{
		DemandID:             spec.id,
		ProductID:            spec.product,
		CustomerCode:         "CUST",
		PendingQty:           decimal.NewFromInt(spec.pending),
		EffectiveQty:         decimal.NewFromInt(spec.effective),
		CurrentAllocated:     decimal.NewFromInt(spec.current),
		UndeliveredAllocated: decimal.NewFromInt(spec.undelivered),
		OrderDate:            spec.orderDate,
		ETD:                  spec.etd,
		RevenueValue:         decimal.NewFromInt(spec.revenue),
	}
}

func supplyOf(product entities.ProductID, total int64, lines []*entities.DemandLine) entities.SupplyMap {
	return supplyTotals(map[entities.ProductID]int64{product: total}, lines)
}

func supplyTotals(totals map[entities.ProductID]int64, lines []*entities.DemandLine) entities.SupplyMap {
	supplies := make(entities.SupplyMap, len(totals))
	for product, total := range totals {
		supplies[product] = &entities.SupplySnapshot{
			ProductID:   product,
			TotalSupply: decimal.NewFromInt(total),
		}
	}
	// Commitment comes from the lines, mirroring the availability
	// calculator, so tests exercise the same view the engine sees.
	for _, line := range lines {
		snap, ok := supplies[line.ProductID]
		if !ok {
			snap = &entities.SupplySnapshot{ProductID: line.ProductID}
			supplies[line.ProductID] = snap
		}
		contribution := decimal.Min(line.PendingQty, line.UndeliveredAllocated)
		if contribution.IsNegative() {
			contribution = decimal.Zero
		}
		snap.Committed = snap.Committed.Add(contribution)
	}
	return supplies
}

func day(d int) time.Time {
	return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC)
}

func resultByID(results []*entities.AllocationResult, id entities.DemandID) *entities.AllocationResult {
	for _, result := range results {
		if result.DemandID == id {
			return result
		}
	}
	return nil
}
