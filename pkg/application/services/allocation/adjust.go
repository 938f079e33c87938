package allocation

import (
	"github.com/shopspring/decimal"

	"github.com/orderalloc/orderalloc/pkg/domain/entities"
)

// RecalculateWithAdjustments applies operator overrides to a result set
// and re-derives coverage and warnings. The input results are not
// mutated; a fresh set is returned. A product whose adjusted total
// exceeds availability gets a warning on every one of its results. The
// totals are not clamped here; rejecting them is the validator's call.
func RecalculateWithAdjustments(
	results []*entities.AllocationResult,
	adjustments map[entities.DemandID]decimal.Decimal,
	supplies entities.SupplyMap,
) []*entities.AllocationResult {
	adjusted := make([]*entities.AllocationResult, 0, len(results))
	totals := make(map[entities.ProductID]decimal.Decimal)

	for _, original := range results {
		result := original.Clone()

		if newFinal, ok := adjustments[result.DemandID]; ok {
			if newFinal.IsNegative() {
				newFinal = decimal.Zero
			}
			applyOverride(result, newFinal)
		}

		if current, ok := totals[result.ProductID]; ok {
			totals[result.ProductID] = current.Add(result.FinalQty)
		} else {
			totals[result.ProductID] = result.FinalQty
		}
		adjusted = append(adjusted, result)
	}

	for _, result := range adjusted {
		available := supplies.Get(result.ProductID).Available()
		total := totals[result.ProductID]
		if total.GreaterThan(available) {
			result.AddWarning(warnProductExceeded(result.ProductID, total, available))
		}
	}

	return adjusted
}

func applyOverride(result *entities.AllocationResult, newFinal decimal.Decimal) {
	result.SetFinal(newFinal)

	if newFinal.GreaterThan(result.SuggestedQty) {
		result.AddWarning(warnAdjustedUp(result.SuggestedQty, newFinal))
	} else if newFinal.LessThan(result.SuggestedQty) {
		result.AddWarning(warnAdjustedDown(result.SuggestedQty, newFinal))
	}
}
