package allocation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/orderalloc/orderalloc/pkg/application/dto"
	"github.com/orderalloc/orderalloc/pkg/domain/entities"
)

// Validate runs the two pre-commit passes over a result set. It is pure
// and side-effect free: the results, lines and supplies are not touched.
//
// The row pass checks each result with a positive final quantity against
// the minimum allocation quantity, the quota cap, the delivery cap, and
// the supply remaining for its product, consumed sequentially across
// the product's rows rather than checked independently. A failing row is
// recorded and does not stop other rows from validating.
//
// The aggregate pass checks the actor's permission and that at least one
// line receives an allocation, and collects non-blocking warnings.
func Validate(
	results []*entities.AllocationResult,
	lines []*entities.DemandLine,
	supplies entities.SupplyMap,
	actorRole entities.Role,
	cfg *entities.StrategyConfig,
) *dto.ValidationReport {
	report := dto.NewValidationReport()

	linesByID := make(map[entities.DemandID]*entities.DemandLine, len(lines))
	for _, line := range lines {
		linesByID[line.DemandID] = line
	}

	remaining := make(map[entities.ProductID]decimal.Decimal)
	zeroLines := 0

	for _, result := range results {
		if !result.FinalQty.IsPositive() {
			zeroLines++
			continue
		}
		validateRow(report, result, linesByID, supplies, remaining, cfg)
	}

	if !actorRole.CanBulkAllocate() {
		report.AddError(fmt.Sprintf("role %q is not permitted to perform bulk allocation", actorRole))
	}
	if zeroLines == len(results) {
		report.AddError("no lines carry an allocation")
	}
	if zeroLines > 0 && zeroLines < len(results) {
		report.AddWarning(fmt.Sprintf("%d lines will receive no allocation", zeroLines))
	}

	return report
}

func validateRow(
	report *dto.ValidationReport,
	result *entities.AllocationResult,
	linesByID map[entities.DemandID]*entities.DemandLine,
	supplies entities.SupplyMap,
	remaining map[entities.ProductID]decimal.Decimal,
	cfg *entities.StrategyConfig,
) {
	line, ok := linesByID[result.DemandID]
	if !ok {
		report.AddRowError(result.DemandID, "demand line no longer in scope")
		return
	}

	passed := true

	if result.FinalQty.LessThan(cfg.MinAllocationQty) {
		report.AddRowError(result.DemandID, fmt.Sprintf(
			"final quantity %s is below the minimum allocation quantity %s",
			result.FinalQty, cfg.MinAllocationQty))
		passed = false
	}

	quotaCap := line.EffectiveQty.Mul(cfg.MaxAllocationPercent).Div(hundred)
	if line.CurrentAllocated.Add(result.FinalQty).GreaterThan(quotaCap) {
		report.AddRowError(result.DemandID, fmt.Sprintf(
			"allocation %s would push committed quantity past the quota cap %s",
			result.FinalQty, quotaCap))
		passed = false
	}

	if line.UndeliveredAllocated.Add(result.FinalQty).GreaterThan(line.PendingQty) {
		report.AddRowError(result.DemandID, fmt.Sprintf(
			"allocation %s exceeds the undelivered balance of pending quantity %s",
			result.FinalQty, line.PendingQty))
		passed = false
	}

	pool, ok := remaining[result.ProductID]
	if !ok {
		pool = supplies.Get(result.ProductID).AvailableOrZero()
	}
	if result.FinalQty.GreaterThan(pool) {
		report.AddRowError(result.DemandID, fmt.Sprintf(
			"allocation %s exceeds remaining supply %s for product %s",
			result.FinalQty, pool, result.ProductID))
		passed = false
	}

	// Supply is consumed only by rows that pass, so one bad row does not
	// starve the rows validated after it.
	if passed {
		remaining[result.ProductID] = pool.Sub(result.FinalQty)
	} else {
		remaining[result.ProductID] = pool
	}
}
