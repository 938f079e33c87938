package allocation

import (
	"github.com/shopspring/decimal"

	"github.com/orderalloc/orderalloc/pkg/domain/entities"
)

// ProportionalStrategy distributes a product's available supply across
// its lines in proportion to each line's share of the group demand:
//
//	share = available * pending / total_demand_in_group
//
// capped by the line's own ceiling. Cumulative spend is tracked across
// the group so the granted total never exceeds the available pool even
// when earlier lines are capped below their nominal share. Leftover
// supply freed by capped lines is not redistributed.
type ProportionalStrategy struct{}

// NewProportionalStrategy creates the proportional distribution strategy
func NewProportionalStrategy() Strategy {
	return &ProportionalStrategy{}
}

// Name returns the strategy identifier
func (s *ProportionalStrategy) Name() string {
	return entities.Proportional.String()
}

// PriorityScore is zero: proportional distribution has no line ordering
func (s *ProportionalStrategy) PriorityScore(_ *entities.DemandLine) decimal.Decimal {
	return decimal.Zero
}

// Allocate distributes each product's pool proportionally
func (s *ProportionalStrategy) Allocate(
	lines []*entities.DemandLine,
	supplies entities.SupplyMap,
	cfg *entities.StrategyConfig,
) []*entities.AllocationResult {
	results := buildResults(lines, cfg, s.Name())

	for _, group := range groupByProduct(lines, results) {
		allocateProportional(group, supplies.Get(group.productID).AvailableOrZero(), true)
	}

	return results
}

// allocateProportional runs one proportional pass over a product group.
// The pool parameter is whatever supply the caller wants distributed:
// the standalone strategy passes the product's availability, the hybrid
// phase passes the supply remaining after prior phases. A warning is
// attached only when pool exhaustion cuts a line below its share; being
// below full need is inherent to proportional distribution. The hybrid
// combiner passes warn=false and attaches warnings in its own final pass.
func allocateProportional(group *productGroup, pool decimal.Decimal, warn bool) {
	if pool.LessThanOrEqual(decimal.Zero) {
		if warn {
			for _, result := range group.results {
				if eligibleNeed(result).IsPositive() {
					result.AddWarning(warnNoSupply(group.productID))
				}
			}
		}
		return
	}

	totalDemand := decimal.Zero
	for i, line := range group.lines {
		if eligibleNeed(group.results[i]).IsPositive() {
			totalDemand = totalDemand.Add(line.PendingQty)
		}
	}
	if !totalDemand.IsPositive() {
		return
	}

	remaining := pool
	for i, line := range group.lines {
		result := group.results[i]
		need := eligibleNeed(result)
		if !need.IsPositive() {
			continue
		}

		share := pool.Mul(line.PendingQty).Div(totalDemand)
		want := decimal.Min(share, need)
		grant := decimal.Min(want, remaining)
		if grant.IsNegative() {
			grant = decimal.Zero
		}

		result.SetSuggested(result.SuggestedQty.Add(grant))
		remaining = remaining.Sub(grant)

		if warn && grant.LessThan(want) {
			result.AddWarning(warnPartialSupply(grant, want))
		}
	}
}

// eligibleNeed is how much a line can still take in this pass
func eligibleNeed(result *entities.AllocationResult) decimal.Decimal {
	return result.MaxAllocatable.Sub(result.SuggestedQty)
}
