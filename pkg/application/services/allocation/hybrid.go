package allocation

import (
	"github.com/shopspring/decimal"

	"github.com/orderalloc/orderalloc/pkg/domain/entities"
)

// HybridStrategy runs the configured phases in order for each product.
// Every phase gets a budget of total_supply * weight/100, tracked
// independently, but no phase may spend beyond the supply actually
// remaining for the product. The proportional phase is the exception:
// it distributes the remaining supply rather than its nominal budget.
// A final capping pass clamps each line's accumulated total to its
// max-allocatable ceiling as a last-resort invariant guard.
type HybridStrategy struct{}

// NewHybridStrategy creates the multi-phase combiner
func NewHybridStrategy() Strategy {
	return &HybridStrategy{}
}

// Name returns the strategy identifier
func (s *HybridStrategy) Name() string {
	return entities.Hybrid.String()
}

// PriorityScore is zero: ordering lives inside the individual phases
func (s *HybridStrategy) PriorityScore(_ *entities.DemandLine) decimal.Decimal {
	return decimal.Zero
}

// Allocate runs all configured phases over every product group
func (s *HybridStrategy) Allocate(
	lines []*entities.DemandLine,
	supplies entities.SupplyMap,
	cfg *entities.StrategyConfig,
) []*entities.AllocationResult {
	results := buildResults(lines, cfg, s.Name())

	for _, group := range groupByProduct(lines, results) {
		s.allocateGroup(group, supplies.Get(group.productID), cfg)
	}

	return results
}

func (s *HybridStrategy) allocateGroup(
	group *productGroup,
	snap *entities.SupplySnapshot,
	cfg *entities.StrategyConfig,
) {
	remaining := snap.AvailableOrZero()

	for _, phase := range cfg.Phases {
		budget := snap.TotalSupply.Mul(phase.WeightPercent).Div(hundred)
		if budget.IsNegative() {
			budget = decimal.Zero
		}

		switch phase.Kind {
		case entities.PhaseMinGuarantee:
			remaining = runMinGuarantee(group, cfg, budget, remaining)
		case entities.PhaseFCFS:
			remaining = runGreedyPhase(group, scoreOrderDate, budget, remaining)
		case entities.PhaseETDPriority:
			remaining = runGreedyPhase(group, scoreETD, budget, remaining)
		case entities.PhaseRevenuePriority:
			remaining = runGreedyPhase(group, scoreRevenue, budget, remaining)
		case entities.PhaseProportional:
			before := suggestedTotal(group)
			allocateProportional(group, remaining, false)
			remaining = remaining.Sub(suggestedTotal(group).Sub(before))
		}
	}

	// Final capping pass: clamp accumulated totals to each line's
	// ceiling regardless of per-phase bookkeeping.
	for _, result := range group.results {
		if result.SuggestedQty.GreaterThan(result.MaxAllocatable) {
			result.SetSuggested(result.MaxAllocatable)
		}
	}

	for _, result := range group.results {
		if !result.MaxAllocatable.IsPositive() {
			continue
		}
		if result.SuggestedQty.IsZero() {
			result.AddWarning(warnNoSupply(group.productID))
		} else if result.SuggestedQty.LessThan(result.MaxAllocatable) {
			result.AddWarning(warnPartialSupply(result.SuggestedQty, result.MaxAllocatable))
		}
	}
}

// runMinGuarantee grants each line an equal slice of the phase budget up
// to its guaranteed floor of pending * min_guarantee_percent.
func runMinGuarantee(
	group *productGroup,
	cfg *entities.StrategyConfig,
	budget, remaining decimal.Decimal,
) decimal.Decimal {
	if len(group.lines) == 0 {
		return remaining
	}
	perLine := budget.Div(decimal.NewFromInt(int64(len(group.lines))))

	for i, line := range group.lines {
		result := group.results[i]

		guarantee := line.PendingQty.Mul(cfg.MinGuaranteePercent).Div(hundred)
		want := decimal.Min(guarantee, eligibleNeed(result), perLine)
		grant := decimal.Min(want, remaining)
		if !grant.IsPositive() {
			continue
		}

		result.SetSuggested(result.SuggestedQty.Add(grant))
		remaining = remaining.Sub(grant)
	}

	return remaining
}

// runGreedyPhase is the sort-and-consume walk restricted to one phase's
// budget, operating on each line's remaining need only.
func runGreedyPhase(
	group *productGroup,
	score func(*entities.DemandLine) decimal.Decimal,
	budget, remaining decimal.Decimal,
) decimal.Decimal {
	order := sortedByScore(group.lines, score)

	for _, idx := range order {
		if !budget.IsPositive() || !remaining.IsPositive() {
			break
		}

		result := group.results[idx]
		want := eligibleNeed(result)
		if !want.IsPositive() {
			continue
		}

		grant := decimal.Min(want, budget, remaining)
		result.SetSuggested(result.SuggestedQty.Add(grant))
		budget = budget.Sub(grant)
		remaining = remaining.Sub(grant)
	}

	return remaining
}

// suggestedTotal sums the accumulated suggestions across a group
func suggestedTotal(group *productGroup) decimal.Decimal {
	total := decimal.Zero
	for _, result := range group.results {
		total = total.Add(result.SuggestedQty)
	}
	return total
}
