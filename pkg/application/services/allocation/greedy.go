package allocation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/orderalloc/orderalloc/pkg/domain/entities"
)

// greedyStrategy implements the sort-and-consume walk shared by FCFS,
// ETD-Priority and Revenue-Priority: order the lines of each product by
// the strategy's priority score, then grant each line up to its ceiling
// from whatever supply remains. Ties keep input order (stable sort).
type greedyStrategy struct {
	name  string
	score func(line *entities.DemandLine) decimal.Decimal
}

// Priority scores for the ordering strategies; higher is served first.
// The hybrid combiner reuses them for its ordering phases.

func scoreOrderDate(line *entities.DemandLine) decimal.Decimal {
	return decimal.NewFromInt(-line.OrderDate.Unix())
}

func scoreETD(line *entities.DemandLine) decimal.Decimal {
	return decimal.NewFromInt(-line.ETD.Unix())
}

func scoreRevenue(line *entities.DemandLine) decimal.Decimal {
	return line.RevenueValue
}

// NewFCFSStrategy serves lines in order-date order, oldest first
func NewFCFSStrategy() Strategy {
	return &greedyStrategy{name: entities.FCFS.String(), score: scoreOrderDate}
}

// NewETDPriorityStrategy serves lines with the earliest due date first
func NewETDPriorityStrategy() Strategy {
	return &greedyStrategy{name: entities.ETDPriority.String(), score: scoreETD}
}

// NewRevenuePriorityStrategy serves the highest-revenue lines first
func NewRevenuePriorityStrategy() Strategy {
	return &greedyStrategy{name: entities.RevenuePriority.String(), score: scoreRevenue}
}

// Name returns the strategy identifier
func (s *greedyStrategy) Name() string {
	return s.name
}

// PriorityScore ranks a line; higher scores are served first
func (s *greedyStrategy) PriorityScore(line *entities.DemandLine) decimal.Decimal {
	return s.score(line)
}

// Allocate runs the greedy walk over every product group
func (s *greedyStrategy) Allocate(
	lines []*entities.DemandLine,
	supplies entities.SupplyMap,
	cfg *entities.StrategyConfig,
) []*entities.AllocationResult {
	results := buildResults(lines, cfg, s.name)

	for _, group := range groupByProduct(lines, results) {
		s.allocateGroup(group, supplies.Get(group.productID), cfg)
	}

	return results
}

func (s *greedyStrategy) allocateGroup(
	group *productGroup,
	snap *entities.SupplySnapshot,
	cfg *entities.StrategyConfig,
) {
	order := sortedByScore(group.lines, s.score)

	remaining := snap.AvailableOrZero()
	for _, idx := range order {
		result := group.results[idx]
		need := result.MaxAllocatable
		if need.IsZero() {
			continue
		}

		// The pool stops serving further lines once it drains to the
		// minimum allocation threshold.
		if remaining.LessThanOrEqual(cfg.MinAllocationQty) {
			result.AddWarning(warnNoSupply(group.productID))
			continue
		}

		grant := decimal.Min(need, remaining)
		result.SetSuggested(grant)
		remaining = remaining.Sub(grant)

		if grant.LessThan(need) {
			result.AddWarning(warnPartialSupply(grant, need))
		}
	}
}

// sortedByScore returns line indices ordered by descending score, stable
// with respect to input order.
func sortedByScore(
	lines []*entities.DemandLine,
	score func(*entities.DemandLine) decimal.Decimal,
) []int {
	order := make([]int, len(lines))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return score(lines[order[i]]).GreaterThan(score(lines[order[j]]))
	})
	return order
}
