package allocation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/orderalloc/orderalloc/pkg/domain/entities"
	"github.com/orderalloc/orderalloc/pkg/domain/services"
)

// Strategy is the single capability every allocation algorithm
// implements: consume demand lines plus a supply snapshot and produce
// suggested quantities. Implementations are pure; the same inputs always
// yield the same results.
type Strategy interface {
	// Name returns the strategy identifier recorded on each result.
	Name() string

	// Allocate produces one result per demand line, in input order.
	Allocate(lines []*entities.DemandLine, supplies entities.SupplyMap, cfg *entities.StrategyConfig) []*entities.AllocationResult

	// PriorityScore ranks a line for ordering strategies; higher scores
	// are served first. Unordered strategies return zero.
	PriorityScore(line *entities.DemandLine) decimal.Decimal
}

// ForType returns the strategy implementation for a configured type
func ForType(strategyType entities.StrategyType) (Strategy, error) {
	switch strategyType {
	case entities.FCFS:
		return NewFCFSStrategy(), nil
	case entities.ETDPriority:
		return NewETDPriorityStrategy(), nil
	case entities.Proportional:
		return NewProportionalStrategy(), nil
	case entities.RevenuePriority:
		return NewRevenuePriorityStrategy(), nil
	case entities.Hybrid:
		return NewHybridStrategy(), nil
	default:
		return nil, &entities.ConfigError{Field: "strategy_type", Reason: "no implementation registered"}
	}
}

var hundred = decimal.NewFromInt(100)

// buildResults creates one zero-quantity result per line with the
// max-allocatable ceiling precomputed, preserving input order.
func buildResults(
	lines []*entities.DemandLine,
	cfg *entities.StrategyConfig,
	source string,
) []*entities.AllocationResult {
	results := make([]*entities.AllocationResult, 0, len(lines))
	for _, line := range lines {
		ceiling := services.MaxAllocatable(line, cfg.MaxAllocationPercent)
		results = append(results, entities.NewAllocationResult(line, ceiling, source))
	}
	return results
}

// productGroup pairs each result with its source line, in input order
type productGroup struct {
	productID entities.ProductID
	lines     []*entities.DemandLine
	results   []*entities.AllocationResult
}

// groupByProduct splits lines and their results into per-product groups,
// sorted by product ID so iteration order is deterministic.
func groupByProduct(
	lines []*entities.DemandLine,
	results []*entities.AllocationResult,
) []*productGroup {
	byProduct := make(map[entities.ProductID]*productGroup)
	for i, line := range lines {
		group, ok := byProduct[line.ProductID]
		if !ok {
			group = &productGroup{productID: line.ProductID}
			byProduct[line.ProductID] = group
		}
		group.lines = append(group.lines, line)
		group.results = append(group.results, results[i])
	}

	groups := make([]*productGroup, 0, len(byProduct))
	for _, group := range byProduct {
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].productID < groups[j].productID
	})

	return groups
}
