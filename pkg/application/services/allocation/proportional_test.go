package allocation

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/orderalloc/orderalloc/pkg/domain/entities"
)

func TestProportional_SharesByPendingQty(t *testing.T) {
	lines := []*entities.DemandLine{
		buildLine(lineSpec{id: "BIG", product: "WIDGET", pending: 80}),
		buildLine(lineSpec{id: "SMALL", product: "WIDGET", pending: 40}),
	}
	supplies := supplyOf("WIDGET", 100, lines)
	cfg := entities.NewStrategyConfig(entities.Proportional)

	results := NewProportionalStrategy().Allocate(lines, supplies, cfg)

	tolerance := decimal.NewFromFloat(0.01)

	big := resultByID(results, "BIG").SuggestedQty
	expectedBig := decimal.NewFromFloat(66.67)
	if big.Sub(expectedBig).Abs().GreaterThan(tolerance) {
		t.Errorf("Expected BIG share near 66.67, got %s", big)
	}

	small := resultByID(results, "SMALL").SuggestedQty
	expectedSmall := decimal.NewFromFloat(33.33)
	if small.Sub(expectedSmall).Abs().GreaterThan(tolerance) {
		t.Errorf("Expected SMALL share near 33.33, got %s", small)
	}

	if big.Add(small).GreaterThan(decimal.NewFromInt(100)) {
		t.Errorf("Expected shares to sum within available 100, got %s", big.Add(small))
	}
}

func TestProportional_CappedLineLeavesSupplyUnallocated(t *testing.T) {
	lines := []*entities.DemandLine{
		// Delivery cap limits this line to 10 despite an 80 share.
		buildLine(lineSpec{id: "CAPPED", product: "WIDGET", pending: 80, undelivered: 70}),
		buildLine(lineSpec{id: "OPEN", product: "WIDGET", pending: 40}),
	}
	supplies := supplyTotals(map[entities.ProductID]int64{"WIDGET": 190}, lines)
	cfg := entities.NewStrategyConfig(entities.Proportional)

	results := NewProportionalStrategy().Allocate(lines, supplies, cfg)

	available := supplies.Get("WIDGET").Available() // 190 - 70 committed = 120

	capped := resultByID(results, "CAPPED").SuggestedQty
	if !capped.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected CAPPED clamped to 10, got %s", capped)
	}

	// OPEN keeps its own proportional share (120*40/120 = 40); the
	// leftover freed by the cap is not redistributed.
	open := resultByID(results, "OPEN").SuggestedQty
	if !open.Equal(decimal.NewFromInt(40)) {
		t.Errorf("Expected OPEN share 40 without redistribution, got %s", open)
	}

	total := capped.Add(open)
	if total.GreaterThan(available) {
		t.Errorf("Expected group total %s within available %s", total, available)
	}
}

func TestProportional_CumulativeSpendNeverOvershoots(t *testing.T) {
	// Many similar lines; independent share computation would overshoot
	// once rounding stacks up. Cumulative tracking must keep the sum
	// within the pool.
	var lines []*entities.DemandLine
	for _, id := range []entities.DemandID{"L1", "L2", "L3", "L4", "L5", "L6", "L7"} {
		lines = append(lines, buildLine(lineSpec{id: id, product: "WIDGET", pending: 13}))
	}
	supplies := supplyOf("WIDGET", 31, lines)
	cfg := entities.NewStrategyConfig(entities.Proportional)

	results := NewProportionalStrategy().Allocate(lines, supplies, cfg)

	total := decimal.Zero
	for _, result := range results {
		total = total.Add(result.SuggestedQty)
	}
	if total.GreaterThan(decimal.NewFromInt(31)) {
		t.Errorf("Expected total %s within pool 31", total)
	}
}

func TestProportional_ZeroDemandGroup(t *testing.T) {
	lines := []*entities.DemandLine{
		// Fully covered line: ceiling is zero.
		buildLine(lineSpec{id: "DONE", product: "WIDGET", pending: 20, undelivered: 20}),
	}
	supplies := supplyOf("WIDGET", 100, lines)
	cfg := entities.NewStrategyConfig(entities.Proportional)

	results := NewProportionalStrategy().Allocate(lines, supplies, cfg)

	if !results[0].SuggestedQty.IsZero() {
		t.Errorf("Expected fully covered line to get 0, got %s", results[0].SuggestedQty)
	}
}
