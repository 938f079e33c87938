package allocation

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/orderalloc/orderalloc/pkg/domain/entities"
)

func TestFCFS_GreedyWalk(t *testing.T) {
	lines := []*entities.DemandLine{
		buildLine(lineSpec{id: "D3", product: "WIDGET", pending: 30, orderDate: day(3)}),
		buildLine(lineSpec{id: "D1", product: "WIDGET", pending: 30, orderDate: day(1)}),
		buildLine(lineSpec{id: "D2", product: "WIDGET", pending: 30, orderDate: day(2)}),
	}
	supplies := supplyOf("WIDGET", 50, lines)
	cfg := entities.NewStrategyConfig(entities.FCFS)

	results := NewFCFSStrategy().Allocate(lines, supplies, cfg)

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	// Oldest order served first, regardless of input position.
	if got := resultByID(results, "D1").SuggestedQty; !got.Equal(decimal.NewFromInt(30)) {
		t.Errorf("Expected D1 to get 30, got %s", got)
	}
	if got := resultByID(results, "D2").SuggestedQty; !got.Equal(decimal.NewFromInt(20)) {
		t.Errorf("Expected D2 to get 20, got %s", got)
	}
	if got := resultByID(results, "D3").SuggestedQty; !got.IsZero() {
		t.Errorf("Expected D3 to get 0, got %s", got)
	}

	// The starved line carries a warning; the partial line too.
	if len(resultByID(results, "D3").Warnings) == 0 {
		t.Error("Expected warning on starved line D3")
	}
	if len(resultByID(results, "D2").Warnings) == 0 {
		t.Error("Expected partial-supply warning on D2")
	}
	if len(resultByID(results, "D1").Warnings) != 0 {
		t.Errorf("Expected no warnings on fully served D1, got %v", resultByID(results, "D1").Warnings)
	}

	// Results come back in input order.
	if results[0].DemandID != "D3" || results[1].DemandID != "D1" || results[2].DemandID != "D2" {
		t.Error("Expected results in input order")
	}
}

func TestFCFS_StableTieBreak(t *testing.T) {
	sameDay := day(5)
	lines := []*entities.DemandLine{
		buildLine(lineSpec{id: "A", product: "WIDGET", pending: 40, orderDate: sameDay}),
		buildLine(lineSpec{id: "B", product: "WIDGET", pending: 40, orderDate: sameDay}),
	}
	supplies := supplyOf("WIDGET", 40, lines)
	cfg := entities.NewStrategyConfig(entities.FCFS)

	results := NewFCFSStrategy().Allocate(lines, supplies, cfg)

	// Equal order dates: input order wins.
	if got := resultByID(results, "A").SuggestedQty; !got.Equal(decimal.NewFromInt(40)) {
		t.Errorf("Expected A to win the tie with 40, got %s", got)
	}
	if got := resultByID(results, "B").SuggestedQty; !got.IsZero() {
		t.Errorf("Expected B to get 0 on the tie, got %s", got)
	}
}

func TestETDPriority_EarlierDueDateFirst(t *testing.T) {
	lines := []*entities.DemandLine{
		buildLine(lineSpec{id: "LATE", product: "WIDGET", pending: 50, etd: day(20)}),
		buildLine(lineSpec{id: "EARLY", product: "WIDGET", pending: 50, etd: day(10)}),
	}
	supplies := supplyOf("WIDGET", 50, lines)
	cfg := entities.NewStrategyConfig(entities.ETDPriority)

	results := NewETDPriorityStrategy().Allocate(lines, supplies, cfg)

	if got := resultByID(results, "EARLY").SuggestedQty; !got.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected EARLY to get 50, got %s", got)
	}
	if got := resultByID(results, "LATE").SuggestedQty; !got.IsZero() {
		t.Errorf("Expected LATE to get 0, got %s", got)
	}
}

func TestRevenuePriority_HighestRevenueFirst(t *testing.T) {
	lines := []*entities.DemandLine{
		buildLine(lineSpec{id: "SMALL", product: "WIDGET", pending: 50, revenue: 1000}),
		buildLine(lineSpec{id: "BIG", product: "WIDGET", pending: 50, revenue: 9000}),
	}
	supplies := supplyOf("WIDGET", 60, lines)
	cfg := entities.NewStrategyConfig(entities.RevenuePriority)

	results := NewRevenuePriorityStrategy().Allocate(lines, supplies, cfg)

	if got := resultByID(results, "BIG").SuggestedQty; !got.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected BIG to get 50, got %s", got)
	}
	if got := resultByID(results, "SMALL").SuggestedQty; !got.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected SMALL to get the remaining 10, got %s", got)
	}
}

func TestGreedy_MinAllocationThresholdStopsPool(t *testing.T) {
	lines := []*entities.DemandLine{
		buildLine(lineSpec{id: "D1", product: "WIDGET", pending: 46, orderDate: day(1)}),
		buildLine(lineSpec{id: "D2", product: "WIDGET", pending: 30, orderDate: day(2)}),
	}
	supplies := supplyOf("WIDGET", 50, lines)
	cfg := entities.NewStrategyConfig(entities.FCFS)
	cfg.MinAllocationQty = decimal.NewFromInt(5)

	results := NewFCFSStrategy().Allocate(lines, supplies, cfg)

	// After D1 takes 46 the pool holds 4, at or below the threshold of
	// 5, so D2 gets nothing rather than a sliver.
	if got := resultByID(results, "D2").SuggestedQty; !got.IsZero() {
		t.Errorf("Expected D2 to get 0 below threshold, got %s", got)
	}
}

func TestGreedy_RespectsMaxAllocatable(t *testing.T) {
	lines := []*entities.DemandLine{
		// Quota nearly exhausted: effective 100, current 90 leaves 10.
		buildLine(lineSpec{id: "CAPPED", product: "WIDGET", pending: 80, effective: 100, current: 90, orderDate: day(1)}),
		buildLine(lineSpec{id: "OPEN", product: "WIDGET", pending: 80, orderDate: day(2)}),
	}
	supplies := supplyOf("WIDGET", 100, lines)
	cfg := entities.NewStrategyConfig(entities.FCFS)

	results := NewFCFSStrategy().Allocate(lines, supplies, cfg)

	if got := resultByID(results, "CAPPED").SuggestedQty; !got.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected CAPPED limited to 10 by quota, got %s", got)
	}
	if got := resultByID(results, "OPEN").SuggestedQty; !got.Equal(decimal.NewFromInt(80)) {
		t.Errorf("Expected OPEN to get 80, got %s", got)
	}
}

func TestGreedy_OverCommittedProductAllocatesNothing(t *testing.T) {
	lines := []*entities.DemandLine{
		buildLine(lineSpec{id: "D1", product: "WIDGET", pending: 30, undelivered: 25}),
	}
	// Committed 25 against total 10: available is negative.
	supplies := supplyOf("WIDGET", 10, lines)
	cfg := entities.NewStrategyConfig(entities.FCFS)

	results := NewFCFSStrategy().Allocate(lines, supplies, cfg)

	if got := results[0].SuggestedQty; !got.IsZero() {
		t.Errorf("Expected no allocation from a negative pool, got %s", got)
	}
	found := false
	for _, warning := range results[0].Warnings {
		if strings.Contains(warning, "no supply remaining") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected no-supply warning, got %v", results[0].Warnings)
	}
}
