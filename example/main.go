package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/orderalloc/orderalloc/pkg/application/dto"
	"github.com/orderalloc/orderalloc/pkg/application/services/allocation"
	"github.com/orderalloc/orderalloc/pkg/domain/entities"
	"github.com/orderalloc/orderalloc/pkg/domain/services"
)

func main() {
	ctx := context.Background()

	// Three customers competing for 100 widgets
	lines := setupDemandLines()
	totals := map[entities.ProductID]decimal.Decimal{
		"WIDGET": decimal.NewFromInt(100),
	}
	supplies := services.BuildSupplySnapshots(totals, lines)

	cfg := entities.NewStrategyConfig(entities.Hybrid)
	cfg.MinGuaranteePercent = decimal.NewFromInt(20)
	cfg.Phases = []entities.Phase{
		{Kind: entities.PhaseMinGuarantee, WeightPercent: decimal.NewFromInt(30)},
		{Kind: entities.PhaseETDPriority, WeightPercent: decimal.NewFromInt(50)},
		{Kind: entities.PhaseProportional, WeightPercent: decimal.NewFromInt(20)},
	}

	fmt.Println("📦 Running hybrid allocation...")
	fmt.Printf("Supply: %s widgets across %d demand lines\n\n",
		totals["WIDGET"], len(lines))

	engine := allocation.NewEngine(nil)
	results, err := engine.Simulate(ctx, lines, supplies, cfg)
	if err != nil {
		fmt.Printf("❌ Allocation failed: %v\n", err)
		return
	}

	fmt.Println("📊 Allocation Results:")
	for _, result := range results {
		fmt.Printf("  %s (%s): %s of %s requested (%s%% coverage)\n",
			result.DemandID,
			result.CustomerCode,
			result.SuggestedQty,
			result.DemandQty,
			result.CoveragePercent.StringFixed(1))
		for _, warning := range result.Warnings {
			fmt.Printf("    ⚠️  %s\n", warning)
		}
	}
	fmt.Println()

	for _, summary := range dto.Summarize(results, supplies) {
		fmt.Printf("  %s: allocated %s of %s available\n",
			summary.ProductID, summary.TotalAllocated, summary.Available)
	}
}

func setupDemandLines() []*entities.DemandLine {
	specs := []struct {
		id       entities.DemandID
		customer entities.CustomerCode
		pending  int64
		etd      time.Time
	}{
		{"SO-1001", "ACME", 60, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)},
		{"SO-1002", "GLOBEX", 50, time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)},
		{"SO-1003", "INITECH", 40, time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)},
	}

	var lines []*entities.DemandLine
	for _, spec := range specs {
		qty := decimal.NewFromInt(spec.pending)
		line, err := entities.NewDemandLine(
			spec.id, "WIDGET", spec.customer,
			qty, qty, decimal.Zero, decimal.Zero,
			spec.etd, spec.etd.AddDate(0, -2, 0),
			qty.Mul(decimal.NewFromInt(25)),
		)
		if err != nil {
			panic(err)
		}
		lines = append(lines, line)
	}
	return lines
}
