package allocation

import (
	"context"
	"log/slog"
	"time"

	"github.com/orderalloc/orderalloc/pkg/domain/entities"
)

// Engine dispatches simulation requests to the configured strategy and
// decorates the results with product-level warnings. It is a pure batch
// computation over an immutable snapshot: concurrent runs against
// independently obtained snapshots do not interact.
type Engine struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewEngine creates an allocation engine
func NewEngine(logger *slog.Logger) *Engine {
	return NewEngineWithClock(logger, time.Now)
}

// NewEngineWithClock creates an engine with an explicit clock, used by
// tests that exercise the urgency window
func NewEngineWithClock(logger *slog.Logger, now func() time.Time) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger, now: now}
}

// Simulate allocates available supply across the demand lines using the
// configured strategy and returns one result per line, in input order.
// The inputs are never mutated.
func (e *Engine) Simulate(
	ctx context.Context,
	lines []*entities.DemandLine,
	supplies entities.SupplyMap,
	cfg *entities.StrategyConfig,
) ([]*entities.AllocationResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, entities.ErrScopeEmpty
	}

	strategy, err := ForType(cfg.StrategyType)
	if err != nil {
		return nil, err
	}

	results := strategy.Allocate(lines, supplies, cfg)
	e.attachProductWarnings(results, supplies)
	e.attachUrgencyWarnings(results, cfg)

	e.logger.InfoContext(ctx, "simulation complete",
		"strategy", strategy.Name(),
		"lines", len(lines),
		"products", len(supplies),
	)

	return results, nil
}

// SimulateRun simulates into an AllocationRun, advancing its status
func (e *Engine) SimulateRun(
	ctx context.Context,
	run *entities.AllocationRun,
	lines []*entities.DemandLine,
	supplies entities.SupplyMap,
) error {
	if run.Scope.IsEmpty() && len(lines) == 0 {
		return entities.ErrScopeEmpty
	}

	results, err := e.Simulate(ctx, lines, supplies, run.Config)
	if err != nil {
		return err
	}
	return run.MarkSimulated(results)
}

// attachProductWarnings surfaces over-committed products on every line
// of the product
func (e *Engine) attachProductWarnings(results []*entities.AllocationResult, supplies entities.SupplyMap) {
	overCommitted := make(map[entities.ProductID]string)
	for _, result := range results {
		if _, seen := overCommitted[result.ProductID]; seen {
			continue
		}
		snap := supplies.Get(result.ProductID)
		if snap.OverCommitted() {
			overCommitted[result.ProductID] = warnOverCommitted(result.ProductID, snap.Available())
		}
	}

	for _, result := range results {
		if warning, ok := overCommitted[result.ProductID]; ok {
			result.AddWarning(warning)
		}
	}
}

// attachUrgencyWarnings flags under-covered lines whose ETD is inside
// the configured urgency window
func (e *Engine) attachUrgencyWarnings(results []*entities.AllocationResult, cfg *entities.StrategyConfig) {
	if cfg.UrgentThresholdDays <= 0 {
		return
	}
	cutoff := e.now().AddDate(0, 0, cfg.UrgentThresholdDays)

	for _, result := range results {
		if result.CoveragePercent.GreaterThanOrEqual(hundred) {
			continue
		}
		if !result.ETD.IsZero() && !result.ETD.After(cutoff) {
			result.AddWarning(warnUrgent(cfg.UrgentThresholdDays, result.CoveragePercent))
		}
	}
}
