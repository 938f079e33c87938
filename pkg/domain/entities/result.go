package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllocationResult is the per-line output of one strategy run. A strategy
// creates it, the adjuster is the only mutator afterwards, and the commit
// protocol consumes it terminally.
type AllocationResult struct {
	DemandID     DemandID     `json:"demand_id"`
	ProductID    ProductID    `json:"product_id"`
	CustomerCode CustomerCode `json:"customer_code"`

	// Inputs echoed for audit.
	ETD                  time.Time       `json:"etd"`
	DemandQty            decimal.Decimal `json:"demand_qty"`
	EffectiveQty         decimal.Decimal `json:"effective_qty"`
	CurrentAllocated     decimal.Decimal `json:"current_allocated"`
	UndeliveredAllocated decimal.Decimal `json:"undelivered_allocated"`
	MaxAllocatable       decimal.Decimal `json:"max_allocatable"`

	// SuggestedQty is the algorithm output; FinalQty defaults to it and
	// changes only through operator adjustment.
	SuggestedQty    decimal.Decimal `json:"suggested_qty"`
	FinalQty        decimal.Decimal `json:"final_qty"`
	CoveragePercent decimal.Decimal `json:"coverage_percent"`

	StrategySource string   `json:"strategy_source"`
	Warnings       []string `json:"warnings,omitempty"`
}

// NewAllocationResult creates a zero-quantity result for a demand line
func NewAllocationResult(line *DemandLine, maxAllocatable decimal.Decimal, strategySource string) *AllocationResult {
	return &AllocationResult{
		DemandID:             line.DemandID,
		ProductID:            line.ProductID,
		CustomerCode:         line.CustomerCode,
		ETD:                  line.ETD,
		DemandQty:            line.PendingQty,
		EffectiveQty:         line.EffectiveQty,
		CurrentAllocated:     line.CurrentAllocated,
		UndeliveredAllocated: line.UndeliveredAllocated,
		MaxAllocatable:       maxAllocatable,
		SuggestedQty:         decimal.Zero,
		FinalQty:             decimal.Zero,
		CoveragePercent:      decimal.Zero,
		StrategySource:       strategySource,
	}
}

// SetSuggested records the algorithm output and resets FinalQty to match
func (r *AllocationResult) SetSuggested(qty decimal.Decimal) {
	r.SuggestedQty = qty
	r.FinalQty = qty
	r.recalcCoverage()
}

// SetFinal applies an operator override and recomputes coverage
func (r *AllocationResult) SetFinal(qty decimal.Decimal) {
	r.FinalQty = qty
	r.recalcCoverage()
}

// AddWarning appends a descriptive warning to the result
func (r *AllocationResult) AddWarning(warning string) {
	r.Warnings = append(r.Warnings, warning)
}

// Clone returns a deep copy so pure passes can rework results without
// touching the caller's slice
func (r *AllocationResult) Clone() *AllocationResult {
	clone := *r
	clone.Warnings = make([]string, len(r.Warnings))
	copy(clone.Warnings, r.Warnings)
	return &clone
}

func (r *AllocationResult) recalcCoverage() {
	if r.DemandQty.IsZero() {
		r.CoveragePercent = decimal.Zero
		return
	}
	r.CoveragePercent = r.FinalQty.Div(r.DemandQty).Mul(hundred)
}
