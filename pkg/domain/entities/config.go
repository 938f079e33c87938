package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// StrategyType selects which allocation algorithm a run uses
type StrategyType int

const (
	FCFS StrategyType = iota
	ETDPriority
	Proportional
	RevenuePriority
	Hybrid
)

// String method for StrategyType enum
func (t StrategyType) String() string {
	switch t {
	case FCFS:
		return "FCFS"
	case ETDPriority:
		return "ETD_PRIORITY"
	case Proportional:
		return "PROPORTIONAL"
	case RevenuePriority:
		return "REVENUE_PRIORITY"
	case Hybrid:
		return "HYBRID"
	default:
		return "Unknown"
	}
}

// ParseStrategyType converts a configuration string into a StrategyType
func ParseStrategyType(s string) (StrategyType, error) {
	switch s {
	case "FCFS":
		return FCFS, nil
	case "ETD_PRIORITY":
		return ETDPriority, nil
	case "PROPORTIONAL":
		return Proportional, nil
	case "REVENUE_PRIORITY":
		return RevenuePriority, nil
	case "HYBRID":
		return Hybrid, nil
	default:
		return 0, &ConfigError{Field: "strategy_type", Reason: fmt.Sprintf("unknown strategy %q", s)}
	}
}

// AllocationMode distinguishes flexible allocation from source-pinned
// allocation. The algorithms ignore it; it is carried through for the
// persistence layer.
type AllocationMode int

const (
	ModeFlexible AllocationMode = iota
	ModeSourcePinned
)

// String method for AllocationMode enum
func (m AllocationMode) String() string {
	switch m {
	case ModeFlexible:
		return "FLEXIBLE"
	case ModeSourcePinned:
		return "SOURCE_PINNED"
	default:
		return "Unknown"
	}
}

// ParseAllocationMode converts a configuration string into an AllocationMode
func ParseAllocationMode(s string) (AllocationMode, error) {
	switch s {
	case "FLEXIBLE":
		return ModeFlexible, nil
	case "SOURCE_PINNED":
		return ModeSourcePinned, nil
	default:
		return 0, &ConfigError{Field: "allocation_mode", Reason: fmt.Sprintf("unknown mode %q", s)}
	}
}

// PhaseKind identifies one sub-strategy inside a hybrid run
type PhaseKind int

const (
	PhaseMinGuarantee PhaseKind = iota
	PhaseFCFS
	PhaseETDPriority
	PhaseRevenuePriority
	PhaseProportional
)

// String method for PhaseKind enum
func (k PhaseKind) String() string {
	switch k {
	case PhaseMinGuarantee:
		return "MIN_GUARANTEE"
	case PhaseFCFS:
		return "FCFS"
	case PhaseETDPriority:
		return "ETD_PRIORITY"
	case PhaseRevenuePriority:
		return "REVENUE_PRIORITY"
	case PhaseProportional:
		return "PROPORTIONAL"
	default:
		return "Unknown"
	}
}

// ParsePhaseKind converts a configuration string into a PhaseKind
func ParsePhaseKind(s string) (PhaseKind, error) {
	switch s {
	case "MIN_GUARANTEE":
		return PhaseMinGuarantee, nil
	case "FCFS":
		return PhaseFCFS, nil
	case "ETD_PRIORITY":
		return PhaseETDPriority, nil
	case "REVENUE_PRIORITY":
		return PhaseRevenuePriority, nil
	case "PROPORTIONAL":
		return PhaseProportional, nil
	default:
		return 0, &ConfigError{Field: "phases", Reason: fmt.Sprintf("unknown phase %q", s)}
	}
}

// Phase is one sequential sub-strategy with its own supply budget inside
// a hybrid run
type Phase struct {
	Kind          PhaseKind       `json:"kind"`
	WeightPercent decimal.Decimal `json:"weight_percent"`
}

// weightTolerance bounds the rounding slack accepted when hybrid phase
// weights are summed against 100.
var weightTolerance = decimal.NewFromFloat(0.01)

// hundred is shared by the percentage math throughout the engine.
var hundred = decimal.NewFromInt(100)

// StrategyConfig carries every knob a strategy reads. Construct with
// NewStrategyConfig and adjust fields before the first Simulate call;
// Validate runs once, up front, before any allocation.
type StrategyConfig struct {
	StrategyType   StrategyType   `json:"strategy_type"`
	AllocationMode AllocationMode `json:"allocation_mode"`
	// Phases is consulted only when StrategyType is Hybrid.
	Phases []Phase `json:"phases,omitempty"`
	// MinGuaranteePercent feeds the MIN_GUARANTEE hybrid phase.
	MinGuaranteePercent decimal.Decimal `json:"min_guarantee_percent"`
	// UrgentThresholdDays marks under-covered lines whose ETD is near.
	UrgentThresholdDays int `json:"urgent_threshold_days"`
	// MaxAllocationPercent caps a line's total allocation as a percent
	// of its effective quota.
	MaxAllocationPercent decimal.Decimal `json:"max_allocation_percent"`
	// MinAllocationQty is the smallest quantity worth allocating; a
	// product pool at or below it stops the greedy strategies, and the
	// validator rejects smaller non-zero final quantities.
	MinAllocationQty decimal.Decimal `json:"min_allocation_qty"`
}

// NewStrategyConfig creates a StrategyConfig with defaults applied
func NewStrategyConfig(strategyType StrategyType) *StrategyConfig {
	return &StrategyConfig{
		StrategyType:         strategyType,
		AllocationMode:       ModeFlexible,
		MaxAllocationPercent: hundred,
	}
}

// Validate checks the configuration preconditions that must hold before
// any allocation runs. Returns a *ConfigError describing the first
// violation found.
func (c *StrategyConfig) Validate() error {
	switch c.StrategyType {
	case FCFS, ETDPriority, Proportional, RevenuePriority, Hybrid:
	default:
		return &ConfigError{Field: "strategy_type", Reason: fmt.Sprintf("unknown strategy type %d", c.StrategyType)}
	}
	switch c.AllocationMode {
	case ModeFlexible, ModeSourcePinned:
	default:
		return &ConfigError{Field: "allocation_mode", Reason: fmt.Sprintf("unknown allocation mode %d", c.AllocationMode)}
	}
	if c.MaxAllocationPercent.LessThanOrEqual(decimal.Zero) {
		return &ConfigError{Field: "max_allocation_percent", Reason: "must be positive"}
	}
	if c.MinGuaranteePercent.IsNegative() {
		return &ConfigError{Field: "min_guarantee_percent", Reason: "must not be negative"}
	}
	if c.MinAllocationQty.IsNegative() {
		return &ConfigError{Field: "min_allocation_qty", Reason: "must not be negative"}
	}
	if c.UrgentThresholdDays < 0 {
		return &ConfigError{Field: "urgent_threshold_days", Reason: "must not be negative"}
	}

	if c.StrategyType == Hybrid {
		if len(c.Phases) == 0 {
			return &ConfigError{Field: "phases", Reason: "hybrid strategy requires at least one phase"}
		}
		total := decimal.Zero
		for _, phase := range c.Phases {
			switch phase.Kind {
			case PhaseMinGuarantee, PhaseFCFS, PhaseETDPriority, PhaseRevenuePriority, PhaseProportional:
			default:
				return &ConfigError{Field: "phases", Reason: fmt.Sprintf("unknown phase kind %d", phase.Kind)}
			}
			if phase.WeightPercent.IsNegative() {
				return &ConfigError{Field: "phases", Reason: fmt.Sprintf("phase %s has negative weight", phase.Kind)}
			}
			total = total.Add(phase.WeightPercent)
		}
		if total.Sub(hundred).Abs().GreaterThan(weightTolerance) {
			return &ConfigError{
				Field:  "phases",
				Reason: fmt.Sprintf("phase weights must sum to 100, got %s", total),
			}
		}
	}

	return nil
}
