package entities

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestStrategyConfig_Defaults(t *testing.T) {
	cfg := NewStrategyConfig(FCFS)

	if !cfg.MaxAllocationPercent.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected default max allocation percent 100, got %s", cfg.MaxAllocationPercent)
	}
	if cfg.AllocationMode != ModeFlexible {
		t.Errorf("Expected default mode FLEXIBLE, got %s", cfg.AllocationMode)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected default config to validate, got %v", err)
	}
}

func TestStrategyConfig_HybridWeightSum(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		wantErr bool
	}{
		{"exact 100", []float64{30, 70}, false},
		{"within tolerance", []float64{33.33, 33.33, 33.335}, false},
		{"sums to 95", []float64{30, 65}, true},
		{"sums to 105", []float64{40, 65}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewStrategyConfig(Hybrid)
			for _, w := range tt.weights {
				cfg.Phases = append(cfg.Phases, Phase{
					Kind:          PhaseFCFS,
					WeightPercent: decimal.NewFromFloat(w),
				})
			}

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Errorf("Expected weight sum validation to fail for %v", tt.weights)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected weights %v to validate, got %v", tt.weights, err)
			}
			if tt.wantErr {
				var cfgErr *ConfigError
				if !errors.As(err, &cfgErr) {
					t.Errorf("Expected *ConfigError, got %T", err)
				}
			}
		})
	}
}

func TestStrategyConfig_HybridRequiresPhases(t *testing.T) {
	cfg := NewStrategyConfig(Hybrid)
	if err := cfg.Validate(); err == nil {
		t.Error("Expected hybrid config without phases to fail validation")
	}
}

func TestStrategyConfig_RejectsBadValues(t *testing.T) {
	cfg := NewStrategyConfig(FCFS)
	cfg.MaxAllocationPercent = decimal.Zero
	if err := cfg.Validate(); err == nil {
		t.Error("Expected zero max allocation percent to fail validation")
	}

	cfg = NewStrategyConfig(Proportional)
	cfg.MinAllocationQty = decimal.NewFromInt(-1)
	if err := cfg.Validate(); err == nil {
		t.Error("Expected negative min allocation qty to fail validation")
	}
}

func TestParseStrategyType(t *testing.T) {
	for _, name := range []string{"FCFS", "ETD_PRIORITY", "PROPORTIONAL", "REVENUE_PRIORITY", "HYBRID"} {
		parsed, err := ParseStrategyType(name)
		if err != nil {
			t.Fatalf("Failed to parse strategy %s: %v", name, err)
		}
		if parsed.String() != name {
			t.Errorf("Expected round-trip %s, got %s", name, parsed)
		}
	}

	if _, err := ParseStrategyType("LIFO"); err == nil {
		t.Error("Expected unknown strategy name to fail")
	}
}

func TestParsePhaseKind(t *testing.T) {
	parsed, err := ParsePhaseKind("MIN_GUARANTEE")
	if err != nil {
		t.Fatalf("Failed to parse phase: %v", err)
	}
	if parsed != PhaseMinGuarantee {
		t.Errorf("Expected MIN_GUARANTEE, got %s", parsed)
	}

	if _, err := ParsePhaseKind("BOGUS"); err == nil {
		t.Error("Expected unknown phase name to fail")
	}
}
