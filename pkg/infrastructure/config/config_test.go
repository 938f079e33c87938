package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderalloc/orderalloc/pkg/domain/entities"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
storage:
  database_path: /var/lib/alloc/alloc.db
logging:
  level: debug
  format: json
strategy:
  type: HYBRID
  mode: FLEXIBLE
  min_guarantee_percent: "20"
  urgent_threshold_days: 7
  max_allocation_percent: "110"
  min_allocation_qty: "0.5"
  phases:
    - kind: MIN_GUARANTEE
      weight_percent: "30"
    - kind: PROPORTIONAL
      weight_percent: "70"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/alloc/alloc.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "debug", cfg.Logging.Level)

	strategy, err := cfg.Strategy.ToStrategyConfig()
	require.NoError(t, err)
	assert.Equal(t, entities.Hybrid, strategy.StrategyType)
	assert.Equal(t, entities.ModeFlexible, strategy.AllocationMode)
	assert.Equal(t, 7, strategy.UrgentThresholdDays)
	assert.True(t, strategy.MinGuaranteePercent.Equal(decimal.NewFromInt(20)))
	assert.True(t, strategy.MaxAllocationPercent.Equal(decimal.NewFromInt(110)))
	assert.True(t, strategy.MinAllocationQty.Equal(decimal.RequireFromString("0.5")))
	require.Len(t, strategy.Phases, 2)
	assert.Equal(t, entities.PhaseMinGuarantee, strategy.Phases[0].Kind)
	assert.Equal(t, entities.PhaseProportional, strategy.Phases[1].Kind)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
strategy:
  type: PROPORTIONAL
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "allocations.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)

	strategy, err := cfg.Strategy.ToStrategyConfig()
	require.NoError(t, err)
	assert.Equal(t, entities.Proportional, strategy.StrategyType)
	assert.True(t, strategy.MaxAllocationPercent.Equal(decimal.NewFromInt(100)))
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("ALLOC_DB_PATH", "env.db")
	path := writeConfig(t, `
storage:
  database_path: ${ALLOC_DB_PATH}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env.db", cfg.Storage.DatabasePath)
}

func TestToStrategyConfig_Errors(t *testing.T) {
	tests := []struct {
		name     string
		strategy StrategyConfig
		wantErr  string
	}{
		{
			name:     "unknown strategy type",
			strategy: StrategyConfig{Type: "ROUND_ROBIN"},
			wantErr:  "strategy type",
		},
		{
			name:     "unknown mode",
			strategy: StrategyConfig{Type: "FCFS", Mode: "PINNED-ISH"},
			wantErr:  "allocation mode",
		},
		{
			name: "bad phase weight",
			strategy: StrategyConfig{
				Type:   "HYBRID",
				Phases: []PhaseConfig{{Kind: "FCFS", WeightPercent: "lots"}},
			},
			wantErr: "phase 1",
		},
		{
			name: "weights do not sum to 100",
			strategy: StrategyConfig{
				Type:   "HYBRID",
				Phases: []PhaseConfig{{Kind: "FCFS", WeightPercent: "60"}},
			},
			wantErr: "phase weights",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.strategy.ToStrategyConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
