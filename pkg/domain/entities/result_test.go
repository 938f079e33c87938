package entities

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testLine(t *testing.T) *DemandLine {
	t.Helper()
	line, err := NewDemandLine(
		"D1", "WIDGET", "CUST_A",
		decimal.NewFromInt(80), decimal.NewFromInt(100),
		decimal.NewFromInt(20), decimal.NewFromInt(10),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(5000),
	)
	if err != nil {
		t.Fatalf("Failed to build demand line: %v", err)
	}
	return line
}

func TestAllocationResult_Coverage(t *testing.T) {
	result := NewAllocationResult(testLine(t), decimal.NewFromInt(60), "FCFS")

	result.SetSuggested(decimal.NewFromInt(40))
	if !result.FinalQty.Equal(decimal.NewFromInt(40)) {
		t.Errorf("Expected final qty to default to suggested, got %s", result.FinalQty)
	}
	if !result.CoveragePercent.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected coverage 50%%, got %s", result.CoveragePercent)
	}

	result.SetFinal(decimal.NewFromInt(80))
	if !result.CoveragePercent.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected coverage 100%% after override, got %s", result.CoveragePercent)
	}
	if !result.SuggestedQty.Equal(decimal.NewFromInt(40)) {
		t.Errorf("Expected suggested qty unchanged by override, got %s", result.SuggestedQty)
	}
}

func TestAllocationResult_ZeroDemandCoverage(t *testing.T) {
	line := testLine(t)
	line.PendingQty = decimal.Zero
	result := NewAllocationResult(line, decimal.Zero, "FCFS")

	result.SetSuggested(decimal.Zero)
	if !result.CoveragePercent.IsZero() {
		t.Errorf("Expected zero coverage for zero demand, got %s", result.CoveragePercent)
	}
}

func TestAllocationResult_CloneIsIndependent(t *testing.T) {
	result := NewAllocationResult(testLine(t), decimal.NewFromInt(60), "FCFS")
	result.AddWarning("original warning")

	clone := result.Clone()
	clone.SetFinal(decimal.NewFromInt(10))
	clone.AddWarning("clone warning")

	if !result.FinalQty.IsZero() {
		t.Errorf("Expected original final qty untouched, got %s", result.FinalQty)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("Expected original warnings untouched, got %v", result.Warnings)
	}
}

func TestNewDemandLine_Validation(t *testing.T) {
	_, err := NewDemandLine("", "WIDGET", "CUST_A",
		decimal.NewFromInt(10), decimal.NewFromInt(10), decimal.Zero, decimal.Zero,
		time.Now(), time.Now(), decimal.Zero)
	if err == nil {
		t.Error("Expected empty demand ID to fail")
	}

	_, err = NewDemandLine("D1", "WIDGET", "CUST_A",
		decimal.NewFromInt(10), decimal.NewFromInt(10),
		decimal.NewFromInt(15), decimal.Zero,
		time.Now(), time.Now(), decimal.Zero)
	if err == nil {
		t.Error("Expected current allocated above effective qty to fail")
	}

	// Undelivered beyond pending is tolerated; the calculators clamp it.
	_, err = NewDemandLine("D1", "WIDGET", "CUST_A",
		decimal.NewFromInt(10), decimal.NewFromInt(10),
		decimal.Zero, decimal.NewFromInt(25),
		time.Now(), time.Now(), decimal.Zero)
	if err != nil {
		t.Errorf("Expected oversized undelivered allocated to be accepted, got %v", err)
	}
}

func TestScope_Matches(t *testing.T) {
	line := testLine(t)

	if !(Scope{}).Matches(line) {
		t.Error("Expected empty scope to match everything")
	}
	if !(Scope{ProductIDs: []ProductID{"WIDGET"}}).Matches(line) {
		t.Error("Expected matching product scope to match")
	}
	if (Scope{ProductIDs: []ProductID{"GADGET"}}).Matches(line) {
		t.Error("Expected non-matching product scope to reject")
	}
	if (Scope{ETDTo: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}).Matches(line) {
		t.Error("Expected ETD window before line ETD to reject")
	}
}
