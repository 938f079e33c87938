package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/orderalloc/orderalloc/pkg/application/dto"
	"github.com/orderalloc/orderalloc/pkg/domain/entities"
)

// Config holds configuration for output generation
type Config struct {
	Format         string
	OutputDir      string
	Verbose        bool
	SimulationTime time.Duration
}

// Report bundles everything one allocation round produced
type Report struct {
	Results    []*entities.AllocationResult `json:"results"`
	Summaries  []dto.ProductSummary         `json:"product_summaries"`
	Validation *dto.ValidationReport        `json:"validation,omitempty"`
	Receipt    *dto.CommitReceipt           `json:"receipt,omitempty"`
}

// Generate creates output in the specified format
func Generate(report *Report, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(report, config)
	case "json":
		return generateJSONOutput(report, config)
	case "csv":
		return generateCSVOutput(report, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(report *Report, config Config) error {
	fmt.Printf("📊 Allocation Results Summary\n")
	fmt.Printf("=============================\n\n")

	fmt.Printf("Demand Lines: %d\n", len(report.Results))
	fmt.Printf("Products: %d\n", len(report.Summaries))
	if config.SimulationTime > 0 {
		fmt.Printf("Simulation Time: %v\n", config.SimulationTime)
	}
	fmt.Println()

	if len(report.Results) > 0 {
		fmt.Printf("📋 Allocations:\n")
		fmt.Printf("%-12s %-15s %-10s %-12s %-10s %-10s %-10s %-9s\n",
			"Demand", "Product", "Customer", "ETD", "Pending", "Suggested", "Final", "Coverage")
		fmt.Printf("%-12s %-15s %-10s %-12s %-10s %-10s %-10s %-9s\n",
			"------------", "---------------", "----------", "------------", "----------", "----------", "----------", "---------")

		for _, result := range report.Results {
			fmt.Printf("%-12s %-15s %-10s %-12s %-10s %-10s %-10s %8s%%\n",
				result.DemandID,
				result.ProductID,
				result.CustomerCode,
				result.ETD.Format("2006-01-02"),
				result.DemandQty,
				result.SuggestedQty,
				result.FinalQty,
				result.CoveragePercent.StringFixed(1))
		}
		fmt.Println()
	}

	if len(report.Summaries) > 0 {
		fmt.Printf("📦 Product Supply:\n")
		fmt.Printf("%-15s %-10s %-10s %-10s %-10s %-10s %-9s\n",
			"Product", "Supply", "Committed", "Available", "Demand", "Allocated", "Coverage")
		fmt.Printf("%-15s %-10s %-10s %-10s %-10s %-10s %-9s\n",
			"---------------", "----------", "----------", "----------", "----------", "----------", "---------")

		for _, summary := range report.Summaries {
			fmt.Printf("%-15s %-10s %-10s %-10s %-10s %-10s %8s%%\n",
				summary.ProductID,
				summary.TotalSupply,
				summary.Committed,
				summary.Available,
				summary.TotalDemand,
				summary.TotalAllocated,
				summary.CoveragePercent.StringFixed(1))
		}
		fmt.Println()
	}

	warned := 0
	for _, result := range report.Results {
		warned += len(result.Warnings)
	}
	if warned > 0 {
		fmt.Printf("⚠️  Warnings:\n")
		for _, result := range report.Results {
			for _, warning := range result.Warnings {
				fmt.Printf("  %s: %s\n", result.DemandID, warning)
			}
		}
		fmt.Println()
	}

	if report.Validation != nil {
		printValidation(report.Validation)
	}

	if report.Receipt != nil {
		fmt.Printf("✅ Committed %s: %d lines, %s units total\n",
			report.Receipt.AllocationNumber,
			report.Receipt.DetailCount,
			report.Receipt.TotalAllocated)
	}

	return nil
}

func printValidation(report *dto.ValidationReport) {
	if report.Valid {
		fmt.Printf("✅ Validation passed\n")
	} else {
		fmt.Printf("❌ Validation failed\n")
	}
	for _, err := range report.Errors {
		fmt.Printf("  error: %s\n", err)
	}
	for demandID, errs := range report.RowErrors {
		for _, err := range errs {
			fmt.Printf("  %s: %s\n", demandID, err)
		}
	}
	for _, warning := range report.Warnings {
		fmt.Printf("  warning: %s\n", warning)
	}
	fmt.Println()
}

// generateJSONOutput creates JSON output
func generateJSONOutput(report *Report, config Config) error {
	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Println(string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "allocation_results.json")
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Printf("💾 JSON results saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput creates CSV output files
func generateCSVOutput(report *Report, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	resultsFile := filepath.Join(config.OutputDir, "allocations.csv")
	if err := writeResultsCSV(report.Results, resultsFile); err != nil {
		return fmt.Errorf("failed to write allocations CSV: %w", err)
	}

	summaryFile := filepath.Join(config.OutputDir, "product_summary.csv")
	if err := writeSummaryCSV(report.Summaries, summaryFile); err != nil {
		return fmt.Errorf("failed to write product summary CSV: %w", err)
	}

	if config.Verbose {
		fmt.Printf("💾 CSV results saved to:\n")
		fmt.Printf("  Allocations: %s\n", resultsFile)
		fmt.Printf("  Product Summary: %s\n", summaryFile)
	}
	return nil
}

func writeResultsCSV(results []*entities.AllocationResult, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"demand_id", "product_id", "customer_code", "etd", "pending_qty", "max_allocatable", "suggested_qty", "final_qty", "coverage_percent", "warnings"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, result := range results {
		warnings := ""
		for i, warning := range result.Warnings {
			if i > 0 {
				warnings += "; "
			}
			warnings += warning
		}
		record := []string{
			string(result.DemandID),
			string(result.ProductID),
			string(result.CustomerCode),
			result.ETD.Format("2006-01-02"),
			result.DemandQty.String(),
			result.MaxAllocatable.String(),
			result.SuggestedQty.String(),
			result.FinalQty.String(),
			result.CoveragePercent.StringFixed(2),
			warnings,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func writeSummaryCSV(summaries []dto.ProductSummary, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"product_id", "total_supply", "committed", "available", "total_demand", "total_allocated", "coverage_percent", "line_count", "allocated_lines"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, summary := range summaries {
		record := []string{
			string(summary.ProductID),
			summary.TotalSupply.String(),
			summary.Committed.String(),
			summary.Available.String(),
			summary.TotalDemand.String(),
			summary.TotalAllocated.String(),
			summary.CoveragePercent.StringFixed(2),
			fmt.Sprintf("%d", summary.LineCount),
			fmt.Sprintf("%d", summary.AllocatedLines),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}
