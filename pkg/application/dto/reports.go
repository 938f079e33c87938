package dto

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/orderalloc/orderalloc/pkg/domain/entities"
)

// ValidationReport is the outcome of the pre-commit validation passes
type ValidationReport struct {
	Valid     bool                           `json:"valid"`
	Errors    []string                       `json:"errors,omitempty"`
	RowErrors map[entities.DemandID][]string `json:"row_errors,omitempty"`
	Warnings  []string                       `json:"warnings,omitempty"`
}

// NewValidationReport creates an empty, passing report
func NewValidationReport() *ValidationReport {
	return &ValidationReport{
		Valid:     true,
		RowErrors: make(map[entities.DemandID][]string),
	}
}

// AddError records an aggregate-level failure
func (r *ValidationReport) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Valid = false
}

// AddRowError records a per-line failure; other lines keep validating
func (r *ValidationReport) AddRowError(demandID entities.DemandID, msg string) {
	r.RowErrors[demandID] = append(r.RowErrors[demandID], msg)
	r.Valid = false
}

// AddWarning records a non-blocking observation
func (r *ValidationReport) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// CommitReceipt summarizes one successful commit
type CommitReceipt struct {
	AllocationNumber string          `json:"allocation_number"`
	DetailCount      int             `json:"detail_count"`
	TotalAllocated   decimal.Decimal `json:"total_allocated"`
}

// ProductSummary is a per-product rollup of one simulation for reporting
type ProductSummary struct {
	ProductID       entities.ProductID `json:"product_id"`
	TotalSupply     decimal.Decimal    `json:"total_supply"`
	Committed       decimal.Decimal    `json:"committed"`
	Available       decimal.Decimal    `json:"available"`
	TotalDemand     decimal.Decimal    `json:"total_demand"`
	TotalAllocated  decimal.Decimal    `json:"total_allocated"`
	CoveragePercent decimal.Decimal    `json:"coverage_percent"`
	LineCount       int                `json:"line_count"`
	AllocatedLines  int                `json:"allocated_lines"`
}

// Summarize rolls allocation results up per product, in product order
func Summarize(results []*entities.AllocationResult, supplies entities.SupplyMap) []ProductSummary {
	byProduct := make(map[entities.ProductID]*ProductSummary)

	for _, result := range results {
		summary, ok := byProduct[result.ProductID]
		if !ok {
			snap := supplies.Get(result.ProductID)
			summary = &ProductSummary{
				ProductID:      result.ProductID,
				TotalSupply:    snap.TotalSupply,
				Committed:      snap.Committed,
				Available:      snap.Available(),
				TotalDemand:    decimal.Zero,
				TotalAllocated: decimal.Zero,
			}
			byProduct[result.ProductID] = summary
		}

		summary.TotalDemand = summary.TotalDemand.Add(result.DemandQty)
		summary.TotalAllocated = summary.TotalAllocated.Add(result.FinalQty)
		summary.LineCount++
		if result.FinalQty.IsPositive() {
			summary.AllocatedLines++
		}
	}

	summaries := make([]ProductSummary, 0, len(byProduct))
	for _, summary := range byProduct {
		if summary.TotalDemand.IsPositive() {
			summary.CoveragePercent = summary.TotalAllocated.
				Div(summary.TotalDemand).
				Mul(decimal.NewFromInt(100))
		}
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ProductID < summaries[j].ProductID
	})

	return summaries
}
