package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/orderalloc/orderalloc/pkg/domain/entities"
)

// Loader handles loading allocation data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadDemandLines loads demand lines from a CSV file
func (l *Loader) LoadDemandLines(filename string) ([]*entities.DemandLine, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open demand file %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read demand CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("demand CSV must have header and at least one data row")
	}

	// Validate header
	expectedHeader := []string{"demand_id", "product_id", "customer_code", "pending_qty", "effective_qty", "current_allocated", "undelivered_allocated", "etd", "order_date", "revenue_value"}
	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("demand CSV header mismatch. Expected: %v, Got: %v", expectedHeader, header)
	}

	var lines []*entities.DemandLine
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("demand CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		line, err := parseDemandLine(record)
		if err != nil {
			return nil, fmt.Errorf("demand CSV row %d: %w", i+2, err)
		}

		lines = append(lines, line)
	}

	return lines, nil
}

// LoadSupply loads product supply totals from a CSV file
func (l *Loader) LoadSupply(filename string) (map[entities.ProductID]decimal.Decimal, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open supply file %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read supply CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("supply CSV must have header and at least one data row")
	}

	// Validate header
	expectedHeader := []string{"product_id", "total_supply"}
	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("supply CSV header mismatch. Expected: %v, Got: %v", expectedHeader, header)
	}

	totals := make(map[entities.ProductID]decimal.Decimal)
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("supply CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		productID := entities.ProductID(strings.TrimSpace(record[0]))
		if productID == "" {
			return nil, fmt.Errorf("supply CSV row %d: product ID cannot be empty", i+2)
		}
		if _, exists := totals[productID]; exists {
			return nil, fmt.Errorf("supply CSV row %d: duplicate product %s", i+2, productID)
		}

		total, err := parseQty(record[1], "total_supply")
		if err != nil {
			return nil, fmt.Errorf("supply CSV row %d: %w", i+2, err)
		}

		totals[productID] = total
	}

	return totals, nil
}

// LoadAdjustments loads operator overrides from a CSV file keyed by
// demand line
func (l *Loader) LoadAdjustments(filename string) (map[entities.DemandID]decimal.Decimal, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open adjustments file %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read adjustments CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("adjustments CSV must have header and at least one data row")
	}

	// Validate header
	expectedHeader := []string{"demand_id", "final_qty"}
	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("adjustments CSV header mismatch. Expected: %v, Got: %v", expectedHeader, header)
	}

	overrides := make(map[entities.DemandID]decimal.Decimal)
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("adjustments CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		demandID := entities.DemandID(strings.TrimSpace(record[0]))
		if demandID == "" {
			return nil, fmt.Errorf("adjustments CSV row %d: demand ID cannot be empty", i+2)
		}

		qty, err := parseQty(record[1], "final_qty")
		if err != nil {
			return nil, fmt.Errorf("adjustments CSV row %d: %w", i+2, err)
		}

		overrides[demandID] = qty
	}

	return overrides, nil
}

// validateHeader checks if the actual header matches expected columns
func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

// parseDemandLine parses a demand line from a CSV record
func parseDemandLine(record []string) (*entities.DemandLine, error) {
	demandID := entities.DemandID(strings.TrimSpace(record[0]))
	productID := entities.ProductID(strings.TrimSpace(record[1]))
	customerCode := entities.CustomerCode(strings.TrimSpace(record[2]))

	pendingQty, err := parseQty(record[3], "pending_qty")
	if err != nil {
		return nil, err
	}

	effectiveQty, err := parseQty(record[4], "effective_qty")
	if err != nil {
		return nil, err
	}

	currentAllocated, err := parseQty(record[5], "current_allocated")
	if err != nil {
		return nil, err
	}

	undeliveredAllocated, err := parseQty(record[6], "undelivered_allocated")
	if err != nil {
		return nil, err
	}

	etd, err := parseDate(record[7], "etd")
	if err != nil {
		return nil, err
	}

	orderDate, err := parseDate(record[8], "order_date")
	if err != nil {
		return nil, err
	}

	revenueValue, err := parseQty(record[9], "revenue_value")
	if err != nil {
		return nil, err
	}

	return entities.NewDemandLine(
		demandID, productID, customerCode,
		pendingQty, effectiveQty, currentAllocated, undeliveredAllocated,
		etd, orderDate,
		revenueValue,
	)
}

// parseQty parses a decimal quantity column
func parseQty(value, column string) (decimal.Decimal, error) {
	qty, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", column, value, err)
	}
	return qty, nil
}

// parseDate parses a YYYY-MM-DD date column
func parseDate(value, column string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: %w", column, value, err)
	}
	return date, nil
}
