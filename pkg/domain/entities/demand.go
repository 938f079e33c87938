package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DemandID uniquely identifies a pending order line
type DemandID string

// ProductID uniquely identifies a product
type ProductID string

// CustomerCode identifies the customer that owns a demand line
type CustomerCode string

// DemandLine represents one pending order line eligible for allocation.
// All quantities are expressed in the product's canonical unit of measure.
type DemandLine struct {
	DemandID     DemandID     `json:"demand_id"`
	ProductID    ProductID    `json:"product_id"`
	CustomerCode CustomerCode `json:"customer_code"`

	// PendingQty is what is still owed to the customer.
	PendingQty decimal.Decimal `json:"pending_qty"`
	// EffectiveQty is the line's total quota after cancellations.
	EffectiveQty decimal.Decimal `json:"effective_qty"`
	// CurrentAllocated is already committed against the quota.
	CurrentAllocated decimal.Decimal `json:"current_allocated"`
	// UndeliveredAllocated is committed but not yet delivered. Upstream
	// bookkeeping may leave this outside [0, PendingQty]; consumers clamp.
	UndeliveredAllocated decimal.Decimal `json:"undelivered_allocated"`

	ETD          time.Time       `json:"etd"`
	OrderDate    time.Time       `json:"order_date"`
	RevenueValue decimal.Decimal `json:"revenue_value"`
}

// NewDemandLine creates a validated DemandLine
func NewDemandLine(
	demandID DemandID,
	productID ProductID,
	customerCode CustomerCode,
	pendingQty, effectiveQty, currentAllocated, undeliveredAllocated decimal.Decimal,
	etd, orderDate time.Time,
	revenueValue decimal.Decimal,
) (*DemandLine, error) {
	if demandID == "" {
		return nil, fmt.Errorf("demand ID cannot be empty")
	}
	if productID == "" {
		return nil, fmt.Errorf("product ID cannot be empty")
	}
	if pendingQty.IsNegative() {
		return nil, fmt.Errorf("pending qty must not be negative, got %s", pendingQty)
	}
	if effectiveQty.IsNegative() {
		return nil, fmt.Errorf("effective qty must not be negative, got %s", effectiveQty)
	}
	if currentAllocated.IsNegative() {
		return nil, fmt.Errorf("current allocated must not be negative, got %s", currentAllocated)
	}
	if currentAllocated.GreaterThan(effectiveQty) {
		return nil, fmt.Errorf("current allocated %s exceeds effective qty %s", currentAllocated, effectiveQty)
	}

	return &DemandLine{
		DemandID:             demandID,
		ProductID:            productID,
		CustomerCode:         customerCode,
		PendingQty:           pendingQty,
		EffectiveQty:         effectiveQty,
		CurrentAllocated:     currentAllocated,
		UndeliveredAllocated: undeliveredAllocated,
		ETD:                  etd,
		OrderDate:            orderDate,
		RevenueValue:         revenueValue,
	}, nil
}

// Scope describes the filter criteria used to select demand lines for a run
type Scope struct {
	ProductIDs    []ProductID    `json:"product_ids,omitempty"`
	CustomerCodes []CustomerCode `json:"customer_codes,omitempty"`
	ETDFrom       time.Time      `json:"etd_from,omitempty"`
	ETDTo         time.Time      `json:"etd_to,omitempty"`
}

// IsEmpty reports whether the scope carries no filter criteria at all
func (s Scope) IsEmpty() bool {
	return len(s.ProductIDs) == 0 && len(s.CustomerCodes) == 0 &&
		s.ETDFrom.IsZero() && s.ETDTo.IsZero()
}

// Matches reports whether a demand line falls inside the scope
func (s Scope) Matches(line *DemandLine) bool {
	if len(s.ProductIDs) > 0 && !containsProduct(s.ProductIDs, line.ProductID) {
		return false
	}
	if len(s.CustomerCodes) > 0 && !containsCustomer(s.CustomerCodes, line.CustomerCode) {
		return false
	}
	if !s.ETDFrom.IsZero() && line.ETD.Before(s.ETDFrom) {
		return false
	}
	if !s.ETDTo.IsZero() && line.ETD.After(s.ETDTo) {
		return false
	}
	return true
}

func containsProduct(ids []ProductID, id ProductID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func containsCustomer(codes []CustomerCode, code CustomerCode) bool {
	for _, candidate := range codes {
		if candidate == code {
			return true
		}
	}
	return false
}
