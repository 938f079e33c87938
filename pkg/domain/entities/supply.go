package entities

import (
	"sort"

	"github.com/shopspring/decimal"
)

// SupplySnapshot captures a product's supply position at simulation time.
// It is immutable for the duration of one simulation; commit re-reads a
// fresh snapshot before writing.
type SupplySnapshot struct {
	ProductID   ProductID       `json:"product_id"`
	TotalSupply decimal.Decimal `json:"total_supply"`
	Committed   decimal.Decimal `json:"committed"`
}

// Available returns supply not yet committed. The result may be negative
// when commitments exceed physical supply; callers treat negative
// availability as zero remaining capacity, not as an error.
func (s *SupplySnapshot) Available() decimal.Decimal {
	return s.TotalSupply.Sub(s.Committed)
}

// AvailableOrZero returns Available clamped at zero
func (s *SupplySnapshot) AvailableOrZero() decimal.Decimal {
	avail := s.Available()
	if avail.IsNegative() {
		return decimal.Zero
	}
	return avail
}

// OverCommitted reports whether commitments exceed physical supply
func (s *SupplySnapshot) OverCommitted() bool {
	return s.Available().IsNegative()
}

// SupplyMap indexes supply snapshots by product
type SupplyMap map[ProductID]*SupplySnapshot

// Get returns the snapshot for a product, or an empty snapshot when the
// product has no recorded supply
func (m SupplyMap) Get(productID ProductID) *SupplySnapshot {
	if snap, ok := m[productID]; ok {
		return snap
	}
	return &SupplySnapshot{ProductID: productID}
}

// ProductIDs returns all product IDs in deterministic order
func (m SupplyMap) ProductIDs() []ProductID {
	ids := make([]ProductID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
