package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/orderalloc/orderalloc/pkg/domain/entities"
	"github.com/orderalloc/orderalloc/pkg/domain/repositories"
)

// SupplyRepository provides in-memory supply totals. SetSupply mutates
// the totals between reads, which lets tests and demos reproduce supply
// consumed by concurrent allocations.
type SupplyRepository struct {
	totals map[entities.ProductID]decimal.Decimal
}

// NewSupplyRepository creates a new in-memory supply repository
func NewSupplyRepository() *SupplyRepository {
	return &SupplyRepository{
		totals: make(map[entities.ProductID]decimal.Decimal),
	}
}

// Verify interface compliance
var _ repositories.SupplyRepository = (*SupplyRepository)(nil)

// SetSupply records the total supply for a product
func (r *SupplyRepository) SetSupply(productID entities.ProductID, total decimal.Decimal) {
	r.totals[productID] = total
}

// GetSupplyByProducts returns the current totals for the given products
func (r *SupplyRepository) GetSupplyByProducts(
	_ context.Context,
	productIDs []entities.ProductID,
) (map[entities.ProductID]decimal.Decimal, error) {
	result := make(map[entities.ProductID]decimal.Decimal, len(productIDs))
	for _, id := range productIDs {
		if total, ok := r.totals[id]; ok {
			result[id] = total
		}
	}
	return result, nil
}
