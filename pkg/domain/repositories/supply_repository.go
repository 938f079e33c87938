package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/orderalloc/orderalloc/pkg/domain/entities"
)

// SupplyRepository provides per-product total supply figures. Commit
// re-reads through this interface to catch supply consumed since the
// simulation snapshot was taken.
type SupplyRepository interface {
	GetSupplyByProducts(ctx context.Context, productIDs []entities.ProductID) (map[entities.ProductID]decimal.Decimal, error)
}
