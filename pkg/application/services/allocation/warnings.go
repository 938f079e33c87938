package allocation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/orderalloc/orderalloc/pkg/domain/entities"
)

// Warning text builders. Warnings are descriptive, collected rather than
// thrown, and never abort a run on their own.

func warnOverCommitted(productID entities.ProductID, available decimal.Decimal) string {
	return fmt.Sprintf("product %s is over-committed: available supply is %s", productID, available)
}

func warnNoSupply(productID entities.ProductID) string {
	return fmt.Sprintf("no supply remaining for product %s", productID)
}

func warnPartialSupply(allocated, needed decimal.Decimal) string {
	return fmt.Sprintf("insufficient supply: allocated %s of %s needed", allocated, needed)
}

func warnAdjustedUp(from, to decimal.Decimal) string {
	return fmt.Sprintf("manual adjustment increased quantity from %s to %s", from, to)
}

func warnAdjustedDown(from, to decimal.Decimal) string {
	return fmt.Sprintf("manual adjustment decreased quantity from %s to %s", from, to)
}

func warnProductExceeded(productID entities.ProductID, total, available decimal.Decimal) string {
	return fmt.Sprintf("allocations for product %s total %s, exceeding available supply %s",
		productID, total, available)
}

func warnUrgent(days int, coverage decimal.Decimal) string {
	return fmt.Sprintf("ETD within %d days with coverage at %s%%", days, coverage.Round(2))
}
