package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// CommittedAllocation is the persistence payload of one successful
// commit: a header plus one detail row per allocated demand line. The
// store must write all rows in a single atomic transaction.
type CommittedAllocation struct {
	AllocationNumber string            `json:"allocation_number"`
	ActorID          string            `json:"actor_id"`
	StrategySource   string            `json:"strategy_source"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	CommittedAt      time.Time         `json:"committed_at"`
	Details          []CommittedDetail `json:"details"`
}

// CommittedDetail is one allocated demand line inside a commit
type CommittedDetail struct {
	DemandID  DemandID        `json:"demand_id"`
	ProductID ProductID       `json:"product_id"`
	Qty       decimal.Decimal `json:"qty"`
}

// TotalAllocated sums the detail quantities
func (a *CommittedAllocation) TotalAllocated() decimal.Decimal {
	total := decimal.Zero
	for _, detail := range a.Details {
		total = total.Add(detail.Qty)
	}
	return total
}
