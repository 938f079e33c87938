package repositories

import (
	"context"

	"github.com/orderalloc/orderalloc/pkg/domain/entities"
)

// AllocationStore persists committed allocations. SaveAllocation must
// write the header and every detail row in one atomic transaction: all
// rows succeed or none do.
type AllocationStore interface {
	SaveAllocation(ctx context.Context, allocation *entities.CommittedAllocation) error
}
