package repositories

import (
	"context"

	"github.com/orderalloc/orderalloc/pkg/domain/entities"
)

// DemandRepository provides access to pending demand lines
type DemandRepository interface {
	GetDemandLines(ctx context.Context, scope entities.Scope) ([]*entities.DemandLine, error)
}
