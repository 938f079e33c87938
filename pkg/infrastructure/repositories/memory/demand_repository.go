package memory

import (
	"context"

	"github.com/orderalloc/orderalloc/pkg/domain/entities"
	"github.com/orderalloc/orderalloc/pkg/domain/repositories"
)

// DemandRepository provides in-memory demand line storage
type DemandRepository struct {
	lines []*entities.DemandLine
}

// NewDemandRepository creates a new in-memory demand repository
func NewDemandRepository() *DemandRepository {
	return &DemandRepository{}
}

// Verify interface compliance
var _ repositories.DemandRepository = (*DemandRepository)(nil)

// LoadDemandLines loads demand lines into the repository
func (r *DemandRepository) LoadDemandLines(lines []*entities.DemandLine) {
	r.lines = append(r.lines, lines...)
}

// GetDemandLines returns the demand lines matching the scope, in load order
func (r *DemandRepository) GetDemandLines(_ context.Context, scope entities.Scope) ([]*entities.DemandLine, error) {
	var matched []*entities.DemandLine
	for _, line := range r.lines {
		if scope.Matches(line) {
			matched = append(matched, line)
		}
	}
	return matched, nil
}
