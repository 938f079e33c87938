package memory

import (
	"context"

	"github.com/orderalloc/orderalloc/pkg/domain/entities"
	"github.com/orderalloc/orderalloc/pkg/domain/repositories"
)

// AllocationStore keeps committed allocations in memory. FailWith makes
// the next save fail, for exercising abort paths.
type AllocationStore struct {
	saved   []*entities.CommittedAllocation
	nextErr error
}

// NewAllocationStore creates a new in-memory allocation store
func NewAllocationStore() *AllocationStore {
	return &AllocationStore{}
}

// Verify interface compliance
var _ repositories.AllocationStore = (*AllocationStore)(nil)

// SaveAllocation records the allocation, or returns the injected error
func (s *AllocationStore) SaveAllocation(_ context.Context, allocation *entities.CommittedAllocation) error {
	if s.nextErr != nil {
		err := s.nextErr
		s.nextErr = nil
		return err
	}
	s.saved = append(s.saved, allocation)
	return nil
}

// FailWith makes the next SaveAllocation call return err
func (s *AllocationStore) FailWith(err error) {
	s.nextErr = err
}

// Saved returns every allocation stored so far
func (s *AllocationStore) Saved() []*entities.CommittedAllocation {
	return s.saved
}
