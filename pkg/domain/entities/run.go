package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunStatus tracks where an allocation run sits in its lifecycle
type RunStatus int

const (
	RunDraft RunStatus = iota
	RunSimulated
	RunAdjusted
	RunValidated
	RunCommitted
	RunAbandoned
)

// String method for RunStatus enum
func (s RunStatus) String() string {
	switch s {
	case RunDraft:
		return "Draft"
	case RunSimulated:
		return "Simulated"
	case RunAdjusted:
		return "Adjusted"
	case RunValidated:
		return "Validated"
	case RunCommitted:
		return "Committed"
	case RunAbandoned:
		return "Abandoned"
	default:
		return "Unknown"
	}
}

// AllocationRun is the explicit, serializable state of one operator
// session: the selected scope, the configuration in play, the current
// result set, and the lifecycle status. Engine calls take and return it
// instead of relying on ambient session state.
type AllocationRun struct {
	ID        string              `json:"id"`
	ScopeName string              `json:"scope_name"`
	Scope     Scope               `json:"scope"`
	Config    *StrategyConfig     `json:"config"`
	Results   []*AllocationResult `json:"results,omitempty"`
	Status    RunStatus           `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// NewAllocationRun creates a draft run for the given scope and config
func NewAllocationRun(scopeName string, scope Scope, config *StrategyConfig) *AllocationRun {
	now := time.Now().UTC()
	return &AllocationRun{
		ID:        uuid.NewString(),
		ScopeName: scopeName,
		Scope:     scope,
		Config:    config,
		Status:    RunDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkSimulated stores a fresh result set on the run
func (r *AllocationRun) MarkSimulated(results []*AllocationResult) error {
	if r.Status == RunCommitted || r.Status == RunAbandoned {
		return r.transitionError(RunSimulated)
	}
	r.Results = results
	return r.setStatus(RunSimulated)
}

// MarkAdjusted replaces the result set after operator fine-tuning
func (r *AllocationRun) MarkAdjusted(results []*AllocationResult) error {
	if r.Status != RunSimulated && r.Status != RunAdjusted && r.Status != RunValidated {
		return r.transitionError(RunAdjusted)
	}
	r.Results = results
	return r.setStatus(RunAdjusted)
}

// MarkValidated records a passing validation
func (r *AllocationRun) MarkValidated() error {
	if r.Status != RunSimulated && r.Status != RunAdjusted {
		return r.transitionError(RunValidated)
	}
	return r.setStatus(RunValidated)
}

// MarkCommitted records a successful commit; the run is terminal afterwards
func (r *AllocationRun) MarkCommitted() error {
	if r.Status != RunValidated {
		return r.transitionError(RunCommitted)
	}
	return r.setStatus(RunCommitted)
}

// Abandon discards the run; allowed from any non-terminal state
func (r *AllocationRun) Abandon() error {
	if r.Status == RunCommitted || r.Status == RunAbandoned {
		return r.transitionError(RunAbandoned)
	}
	return r.setStatus(RunAbandoned)
}

func (r *AllocationRun) setStatus(status RunStatus) error {
	r.Status = status
	r.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *AllocationRun) transitionError(to RunStatus) error {
	return fmt.Errorf("run %s: cannot move from %s to %s", r.ID, r.Status, to)
}
