package entities

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrScopeEmpty signals a run attempted with no demand lines or no
// filter criteria. Surfaced to the caller, never retried.
var ErrScopeEmpty = errors.New("allocation scope is empty")

// ConfigError reports an invalid strategy configuration. It is fatal and
// raised before any allocation runs.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// StaleSupplyError reports that commit-time re-validation found less
// supply than the simulation assumed. The entire commit aborts; the
// caller must re-simulate against a fresh snapshot.
type StaleSupplyError struct {
	ProductID ProductID
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *StaleSupplyError) Error() string {
	return fmt.Sprintf("stale supply for product %s: need %s, only %s available",
		e.ProductID, e.Required, e.Available)
}
