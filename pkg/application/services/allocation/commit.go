package allocation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orderalloc/orderalloc/pkg/application/dto"
	"github.com/orderalloc/orderalloc/pkg/domain/entities"
	"github.com/orderalloc/orderalloc/pkg/domain/repositories"
	"github.com/orderalloc/orderalloc/pkg/domain/services"
)

// Committer turns a validated result set into one persisted allocation.
// The snapshot a simulation ran against may be stale by the time the
// operator commits, so the committer re-reads supply and demand through
// its providers, re-runs the full row-level validation against the
// fresh numbers, and only then hands the store one atomic write. A
// supply shortfall aborts the whole commit with a StaleSupplyError, any
// other row failure aborts with a re-validation error, and in both
// cases nothing is persisted.
type Committer struct {
	demand repositories.DemandRepository
	supply repositories.SupplyRepository
	store  repositories.AllocationStore
	logger *slog.Logger
	now    func() time.Time
}

// NewCommitter creates a committer over the given collaborators
func NewCommitter(
	demand repositories.DemandRepository,
	supply repositories.SupplyRepository,
	store repositories.AllocationStore,
	logger *slog.Logger,
) *Committer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Committer{
		demand: demand,
		supply: supply,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Commit re-runs the row-level validation against freshly read demand
// and supply, then persists the result set as a single allocation.
// Results with zero final quantity are skipped; they carry nothing to
// persist.
func (c *Committer) Commit(
	ctx context.Context,
	results []*entities.AllocationResult,
	cfg *entities.StrategyConfig,
	metadata map[string]string,
	actorID string,
) (*dto.CommitReceipt, error) {
	details := collectDetails(results)
	if len(details) == 0 {
		return nil, entities.ErrScopeEmpty
	}

	productIDs := detailProducts(details)

	supplies, freshLines, err := c.freshSupplies(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	if err := recheckAvailability(results, supplies); err != nil {
		c.logger.WarnContext(ctx, "commit aborted on stale supply", "error", err)
		return nil, err
	}

	if err := recheckRows(results, freshLines, supplies, cfg); err != nil {
		c.logger.WarnContext(ctx, "commit aborted on re-validation", "error", err)
		return nil, err
	}

	allocation := &entities.CommittedAllocation{
		AllocationNumber: newAllocationNumber(c.now()),
		ActorID:          actorID,
		StrategySource:   strategySource(results),
		Metadata:         metadata,
		CommittedAt:      c.now().UTC(),
		Details:          details,
	}

	if err := c.store.SaveAllocation(ctx, allocation); err != nil {
		return nil, fmt.Errorf("failed to persist allocation %s: %w", allocation.AllocationNumber, err)
	}

	total := allocation.TotalAllocated()
	c.logger.InfoContext(ctx, "allocation committed",
		"allocation_number", allocation.AllocationNumber,
		"details", len(details),
		"total", total,
	)

	return &dto.CommitReceipt{
		AllocationNumber: allocation.AllocationNumber,
		DetailCount:      len(details),
		TotalAllocated:   total,
	}, nil
}

// freshSupplies re-reads supply totals and current demand for the
// affected products and recomputes availability with the commitment
// formula used at simulation time. The fresh lines are returned too so
// the row checks run against current quota and delivery state.
func (c *Committer) freshSupplies(
	ctx context.Context,
	productIDs []entities.ProductID,
) (entities.SupplyMap, []*entities.DemandLine, error) {
	totals, err := c.supply.GetSupplyByProducts(ctx, productIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to re-read supply: %w", err)
	}

	lines, err := c.demand.GetDemandLines(ctx, entities.Scope{ProductIDs: productIDs})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to re-read demand: %w", err)
	}

	return services.BuildSupplySnapshots(totals, lines), lines, nil
}

// recheckAvailability walks the results per product, consuming the fresh
// availability sequentially; the first shortfall aborts the commit.
func recheckAvailability(results []*entities.AllocationResult, supplies entities.SupplyMap) error {
	remaining := make(map[entities.ProductID]decimal.Decimal)

	for _, result := range results {
		if !result.FinalQty.IsPositive() {
			continue
		}

		pool, ok := remaining[result.ProductID]
		if !ok {
			pool = supplies.Get(result.ProductID).AvailableOrZero()
		}

		if result.FinalQty.GreaterThan(pool) {
			return &entities.StaleSupplyError{
				ProductID: result.ProductID,
				Required:  result.FinalQty,
				Available: pool,
			}
		}
		remaining[result.ProductID] = pool.Sub(result.FinalQty)
	}

	return nil
}

// recheckRows re-runs the validator's row pass against the freshly read
// demand lines, so a quota or delivery balance consumed by a concurrent
// commit is caught before anything is written.
func recheckRows(
	results []*entities.AllocationResult,
	freshLines []*entities.DemandLine,
	supplies entities.SupplyMap,
	cfg *entities.StrategyConfig,
) error {
	report := dto.NewValidationReport()

	linesByID := make(map[entities.DemandID]*entities.DemandLine, len(freshLines))
	for _, line := range freshLines {
		linesByID[line.DemandID] = line
	}

	remaining := make(map[entities.ProductID]decimal.Decimal)
	for _, result := range results {
		if !result.FinalQty.IsPositive() {
			continue
		}
		validateRow(report, result, linesByID, supplies, remaining, cfg)
	}

	if report.Valid {
		return nil
	}

	var failures []string
	for demandID, errs := range report.RowErrors {
		for _, msg := range errs {
			failures = append(failures, fmt.Sprintf("%s: %s", demandID, msg))
		}
	}
	sort.Strings(failures)
	return fmt.Errorf("commit re-validation failed: %s", strings.Join(failures, "; "))
}

func collectDetails(results []*entities.AllocationResult) []entities.CommittedDetail {
	var details []entities.CommittedDetail
	for _, result := range results {
		if result.FinalQty.IsPositive() {
			details = append(details, entities.CommittedDetail{
				DemandID:  result.DemandID,
				ProductID: result.ProductID,
				Qty:       result.FinalQty,
			})
		}
	}
	return details
}

func detailProducts(details []entities.CommittedDetail) []entities.ProductID {
	seen := make(map[entities.ProductID]bool)
	var ids []entities.ProductID
	for _, detail := range details {
		if !seen[detail.ProductID] {
			seen[detail.ProductID] = true
			ids = append(ids, detail.ProductID)
		}
	}
	return ids
}

func strategySource(results []*entities.AllocationResult) string {
	for _, result := range results {
		if result.StrategySource != "" {
			return result.StrategySource
		}
	}
	return ""
}

func newAllocationNumber(at time.Time) string {
	return fmt.Sprintf("AL-%s-%s", at.UTC().Format("20060102"), uuid.NewString()[:8])
}
