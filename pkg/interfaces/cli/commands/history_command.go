package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/orderalloc/orderalloc/pkg/infrastructure/storage"
)

// HistoryConfig holds configuration for the history command
type HistoryConfig struct {
	DBPath           string
	Since            string
	AllocationNumber string
}

// HistoryCommand lists or inspects committed allocations
type HistoryCommand struct {
	config HistoryConfig
}

// NewHistoryCommand creates a new history command with the given configuration
func NewHistoryCommand(config HistoryConfig) *HistoryCommand {
	return &HistoryCommand{
		config: config,
	}
}

// Execute runs the history command
func (c *HistoryCommand) Execute(ctx context.Context) error {
	if c.config.DBPath == "" {
		return fmt.Errorf("database path is required (use -db)")
	}

	store, err := storage.NewStore(c.config.DBPath)
	if err != nil {
		return fmt.Errorf("error opening allocation store: %w", err)
	}
	defer store.Close()

	if c.config.AllocationNumber != "" {
		return c.showAllocation(ctx, store)
	}
	return c.listAllocations(ctx, store)
}

func (c *HistoryCommand) showAllocation(ctx context.Context, store *storage.Store) error {
	allocation, err := store.GetAllocation(ctx, c.config.AllocationNumber)
	if err != nil {
		return err
	}

	fmt.Printf("Allocation %s\n", allocation.AllocationNumber)
	fmt.Printf("  Actor:     %s\n", allocation.ActorID)
	fmt.Printf("  Strategy:  %s\n", allocation.StrategySource)
	fmt.Printf("  Committed: %s\n", allocation.CommittedAt.Format(time.RFC3339))
	for key, value := range allocation.Metadata {
		fmt.Printf("  %s: %s\n", key, value)
	}
	fmt.Println()

	fmt.Printf("%-12s %-15s %-10s\n", "Demand", "Product", "Qty")
	fmt.Printf("%-12s %-15s %-10s\n", "------------", "---------------", "----------")
	for _, detail := range allocation.Details {
		fmt.Printf("%-12s %-15s %-10s\n", detail.DemandID, detail.ProductID, detail.Qty)
	}
	fmt.Printf("\nTotal: %s units across %d lines\n",
		allocation.TotalAllocated(), len(allocation.Details))
	return nil
}

func (c *HistoryCommand) listAllocations(ctx context.Context, store *storage.Store) error {
	since := time.Time{}
	if c.config.Since != "" {
		parsed, err := time.Parse("2006-01-02", c.config.Since)
		if err != nil {
			return fmt.Errorf("invalid -since %q: %w", c.config.Since, err)
		}
		since = parsed
	}

	allocations, err := store.ListAllocations(ctx, since)
	if err != nil {
		return err
	}

	if len(allocations) == 0 {
		fmt.Println("No committed allocations found")
		return nil
	}

	fmt.Printf("%-22s %-12s %-18s %-20s\n", "Allocation", "Actor", "Strategy", "Committed At")
	fmt.Printf("%-22s %-12s %-18s %-20s\n",
		"----------------------", "------------", "------------------", "--------------------")
	for _, allocation := range allocations {
		fmt.Printf("%-22s %-12s %-18s %-20s\n",
			allocation.AllocationNumber,
			allocation.ActorID,
			allocation.StrategySource,
			allocation.CommittedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
