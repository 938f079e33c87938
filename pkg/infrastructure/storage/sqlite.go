// Package storage persists committed allocations to SQLite.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/orderalloc/orderalloc/pkg/domain/entities"
	"github.com/orderalloc/orderalloc/pkg/domain/repositories"
)

// Store handles persistence for committed allocations
type Store struct {
	db *sql.DB
}

// NewStore opens the database at dbPath and ensures the schema exists
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dbPath, err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Verify interface compliance
var _ repositories.AllocationStore = (*Store)(nil)

// createTables creates the necessary database tables
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS allocations (
		allocation_number TEXT PRIMARY KEY,
		actor_id TEXT NOT NULL,
		strategy_source TEXT NOT NULL,
		metadata TEXT, -- JSON object
		committed_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS allocation_details (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		allocation_number TEXT NOT NULL REFERENCES allocations(allocation_number),
		demand_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		qty TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_details_allocation ON allocation_details(allocation_number);
	CREATE INDEX IF NOT EXISTS idx_details_product ON allocation_details(product_id);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// SaveAllocation writes the allocation header and every detail row in
// one transaction. A failure on any row rolls back the whole commit.
func (s *Store) SaveAllocation(ctx context.Context, allocation *entities.CommittedAllocation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	metadataJSON, err := json.Marshal(allocation.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO allocations (allocation_number, actor_id, strategy_source, metadata, committed_at)
		 VALUES (?, ?, ?, ?, ?)`,
		allocation.AllocationNumber,
		allocation.ActorID,
		allocation.StrategySource,
		string(metadataJSON),
		allocation.CommittedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert allocation %s: %w", allocation.AllocationNumber, err)
	}

	for _, detail := range allocation.Details {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO allocation_details (allocation_number, demand_id, product_id, qty)
			 VALUES (?, ?, ?, ?)`,
			allocation.AllocationNumber,
			string(detail.DemandID),
			string(detail.ProductID),
			detail.Qty.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert detail for demand %s: %w", detail.DemandID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetAllocation retrieves a committed allocation with its details
func (s *Store) GetAllocation(ctx context.Context, allocationNumber string) (*entities.CommittedAllocation, error) {
	var allocation entities.CommittedAllocation
	var metadataJSON string

	err := s.db.QueryRowContext(ctx,
		`SELECT allocation_number, actor_id, strategy_source, metadata, committed_at
		 FROM allocations WHERE allocation_number = ?`,
		allocationNumber,
	).Scan(
		&allocation.AllocationNumber,
		&allocation.ActorID,
		&allocation.StrategySource,
		&metadataJSON,
		&allocation.CommittedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("allocation %s not found", allocationNumber)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query allocation %s: %w", allocationNumber, err)
	}

	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &allocation.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata for %s: %w", allocationNumber, err)
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT demand_id, product_id, qty FROM allocation_details
		 WHERE allocation_number = ? ORDER BY id`,
		allocationNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query details for %s: %w", allocationNumber, err)
	}
	defer rows.Close()

	for rows.Next() {
		var detail entities.CommittedDetail
		var qtyStr string
		if err := rows.Scan(&detail.DemandID, &detail.ProductID, &qtyStr); err != nil {
			return nil, fmt.Errorf("failed to scan detail row: %w", err)
		}
		qty, err := decimal.NewFromString(qtyStr)
		if err != nil {
			return nil, fmt.Errorf("invalid stored qty %q: %w", qtyStr, err)
		}
		detail.Qty = qty
		allocation.Details = append(allocation.Details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read detail rows: %w", err)
	}

	return &allocation, nil
}

// ListAllocations returns allocation headers committed since the given
// time, newest first. Details are not loaded.
func (s *Store) ListAllocations(ctx context.Context, since time.Time) ([]*entities.CommittedAllocation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT allocation_number, actor_id, strategy_source, committed_at
		 FROM allocations WHERE committed_at >= ? ORDER BY committed_at DESC`,
		since.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocations: %w", err)
	}
	defer rows.Close()

	var allocations []*entities.CommittedAllocation
	for rows.Next() {
		var allocation entities.CommittedAllocation
		if err := rows.Scan(
			&allocation.AllocationNumber,
			&allocation.ActorID,
			&allocation.StrategySource,
			&allocation.CommittedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan allocation row: %w", err)
		}
		allocations = append(allocations, &allocation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read allocation rows: %w", err)
	}

	return allocations, nil
}

// CommittedByProduct sums stored detail quantities per product. This
// feeds reconciliation against the demand-side commitment figures.
func (s *Store) CommittedByProduct(ctx context.Context) (map[entities.ProductID]decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id, qty FROM allocation_details`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query details: %w", err)
	}
	defer rows.Close()

	totals := make(map[entities.ProductID]decimal.Decimal)
	for rows.Next() {
		var productID entities.ProductID
		var qtyStr string
		if err := rows.Scan(&productID, &qtyStr); err != nil {
			return nil, fmt.Errorf("failed to scan detail row: %w", err)
		}
		qty, err := decimal.NewFromString(qtyStr)
		if err != nil {
			return nil, fmt.Errorf("invalid stored qty %q: %w", qtyStr, err)
		}
		totals[productID] = totals[productID].Add(qty)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read detail rows: %w", err)
	}

	return totals, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
