package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderalloc/orderalloc/pkg/domain/entities"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "alloc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleAllocation(number string) *entities.CommittedAllocation {
	return &entities.CommittedAllocation{
		AllocationNumber: number,
		ActorID:          "planner-17",
		StrategySource:   "etd_priority",
		Metadata:         map[string]string{"scope": "Q1 widgets"},
		CommittedAt:      time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
		Details: []entities.CommittedDetail{
			{DemandID: "D1", ProductID: "WIDGET", Qty: decimal.NewFromInt(60)},
			{DemandID: "D2", ProductID: "WIDGET", Qty: decimal.RequireFromString("39.5")},
			{DemandID: "D3", ProductID: "GADGET", Qty: decimal.NewFromInt(25)},
		},
	}
}

func TestStore_SaveAndGetAllocation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAllocation(ctx, sampleAllocation("AL-20260310-abc123")))

	loaded, err := store.GetAllocation(ctx, "AL-20260310-abc123")
	require.NoError(t, err)

	assert.Equal(t, "planner-17", loaded.ActorID)
	assert.Equal(t, "etd_priority", loaded.StrategySource)
	assert.Equal(t, map[string]string{"scope": "Q1 widgets"}, loaded.Metadata)
	require.Len(t, loaded.Details, 3)
	assert.Equal(t, entities.DemandID("D1"), loaded.Details[0].DemandID)
	assert.True(t, loaded.Details[1].Qty.Equal(decimal.RequireFromString("39.5")),
		"expected qty 39.5, got %s", loaded.Details[1].Qty)
	assert.True(t, loaded.TotalAllocated().Equal(decimal.RequireFromString("124.5")))
}

func TestStore_DuplicateAllocationNumberRollsBack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAllocation(ctx, sampleAllocation("AL-1")))

	// Same primary key again: the insert fails and nothing from the
	// second call may remain.
	dup := sampleAllocation("AL-1")
	dup.Details = []entities.CommittedDetail{
		{DemandID: "D9", ProductID: "SPROCKET", Qty: decimal.NewFromInt(5)},
	}
	err := store.SaveAllocation(ctx, dup)
	require.Error(t, err)

	totals, err := store.CommittedByProduct(ctx)
	require.NoError(t, err)
	assert.NotContains(t, totals, entities.ProductID("SPROCKET"))

	loaded, err := store.GetAllocation(ctx, "AL-1")
	require.NoError(t, err)
	assert.Len(t, loaded.Details, 3)
}

func TestStore_ListAllocations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	early := sampleAllocation("AL-EARLY")
	early.CommittedAt = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	late := sampleAllocation("AL-LATE")
	late.CommittedAt = time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveAllocation(ctx, early))
	require.NoError(t, store.SaveAllocation(ctx, late))

	all, err := store.ListAllocations(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "AL-LATE", all[0].AllocationNumber)

	recent, err := store.ListAllocations(ctx, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "AL-LATE", recent[0].AllocationNumber)
}

func TestStore_CommittedByProduct(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := sampleAllocation("AL-1")
	second := sampleAllocation("AL-2")
	require.NoError(t, store.SaveAllocation(ctx, first))
	require.NoError(t, store.SaveAllocation(ctx, second))

	totals, err := store.CommittedByProduct(ctx)
	require.NoError(t, err)
	assert.True(t, totals["WIDGET"].Equal(decimal.RequireFromString("199")),
		"expected WIDGET total 199, got %s", totals["WIDGET"])
	assert.True(t, totals["GADGET"].Equal(decimal.NewFromInt(50)))
}
