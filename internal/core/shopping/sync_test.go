package shopping

import (
	"context"
	"testing"
	"time"

	"meal-planner/internal/infrastructure/storage"
	"meal-planner/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSyncFixture(t *testing.T) (*Service, *storage.MemoryStore, *common.ShoppingList) {
	t.Helper()

	store := storage.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SaveRecipe(ctx, &common.RecipeRecord{
		ID:   "recipe-a",
		Name: "Köttfärssås",
		Ingredients: []common.StructuredIngredient{
			{Name: "köttfärs", Amount: 500, Unit: "g"},
			{Name: "lök", Amount: 1, Unit: "st"},
		},
	}))
	require.NoError(t, store.SaveRecipe(ctx, &common.RecipeRecord{
		ID:   "recipe-b",
		Name: "Lökssoppa",
		Ingredients: []common.StructuredIngredient{
			{Name: "lök", Amount: 3, Unit: "st"},
		},
	}))

	list := &common.ShoppingList{
		UserID:    "user-1",
		StartDate: "2026-09-01",
		EndDate:   "2026-09-07",
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.CreateList(ctx, list))

	return NewService(store, store), store, list
}

func TestSyncAddRecipe(t *testing.T) {
	svc, store, list := newSyncFixture(t)
	ctx := context.Background()

	err := svc.Sync(ctx, common.SyncRequest{
		UserID:      "user-1",
		NewRecipeID: "recipe-a",
		Date:        "2026-09-02",
	})
	require.NoError(t, err)

	got, err := store.GetList(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)

	assert.Equal(t, "köttfärs", got.Items[0].Name)
	assert.Equal(t, 500.0, got.Items[0].Quantity)
	assert.Equal(t, []string{"recipe-a"}, got.Items[0].UsedInRecipes)
	assert.Equal(t, []string{"2026-09-02"}, got.Items[0].UsedOnDates)
	assert.Equal(t, []string{"Köttfärssås"}, got.Items[0].RecipeNames)
}

func TestSyncAddThenRemoveRoundTrip(t *testing.T) {
	svc, store, list := newSyncFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Sync(ctx, common.SyncRequest{
		UserID: "user-1", NewRecipeID: "recipe-a", Date: "2026-09-02",
	}))
	require.NoError(t, svc.Sync(ctx, common.SyncRequest{
		UserID: "user-1", OldRecipeID: "recipe-a", Date: "2026-09-02",
	}))

	got, err := store.GetList(ctx, list.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items, "加入後移除應回到空清單")
}

func TestSyncSwapRecipes(t *testing.T) {
	svc, store, list := newSyncFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Sync(ctx, common.SyncRequest{
		UserID: "user-1", NewRecipeID: "recipe-a", Date: "2026-09-02",
	}))

	// 同一天把食譜 A 換成 B，兩者共用食材 lök
	require.NoError(t, svc.Sync(ctx, common.SyncRequest{
		UserID:      "user-1",
		OldRecipeID: "recipe-a",
		NewRecipeID: "recipe-b",
		Date:        "2026-09-02",
	}))

	got, err := store.GetList(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)

	assert.Equal(t, "lök", got.Items[0].Name)
	assert.Equal(t, 3.0, got.Items[0].Quantity)
	assert.Equal(t, []string{"recipe-b"}, got.Items[0].UsedInRecipes)
}

func TestSyncPreservesManualAndCheckedItems(t *testing.T) {
	svc, store, list := newSyncFixture(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceItems(ctx, list.ID, []common.ShoppingListItem{
		{Name: "diskmedel", Quantity: 1, Unit: "st", IsManual: true},
	}))

	require.NoError(t, svc.Sync(ctx, common.SyncRequest{
		UserID: "user-1", NewRecipeID: "recipe-a", Date: "2026-09-02",
	}))
	require.NoError(t, svc.Sync(ctx, common.SyncRequest{
		UserID: "user-1", OldRecipeID: "recipe-a", Date: "2026-09-02",
	}))

	got, err := store.GetList(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "diskmedel", got.Items[0].Name)
	assert.True(t, got.Items[0].IsManual)
}

func TestSyncWithoutCoveringListIsNoOp(t *testing.T) {
	svc, _, _ := newSyncFixture(t)

	// 日期落在清單區間外，沒有清單可同步，靜默成功
	err := svc.Sync(context.Background(), common.SyncRequest{
		UserID: "user-1", NewRecipeID: "recipe-a", Date: "2026-10-15",
	})
	assert.NoError(t, err)
}

func TestSyncMissingOldRecipeIsNotFatal(t *testing.T) {
	svc, store, list := newSyncFixture(t)
	ctx := context.Background()

	err := svc.Sync(ctx, common.SyncRequest{
		UserID:      "user-1",
		OldRecipeID: "recipe-borta",
		NewRecipeID: "recipe-b",
		Date:        "2026-09-02",
	})
	require.NoError(t, err, "舊食譜讀不到只代表沒有東西可扣")

	got, err := store.GetList(ctx, list.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
}

func TestSyncMissingNewRecipeIsFatal(t *testing.T) {
	svc, store, list := newSyncFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Sync(ctx, common.SyncRequest{
		UserID: "user-1", NewRecipeID: "recipe-a", Date: "2026-09-02",
	}))

	err := svc.Sync(ctx, common.SyncRequest{
		UserID: "user-1", OldRecipeID: "recipe-a", NewRecipeID: "recipe-borta", Date: "2026-09-02",
	})
	require.Error(t, err)
	assert.True(t, common.IsNotFound(err))

	// 失敗的同步不得寫回部分結果
	got, err := store.GetList(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, []string{"recipe-a"}, got.Items[0].UsedInRecipes)
}

func TestSyncValidatesRequest(t *testing.T) {
	svc, _, _ := newSyncFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  common.SyncRequest
	}{
		{"missing user", common.SyncRequest{NewRecipeID: "recipe-a", Date: "2026-09-02"}},
		{"no recipe on either side", common.SyncRequest{UserID: "user-1", Date: "2026-09-02"}},
		{"bad date format", common.SyncRequest{UserID: "user-1", NewRecipeID: "recipe-a", Date: "02/09/2026"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Sync(ctx, tt.req)
			assert.True(t, common.IsValidationError(err))
		})
	}
}

func TestSyncPicksMostRecentCoveringList(t *testing.T) {
	svc, store, _ := newSyncFixture(t)
	ctx := context.Background()

	newer := &common.ShoppingList{
		UserID:    "user-1",
		StartDate: "2026-09-01",
		EndDate:   "2026-09-07",
		CreatedAt: time.Now().Add(time.Minute),
	}
	require.NoError(t, store.CreateList(ctx, newer))

	require.NoError(t, svc.Sync(ctx, common.SyncRequest{
		UserID: "user-1", NewRecipeID: "recipe-a", Date: "2026-09-02",
	}))

	got, err := store.GetList(ctx, newer.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2, "多張清單涵蓋同一日期時取最近建立者")
}
