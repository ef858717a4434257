package storage

import (
	"context"
	"testing"
	"time"

	"meal-planner/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRecipeRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	rec := &common.RecipeRecord{
		Name: "Pannkakor",
		Ingredients: []common.StructuredIngredient{
			{Name: "mjölk", Amount: 3, Unit: "dl"},
		},
	}
	require.NoError(t, store.SaveRecipe(ctx, rec))
	require.NotEmpty(t, rec.ID, "儲存時沒有 id 就生成一個")

	got, err := store.GetRecipe(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pannkakor", got.Name)

	// 回傳的是副本，修改不得影響儲存的資料
	got.Ingredients[0].Amount = 999
	again, err := store.GetRecipe(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, again.Ingredients[0].Amount)
}

func TestMemoryStoreGetRecipeNotFound(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.GetRecipe(context.Background(), "finns-inte")
	assert.True(t, common.IsNotFound(err))
}

func TestMemoryStoreFindActiveList(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	older := &common.ShoppingList{
		UserID:    "user-1",
		StartDate: "2026-09-01",
		EndDate:   "2026-09-07",
		CreatedAt: time.Now().Add(-time.Hour),
	}
	newer := &common.ShoppingList{
		UserID:    "user-1",
		StartDate: "2026-09-05",
		EndDate:   "2026-09-12",
		CreatedAt: time.Now(),
	}
	other := &common.ShoppingList{
		UserID:    "user-2",
		StartDate: "2026-09-01",
		EndDate:   "2026-09-30",
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.CreateList(ctx, older))
	require.NoError(t, store.CreateList(ctx, newer))
	require.NoError(t, store.CreateList(ctx, other))

	// 只有一張清單涵蓋日期
	got, err := store.FindActiveList(ctx, "user-1", "2026-09-02")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, older.ID, got.ID)

	// 兩張都涵蓋時取最近建立者
	got, err = store.FindActiveList(ctx, "user-1", "2026-09-06")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, newer.ID, got.ID)

	// 邊界日期包含在區間內
	got, err = store.FindActiveList(ctx, "user-1", "2026-09-12")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, newer.ID, got.ID)

	// 沒有涵蓋的清單時回傳 nil 而非錯誤
	got, err = store.FindActiveList(ctx, "user-1", "2026-10-01")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreReplaceItems(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	list := &common.ShoppingList{
		UserID:    "user-1",
		StartDate: "2026-09-01",
		EndDate:   "2026-09-07",
	}
	require.NoError(t, store.CreateList(ctx, list))

	items := []common.ShoppingListItem{{Name: "mjölk", Quantity: 2, Unit: "dl"}}
	require.NoError(t, store.ReplaceItems(ctx, list.ID, items))

	got, err := store.GetList(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "mjölk", got.Items[0].Name)

	assert.True(t, common.IsNotFound(store.ReplaceItems(ctx, "finns-inte", items)))
}
