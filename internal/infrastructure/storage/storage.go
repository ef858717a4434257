package storage

import (
	"context"

	"meal-planner/internal/pkg/common"
)

// RecipeStore 食譜讀寫契約
// 核心只需要「以 id 取得名稱與食材」，寫入供匯入流程落地結果
type RecipeStore interface {
	// GetRecipe 以 id 取得食譜，不存在時回傳 common.NotFoundError
	GetRecipe(ctx context.Context, id string) (*common.RecipeRecord, error)

	// SaveRecipe 寫入食譜
	SaveRecipe(ctx context.Context, rec *common.RecipeRecord) error
}

// ShoppingListStore 購物清單讀寫契約
type ShoppingListStore interface {
	// FindActiveList 找出日期區間涵蓋 date 的清單
	// 多筆命中時取最近建立者；沒有命中回傳 (nil, nil)
	FindActiveList(ctx context.Context, userID, date string) (*common.ShoppingList, error)

	// GetList 以 id 取得清單，不存在時回傳 common.NotFoundError
	GetList(ctx context.Context, id string) (*common.ShoppingList, error)

	// CreateList 建立清單（清單由使用者明確建立，不由同步流程隱式建立）
	CreateList(ctx context.Context, list *common.ShoppingList) error

	// ReplaceItems 以整批項目取代清單內容，對呼叫端而言是原子操作
	ReplaceItems(ctx context.Context, listID string, items []common.ShoppingListItem) error
}
