package shopping

import (
	"context"

	"meal-planner/internal/infrastructure/storage"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 購物清單同步服務
// 接收餐點計畫異動事件，增量更新對應清單的項目集合，不整批重建
type Service struct {
	recipes storage.RecipeStore
	lists   storage.ShoppingListStore
	locks   *listLocks
}

// NewService 創建同步服務
func NewService(recipes storage.RecipeStore, lists storage.ShoppingListStore) *Service {
	return &Service{
		recipes: recipes,
		lists:   lists,
		locks:   newListLocks(),
	}
}

// Sync 執行一次同步
// 先扣舊食譜再加新食譜：同日把食譜 A 換成 B 時，兩者共用的食材
// 才不會被先加後刪或重複累計
func (s *Service) Sync(ctx context.Context, req common.SyncRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	list, err := s.lists.FindActiveList(ctx, req.UserID, req.Date)
	if err != nil {
		return err
	}
	if list == nil {
		// 清單由使用者明確建立，沒有涵蓋該日期的清單時靜默略過
		common.LogInfo("無涵蓋日期的購物清單，略過同步",
			zap.String("user_id", req.UserID),
			zap.String("date", req.Date),
		)
		return nil
	}

	// 同一張清單的同步序列化，鎖內重新讀取避免與前一次同步交錯
	lk := s.locks.acquire(list.ID)
	lk.Lock()
	defer lk.Unlock()

	list, err = s.lists.GetList(ctx, list.ID)
	if err != nil {
		if common.IsNotFound(err) {
			// 清單剛被刪除，視同沒有清單
			return nil
		}
		return err
	}

	items := list.Items

	if req.OldRecipeID != "" {
		oldRec, err := s.recipes.GetRecipe(ctx, req.OldRecipeID)
		if err != nil {
			// 舊食譜讀不到非致命：沒有可扣的東西，繼續處理新食譜
			common.LogWarn("舊食譜讀取失敗，跳過扣除",
				zap.String("recipe_id", req.OldRecipeID),
				zap.Error(err),
			)
		} else {
			common.LogDebug("扣除舊食譜食材",
				zap.String("recipe_id", req.OldRecipeID),
				zap.String("食材", common.FormatIngredients(oldRec.Ingredients)),
			)
			items = applyDecrement(items, oldRec.Ingredients, req.OldRecipeID, req.Date)
		}
	}

	if req.NewRecipeID != "" {
		newRec, err := s.recipes.GetRecipe(ctx, req.NewRecipeID)
		if err != nil {
			// 新食譜讀不到是致命錯誤：清單會默默漏掉已排定餐點的食材
			common.LogError("新食譜讀取失敗，中止同步",
				zap.String("recipe_id", req.NewRecipeID),
				zap.Error(err),
			)
			return err
		}
		common.LogDebug("加入新食譜食材",
			zap.String("recipe_id", req.NewRecipeID),
			zap.String("食材", common.FormatIngredients(newRec.Ingredients)),
		)
		items = applyIncrement(items, newRec.Ingredients, req.NewRecipeID, newRec.Name, req.Date)
	}

	if err := s.lists.ReplaceItems(ctx, list.ID, items); err != nil {
		if common.IsPersistenceError(err) || common.IsNotFound(err) {
			return err
		}
		return &common.PersistenceError{Op: "replace_items", Err: err}
	}

	common.LogInfo("購物清單同步完成",
		zap.String("list_id", list.ID),
		zap.String("old_recipe_id", req.OldRecipeID),
		zap.String("new_recipe_id", req.NewRecipeID),
		zap.String("date", req.Date),
		zap.Int("item_count", len(items)),
	)

	return nil
}
