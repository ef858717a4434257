package storage

import (
	"context"
	"sync"
	"time"

	"meal-planner/internal/pkg/common"
)

// MemoryStore 行程內的儲存實作，開發與測試用
type MemoryStore struct {
	mu      sync.RWMutex
	recipes map[string]common.RecipeRecord
	lists   map[string]common.ShoppingList
}

// NewMemoryStore 創建記憶體儲存
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		recipes: make(map[string]common.RecipeRecord),
		lists:   make(map[string]common.ShoppingList),
	}
}

// GetRecipe 以 id 取得食譜
func (s *MemoryStore) GetRecipe(ctx context.Context, id string) (*common.RecipeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.recipes[id]
	if !ok {
		return nil, &common.NotFoundError{Resource: "recipe", ID: id}
	}

	out := rec
	out.Ingredients = append([]common.StructuredIngredient(nil), rec.Ingredients...)
	return &out, nil
}

// SaveRecipe 寫入食譜
func (s *MemoryStore) SaveRecipe(ctx context.Context, rec *common.RecipeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = common.GenerateUUID()
	}
	stored := *rec
	stored.Ingredients = append([]common.StructuredIngredient(nil), rec.Ingredients...)
	s.recipes[rec.ID] = stored
	return nil
}

// FindActiveList 找出日期區間涵蓋 date 的清單，多筆命中取最近建立者
func (s *MemoryStore) FindActiveList(ctx context.Context, userID, date string) (*common.ShoppingList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *common.ShoppingList
	var bestCreated time.Time
	for id := range s.lists {
		list := s.lists[id]
		if list.UserID != userID || !list.ContainsDate(date) {
			continue
		}
		if best == nil || list.CreatedAt.After(bestCreated) {
			copied := cloneList(list)
			best = &copied
			bestCreated = list.CreatedAt
		}
	}

	return best, nil
}

// GetList 以 id 取得清單
func (s *MemoryStore) GetList(ctx context.Context, id string) (*common.ShoppingList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list, ok := s.lists[id]
	if !ok {
		return nil, &common.NotFoundError{Resource: "shopping_list", ID: id}
	}

	copied := cloneList(list)
	return &copied, nil
}

// CreateList 建立清單
func (s *MemoryStore) CreateList(ctx context.Context, list *common.ShoppingList) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if list.ID == "" {
		list.ID = common.GenerateUUID()
	}
	if list.CreatedAt.IsZero() {
		list.CreatedAt = time.Now()
	}
	s.lists[list.ID] = cloneList(*list)
	return nil
}

// ReplaceItems 以整批項目取代清單內容
func (s *MemoryStore) ReplaceItems(ctx context.Context, listID string, items []common.ShoppingListItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, ok := s.lists[listID]
	if !ok {
		return &common.NotFoundError{Resource: "shopping_list", ID: listID}
	}

	list.Items = append([]common.ShoppingListItem(nil), items...)
	s.lists[listID] = list
	return nil
}

func cloneList(list common.ShoppingList) common.ShoppingList {
	copied := list
	copied.Items = append([]common.ShoppingListItem(nil), list.Items...)
	return copied
}
