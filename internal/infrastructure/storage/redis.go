package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

// RedisStore 以 Redis 為後端的儲存實作
// 食譜與清單都存成 JSON 文件，使用者的清單 id 另存一個 set 做索引
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 創建 Redis 儲存並測試連線
func NewRedisStore(cfg *config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 測試連接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func recipeKey(id string) string     { return "recipe:" + id }
func listKey(id string) string       { return "shopping_list:" + id }
func userListsKey(uid string) string { return "user_lists:" + uid }

// GetRecipe 以 id 取得食譜
func (s *RedisStore) GetRecipe(ctx context.Context, id string) (*common.RecipeRecord, error) {
	data, err := s.client.Get(ctx, recipeKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, &common.NotFoundError{Resource: "recipe", ID: id}
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	var rec common.RecipeRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe: %w", err)
	}
	return &rec, nil
}

// SaveRecipe 寫入食譜
func (s *RedisStore) SaveRecipe(ctx context.Context, rec *common.RecipeRecord) error {
	if rec.ID == "" {
		rec.ID = common.GenerateUUID()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return &common.PersistenceError{Op: "save_recipe", Err: err}
	}
	if err := s.client.Set(ctx, recipeKey(rec.ID), data, 0).Err(); err != nil {
		return &common.PersistenceError{Op: "save_recipe", Err: err}
	}
	return nil
}

// FindActiveList 找出日期區間涵蓋 date 的清單，多筆命中取最近建立者
func (s *RedisStore) FindActiveList(ctx context.Context, userID, date string) (*common.ShoppingList, error) {
	ids, err := s.client.SMembers(ctx, userListsKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping lists: %w", err)
	}

	var best *common.ShoppingList
	for _, id := range ids {
		list, err := s.GetList(ctx, id)
		if err != nil {
			if common.IsNotFound(err) {
				continue // 索引殘留，清單本體已不存在
			}
			return nil, err
		}
		if !list.ContainsDate(date) {
			continue
		}
		if best == nil || list.CreatedAt.After(best.CreatedAt) {
			best = list
		}
	}

	return best, nil
}

// GetList 以 id 取得清單
func (s *RedisStore) GetList(ctx context.Context, id string) (*common.ShoppingList, error) {
	data, err := s.client.Get(ctx, listKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, &common.NotFoundError{Resource: "shopping_list", ID: id}
		}
		return nil, fmt.Errorf("failed to get shopping list: %w", err)
	}

	var list common.ShoppingList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list: %w", err)
	}
	return &list, nil
}

// CreateList 建立清單並更新使用者索引
func (s *RedisStore) CreateList(ctx context.Context, list *common.ShoppingList) error {
	if list.ID == "" {
		list.ID = common.GenerateUUID()
	}
	if list.CreatedAt.IsZero() {
		list.CreatedAt = time.Now()
	}

	data, err := json.Marshal(list)
	if err != nil {
		return &common.PersistenceError{Op: "create_list", Err: err}
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, listKey(list.ID), data, 0)
	pipe.SAdd(ctx, userListsKey(list.UserID), list.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return &common.PersistenceError{Op: "create_list", Err: err}
	}
	return nil
}

// ReplaceItems 以整批項目取代清單內容
func (s *RedisStore) ReplaceItems(ctx context.Context, listID string, items []common.ShoppingListItem) error {
	list, err := s.GetList(ctx, listID)
	if err != nil {
		return err
	}

	list.Items = items
	data, err := json.Marshal(list)
	if err != nil {
		return &common.PersistenceError{Op: "replace_items", Err: err}
	}
	if err := s.client.Set(ctx, listKey(listID), data, 0).Err(); err != nil {
		return &common.PersistenceError{Op: "replace_items", Err: err}
	}
	return nil
}

// Close 關閉 Redis 連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}
