package common

import (
	"fmt"
	"strings"
	"time"
)

// Category 食材分類（封閉枚舉，定義於 internal/core/category）
type Category string

// ExtractionSource 食譜擷取來源層
type ExtractionSource string

const (
	// SourceStructured 結構化資料層（JSON-LD）
	SourceStructured ExtractionSource = "structured"
	// SourceHeuristic 啟發式 DOM 解析層
	SourceHeuristic ExtractionSource = "heuristic"
	// SourceAI AI 後備層
	SourceAI ExtractionSource = "ai"
)

// StructuredIngredient 結構化食材
// 無法解析時 Amount 為 0、Unit 為空字串
type StructuredIngredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// ExtractedRecipe 擷取出的食譜，由串接流程中獲勝的層產生，產生後不再修改
type ExtractedRecipe struct {
	Name         string                 `json:"name"`
	Servings     int                    `json:"servings"`
	Ingredients  []StructuredIngredient `json:"ingredients"`
	Instructions string                 `json:"instructions"`
	Tags         []string               `json:"tags"`
	ImageURL     string                 `json:"image_url,omitempty"`
	Source       ExtractionSource       `json:"source"`
	Confidence   float64                `json:"confidence"`
	SourceURL    string                 `json:"source_url"`
}

// RecipeRecord 儲存層中的食譜（外部讀取契約只需要名稱與食材）
type RecipeRecord struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Ingredients []StructuredIngredient `json:"ingredients"`
}

// ShoppingListItem 購物清單項目
// 同一清單內以正規化後的 (name, unit) 為唯一鍵
type ShoppingListItem struct {
	Name          string   `json:"name"`
	Quantity      float64  `json:"quantity"`
	Unit          string   `json:"unit"`
	Category      Category `json:"category"`
	Checked       bool     `json:"checked"`
	IsManual      bool     `json:"is_manual"`
	UsedInRecipes []string `json:"used_in_recipes"`
	UsedOnDates   []string `json:"used_on_dates"`
	RecipeNames   []string `json:"recipe_names"`
}

// ShoppingList 購物清單，涵蓋一段日期區間
type ShoppingList struct {
	ID        string             `json:"id"`
	UserID    string             `json:"user_id"`
	StartDate string             `json:"start_date"` // ISO 日期 (YYYY-MM-DD)
	EndDate   string             `json:"end_date"`   // ISO 日期 (YYYY-MM-DD)
	CreatedAt time.Time          `json:"created_at"`
	Items     []ShoppingListItem `json:"items"`
}

// ContainsDate 檢查日期是否落在清單的日期區間內
// ISO 日期字串可直接以字典序比較
func (l *ShoppingList) ContainsDate(date string) bool {
	return l.StartDate <= date && date <= l.EndDate
}

// SyncRequest 一次餐點計畫異動對應的同步請求
// OldRecipeID / NewRecipeID 為空字串表示該側無食譜
type SyncRequest struct {
	UserID      string `json:"user_id"`
	OldRecipeID string `json:"old_recipe_id,omitempty"`
	NewRecipeID string `json:"new_recipe_id,omitempty"`
	Date        string `json:"date"` // ISO 日期 (YYYY-MM-DD)
}

// Validate 驗證同步請求
func (r *SyncRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return NewValidationError("user_id is required")
	}
	if r.OldRecipeID == "" && r.NewRecipeID == "" {
		return NewValidationError("at least one of old_recipe_id and new_recipe_id is required")
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return NewValidationError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", r.Date))
	}
	return nil
}
