package shopping

import (
	"strings"

	"meal-planner/internal/core/category"
	"meal-planner/internal/pkg/common"
)

// quantityEpsilon 數量低於此值視為歸零
const quantityEpsilon = 0.01

// matchKey 食材配對鍵：正規化後的 (名稱, 單位)
// 讓同一食材能跨食譜與多次同步合併為同一清單項目
func matchKey(name, unit string, quantity float64) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + normalizeUnit(unit, quantity)
}

// normalizeUnit 配對用的單位正規化
// ml 與 dl 視為等價；數量達 1000 時 g 與 kg 視為等價
// 注意：這只影響配對，數量仍以原始數字相加，不做換算（沿用既有行為）
func normalizeUnit(unit string, quantity float64) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	if u == "ml" {
		return "dl"
	}
	if u == "g" && quantity >= 1000 {
		return "kg"
	}
	return u
}

// applyDecrement 從清單扣掉一個食譜的食材
// 扣到歸零且不再被任何食譜使用、未勾選的項目移除
// 手動項目照常扣數量，但手動免疫只涵蓋移除：永遠不會從清單消失
func applyDecrement(items []common.ShoppingListItem, ingredients []common.StructuredIngredient, recipeID, date string) []common.ShoppingListItem {
	// 同一食譜可能重複列出同一 (名稱, 單位)，扣除量需按鍵加總
	amounts := make(map[string]float64, len(ingredients))
	for _, ing := range ingredients {
		amounts[matchKey(ing.Name, ing.Unit, ing.Amount)] += ing.Amount
	}

	out := make([]common.ShoppingListItem, 0, len(items))
	for _, item := range items {
		amount, ok := amounts[matchKey(item.Name, item.Unit, item.Quantity)]
		if !ok {
			out = append(out, item)
			continue
		}

		item.Quantity -= amount
		if item.Quantity < 0 {
			item.Quantity = 0
		}
		item.UsedInRecipes = removeString(item.UsedInRecipes, recipeID)
		item.UsedOnDates = removeString(item.UsedOnDates, date)

		if item.IsManual || (item.Quantity > quantityEpsilon && len(item.UsedInRecipes) > 0) || item.Checked {
			out = append(out, item)
		}
	}

	return out
}

// applyIncrement 把一個食譜的食材加進清單
// 以鍵找到或建立項目：同一張清單內 (名稱, 單位) 鍵必須唯一，
// 使用者先手動加入的食材也併入同一項目，不另開新項
func applyIncrement(items []common.ShoppingListItem, ingredients []common.StructuredIngredient, recipeID, recipeName, date string) []common.ShoppingListItem {
	for _, ing := range ingredients {
		key := matchKey(ing.Name, ing.Unit, ing.Amount)

		found := false
		for i := range items {
			if matchKey(items[i].Name, items[i].Unit, items[i].Quantity) != key {
				continue
			}
			items[i].Quantity += ing.Amount
			items[i].UsedInRecipes = appendUnique(items[i].UsedInRecipes, recipeID)
			items[i].UsedOnDates = appendUnique(items[i].UsedOnDates, date)
			items[i].RecipeNames = appendUnique(items[i].RecipeNames, recipeName)
			found = true
			break
		}
		if found {
			continue
		}

		items = append(items, common.ShoppingListItem{
			Name:          ing.Name,
			Quantity:      ing.Amount,
			Unit:          ing.Unit,
			Category:      category.Classify(ing.Name),
			Checked:       false,
			IsManual:      false,
			UsedInRecipes: []string{recipeID},
			UsedOnDates:   []string{date},
			RecipeNames:   []string{recipeName},
		})
	}

	return items
}

// appendUnique 集合語義的追加：已存在就不重複加入
func appendUnique(slice []string, value string) []string {
	for _, v := range slice {
		if v == value {
			return slice
		}
	}
	return append(slice, value)
}

// removeString 移除第一個相等的元素
func removeString(slice []string, value string) []string {
	for i, v := range slice {
		if v == value {
			return append(slice[:i:i], slice[i+1:]...)
		}
	}
	return slice
}
