package extract

import (
	"strings"

	"meal-planner/internal/pkg/common"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// structuredConfidence 結構化層成功時的固定信心值
const structuredConfidence = 0.9

// extractStructured 第一層：解析頁面內嵌的 JSON-LD Recipe 節點
// 找不到可用節點時回傳 nil；單一壞掉的文件只略過，不中斷整個匯入
func extractStructured(doc *goquery.Document, sourceURL string) *common.ExtractedRecipe {
	var result *common.ExtractedRecipe

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var payload interface{}
		if err := common.ParseJSON(sel.Text(), &payload); err != nil {
			// 格式錯誤的內嵌文件直接略過
			common.LogDebug("JSON-LD 解析失敗，略過",
				zap.String("url", sourceURL),
				zap.Error(err),
			)
			return true
		}

		for _, node := range recipeNodes(payload) {
			if rec := recipeFromNode(node, sourceURL); rec != nil {
				result = rec
				return false
			}
		}
		return true
	})

	return result
}

// recipeNodes 將 JSON-LD 的各種形狀（單一物件、陣列、@graph 容器）
// 正規化為候選 Recipe 節點列表
func recipeNodes(payload interface{}) []map[string]interface{} {
	var nodes []map[string]interface{}

	switch v := payload.(type) {
	case map[string]interface{}:
		if graph, ok := v["@graph"].([]interface{}); ok {
			for _, item := range graph {
				nodes = append(nodes, recipeNodes(item)...)
			}
			return nodes
		}
		if isRecipeNode(v) {
			nodes = append(nodes, v)
		}
	case []interface{}:
		for _, item := range v {
			nodes = append(nodes, recipeNodes(item)...)
		}
	}

	return nodes
}

// isRecipeNode 檢查 @type 是否為 Recipe（字串或字串陣列）
func isRecipeNode(node map[string]interface{}) bool {
	switch t := node["@type"].(type) {
	case string:
		return strings.EqualFold(t, "Recipe")
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok && strings.EqualFold(s, "Recipe") {
				return true
			}
		}
	}
	return false
}

// recipeFromNode 從正規化後的節點抽取欄位
// 結構性成功的條件：有名稱且至少一項食材
func recipeFromNode(node map[string]interface{}, sourceURL string) *common.ExtractedRecipe {
	name := stringField(node, "name")
	lines := stringList(node["recipeIngredient"])
	if len(lines) == 0 {
		lines = stringList(node["ingredients"]) // 舊版 schema.org 用 ingredients
	}
	if name == "" || len(lines) == 0 {
		return nil
	}

	ingredients := make([]common.StructuredIngredient, 0, len(lines))
	for _, line := range lines {
		ingredients = append(ingredients, ParseIngredientLine(line))
	}

	return &common.ExtractedRecipe{
		Name:         name,
		Servings:     ParseServings(node["recipeYield"]),
		Ingredients:  ingredients,
		Instructions: instructionsField(node["recipeInstructions"]),
		Tags:         tagsField(node),
		ImageURL:     imageField(node["image"]),
		Source:       common.SourceStructured,
		Confidence:   structuredConfidence,
		SourceURL:    sourceURL,
	}
}

func stringField(node map[string]interface{}, key string) string {
	if s, ok := node[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// stringList 將字串或字串陣列正規化為字串切片
func stringList(v interface{}) []string {
	switch val := v.(type) {
	case string:
		if s := strings.TrimSpace(val); s != "" {
			return []string{s}
		}
	case []interface{}:
		var out []string
		for _, item := range val {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	}
	return nil
}

// instructionsField 解析 recipeInstructions 的各種形狀：
// 純字串、字串陣列、HowToStep 物件陣列、含 itemListElement 的 HowToSection
func instructionsField(v interface{}) string {
	switch val := v.(type) {
	case string:
		return NormalizeInstructionText(val)
	case []interface{}:
		var steps []string
		for _, item := range val {
			steps = append(steps, instructionSteps(item)...)
		}
		return NormalizeInstructionSteps(steps)
	}
	return ""
}

func instructionSteps(v interface{}) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case map[string]interface{}:
		if elements, ok := val["itemListElement"].([]interface{}); ok {
			var steps []string
			for _, el := range elements {
				steps = append(steps, instructionSteps(el)...)
			}
			return steps
		}
		if text := stringField(val, "text"); text != "" {
			return []string{text}
		}
		if name := stringField(val, "name"); name != "" {
			return []string{name}
		}
	}
	return nil
}

// tagsField 合併 recipeCategory、recipeCuisine、keywords 為標籤列表
// 依此順序串接、轉小寫、去重；keywords 可能是逗號分隔字串
func tagsField(node map[string]interface{}) []string {
	var raw []string
	raw = append(raw, stringList(node["recipeCategory"])...)
	raw = append(raw, stringList(node["recipeCuisine"])...)
	for _, kw := range stringList(node["keywords"]) {
		for _, part := range strings.Split(kw, ",") {
			raw = append(raw, part)
		}
	}

	seen := make(map[string]bool)
	var tags []string
	for _, t := range raw {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags
}

// imageField 解析 image 欄位：字串、字串陣列或 ImageObject
func imageField(v interface{}) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case []interface{}:
		for _, item := range val {
			if url := imageField(item); url != "" {
				return url
			}
		}
	case map[string]interface{}:
		return stringField(val, "url")
	}
	return ""
}
