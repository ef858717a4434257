package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"meal-planner/internal/pkg/common"
)

// aiConfidence AI 後備層成功時的固定信心值
const aiConfidence = 0.95

// AIClient AI 擷取契約：給定 prompt 回傳文字回應
type AIClient interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// aiRecipePayload AI 回應的食譜 JSON 結構
type aiRecipePayload struct {
	Name         string         `json:"name"`
	Servings     interface{}    `json:"servings"`
	Ingredients  []aiIngredient `json:"ingredients"`
	Instructions []string       `json:"instructions"`
	Tags         []string       `json:"tags"`
	ImageURL     string         `json:"image_url"`
}

type aiIngredient struct {
	Name   string      `json:"name"`
	Amount interface{} `json:"amount"` // 模型有時回傳字串數字
	Unit   string      `json:"unit"`
}

// extractWithAI 第三層：把抓到的頁面內容交給 AI 模型抽取
// 只在呼叫端明確允許時執行；任何失敗都是終點，由串接層包成 ExtractionExhaustedError
func extractWithAI(ctx context.Context, client AIClient, content, sourceURL string, maxChars int) (*common.ExtractedRecipe, error) {
	if maxChars > 0 && len(content) > maxChars {
		content = content[:maxChars]
	}

	prompt := buildExtractionPrompt(content, sourceURL)

	resp, err := client.GenerateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("AI service error: %w", err)
	}
	if strings.TrimSpace(resp) == "" {
		return nil, fmt.Errorf("empty AI response")
	}

	var payload aiRecipePayload
	if err := common.ParseJSON(common.ExtractJSONObject(resp), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	// 結構性成功的條件與其他層一致：有名稱且至少一項食材
	if strings.TrimSpace(payload.Name) == "" || len(payload.Ingredients) == 0 {
		return nil, fmt.Errorf("AI response missing name or ingredients")
	}

	ingredients := make([]common.StructuredIngredient, 0, len(payload.Ingredients))
	for _, ing := range payload.Ingredients {
		ingredients = append(ingredients, common.StructuredIngredient{
			Name:   strings.TrimSpace(ing.Name),
			Amount: amountToFloat(ing.Amount),
			Unit:   strings.TrimSpace(ing.Unit),
		})
	}

	return &common.ExtractedRecipe{
		Name:         strings.TrimSpace(payload.Name),
		Servings:     ParseServings(payload.Servings),
		Ingredients:  ingredients,
		Instructions: NormalizeInstructionSteps(payload.Instructions),
		Tags:         payload.Tags,
		ImageURL:     payload.ImageURL,
		Source:       common.SourceAI,
		Confidence:   aiConfidence,
		SourceURL:    sourceURL,
	}, nil
}

// buildExtractionPrompt 組出要求模型回傳單一 JSON 物件的 prompt
func buildExtractionPrompt(content, sourceURL string) string {
	var sb strings.Builder
	sb.WriteString("你是一個食譜抽取引擎，請從以下網頁內容抽取出食譜資料。\n")
	sb.WriteString(fmt.Sprintf("來源網址：%s\n", sourceURL))
	sb.WriteString("請僅回傳 JSON，格式如下：\n")
	sb.WriteString("{\n")
	sb.WriteString("  \"name\": \"食譜名稱\",\n")
	sb.WriteString("  \"servings\": 4,\n")
	sb.WriteString("  \"ingredients\": [{\"name\": \"食材名稱\", \"amount\": 2, \"unit\": \"dl\"}],\n")
	sb.WriteString("  \"instructions\": [\"步驟一\", \"步驟二\"],\n")
	sb.WriteString("  \"tags\": [\"標籤\"],\n")
	sb.WriteString("  \"image_url\": \"圖片網址或空字串\"\n")
	sb.WriteString("}\n")
	sb.WriteString("說明：\n")
	sb.WriteString("- 僅輸出單一 JSON 物件，不要包含其他文字或程式碼區塊標記。\n")
	sb.WriteString("- 食材名稱與單位保留頁面原文語言，不要翻譯。\n")
	sb.WriteString("- 無法確定數量時 amount 填 0、unit 填空字串。\n")
	sb.WriteString("- servings 必須是整數，找不到就填 4。\n")
	sb.WriteString("以下是網頁內容：\n")
	sb.WriteString(content)
	return sb.String()
}

// amountToFloat 將模型回傳的數量欄位轉成 float64
func amountToFloat(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(val), ",", "."), 64); err == nil {
			return f
		}
	}
	return 0
}
