package extract

import (
	"strings"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// 啟發式層的合理性下限，低於這些長度的內容視為誤抓
const (
	minTitleLength        = 3
	maxTitleLength        = 200
	minIngredientLength   = 2
	maxIngredientLength   = 200
	minInstructionsLength = 30
)

// textProbe 一個選擇器候選：依序嘗試，取第一個通過驗證的結果
type textProbe struct {
	selector string
	attr     string // 空字串表示取文字內容，否則取該屬性
}

// 各欄位的選擇器候選，由精確到寬鬆排列
var (
	titleProbes = []textProbe{
		{selector: `[itemprop="name"]`},
		{selector: `h1[class*="recipe"]`},
		{selector: `.recipe-title`},
		{selector: `meta[property="og:title"]`, attr: "content"},
		{selector: "h1"},
	}

	servingsProbes = []textProbe{
		{selector: `[itemprop="recipeYield"]`},
		{selector: `[class*="servings"]`},
		{selector: `[class*="portion"]`},
		{selector: `[class*="yield"]`},
	}

	ingredientProbes = []textProbe{
		{selector: `[itemprop="recipeIngredient"]`},
		{selector: `ul[class*="ingredient"] li`},
		{selector: `div[class*="ingredient"] li`},
		{selector: `li[class*="ingredient"]`},
	}

	instructionProbes = []textProbe{
		{selector: `[itemprop="recipeInstructions"] li`},
		{selector: `ol[class*="instruction"] li`},
		{selector: `ol[class*="step"] li`},
		{selector: `div[class*="instruction"] p`},
		{selector: `div[class*="method"] li`},
		{selector: `ol li`},
	}

	imageProbes = []textProbe{
		{selector: `meta[property="og:image"]`, attr: "content"},
		{selector: `[itemprop="image"]`, attr: "src"},
		{selector: `img[class*="recipe"]`, attr: "src"},
	}
)

// extractHeuristic 第二層：依序探測選擇器候選組出食譜
// 信心值按找到的欄位累加，低於門檻時回傳 nil
func extractHeuristic(doc *goquery.Document, cfg *config.ExtractorConfig, sourceURL string) *common.ExtractedRecipe {
	confidence := 0.0

	title := probeText(doc, titleProbes, func(s string) bool {
		return len(s) >= minTitleLength && len(s) <= maxTitleLength
	})
	if title != "" {
		confidence += cfg.TitleWeight
	}

	lines := probeList(doc, ingredientProbes, cfg.MinIngredientCount)
	if len(lines) > 0 {
		confidence += cfg.IngredientsWeight
	}

	steps := probeSteps(doc)
	if len(steps) > 0 {
		confidence += cfg.InstructionsWeight
	}

	if confidence < cfg.HeuristicThreshold {
		common.LogDebug("啟發式層信心不足",
			zap.String("url", sourceURL),
			zap.Float64("confidence", confidence),
			zap.Float64("threshold", cfg.HeuristicThreshold),
		)
		return nil
	}

	ingredients := make([]common.StructuredIngredient, 0, len(lines))
	for _, line := range lines {
		ingredients = append(ingredients, ParseIngredientLine(line))
	}

	servings := defaultServings
	if raw := probeText(doc, servingsProbes, func(s string) bool { return s != "" }); raw != "" {
		servings = ParseServings(raw)
	}

	return &common.ExtractedRecipe{
		Name:         title,
		Servings:     servings,
		Ingredients:  ingredients,
		Instructions: NormalizeInstructionSteps(steps),
		Tags:         nil,
		ImageURL:     probeText(doc, imageProbes, func(s string) bool { return s != "" }),
		Source:       common.SourceHeuristic,
		Confidence:   confidence,
		SourceURL:    sourceURL,
	}
}

// probeText 短路式探測：回傳第一個通過驗證的候選結果
func probeText(doc *goquery.Document, probes []textProbe, valid func(string) bool) string {
	for _, p := range probes {
		sel := doc.Find(p.selector).First()
		if sel.Length() == 0 {
			continue
		}
		var text string
		if p.attr != "" {
			text, _ = sel.Attr(p.attr)
		} else {
			text = sel.Text()
		}
		text = strings.TrimSpace(text)
		if valid(text) {
			return text
		}
	}
	return ""
}

// probeList 探測列表型欄位，元素數量需達到 minCount 才算命中
func probeList(doc *goquery.Document, probes []textProbe, minCount int) []string {
	for _, p := range probes {
		var items []string
		doc.Find(p.selector).Each(func(_ int, s *goquery.Selection) {
			text := strings.TrimSpace(collapseInline(s.Text()))
			if len(text) >= minIngredientLength && len(text) <= maxIngredientLength {
				items = append(items, text)
			}
		})
		if len(items) >= minCount {
			return items
		}
	}
	return nil
}

// probeSteps 探測作法步驟，合併後的總長度需達下限
func probeSteps(doc *goquery.Document) []string {
	for _, p := range instructionProbes {
		var steps []string
		total := 0
		doc.Find(p.selector).Each(func(_ int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if text != "" {
				steps = append(steps, text)
				total += len(text)
			}
		})
		if len(steps) > 0 && total >= minInstructionsLength {
			return steps
		}
	}
	return nil
}
