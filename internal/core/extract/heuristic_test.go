package extract

import (
	"testing"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testExtractorConfig() *config.ExtractorConfig {
	return &config.ExtractorConfig{
		StructuredThreshold: 0.7,
		HeuristicThreshold:  0.6,
		TitleWeight:         0.3,
		IngredientsWeight:   0.4,
		InstructionsWeight:  0.3,
		MinIngredientCount:  3,
	}
}

const heuristicRecipePage = `<html>
<head>
	<meta property="og:image" content="https://example.com/bild.jpg">
</head>
<body>
	<h1 class="recipe-heading">Köttfärssås</h1>
	<div class="servings">4 portioner</div>
	<ul class="ingredients-list">
		<li>500 g köttfärs</li>
		<li>1 gul lök</li>
		<li>2 msk tomatpuré</li>
	</ul>
	<ol class="instructions">
		<li>Bryn köttfärsen i en stekpanna.</li>
		<li>Tillsätt lök och tomatpuré, låt puttra.</li>
	</ol>
</body>
</html>`

func TestExtractHeuristicCompletePage(t *testing.T) {
	doc := mustDoc(t, heuristicRecipePage)

	rec := extractHeuristic(doc, testExtractorConfig(), "https://example.com/kottfarssas")
	require.NotNil(t, rec)

	assert.Equal(t, "Köttfärssås", rec.Name)
	assert.Equal(t, 4, rec.Servings)
	assert.Equal(t, common.SourceHeuristic, rec.Source)
	assert.InDelta(t, 1.0, rec.Confidence, 1e-9)
	assert.Equal(t, "https://example.com/bild.jpg", rec.ImageURL)

	require.Len(t, rec.Ingredients, 3)
	assert.Equal(t, common.StructuredIngredient{Name: "köttfärs", Amount: 500, Unit: "g"}, rec.Ingredients[0])

	assert.Contains(t, rec.Instructions, "1. Bryn köttfärsen")
	assert.Contains(t, rec.Instructions, "2. Tillsätt lök")
}

func TestExtractHeuristicBelowThreshold(t *testing.T) {
	// 只有標題與兩行食材，食材數量不足不計分，0.3 低於門檻
	html := `<html><body>
		<h1>Halvfärdig sida</h1>
		<ul class="ingredients"><li>1 lök</li><li>salt</li></ul>
	</body></html>`

	rec := extractHeuristic(mustDoc(t, html), testExtractorConfig(), "https://example.com")
	assert.Nil(t, rec)
}

func TestExtractHeuristicIgnoresImplausibleTitle(t *testing.T) {
	// h1 太短時往下嘗試 og:title
	html := `<html><head>
		<meta property="og:title" content="Ugnsbakad lax med citron">
	</head><body>
		<h1>!?</h1>
		<ul class="ingredients"><li>600 g laxfilé</li><li>1 citron</li><li>salt</li></ul>
		<ol><li>Sätt ugnen på 200 grader och baka laxen i 20 minuter.</li></ol>
	</body></html>`

	rec := extractHeuristic(mustDoc(t, html), testExtractorConfig(), "https://example.com/lax")
	require.NotNil(t, rec)
	assert.Equal(t, "Ugnsbakad lax med citron", rec.Name)
}
