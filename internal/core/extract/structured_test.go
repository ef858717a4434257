package extract

import (
	"strings"
	"testing"

	"meal-planner/internal/pkg/common"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func jsonLDPage(payload string) string {
	return `<html><head><script type="application/ld+json">` + payload + `</script></head><body></body></html>`
}

func TestExtractStructuredSingleRecipe(t *testing.T) {
	doc := mustDoc(t, jsonLDPage(`{
		"@context": "https://schema.org",
		"@type": "Recipe",
		"name": "Krämig pasta",
		"recipeYield": "4 portioner",
		"recipeIngredient": ["4 dl grädde", "1 gul lök", "salt"],
		"recipeInstructions": [
			{"@type": "HowToStep", "text": "Koka pastan."},
			{"@type": "HowToStep", "text": "Fräs löken."}
		],
		"recipeCategory": "Middag",
		"recipeCuisine": "Italienskt",
		"keywords": "Vegetariskt, Snabbt, middag",
		"image": {"@type": "ImageObject", "url": "https://example.com/pasta.jpg"}
	}`))

	rec := extractStructured(doc, "https://example.com/recept/pasta")
	require.NotNil(t, rec)

	assert.Equal(t, "Krämig pasta", rec.Name)
	assert.Equal(t, 4, rec.Servings)
	assert.Equal(t, common.SourceStructured, rec.Source)
	assert.Equal(t, 0.9, rec.Confidence)
	assert.Equal(t, "https://example.com/recept/pasta", rec.SourceURL)
	assert.Equal(t, "https://example.com/pasta.jpg", rec.ImageURL)

	require.Len(t, rec.Ingredients, 3)
	assert.Equal(t, common.StructuredIngredient{Name: "grädde", Amount: 4, Unit: "dl"}, rec.Ingredients[0])
	assert.Equal(t, common.StructuredIngredient{Name: "gul lök", Amount: 1}, rec.Ingredients[1])
	assert.Equal(t, common.StructuredIngredient{Name: "salt"}, rec.Ingredients[2])

	assert.Equal(t, "1. Koka pastan.\n\n2. Fräs löken.", rec.Instructions)

	// category → cuisine → keywords 的順序，轉小寫並去重
	assert.Equal(t, []string{"middag", "italienskt", "vegetariskt", "snabbt"}, rec.Tags)
}

func TestExtractStructuredGraphContainer(t *testing.T) {
	doc := mustDoc(t, jsonLDPage(`{
		"@context": "https://schema.org",
		"@graph": [
			{"@type": "WebSite", "name": "Receptsajten"},
			{
				"@type": ["Recipe", "Thing"],
				"name": "Tomatsoppa",
				"recipeIngredient": ["6 st tomater", "1 msk olivolja"],
				"recipeInstructions": "Mixa allt och koka upp."
			}
		]
	}`))

	rec := extractStructured(doc, "https://example.com/soppa")
	require.NotNil(t, rec)
	assert.Equal(t, "Tomatsoppa", rec.Name)
	assert.Equal(t, 4, rec.Servings) // 缺少 recipeYield 時用預設值
	assert.Equal(t, "Mixa allt och koka upp.", rec.Instructions)
}

func TestExtractStructuredSkipsMalformedDocuments(t *testing.T) {
	html := `<html><head>` +
		`<script type="application/ld+json">{not valid json</script>` +
		`<script type="application/ld+json">{"@type":"Recipe","name":"Pannkakor","recipeIngredient":["3 dl mjölk"]}</script>` +
		`</head><body></body></html>`

	rec := extractStructured(mustDoc(t, html), "https://example.com/pannkakor")
	require.NotNil(t, rec)
	assert.Equal(t, "Pannkakor", rec.Name)
}

func TestExtractStructuredRejectsIncompleteNodes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"no recipe node", `{"@type": "Article", "name": "Inte ett recept"}`},
		{"missing name", `{"@type": "Recipe", "recipeIngredient": ["2 dl mjölk"]}`},
		{"missing ingredients", `{"@type": "Recipe", "name": "Tomt recept"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := extractStructured(mustDoc(t, jsonLDPage(tt.payload)), "https://example.com")
			assert.Nil(t, rec)
		})
	}
}

func TestExtractStructuredLegacyIngredientsField(t *testing.T) {
	doc := mustDoc(t, jsonLDPage(`{
		"@type": "Recipe",
		"name": "Gammalt recept",
		"ingredients": ["2 msk smör"]
	}`))

	rec := extractStructured(doc, "https://example.com/gammalt")
	require.NotNil(t, rec)
	require.Len(t, rec.Ingredients, 1)
	assert.Equal(t, "smör", rec.Ingredients[0].Name)
}
