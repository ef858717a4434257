package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			"bare object passes through",
			`{"name": "Pannkakor"}`,
			`{"name": "Pannkakor"}`,
		},
		{
			"fenced code block",
			"```json\n{\"name\": \"Pannkakor\"}\n```",
			`{"name": "Pannkakor"}`,
		},
		{
			"surrounding prose stripped",
			"Här är receptet:\n{\"name\": \"Pannkakor\"}\nHoppas det smakar!",
			`{"name": "Pannkakor"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractJSONObject(tt.input))
		})
	}
}

func TestParseJSONRejectsTrailingData(t *testing.T) {
	var v map[string]interface{}
	err := ParseJSON(`{"a": 1} {"b": 2}`, &v)
	assert.Error(t, err)
}

func TestQuoteJSONKeys(t *testing.T) {
	assert.Equal(t, `{"name": "x", "amount": 2}`, QuoteJSONKeys(`{name: "x", amount: 2}`))
}

func TestStringSliceToString(t *testing.T) {
	assert.Equal(t, "", StringSliceToString(nil))
	assert.Equal(t, "middag", StringSliceToString([]string{"middag"}))
	assert.Equal(t, "middag, vegetariskt", StringSliceToString([]string{"middag", "vegetariskt"}))
}

func TestFormatIngredients(t *testing.T) {
	got := FormatIngredients([]StructuredIngredient{
		{Name: "mjölk", Amount: 2.5, Unit: "dl"},
		{Name: "salt"},
	})
	assert.Equal(t, "- mjölk: 2.5 dl\n- salt\n", got)
}

func TestSyncRequestValidate(t *testing.T) {
	valid := SyncRequest{UserID: "user-1", NewRecipeID: "recipe-a", Date: "2026-09-02"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name string
		req  SyncRequest
	}{
		{"blank user", SyncRequest{UserID: "  ", NewRecipeID: "recipe-a", Date: "2026-09-02"}},
		{"no recipes", SyncRequest{UserID: "user-1", Date: "2026-09-02"}},
		{"bad date", SyncRequest{UserID: "user-1", OldRecipeID: "recipe-a", Date: "2026-9-2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestShoppingListContainsDate(t *testing.T) {
	list := ShoppingList{StartDate: "2026-09-01", EndDate: "2026-09-07"}

	assert.True(t, list.ContainsDate("2026-09-01"))
	assert.True(t, list.ContainsDate("2026-09-04"))
	assert.True(t, list.ContainsDate("2026-09-07"))
	assert.False(t, list.ContainsDate("2026-08-31"))
	assert.False(t, list.ContainsDate("2026-09-08"))
}
