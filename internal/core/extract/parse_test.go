package extract

import (
	"encoding/json"
	"testing"

	"meal-planner/internal/pkg/common"

	"github.com/stretchr/testify/assert"
)

func TestParseIngredientLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected common.StructuredIngredient
	}{
		{
			"amount unit name",
			"2 dl mjölk",
			common.StructuredIngredient{Name: "mjölk", Amount: 2, Unit: "dl"},
		},
		{
			"mixed fraction",
			"1 1/2 msk socker",
			common.StructuredIngredient{Name: "socker", Amount: 1.5, Unit: "msk"},
		},
		{
			"plain fraction",
			"3/4 tsk salt",
			common.StructuredIngredient{Name: "salt", Amount: 0.75, Unit: "tsk"},
		},
		{
			"decimal comma",
			"1,5 dl vispgrädde",
			common.StructuredIngredient{Name: "vispgrädde", Amount: 1.5, Unit: "dl"},
		},
		{
			"amount without unit",
			"2 gula lökar",
			common.StructuredIngredient{Name: "gula lökar", Amount: 2},
		},
		{
			"name only",
			"salt",
			common.StructuredIngredient{Name: "salt"},
		},
		{
			"bullet prefix stripped",
			"- 3 st ägg",
			common.StructuredIngredient{Name: "ägg", Amount: 3, Unit: "st"},
		},
		{
			"bare number falls back to whole line",
			"2",
			common.StructuredIngredient{Name: "2"},
		},
		{
			"unit casing normalized",
			"2 DL grädde",
			common.StructuredIngredient{Name: "grädde", Amount: 2, Unit: "dl"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseIngredientLine(tt.input))
		})
	}
}

func TestParseServings(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected int
	}{
		{"nil uses default", nil, 4},
		{"float", float64(6), 6},
		{"json number", json.Number("2"), 2},
		{"string with number", "4 portioner", 4},
		{"string without number uses default", "about six", 4},
		{"array takes first parsable", []interface{}{"8 servings"}, 8},
		{"zero clamps to one", float64(0.4), 1},
		{"negative clamps to one", -3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseServings(tt.input))
		})
	}
}

func TestNormalizeInstructionSteps(t *testing.T) {
	steps := []string{"Koka pastan.", "", "2. Stek löken.", "  Blanda   allt.  "}
	expected := "1. Koka pastan.\n\n2. Stek löken.\n\n3. Blanda allt."
	assert.Equal(t, expected, NormalizeInstructionSteps(steps))
}

func TestNormalizeInstructionText(t *testing.T) {
	input := "Koka   pastan.\r\n\r\n\r\n\r\nStek  löken."
	expected := "Koka pastan.\n\n\nStek löken."
	assert.Equal(t, expected, NormalizeInstructionText(input))
}
