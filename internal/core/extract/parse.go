package extract

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"meal-planner/internal/pkg/common"
)

// defaultServings 無法解析份量時的預設值
const defaultServings = 4

var (
	// 分數 token，如 "1/2"
	fractionPattern = regexp.MustCompile(`^(\d+)/(\d+)$`)
	// 整數或小數 token，小數點同時接受 "." 與歐陸的 ","
	decimalPattern = regexp.MustCompile(`^\d+(?:[.,]\d+)?$`)
	// 字串中的第一段連續數字
	digitsPattern = regexp.MustCompile(`\d+`)
	// 行首已有 "1." 之類的編號
	numberedStepPattern = regexp.MustCompile(`^\d+\.`)
	// 連續空白（不含換行）
	inlineSpacePattern = regexp.MustCompile(`[ \t]+`)
)

// knownUnits 食材行中會出現的計量單位（瑞典語食譜慣用）
var knownUnits = map[string]bool{
	"ml": true, "cl": true, "dl": true, "l": true, "liter": true,
	"krm": true, "tsk": true, "msk": true, "kopp": true,
	"g": true, "gram": true, "hg": true, "kg": true,
	"st": true, "förp": true, "burk": true, "paket": true, "påse": true,
	"skiva": true, "skivor": true, "klyfta": true, "klyftor": true, "knippe": true,
}

// ParseIngredientLine 將一行未結構化的食材文字解析為結構化食材
// 依序嘗試：數量+單位+名稱、數量+名稱，最後整行視為名稱（數量 0、單位空）
func ParseIngredientLine(line string) common.StructuredIngredient {
	raw := strings.TrimSpace(line)
	raw = strings.TrimPrefix(raw, "- ")
	raw = strings.TrimPrefix(raw, "• ")

	fields := strings.Fields(raw)
	amount, consumed := parseAmountTokens(fields)
	if consumed == 0 {
		return common.StructuredIngredient{Name: raw}
	}

	rest := fields[consumed:]
	unit := ""
	if len(rest) > 0 && knownUnits[strings.ToLower(rest[0])] {
		unit = strings.ToLower(rest[0])
		rest = rest[1:]
	}

	name := strings.Join(rest, " ")
	if name == "" {
		// 只有數字（或數字+單位）而沒有名稱，整行當作名稱處理
		return common.StructuredIngredient{Name: raw}
	}

	return common.StructuredIngredient{
		Name:   name,
		Amount: amount,
		Unit:   unit,
	}
}

// parseAmountTokens 將行首的數字 token 加總為數量
// 支援帶分數（"1 1/2" → 1.5）、純分數（"3/4"）與小數點逗號（"1,5"）
func parseAmountTokens(fields []string) (float64, int) {
	total := 0.0
	consumed := 0

	for _, f := range fields {
		if m := fractionPattern.FindStringSubmatch(f); m != nil {
			num, _ := strconv.ParseFloat(m[1], 64)
			den, _ := strconv.ParseFloat(m[2], 64)
			if den == 0 {
				break
			}
			total += num / den
			consumed++
			continue
		}
		if decimalPattern.MatchString(f) {
			v, _ := strconv.ParseFloat(strings.ReplaceAll(f, ",", "."), 64)
			total += v
			consumed++
			continue
		}
		break
	}

	return total, consumed
}

// ParseServings 解析份量欄位，來源可能是數字、字串或 JSON 陣列
// 數字就四捨五入（至少 1），字串取第一段數字（至少 1），無法解析回傳預設 4
func ParseServings(v interface{}) int {
	switch val := v.(type) {
	case nil:
		return defaultServings
	case int:
		return clampServings(float64(val))
	case float64:
		return clampServings(val)
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return clampServings(f)
		}
		return parseServingsString(val.String())
	case string:
		return parseServingsString(val)
	case []interface{}:
		// JSON-LD 的 recipeYield 常是陣列，取第一個能解析的元素
		for _, item := range val {
			if n := ParseServings(item); n != defaultServings {
				return n
			}
		}
		return defaultServings
	default:
		return defaultServings
	}
}

func clampServings(f float64) int {
	n := int(math.Round(f))
	if n < 1 {
		return 1
	}
	return n
}

func parseServingsString(s string) int {
	m := digitsPattern.FindString(s)
	if m == "" {
		return defaultServings
	}
	n, err := strconv.Atoi(m)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// NormalizeInstructionSteps 將離散步驟合併為一段文字
// 每個步驟加上 1 起算的編號（已有編號者不重複加）
func NormalizeInstructionSteps(steps []string) string {
	var cleaned []string
	for _, step := range steps {
		s := collapseInline(strings.TrimSpace(step))
		if s == "" {
			continue
		}
		if !numberedStepPattern.MatchString(s) {
			s = fmt.Sprintf("%d. %s", len(cleaned)+1, s)
		}
		cleaned = append(cleaned, s)
	}
	return strings.Join(cleaned, "\n\n")
}

// NormalizeInstructionText 整理整段作法文字：壓縮行內空白、空行最多保留兩行
func NormalizeInstructionText(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var out []string
	blanks := 0
	for _, line := range lines {
		l := collapseInline(strings.TrimSpace(line))
		if l == "" {
			blanks++
			if blanks > 2 {
				continue
			}
		} else {
			blanks = 0
		}
		out = append(out, l)
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}

func collapseInline(s string) string {
	return inlineSpacePattern.ReplaceAllString(s, " ")
}
