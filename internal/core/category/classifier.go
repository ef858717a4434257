package category

import (
	"strings"

	"meal-planner/internal/pkg/common"
)

// 食材分類枚舉，對應超市的貨架分區
const (
	FruitVeg  common.Category = "frukt_gront"
	Meat      common.Category = "kott_fagel"
	Fish      common.Category = "fisk_skaldjur"
	Dairy     common.Category = "mejeri"
	Bread     common.Category = "brod_bageri"
	Pantry    common.Category = "skafferi"
	Frozen    common.Category = "fryst"
	Beverages common.Category = "dryck"
	Spices    common.Category = "kryddor"
	Sweets    common.Category = "godis_snacks"
	Other     common.Category = "ovrigt"
)

// Metadata 分類的靜態屬性
type Metadata struct {
	DisplayName string // 顯示名稱（瑞典語，與來源資料一致）
	ShelfLife   int    // 冷藏預設保存天數
	Freezable   bool   // 是否適合冷凍
}

// metadataTable 分類屬性表，行程啟動時建立一次，唯讀
var metadataTable = map[common.Category]Metadata{
	FruitVeg:  {DisplayName: "Frukt & Grönt", ShelfLife: 7, Freezable: false},
	Meat:      {DisplayName: "Kött & Fågel", ShelfLife: 3, Freezable: true},
	Fish:      {DisplayName: "Fisk & Skaldjur", ShelfLife: 2, Freezable: true},
	Dairy:     {DisplayName: "Mejeri", ShelfLife: 7, Freezable: false},
	Bread:     {DisplayName: "Bröd & Bageri", ShelfLife: 4, Freezable: true},
	Pantry:    {DisplayName: "Skafferi", ShelfLife: 180, Freezable: false},
	Frozen:    {DisplayName: "Fryst", ShelfLife: 90, Freezable: true},
	Beverages: {DisplayName: "Dryck", ShelfLife: 30, Freezable: false},
	Spices:    {DisplayName: "Kryddor", ShelfLife: 365, Freezable: false},
	Sweets:    {DisplayName: "Godis & Snacks", ShelfLife: 60, Freezable: false},
	Other:     {DisplayName: "Övrigt", ShelfLife: 7, Freezable: false},
}

// rule 一條分類規則：關鍵字子字串命中即歸入該分類
type rule struct {
	category common.Category
	keywords []string
}

// rules 規則依序檢查，順序有意義：部分關鍵字是其他關鍵字的子字串
// （例如 "köttfärs" 要排在通用的 "kött" 之前，"fiskpinnar" 排在 "fisk" 之前）
var rules = []rule{
	{Frozen, []string{"fryst", "frysta", "fiskpinnar", "glass"}},
	{Meat, []string{
		"köttfärs", "fläskfärs", "blandfärs", "kyckling", "korv", "bacon",
		"fläsk", "skinka", "lamm", "biff", "kött", "kalkon",
	}},
	{Fish, []string{"lax", "torsk", "räkor", "räka", "tonfisk", "sill", "makrill", "fisk", "skaldjur"}},
	{Dairy, []string{
		"mjölk", "grädde", "crème fraiche", "creme fraiche", "filmjölk", "yoghurt",
		"smör", "ost", "ägg", "kvarg", "margarin",
	}},
	{Bread, []string{"bröd", "baguette", "tortilla", "pitabröd", "knäckebröd", "bulle", "toast"}},
	{Spices, []string{
		"salt", "peppar", "basilika", "oregano", "timjan", "rosmarin", "paprikapulver",
		"kanel", "kardemumma", "spiskummin", "curry", "chilipulver", "krydd",
	}},
	{FruitVeg, []string{
		"potatis", "lök", "vitlök", "morot", "morötter", "tomat", "gurka", "paprika",
		"sallad", "spenat", "broccoli", "blomkål", "zucchini", "squash", "champinjon",
		"svamp", "äpple", "banan", "citron", "lime", "apelsin", "avokado", "purjolök",
		"selleri", "ingefära", "kål", "bär", "persilja", "dill", "koriander",
	}},
	{Sweets, []string{"choklad", "godis", "chips", "kex", "kaka"}},
	// Pantry 排在 Beverages 之前：短的飲品關鍵字（"öl"、"te"、"vin"）
	// 是常見乾貨名稱（"mjöl"、"vetemjöl"、"vinäger"）的子字串
	{Pantry, []string{
		"pasta", "spaghetti", "makaroner", "ris", "mjöl", "socker", "olja", "olivolja",
		"vinäger", "ättika", "buljong", "krossade tomater", "tomatpuré", "kokosmjölk",
		"linser", "bönor", "kikärtor", "havregryn", "müsli", "nudlar", "couscous",
		"bulgur", "honung", "sirap", "senap", "ketchup", "soja", "jäst",
	}},
	{Beverages, []string{"juice", "läsk", "vatten", "kaffe", "te", "öl", "vin", "saft"}},
}

// Classify 將自由文字的食材名稱對應到一個分類
// 全函數：任何輸入都會得到一個分類，無法匹配時回傳 Other
func Classify(name string) common.Category {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return Other
	}

	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(normalized, kw) {
				return r.category
			}
		}
	}

	return Other
}

// MetadataFor 取得分類的靜態屬性，未知分類回傳 Other 的屬性
func MetadataFor(c common.Category) Metadata {
	if m, ok := metadataTable[c]; ok {
		return m
	}
	return metadataTable[Other]
}

// All 回傳所有分類（依貨架順序），供 API 列舉使用
func All() []common.Category {
	return []common.Category{
		FruitVeg, Meat, Fish, Dairy, Bread, Pantry,
		Frozen, Beverages, Spices, Sweets, Other,
	}
}
