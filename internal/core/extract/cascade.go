package extract

import (
	"context"
	"strings"
	"time"

	"meal-planner/internal/core/ai/cache"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Service 食譜擷取服務：三層串接（結構化 → 啟發式 → AI 後備）
type Service struct {
	config       *config.Config
	fetcher      PageFetcher
	aiClient     AIClient // 可為 nil（OpenRouter 未啟用）
	cacheManager *cache.Manager
}

// NewService 創建食譜擷取服務
func NewService(cfg *config.Config, fetcher PageFetcher, aiClient AIClient, cacheManager *cache.Manager) *Service {
	return &Service{
		config:       cfg,
		fetcher:      fetcher,
		aiClient:     aiClient,
		cacheManager: cacheManager,
	}
}

// ImportFromURL 從網址匯入食譜
// 頁面只抓取一次，三層共用同一份內容；依序嘗試，第一個達到接受門檻的層獲勝
func (s *Service) ImportFromURL(ctx context.Context, url string, allowAI bool) (*common.ExtractedRecipe, error) {
	start := time.Now()

	// 檢查快取（只快取成功的匯入結果）
	if cached := s.cachedResult(ctx, url); cached != nil {
		common.LogCacheHit("import", url)
		return cached, nil
	}

	content, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	// 頁面解析一次，結構化層與啟發式層共用
	doc, docErr := goquery.NewDocumentFromReader(strings.NewReader(content))
	if docErr != nil {
		common.LogWarn("頁面 HTML 解析失敗，僅剩 AI 後備層可用",
			zap.String("url", url),
			zap.Error(docErr),
		)
	}

	if doc != nil {
		// 第一層：結構化資料
		if rec := extractStructured(doc, url); rec != nil && rec.Confidence >= s.config.Extractor.StructuredThreshold {
			s.logLayerWin(rec, start)
			s.cacheResult(ctx, url, rec)
			return rec, nil
		}

		// 第二層：啟發式解析
		if rec := extractHeuristic(doc, &s.config.Extractor, url); rec != nil && rec.Confidence >= s.config.Extractor.HeuristicThreshold {
			s.logLayerWin(rec, start)
			s.cacheResult(ctx, url, rec)
			return rec, nil
		}
	}

	// 第三層：AI 後備，只在呼叫端明確允許且服務可用時執行
	aiAvailable := s.aiClient != nil
	if !allowAI || !aiAvailable {
		common.LogWarn("擷取失敗，AI 後備未啟用",
			zap.String("url", url),
			zap.Bool("allow_ai", allowAI),
			zap.Bool("ai_available", aiAvailable),
		)
		return nil, &common.ExtractionExhaustedError{URL: url, AIAllowed: allowAI, AIAvailable: aiAvailable}
	}

	rec, err := extractWithAI(ctx, s.aiClient, content, url, s.config.Fetcher.MaxContentChars)
	if err != nil {
		common.LogError("AI 後備層失敗",
			zap.String("url", url),
			zap.Error(err),
		)
		return nil, &common.ExtractionExhaustedError{URL: url, AIAllowed: true, AIAvailable: true, AIAttempted: true, Err: err}
	}

	s.logLayerWin(rec, start)
	s.cacheResult(ctx, url, rec)
	return rec, nil
}

func (s *Service) logLayerWin(rec *common.ExtractedRecipe, start time.Time) {
	common.LogInfo("食譜擷取成功",
		zap.String("url", rec.SourceURL),
		zap.String("source", string(rec.Source)),
		zap.Float64("confidence", rec.Confidence),
		zap.Int("ingredient_count", len(rec.Ingredients)),
		zap.String("tags", common.StringSliceToString(rec.Tags)),
		zap.Duration("耗時", time.Since(start)),
	)
}

// cachedResult 從快取讀取先前的匯入結果
func (s *Service) cachedResult(ctx context.Context, url string) *common.ExtractedRecipe {
	if s.cacheManager == nil {
		return nil
	}
	val, err := s.cacheManager.Get(ctx, importCacheKey(url))
	if err != nil || val == "" {
		return nil
	}
	var rec common.ExtractedRecipe
	if err := common.ParseJSON(val, &rec); err != nil {
		return nil
	}
	return &rec
}

// cacheResult 快取成功的匯入結果
func (s *Service) cacheResult(ctx context.Context, url string, rec *common.ExtractedRecipe) {
	if s.cacheManager == nil {
		return
	}
	data, err := common.ToJSON(rec)
	if err != nil {
		return
	}
	_ = s.cacheManager.Set(ctx, importCacheKey(url), data)
}

func importCacheKey(url string) string {
	return "import:" + url
}
