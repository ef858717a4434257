package extract

import (
	"context"
	"time"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// PageFetcher 頁面抓取契約：給定 URL 回傳原始文字內容
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Fetcher 以 resty 實作的頁面抓取器
type Fetcher struct {
	config *config.Config
	client *resty.Client
}

// NewFetcher 創建頁面抓取器
// User-Agent 必須表明身份，讓站方能辨識這個匯入器
func NewFetcher(cfg *config.Config) *Fetcher {
	client := resty.New().
		SetTimeout(cfg.Fetcher.Timeout).
		SetHeader("User-Agent", cfg.Fetcher.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	return &Fetcher{
		config: cfg,
		client: client,
	}
}

// Fetch 抓取頁面內容，非 2xx 或網路錯誤回傳 FetchError
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	start := time.Now()

	resp, err := f.client.R().
		SetContext(ctx).
		Get(url)

	if err != nil {
		common.LogError("頁面抓取失敗",
			zap.String("url", url),
			zap.Error(err),
			zap.Duration("耗時", time.Since(start)),
		)
		return "", &common.FetchError{URL: url, Err: err}
	}

	if !resp.IsSuccess() {
		common.LogWarn("頁面回應非 2xx",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode()),
			zap.Duration("耗時", time.Since(start)),
		)
		return "", &common.FetchError{URL: url, StatusCode: resp.StatusCode()}
	}

	common.LogInfo("頁面抓取成功",
		zap.String("url", url),
		zap.Int("content_length", len(resp.Body())),
		zap.Duration("耗時", time.Since(start)),
	)

	return resp.String(), nil
}
