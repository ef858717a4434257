package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"meal-planner/internal/core/ai/cache"
	"meal-planner/internal/core/ai/openrouter"
	"meal-planner/internal/core/ai/provider"
	"meal-planner/internal/infrastructure/config"
)

// Service AI 服務：在提供者之上加一層快取與請求頻率保護
type Service struct {
	config       *config.Config
	provider     provider.Provider
	cacheManager *cache.Manager
	mu           sync.Mutex
	lastRequest  time.Time
}

// NewService 創建 AI 服務，OpenRouter 未啟用時回傳 nil
func NewService(cfg *config.Config, cacheManager *cache.Manager) *Service {
	if !cfg.OpenRouter.Enabled {
		return nil
	}

	return &Service{
		config:       cfg,
		provider:     openrouter.NewClient(cfg),
		cacheManager: cacheManager,
	}
}

// NewServiceWithProvider 以自訂提供者創建 AI 服務
func NewServiceWithProvider(cfg *config.Config, p provider.Provider, cacheManager *cache.Manager) *Service {
	return &Service{
		config:       cfg,
		provider:     p,
		cacheManager: cacheManager,
	}
}

// GenerateText 統一對外方法：快取命中直接回傳，否則呼叫提供者
func (s *Service) GenerateText(ctx context.Context, prompt string) (string, error) {
	if err := s.checkRequestRate(); err != nil {
		return "", err
	}

	// 統一 prompt 空白，確保快取 key 一致
	normalized := strings.Join(strings.Fields(prompt), " ")

	// 檢查緩存（用 cacheManager）
	if s.cacheManager != nil {
		if val, err := s.cacheManager.Get(ctx, cacheKey(normalized)); err == nil && val != "" {
			return val, nil
		}
	}

	resp, err := s.provider.Generate(ctx, &provider.Request{
		Messages: []provider.Message{
			{Role: "user", Content: normalized},
		},
		MaxTokens: s.config.OpenRouter.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	if s.cacheManager != nil {
		_ = s.cacheManager.Set(ctx, cacheKey(normalized), resp.Content)
	}

	return resp.Content, nil
}

// checkRequestRate 檢查請求頻率
func (s *Service) checkRequestRate() error {
	if !s.config.RateLimit.Enabled {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	minInterval := s.config.RateLimit.Window / time.Duration(s.config.RateLimit.Requests)
	if now.Sub(s.lastRequest) < minInterval {
		return errors.New("request rate limit exceeded")
	}

	s.lastRequest = now
	return nil
}

func cacheKey(prompt string) string {
	return "ai:response:" + prompt
}
