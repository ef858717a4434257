package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"meal-planner/internal/core/ai/cache"
	"meal-planner/internal/core/ai/provider"
	"meal-planner/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider 固定回應的提供者替身，記錄呼叫次數
type fakeProvider struct {
	content string
	err     error
	calls   int
}

func (f *fakeProvider) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &provider.Response{Content: f.content}, nil
}

func (f *fakeProvider) GetModel() string { return "fake-model" }

func (f *fakeProvider) GetTimeout() time.Duration { return time.Second }

func serviceTestConfig() *config.Config {
	return &config.Config{
		OpenRouter: config.OpenRouterConfig{
			Enabled:   true,
			Model:     "fake-model",
			MaxTokens: 1000,
		},
		Cache: config.CacheConfig{
			Enabled:         true,
			MaxSize:         10,
			TTL:             time.Hour,
			CleanupInterval: time.Hour,
		},
	}
}

func TestNewServiceDisabledReturnsNil(t *testing.T) {
	cfg := serviceTestConfig()
	cfg.OpenRouter.Enabled = false

	assert.Nil(t, NewService(cfg, nil))
}

func TestGenerateTextReturnsProviderContent(t *testing.T) {
	p := &fakeProvider{content: "svar från modellen"}
	svc := NewServiceWithProvider(serviceTestConfig(), p, nil)

	got, err := svc.GenerateText(context.Background(), "Vad blir middag?")
	require.NoError(t, err)
	assert.Equal(t, "svar från modellen", got)
	assert.Equal(t, 1, p.calls)
}

func TestGenerateTextCachesResponses(t *testing.T) {
	cfg := serviceTestConfig()
	manager := cache.NewManager(cfg)
	require.NotNil(t, manager)
	defer manager.Close()

	p := &fakeProvider{content: "svar från modellen"}
	svc := NewServiceWithProvider(cfg, p, manager)

	first, err := svc.GenerateText(context.Background(), "Vad blir middag?")
	require.NoError(t, err)

	// 空白差異不影響快取 key
	second, err := svc.GenerateText(context.Background(), "  Vad   blir\nmiddag?  ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, p.calls, "第二次呼叫應由快取供應")
}

func TestGenerateTextProviderError(t *testing.T) {
	p := &fakeProvider{err: errors.New("model unavailable")}
	svc := NewServiceWithProvider(serviceTestConfig(), p, nil)

	got, err := svc.GenerateText(context.Background(), "Vad blir middag?")
	assert.Empty(t, got)
	assert.Error(t, err)
}

func TestGenerateTextRateLimited(t *testing.T) {
	cfg := serviceTestConfig()
	cfg.RateLimit = config.RateLimitConfig{
		Enabled:  true,
		Requests: 1,
		Window:   time.Hour,
	}

	p := &fakeProvider{content: "svar"}
	svc := NewServiceWithProvider(cfg, p, nil)

	_, err := svc.GenerateText(context.Background(), "första")
	require.NoError(t, err)

	_, err = svc.GenerateText(context.Background(), "andra")
	assert.Error(t, err)
	assert.Equal(t, 1, p.calls)
}
