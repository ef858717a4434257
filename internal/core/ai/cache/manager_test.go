package cache

import (
	"context"
	"testing"
	"time"

	"meal-planner/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cacheTestConfig() *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{
			Enabled:         true,
			MaxSize:         5,
			TTL:             time.Hour,
			CleanupInterval: time.Hour,
		},
	}
}

func TestManagerSetGet(t *testing.T) {
	m := NewManager(cacheTestConfig())
	require.NotNil(t, m)
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "import:https://example.com/pannkakor", `{"name":"Pannkakor"}`))

	val, err := m.Get(ctx, "import:https://example.com/pannkakor")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Pannkakor"}`, val)
}

func TestManagerGetMiss(t *testing.T) {
	m := NewManager(cacheTestConfig())
	require.NotNil(t, m)
	defer m.Close()

	val, err := m.Get(context.Background(), "saknas")
	assert.Error(t, err)
	assert.Empty(t, val)
}

func TestManagerDisabledReturnsNil(t *testing.T) {
	cfg := cacheTestConfig()
	cfg.Cache.Enabled = false

	m := NewManager(cfg)
	assert.Nil(t, m)

	// nil manager 的操作都是安全的 no-op
	_, err := m.Get(context.Background(), "nyckel")
	assert.Error(t, err)
	assert.NoError(t, m.Set(context.Background(), "nyckel", "värde"))
	assert.Equal(t, map[string]interface{}{"enabled": false}, m.GetStats())
	assert.NoError(t, m.Close())
}

func TestManagerStats(t *testing.T) {
	m := NewManager(cacheTestConfig())
	require.NotNil(t, m)
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "a", "1"))
	_, _ = m.Get(ctx, "a")
	_, _ = m.Get(ctx, "b")

	stats := m.GetStats()
	assert.Equal(t, 1, stats["size"])
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
	assert.Equal(t, 0.5, stats["hit_ratio"])
}

func TestManagerCloseStopsCleanupAndIsIdempotent(t *testing.T) {
	cfg := cacheTestConfig()
	cfg.Cache.CleanupInterval = 10 * time.Millisecond

	m := NewManager(cfg)
	require.NotNil(t, m)

	require.NoError(t, m.Set(context.Background(), "a", "1"))
	require.NoError(t, m.Close())

	// 關閉後儲存已清空，重複關閉不得 panic
	_, err := m.Get(context.Background(), "a")
	assert.Error(t, err)
	assert.NoError(t, m.Close())
}
