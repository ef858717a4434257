package api

import (
	"context"
	"net/http"
	"time"

	"meal-planner/internal/api/handlers/health"
	recipeHandler "meal-planner/internal/api/handlers/recipe"
	shoppingHandler "meal-planner/internal/api/handlers/shopping"
	"meal-planner/internal/api/middleware"
	"meal-planner/internal/core/ai/cache"
	"meal-planner/internal/core/ai/service"
	"meal-planner/internal/core/extract"
	"meal-planner/internal/core/shopping"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/storage"
	"meal-planner/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (1MB，純 JSON API 不需要更大)
	maxBodySize = 1 << 20
)

// store 同時提供食譜與購物清單兩個儲存契約
type store interface {
	storage.RecipeStore
	storage.ShoppingListStore
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, cacheManager *cache.Manager) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制與重複請求防護
	router.Use(middleware.BodySizeLimit(maxBodySize))
	router.Use(middleware.Deduplication(cfg))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 初始化儲存層
	dataStore, err := newStore(cfg)
	if err != nil {
		common.LogError("Failed to initialize storage", zap.Error(err))
		return nil, err
	}

	// 初始化 AI 服務（OpenRouter 未啟用時為 nil，匯入僅剩前兩層）
	aiService := service.NewService(cfg, cacheManager)

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.Bool("ai_fallback_available", aiService != nil),
		zap.String("model", cfg.OpenRouter.Model),
		zap.Duration("timeout", timeoutDuration),
	)

	// 初始化擷取服務
	var aiClient extract.AIClient
	if aiService != nil {
		aiClient = aiService
	}
	extractService := extract.NewService(cfg, extract.NewFetcher(cfg), aiClient, cacheManager)

	// 初始化購物清單同步服務
	syncService := shopping.NewService(dataStore, dataStore)

	// 全局中間件：設置超時和配置
	router.Use(func(c *gin.Context) {
		// 設置請求超時
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		// 設置配置與快取管理員，健康檢查會讀取
		c.Set("config", cfg)
		c.Set("cache_manager", cacheManager)

		// 處理請求
		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		importHandler := recipeHandler.NewHandler(extractService, dataStore)
		listHandler := shoppingHandler.NewHandler(syncService, dataStore)

		// 食譜匯入
		recipeGroup := api.Group("/recipes")
		{
			recipeGroup.POST("/import", importHandler.HandleImport)
		}

		// 購物清單
		shoppingGroup := api.Group("/shopping-list")
		{
			shoppingGroup.POST("", listHandler.HandleCreateList)
			shoppingGroup.GET("/:id", listHandler.HandleGetList)
			shoppingGroup.POST("/sync", listHandler.HandleSync)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("ai_fallback_available", aiService != nil),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}

// newStore 依設定選擇儲存後端，預設為行程內記憶體儲存
func newStore(cfg *config.Config) (store, error) {
	if cfg.Redis.Enabled {
		return storage.NewRedisStore(&cfg.Redis)
	}
	return storage.NewMemoryStore(), nil
}
