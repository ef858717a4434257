package recipe

import (
	"errors"
	"net/http"
	"strings"

	"meal-planner/internal/core/extract"
	"meal-planner/internal/infrastructure/storage"
	"meal-planner/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ImportRequest 從網址匯入食譜
type ImportRequest struct {
	URL             string `json:"url" binding:"required"` // 食譜頁面網址
	AllowAIFallback bool   `json:"allow_ai_fallback"`      // 是否允許 AI 後備層
	Save            bool   `json:"save"`                   // 匯入成功後是否存入儲存層
}

// ImportResponse 匯入結果
type ImportResponse struct {
	Recipe   *common.ExtractedRecipe `json:"recipe"`
	RecipeID string                  `json:"recipe_id,omitempty"` // Save 為 true 時回傳
}

// Handler 食譜匯入處理程序
type Handler struct {
	extractor *extract.Service
	recipes   storage.RecipeStore
}

// NewHandler 創建新的食譜匯入處理程序
func NewHandler(extractor *extract.Service, recipes storage.RecipeStore) *Handler {
	return &Handler{
		extractor: extractor,
		recipes:   recipes,
	}
}

// HandleImport 從網址匯入食譜
func (h *Handler) HandleImport(c *gin.Context) {
	requestID := requestid.Get(c)

	common.LogInfo("開始處理食譜匯入請求",
		zap.String("request_id", requestID),
		zap.String("client_ip", c.ClientIP()),
	)

	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "Invalid request format",
		})
		return
	}

	url := strings.TrimSpace(req.URL)
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "url must be an absolute http(s) URL",
		})
		return
	}

	rec, err := h.extractor.ImportFromURL(c.Request.Context(), url, req.AllowAIFallback)
	if err != nil {
		h.respondImportError(c, requestID, url, err)
		return
	}

	resp := ImportResponse{Recipe: rec}

	// 匯入成功後選擇性落盤，供購物清單同步引用
	if req.Save {
		record := &common.RecipeRecord{
			Name:        rec.Name,
			Ingredients: rec.Ingredients,
		}
		if err := h.recipes.SaveRecipe(c.Request.Context(), record); err != nil {
			common.LogError("食譜儲存失敗",
				zap.Error(err),
				zap.String("request_id", requestID),
				zap.String("url", url),
			)
			c.JSON(http.StatusInternalServerError, common.ErrorResponse{
				Code:    common.ErrCodePersistenceError,
				Message: "Recipe extracted but could not be saved",
			})
			return
		}
		resp.RecipeID = record.ID
	}

	c.JSON(http.StatusOK, resp)
}

// respondImportError 把擷取錯誤映射為 HTTP 響應
func (h *Handler) respondImportError(c *gin.Context, requestID, url string, err error) {
	switch {
	case common.IsFetchError(err):
		common.LogWarn("頁面抓取失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("url", url),
		)
		c.JSON(http.StatusBadGateway, common.ErrorResponse{
			Code:    common.ErrCodeFetchFailed,
			Message: "Could not fetch the recipe page",
			Details: err.Error(),
		})
	case common.IsExtractionExhausted(err):
		message := "Could not extract a recipe from the page"
		var ee *common.ExtractionExhaustedError
		if errors.As(err, &ee) {
			switch {
			case !ee.AIAllowed && ee.AIAvailable:
				// 提示呼叫端還有一層可試
				message = "Could not extract a recipe from the page; retry with allow_ai_fallback enabled"
			case ee.AIAllowed && !ee.AIAvailable:
				message = "Could not extract a recipe from the page; AI fallback is not available on this server"
			}
		}
		common.LogWarn("食譜擷取窮盡",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("url", url),
		)
		c.JSON(http.StatusUnprocessableEntity, common.ErrorResponse{
			Code:    common.ErrCodeExtractionExhausted,
			Message: message,
		})
	default:
		common.LogError("食譜匯入失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("url", url),
		)
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Code:    common.ErrCodeInternalError,
			Message: "Internal server error",
		})
	}
}
