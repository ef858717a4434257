package shopping

import (
	"net/http"
	"time"

	"meal-planner/internal/core/shopping"
	"meal-planner/internal/infrastructure/storage"
	"meal-planner/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateListRequest 建立購物清單
type CreateListRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"` // ISO 日期 (YYYY-MM-DD)
	EndDate   string `json:"end_date" binding:"required"`   // ISO 日期 (YYYY-MM-DD)
}

// Handler 購物清單處理程序
type Handler struct {
	syncService *shopping.Service
	lists       storage.ShoppingListStore
}

// NewHandler 創建新的購物清單處理程序
func NewHandler(syncService *shopping.Service, lists storage.ShoppingListStore) *Handler {
	return &Handler{
		syncService: syncService,
		lists:       lists,
	}
}

// HandleSync 處理一次餐點計畫異動的同步
func (h *Handler) HandleSync(c *gin.Context) {
	requestID := requestid.Get(c)

	var req common.SyncRequest
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

	if err := h.syncService.Sync(c.Request.Context(), req); err != nil {
		h.respondSyncError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "synced",
	})
}

// respondSyncError 把同步錯誤映射為 HTTP 響應
func (h *Handler) respondSyncError(c *gin.Context, requestID string, err error) {
	switch {
	case common.IsValidationError(err):
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: err.Error(),
		})
	case common.IsNotFound(err):
		// 新食譜不存在是呼叫端的資料問題
		common.LogWarn("同步引用了不存在的資源",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusNotFound, common.ErrorResponse{
			Code:    common.ErrCodeNotFound,
			Message: err.Error(),
		})
	default:
		common.LogError("購物清單同步失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Code:    common.ErrCodePersistenceError,
			Message: "Shopping list sync failed",
		})
	}
}

// HandleCreateList 建立一張涵蓋日期區間的購物清單
func (h *Handler) HandleCreateList(c *gin.Context) {
	requestID := requestid.Get(c)

	var req CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "Invalid request format",
		})
		return
	}

	for _, d := range []string{req.StartDate, req.EndDate} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			c.JSON(http.StatusBadRequest, common.ErrorResponse{
				Code:    common.ErrCodeInvalidRequest,
				Message: "dates must be formatted as YYYY-MM-DD",
			})
			return
		}
	}
	if req.EndDate < req.StartDate {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "end_date must not be before start_date",
		})
		return
	}

	list := &common.ShoppingList{
		UserID:    req.UserID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Items:     []common.ShoppingListItem{},
	}
	if err := h.lists.CreateList(c.Request.Context(), list); err != nil {
		common.LogError("購物清單建立失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("user_id", req.UserID),
		)
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Code:    common.ErrCodePersistenceError,
			Message: "Could not create shopping list",
		})
		return
	}

	common.LogInfo("購物清單已建立",
		zap.String("request_id", requestID),
		zap.String("list_id", list.ID),
		zap.String("user_id", req.UserID),
	)

	c.JSON(http.StatusCreated, list)
}

// HandleGetList 取得單一購物清單
func (h *Handler) HandleGetList(c *gin.Context) {
	id := c.Param("id")

	list, err := h.lists.GetList(c.Request.Context(), id)
	if err != nil {
		if common.IsNotFound(err) {
			c.JSON(http.StatusNotFound, common.ErrorResponse{
				Code:    common.ErrCodeNotFound,
				Message: err.Error(),
			})
			return
		}
		common.LogError("購物清單讀取失敗",
			zap.Error(err),
			zap.String("list_id", id),
		)
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Code:    common.ErrCodeInternalError,
			Message: "Could not load shopping list",
		})
		return
	}

	c.JSON(http.StatusOK, list)
}
