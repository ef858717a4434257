package common

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"message"`           // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// ValidationError 表示驗證錯誤
type ValidationError struct {
	message string
}

// Error 實現 error 介面
func (e *ValidationError) Error() string {
	return e.message
}

// NewValidationError 創建新的驗證錯誤
func NewValidationError(message string) error {
	return &ValidationError{
		message: message,
	}
}

// IsValidationError 檢查是否為驗證錯誤
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// FetchError 表示頁面或外部依賴無法取得
type FetchError struct {
	URL        string
	StatusCode int // 0 表示網路層錯誤，無 HTTP 狀態
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s failed with status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s failed: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsFetchError 檢查是否為抓取錯誤
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// ExtractionExhaustedError 所有允許的擷取層都失敗或低於門檻
// AIAllowed 是呼叫端的許可，AIAvailable 是伺服器端是否配置了 AI 服務，
// 兩者分開才能區分「開啟 AI 後備重試」與「這台伺服器沒有 AI 後備」
type ExtractionExhaustedError struct {
	URL         string
	AIAllowed   bool
	AIAvailable bool
	AIAttempted bool
	Err         error // AI 層的原始錯誤（若有）
}

func (e *ExtractionExhaustedError) Error() string {
	switch {
	case !e.AIAllowed && e.AIAvailable:
		return fmt.Sprintf("extraction failed for %s; AI fallback is available but was not allowed", e.URL)
	case e.AIAllowed && !e.AIAvailable:
		return fmt.Sprintf("extraction failed for %s; AI fallback is not available", e.URL)
	case e.AIAttempted:
		return fmt.Sprintf("extraction failed for %s; even the AI fallback failed", e.URL)
	default:
		return fmt.Sprintf("extraction failed for %s", e.URL)
	}
}

func (e *ExtractionExhaustedError) Unwrap() error { return e.Err }

// IsExtractionExhausted 檢查是否為擷取窮盡錯誤
func IsExtractionExhausted(err error) bool {
	var ee *ExtractionExhaustedError
	return errors.As(err, &ee)
}

// NotFoundError 參照的食譜或購物清單不存在
type NotFoundError struct {
	Resource string // "recipe" 或 "shopping_list"
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// IsNotFound 檢查是否為資源不存在錯誤
func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}

// PersistenceError 寫入儲存層失敗，一律視為致命，核心不自動重試
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsPersistenceError 檢查是否為儲存層錯誤
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeRequestTimeout  = "REQUEST_TIMEOUT"   // 408
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504

	// 業務錯誤
	ErrCodeFetchFailed         = "FETCH_FAILED"         // 502
	ErrCodeExtractionExhausted = "EXTRACTION_EXHAUSTED" // 422
	ErrCodePersistenceError    = "PERSISTENCE_ERROR"    // 500
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "無效的請求", http.StatusBadRequest, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "資源不存在", http.StatusNotFound, nil)
	ErrRequestTimeout  = NewError(ErrCodeRequestTimeout, "請求超時", http.StatusRequestTimeout, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "請求過於頻繁", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrInternalError      = NewError(ErrCodeInternalError, "服務器內部錯誤", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "服務暫時不可用", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "網關超時", http.StatusGatewayTimeout, nil)

	// 業務錯誤
	ErrCacheFull      = NewError("CACHE_FULL", "緩存已滿", http.StatusServiceUnavailable, nil)
	ErrCacheDisabled  = NewError("CACHE_DISABLED", "緩存已禁用", http.StatusServiceUnavailable, nil)
	ErrAIServiceError = NewError("AI_SERVICE_ERROR", "AI 服務錯誤", http.StatusServiceUnavailable, nil)
)
