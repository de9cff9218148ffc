package handlers

import (
	"net/http"

	"github.com/D-Dynamico/Parking-Management/services"

	"github.com/gin-gonic/gin"
)

// APIResponse 定義統一的 API 回應結構
type APIResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"` // omitempty 表示如果為空則不顯示
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse 返回成功的回應
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 返回失敗的回應
func ErrorResponse(c *gin.Context, statusCode int, message string, err string) {
	c.JSON(statusCode, APIResponse{
		Status:  false,
		Message: message,
		Error:   err,
	})
}

// statusForKind 將服務層錯誤種類對應到 HTTP 狀態碼
func statusForKind(kind services.Kind) int {
	switch kind {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict, services.KindAlreadyParked,
		services.KindNoActiveReservation, services.KindCapacityExceeded:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ServiceErrorResponse 依服務層錯誤種類回傳對應的失敗回應
func ServiceErrorResponse(c *gin.Context, message string, err error) {
	kind := services.KindOf(err)
	c.JSON(statusForKind(kind), APIResponse{
		Status:  false,
		Message: message,
		Error:   err.Error(),
		Code:    string(kind),
	})
}
