package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/D-Dynamico/Parking-Management/models"
	"github.com/D-Dynamico/Parking-Management/services"

	"github.com/gin-gonic/gin"
)

// BookInput 定義訂位請求的輸入結構體
type BookInput struct {
	LotID int `json:"lot_id" binding:"required,gt=0"`
}

// currentUserID 從上下文取得 AuthMiddleware 解析出的 user_id
func currentUserID(c *gin.Context) (int, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		log.Printf("Failed to get user_id from context")
		ErrorResponse(c, http.StatusUnauthorized, "未授權", "user_id not found in token")
		return 0, false
	}

	userID, ok := value.(int)
	if !ok {
		log.Printf("Invalid user_id type in context")
		ErrorResponse(c, http.StatusUnauthorized, "未授權", "invalid user_id type")
		return 0, false
	}
	return userID, true
}

// BookSpot 為目前使用者訂一個車位
func BookSpot(c *gin.Context) {
	var input BookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Invalid input data: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", "請提供停車場 ID")
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	reservation, err := services.Book(userID, input.LotID)
	if err != nil {
		log.Printf("Failed to book spot for user %d in lot %d: %v", userID, input.LotID, err)
		ServiceErrorResponse(c, "訂位失敗", err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "訂位成功", reservation.ToResponse())
}

// ReleaseSpot 結束目前使用者的停車並結算費用
func ReleaseSpot(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	reservation, err := services.Release(userID)
	if err != nil {
		log.Printf("Failed to release spot for user %d: %v", userID, err)
		ServiceErrorResponse(c, "離場失敗", err)
		return
	}

	SuccessResponse(c, http.StatusOK, "離場成功", gin.H{
		"spot_number": reservation.SpotNumber,
		"total_cost":  reservation.TotalCost,
		"reservation": reservation.ToResponse(),
	})
}

// GetActiveReservation 查詢目前使用者未離場的停車紀錄與已停時數
func GetActiveReservation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	reservation, err := services.GetActiveReservation(userID)
	if err != nil {
		log.Printf("Failed to fetch active reservation for user %d: %v", userID, err)
		ServiceErrorResponse(c, "查詢停車紀錄失敗", err)
		return
	}
	if reservation == nil {
		SuccessResponse(c, http.StatusOK, "目前沒有停車中的紀錄", nil)
		return
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", gin.H{
		"reservation":    reservation.ToResponse(),
		"duration_hours": reservation.DurationHours(time.Now().UTC()),
	})
}

// GetHistory 查詢目前使用者的停車歷史
func GetHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit := 10
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			ErrorResponse(c, http.StatusBadRequest, "無效的 limit 參數", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	history, err := services.GetHistory(userID, limit)
	if err != nil {
		log.Printf("Failed to fetch history for user %d: %v", userID, err)
		ServiceErrorResponse(c, "查詢停車歷史失敗", err)
		return
	}

	responses := make([]models.ReservationResponse, len(history))
	for i := range history {
		responses[i] = history[i].ToResponse()
	}
	SuccessResponse(c, http.StatusOK, "查詢成功", responses)
}
