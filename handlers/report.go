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

// GetAdminDashboard 查詢管理員儀表板彙總資料（管理員專用）
func GetAdminDashboard(c *gin.Context) {
	dashboard, err := services.GetAdminDashboard()
	if err != nil {
		log.Printf("Failed to build admin dashboard: %v", err)
		ServiceErrorResponse(c, "查詢儀表板失敗", err)
		return
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", dashboard)
}

// GetEarnings 查詢總收入與各停車場收入明細（管理員專用）
func GetEarnings(c *gin.Context) {
	total, err := services.GetEarningsSummary()
	if err != nil {
		log.Printf("Failed to calculate total earnings: %v", err)
		ServiceErrorResponse(c, "查詢收入失敗", err)
		return
	}

	perLot, err := services.GetPerLotEarnings()
	if err != nil {
		log.Printf("Failed to calculate per-lot earnings: %v", err)
		ServiceErrorResponse(c, "查詢收入失敗", err)
		return
	}

	limit := 10
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	recent, err := services.GetRecentBookings(limit)
	if err != nil {
		log.Printf("Failed to fetch recent bookings: %v", err)
		ServiceErrorResponse(c, "查詢收入失敗", err)
		return
	}

	recentResponses := make([]models.ReservationResponse, len(recent))
	for i := range recent {
		recentResponses[i] = recent[i].ToResponse()
	}
	SuccessResponse(c, http.StatusOK, "查詢成功", gin.H{
		"total_earnings":  total,
		"per_lot":         perLot,
		"recent_bookings": recentResponses,
	})
}

// GetUserDashboard 查詢使用者儀表板：可用停車場、目前停車紀錄與歷史
func GetUserDashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	lots, err := services.ListLots()
	if err != nil {
		log.Printf("Failed to list parking lots: %v", err)
		ServiceErrorResponse(c, "查詢儀表板失敗", err)
		return
	}

	active, err := services.GetActiveReservation(userID)
	if err != nil {
		log.Printf("Failed to fetch active reservation for user %d: %v", userID, err)
		ServiceErrorResponse(c, "查詢儀表板失敗", err)
		return
	}

	history, err := services.GetHistory(userID, 10)
	if err != nil {
		log.Printf("Failed to fetch history for user %d: %v", userID, err)
		ServiceErrorResponse(c, "查詢儀表板失敗", err)
		return
	}

	lotResponses := make([]models.ParkingLotResponse, len(lots))
	for i := range lots {
		lotResponses[i] = lots[i].ToResponse()
	}
	historyResponses := make([]models.ReservationResponse, len(history))
	for i := range history {
		historyResponses[i] = history[i].ToResponse()
	}

	data := gin.H{
		"lots":    lotResponses,
		"history": historyResponses,
	}
	if active != nil {
		data["current_reservation"] = active.ToResponse()
		data["current_duration_hours"] = active.DurationHours(time.Now().UTC())
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", data)
}
