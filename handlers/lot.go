package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/D-Dynamico/Parking-Management/models"
	"github.com/D-Dynamico/Parking-Management/services"

	"github.com/gin-gonic/gin"
)

// CreateLot 建立停車場資料檢查（管理員專用）
func CreateLot(c *gin.Context) {
	var req models.CreateLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("Invalid input data: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", err.Error())
		return
	}

	lot, err := services.CreateLot(req)
	if err != nil {
		log.Printf("Failed to create parking lot %s: %v", req.PrimeLocationName, err)
		ServiceErrorResponse(c, "建立停車場失敗", err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "停車場建立成功", lot.ToResponse())
}

// UpdateLot 更新停車場資料檢查（管理員專用）
func UpdateLot(c *gin.Context) {
	lotID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		log.Printf("Invalid lot ID: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的停車場ID", err.Error())
		return
	}

	var req models.UpdateLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("Invalid input data: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", err.Error())
		return
	}

	lot, err := services.EditLot(lotID, req)
	if err != nil {
		log.Printf("Failed to update parking lot %d: %v", lotID, err)
		ServiceErrorResponse(c, "更新停車場失敗", err)
		return
	}

	SuccessResponse(c, http.StatusOK, "停車場更新成功", lot.ToResponse())
}

// DeleteLot 刪除停車場（管理員專用，有人停車時拒絕）
func DeleteLot(c *gin.Context) {
	lotID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		log.Printf("Invalid lot ID: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的停車場ID", err.Error())
		return
	}

	if err := services.DeleteLot(lotID); err != nil {
		log.Printf("Failed to delete parking lot %d: %v", lotID, err)
		ServiceErrorResponse(c, "刪除停車場失敗", err)
		return
	}

	SuccessResponse(c, http.StatusOK, "停車場刪除成功", nil)
}

// GetLotDetail 查詢停車場與其車位清單
func GetLotDetail(c *gin.Context) {
	lotID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		log.Printf("Invalid lot ID: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的停車場ID", err.Error())
		return
	}

	lot, spots, err := services.GetLotDetail(lotID)
	if err != nil {
		log.Printf("Failed to fetch parking lot %d: %v", lotID, err)
		ServiceErrorResponse(c, "查詢停車場失敗", err)
		return
	}

	spotResponses := make([]models.ParkingSpotResponse, len(spots))
	for i := range spots {
		spotResponses[i] = spots[i].ToResponse()
	}
	SuccessResponse(c, http.StatusOK, "查詢成功", gin.H{
		"lot":   lot.ToResponse(),
		"spots": spotResponses,
	})
}

// ListLots 查詢所有停車場與即時空位數
func ListLots(c *gin.Context) {
	lots, err := services.ListLots()
	if err != nil {
		log.Printf("Failed to list parking lots: %v", err)
		ServiceErrorResponse(c, "查詢停車場失敗", err)
		return
	}

	responses := make([]models.ParkingLotResponse, len(lots))
	for i := range lots {
		responses[i] = lots[i].ToResponse()
	}
	SuccessResponse(c, http.StatusOK, "查詢成功", responses)
}
