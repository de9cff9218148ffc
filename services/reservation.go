package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/D-Dynamico/Parking-Management/database"
	"github.com/D-Dynamico/Parking-Management/models"

	"gorm.io/gorm"
)

// RoundCost 將金額四捨五入到小數點後兩位（half-up）
func RoundCost(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// CalculateTotalCost 依進出場時間與快照費率計算停車費。
// 時鐘回退導致離場早於進場時，經過時數以 0 計，不會算出負費用。
func CalculateTotalCost(parkingTime, leavingTime time.Time, costPerHour float64) float64 {
	hours := leavingTime.Sub(parkingTime).Seconds() / 3600
	if hours < 0 {
		log.Printf("leaving_timestamp %v is before parking_timestamp %v, clamping duration to 0",
			leavingTime, parkingTime)
		hours = 0
	}
	return RoundCost(hours * costPerHour)
}

// Book 為使用者在指定停車場訂一個車位。
// 同一使用者同時最多持有一筆未離場紀錄；車位依編號遞增取第一個可用者。
// 建立停車紀錄與翻轉車位狀態在同一事務內完成，
// 狀態翻轉採條件更新（status 仍為 available 才生效），
// 兩個併發訂位搶同一車位時輸家會改拿下一個候選車位，搶不到即回報客滿。
func Book(userID int, lotID int) (*models.ParkingReservation, error) {
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("user %d not found", userID)
		}
		log.Printf("Failed to find user %d: %v", userID, err)
		return nil, persistenceError(fmt.Errorf("failed to find user: %w", err))
	}

	// 開始事務
	tx := database.DB.Begin()

	// 硬性不變量：一人同時只能停一格，不靠前端擋
	var existing models.ParkingReservation
	err := tx.Where("user_id = ? AND leaving_timestamp IS NULL", userID).First(&existing).Error
	if err == nil {
		tx.Rollback()
		return nil, alreadyParkedError("user %d already has an active reservation %d on spot %s",
			userID, existing.ReservationID, existing.SpotNumber)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		log.Printf("Failed to check active reservation for user %d: %v", userID, err)
		return nil, persistenceError(fmt.Errorf("failed to check active reservation: %w", err))
	}

	var lot models.ParkingLot
	if err := tx.First(&lot, lotID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("parking lot %d not found", lotID)
		}
		log.Printf("Failed to find parking lot %d: %v", lotID, err)
		return nil, persistenceError(fmt.Errorf("failed to find parking lot: %w", err))
	}

	// 依編號排序取得候選車位（first-fit，最小序號優先）
	var candidates []models.ParkingSpot
	if err := tx.
		Where("lot_id = ? AND status = ?", lotID, models.SpotAvailable).
		Order("spot_number ASC").
		Find(&candidates).Error; err != nil {
		tx.Rollback()
		log.Printf("Failed to fetch available spots for lot %d: %v", lotID, err)
		return nil, persistenceError(fmt.Errorf("failed to fetch available spots: %w", err))
	}

	// 條件更新搶位：status 已被別人翻走就換下一個
	var chosen *models.ParkingSpot
	for i := range candidates {
		result := tx.Model(&models.ParkingSpot{}).
			Where("spot_id = ? AND status = ?", candidates[i].SpotID, models.SpotAvailable).
			Update("status", models.SpotOccupied)
		if result.Error != nil {
			tx.Rollback()
			log.Printf("Failed to occupy spot %d: %v", candidates[i].SpotID, result.Error)
			return nil, persistenceError(fmt.Errorf("failed to occupy spot: %w", result.Error))
		}
		if result.RowsAffected == 1 {
			chosen = &candidates[i]
			break
		}
		log.Printf("Spot %s was taken concurrently, trying next candidate", candidates[i].SpotNumber)
	}
	if chosen == nil {
		tx.Rollback()
		return nil, capacityExceededError("no available spots in parking lot %d (%s)",
			lotID, lot.PrimeLocationName)
	}

	// 建立停車紀錄，費率與場名、車位編號於此刻快照
	reservation := models.ParkingReservation{
		SpotID:           chosen.SpotID,
		UserID:           userID,
		LotName:          lot.PrimeLocationName,
		SpotNumber:       chosen.SpotNumber,
		ParkingTimestamp: time.Now().UTC(),
		CostPerHour:      lot.Price,
	}
	if err := tx.Create(&reservation).Error; err != nil {
		tx.Rollback()
		log.Printf("Failed to create reservation for user %d on spot %d: %v", userID, chosen.SpotID, err)
		return nil, persistenceError(fmt.Errorf("failed to create reservation: %w", err))
	}

	// 提交事務
	if err := tx.Commit().Error; err != nil {
		return nil, persistenceError(fmt.Errorf("failed to commit transaction: %w", err))
	}

	log.Printf("User %d booked spot %s at %s (rate %.2f/hour)",
		userID, chosen.SpotNumber, lot.PrimeLocationName, lot.Price)
	return &reservation, nil
}

// Release 結束使用者目前的停車紀錄並結算費用。
// 寫入離場時間與總費用、翻回車位狀態在同一事務內完成；
// 紀錄結算後不再變動，重複呼叫會收到 no_active_reservation。
func Release(userID int) (*models.ParkingReservation, error) {
	// 開始事務
	tx := database.DB.Begin()

	var reservation models.ParkingReservation
	err := tx.Where("user_id = ? AND leaving_timestamp IS NULL", userID).First(&reservation).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, noActiveReservationError("user %d has no active reservation to release", userID)
		}
		log.Printf("Failed to find active reservation for user %d: %v", userID, err)
		return nil, persistenceError(fmt.Errorf("failed to find active reservation: %w", err))
	}

	leavingTime := time.Now().UTC()
	totalCost := CalculateTotalCost(reservation.ParkingTimestamp, leavingTime, reservation.CostPerHour)

	if err := tx.Model(&reservation).Updates(map[string]interface{}{
		"leaving_timestamp": leavingTime,
		"total_cost":        totalCost,
	}).Error; err != nil {
		tx.Rollback()
		log.Printf("Failed to close reservation %d: %v", reservation.ReservationID, err)
		return nil, persistenceError(fmt.Errorf("failed to close reservation: %w", err))
	}

	// 翻回車位狀態，條件更新防止重複釋放
	result := tx.Model(&models.ParkingSpot{}).
		Where("spot_id = ? AND status = ?", reservation.SpotID, models.SpotOccupied).
		Update("status", models.SpotAvailable)
	if result.Error != nil {
		tx.Rollback()
		log.Printf("Failed to free spot %d: %v", reservation.SpotID, result.Error)
		return nil, persistenceError(fmt.Errorf("failed to free spot: %w", result.Error))
	}
	if result.RowsAffected != 1 {
		tx.Rollback()
		log.Printf("Spot %d was not occupied while closing reservation %d",
			reservation.SpotID, reservation.ReservationID)
		return nil, persistenceError(fmt.Errorf("spot %d status inconsistent with open reservation %d",
			reservation.SpotID, reservation.ReservationID))
	}

	// 提交事務
	if err := tx.Commit().Error; err != nil {
		return nil, persistenceError(fmt.Errorf("failed to commit transaction: %w", err))
	}

	reservation.LeavingTimestamp = &leavingTime
	reservation.TotalCost = &totalCost
	log.Printf("User %d released spot %s, parked %.2f hours, total cost %.2f",
		userID, reservation.SpotNumber, reservation.DurationHours(leavingTime), totalCost)
	return &reservation, nil
}

// GetActiveReservation 查詢使用者目前未離場的停車紀錄，沒有則回傳 nil
func GetActiveReservation(userID int) (*models.ParkingReservation, error) {
	var reservation models.ParkingReservation
	err := database.DB.
		Where("user_id = ? AND leaving_timestamp IS NULL", userID).
		First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("Failed to fetch active reservation for user %d: %v", userID, err)
		return nil, persistenceError(fmt.Errorf("failed to fetch active reservation: %w", err))
	}
	return &reservation, nil
}

// GetHistory 查詢使用者的停車歷史，最近進場的排最前面
func GetHistory(userID int, limit int) ([]models.ParkingReservation, error) {
	if limit <= 0 {
		limit = 10
	}

	var reservations []models.ParkingReservation
	if err := database.DB.
		Where("user_id = ?", userID).
		Order("parking_timestamp DESC").
		Limit(limit).
		Find(&reservations).Error; err != nil {
		log.Printf("Failed to fetch history for user %d: %v", userID, err)
		return nil, persistenceError(fmt.Errorf("failed to fetch reservation history: %w", err))
	}

	return reservations, nil
}
