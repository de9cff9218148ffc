package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/D-Dynamico/Parking-Management/database"
	"github.com/D-Dynamico/Parking-Management/models"

	"gorm.io/gorm"
)

// SpotNumberFor 依停車場名稱前三碼（大寫）加 3 位數序號產生車位編號，如 MAL-001。
// 編號僅在停車場內唯一，不同停車場可能撞名。
func SpotNumberFor(lotName string, ordinal int) string {
	prefix := []rune(strings.ToUpper(lotName))
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return fmt.Sprintf("%s-%03d", string(prefix), ordinal)
}

// CreateLot 建立停車場並一次配置所有車位。
// 停車場與車位在同一事務內建立，任何一步失敗全部回滾，不留下部分狀態。
func CreateLot(req models.CreateLotRequest) (*models.ParkingLot, error) {
	// 驗證輸入
	if strings.TrimSpace(req.PrimeLocationName) == "" ||
		strings.TrimSpace(req.Address) == "" ||
		strings.TrimSpace(req.PinCode) == "" {
		return nil, validationError("prime_location_name, address and pin_code are required")
	}
	if req.Price <= 0 {
		return nil, validationError("price must be positive, got %.2f", req.Price)
	}
	if req.MaximumNumberOfSpots <= 0 {
		return nil, validationError("maximum_number_of_spots must be positive, got %d", req.MaximumNumberOfSpots)
	}

	lot := models.ParkingLot{
		PrimeLocationName:    strings.TrimSpace(req.PrimeLocationName),
		Price:                req.Price,
		Address:              strings.TrimSpace(req.Address),
		PinCode:              strings.TrimSpace(req.PinCode),
		MaximumNumberOfSpots: req.MaximumNumberOfSpots,
	}

	// 開始事務
	tx := database.DB.Begin()

	if err := tx.Create(&lot).Error; err != nil {
		tx.Rollback()
		log.Printf("Failed to create parking lot %s: %v", lot.PrimeLocationName, err)
		return nil, persistenceError(fmt.Errorf("failed to create parking lot: %w", err))
	}

	// 依序建立車位，序號由 1 開始
	for i := 1; i <= req.MaximumNumberOfSpots; i++ {
		spot := models.ParkingSpot{
			LotID:      lot.LotID,
			SpotNumber: SpotNumberFor(lot.PrimeLocationName, i),
			Status:     models.SpotAvailable,
		}
		if err := tx.Create(&spot).Error; err != nil {
			tx.Rollback()
			log.Printf("Failed to create spot %d for lot %d: %v", i, lot.LotID, err)
			return nil, persistenceError(fmt.Errorf("failed to create parking spot %d: %w", i, err))
		}
	}

	// 提交事務
	if err := tx.Commit().Error; err != nil {
		return nil, persistenceError(fmt.Errorf("failed to commit transaction: %w", err))
	}

	lot.AvailableSpots = lot.MaximumNumberOfSpots
	log.Printf("Successfully created parking lot %d (%s) with %d spots",
		lot.LotID, lot.PrimeLocationName, lot.MaximumNumberOfSpots)
	return &lot, nil
}

// EditLot 更新停車場描述與費率。容量不可修改；
// 費率調整不影響已開單紀錄（它們保留訂位當下快照的費率）。
func EditLot(lotID int, req models.UpdateLotRequest) (*models.ParkingLot, error) {
	var lot models.ParkingLot
	if err := database.DB.First(&lot, lotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("parking lot %d not found", lotID)
		}
		log.Printf("Failed to find parking lot %d: %v", lotID, err)
		return nil, persistenceError(fmt.Errorf("failed to find parking lot: %w", err))
	}

	if req.PrimeLocationName != nil {
		if strings.TrimSpace(*req.PrimeLocationName) == "" {
			return nil, validationError("prime_location_name cannot be blank")
		}
		lot.PrimeLocationName = strings.TrimSpace(*req.PrimeLocationName)
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, validationError("price must be positive, got %.2f", *req.Price)
		}
		lot.Price = *req.Price
	}
	if req.Address != nil {
		if strings.TrimSpace(*req.Address) == "" {
			return nil, validationError("address cannot be blank")
		}
		lot.Address = strings.TrimSpace(*req.Address)
	}
	if req.PinCode != nil {
		if strings.TrimSpace(*req.PinCode) == "" {
			return nil, validationError("pin_code cannot be blank")
		}
		lot.PinCode = strings.TrimSpace(*req.PinCode)
	}

	if err := database.DB.Save(&lot).Error; err != nil {
		log.Printf("Failed to update parking lot %d: %v", lotID, err)
		return nil, persistenceError(fmt.Errorf("failed to update parking lot: %w", err))
	}

	log.Printf("Successfully updated parking lot %d", lotID)
	return &lot, nil
}

// DeleteLot 刪除停車場及其所有車位。
// 只要有任何車位仍被佔用即拒絕刪除；歷史停車紀錄已快照場名與車位編號，保留不刪。
func DeleteLot(lotID int) error {
	var lot models.ParkingLot
	if err := database.DB.First(&lot, lotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError("parking lot %d not found", lotID)
		}
		log.Printf("Failed to find parking lot %d: %v", lotID, err)
		return persistenceError(fmt.Errorf("failed to find parking lot: %w", err))
	}

	// 安全檢查：還有車停著不能刪
	var occupied int64
	if err := database.DB.Model(&models.ParkingSpot{}).
		Where("lot_id = ? AND status = ?", lotID, models.SpotOccupied).
		Count(&occupied).Error; err != nil {
		log.Printf("Failed to count occupied spots for lot %d: %v", lotID, err)
		return persistenceError(fmt.Errorf("failed to count occupied spots: %w", err))
	}
	if occupied > 0 {
		return conflictError("cannot delete parking lot %d: %d spots are currently occupied", lotID, occupied)
	}

	// 開始事務
	tx := database.DB.Begin()

	if err := tx.Where("lot_id = ?", lotID).Delete(&models.ParkingSpot{}).Error; err != nil {
		tx.Rollback()
		log.Printf("Failed to delete spots for lot %d: %v", lotID, err)
		return persistenceError(fmt.Errorf("failed to delete parking spots: %w", err))
	}

	if err := tx.Delete(&lot).Error; err != nil {
		tx.Rollback()
		log.Printf("Failed to delete parking lot %d: %v", lotID, err)
		return persistenceError(fmt.Errorf("failed to delete parking lot: %w", err))
	}

	// 提交事務
	if err := tx.Commit().Error; err != nil {
		return persistenceError(fmt.Errorf("failed to commit transaction: %w", err))
	}

	log.Printf("Successfully deleted parking lot %d (%s)", lotID, lot.PrimeLocationName)
	return nil
}

// GetLotDetail 查詢停車場與其所有車位，車位依編號排序
func GetLotDetail(lotID int) (*models.ParkingLot, []models.ParkingSpot, error) {
	var lot models.ParkingLot
	if err := database.DB.First(&lot, lotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, notFoundError("parking lot %d not found", lotID)
		}
		log.Printf("Failed to find parking lot %d: %v", lotID, err)
		return nil, nil, persistenceError(fmt.Errorf("failed to find parking lot: %w", err))
	}

	var spots []models.ParkingSpot
	if err := database.DB.
		Where("lot_id = ?", lotID).
		Order("spot_number ASC").
		Find(&spots).Error; err != nil {
		log.Printf("Failed to fetch spots for lot %d: %v", lotID, err)
		return nil, nil, persistenceError(fmt.Errorf("failed to fetch parking spots: %w", err))
	}

	for _, spot := range spots {
		if spot.Status == models.SpotOccupied {
			lot.OccupiedSpots++
		} else {
			lot.AvailableSpots++
		}
	}

	return &lot, spots, nil
}

// ListLots 查詢所有停車場並計算各自的空位數（即時計算，不快取）
func ListLots() ([]models.ParkingLot, error) {
	var lots []models.ParkingLot
	if err := database.DB.Order("lot_id ASC").Find(&lots).Error; err != nil {
		log.Printf("Failed to fetch parking lots: %v", err)
		return nil, persistenceError(fmt.Errorf("failed to fetch parking lots: %w", err))
	}

	for i := range lots {
		available, occupied, err := CountSpotStatus(lots[i].LotID)
		if err != nil {
			return nil, err
		}
		lots[i].AvailableSpots = available
		lots[i].OccupiedSpots = occupied
	}

	return lots, nil
}

// CountSpotStatus 計算單一停車場的可用與佔用車位數
func CountSpotStatus(lotID int) (int, int, error) {
	var availableCount, occupiedCount int64
	if err := database.DB.Model(&models.ParkingSpot{}).
		Where("lot_id = ? AND status = ?", lotID, models.SpotAvailable).
		Count(&availableCount).Error; err != nil {
		log.Printf("Failed to count available spots for lot %d: %v", lotID, err)
		return 0, 0, persistenceError(fmt.Errorf("failed to count available spots: %w", err))
	}
	if err := database.DB.Model(&models.ParkingSpot{}).
		Where("lot_id = ? AND status = ?", lotID, models.SpotOccupied).
		Count(&occupiedCount).Error; err != nil {
		log.Printf("Failed to count occupied spots for lot %d: %v", lotID, err)
		return 0, 0, persistenceError(fmt.Errorf("failed to count occupied spots: %w", err))
	}
	return int(availableCount), int(occupiedCount), nil
}
