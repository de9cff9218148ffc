package services

import (
	"fmt"
	"log"

	"github.com/D-Dynamico/Parking-Management/database"
	"github.com/D-Dynamico/Parking-Management/models"
)

// AuditSpotConsistency 檢查每個車位的狀態是否與未離場紀錄一致：
// occupied 的車位必須恰好有一筆未離場紀錄，available 的車位必須沒有。
// 只讀不寫，發現不一致時記 log 並回傳筆數，由排程週期性執行。
func AuditSpotConsistency() (int, error) {
	var spots []models.ParkingSpot
	if err := database.DB.Find(&spots).Error; err != nil {
		return 0, fmt.Errorf("failed to fetch parking spots: %w", err)
	}

	mismatches := 0
	for _, spot := range spots {
		var openCount int64
		if err := database.DB.Model(&models.ParkingReservation{}).
			Where("spot_id = ? AND leaving_timestamp IS NULL", spot.SpotID).
			Count(&openCount).Error; err != nil {
			log.Printf("Failed to count open reservations for spot %d: %v", spot.SpotID, err)
			continue
		}

		switch spot.Status {
		case models.SpotOccupied:
			if openCount != 1 {
				log.Printf("Audit mismatch: spot %d (%s) is occupied but has %d open reservations",
					spot.SpotID, spot.SpotNumber, openCount)
				mismatches++
			}
		case models.SpotAvailable:
			if openCount != 0 {
				log.Printf("Audit mismatch: spot %d (%s) is available but has %d open reservations",
					spot.SpotID, spot.SpotNumber, openCount)
				mismatches++
			}
		}
	}

	if mismatches == 0 {
		log.Printf("Spot consistency audit passed for %d spots", len(spots))
	}
	return mismatches, nil
}
