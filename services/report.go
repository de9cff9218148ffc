package services

import (
	"fmt"
	"log"

	"github.com/D-Dynamico/Parking-Management/database"
	"github.com/D-Dynamico/Parking-Management/models"
)

// LotEarnings 定義單一停車場的收入彙總
type LotEarnings struct {
	LotName       string  `json:"lot_name"`
	TotalEarnings float64 `json:"total_earnings"`
	Completed     int     `json:"completed_reservations"`
}

// GetEarningsSummary 計算所有已結算停車紀錄的總收入
func GetEarningsSummary() (float64, error) {
	var total float64
	if err := database.DB.Model(&models.ParkingReservation{}).
		Where("leaving_timestamp IS NOT NULL").
		Select("COALESCE(SUM(total_cost), 0)").
		Scan(&total).Error; err != nil {
		log.Printf("Failed to calculate total earnings: %v", err)
		return 0, persistenceError(fmt.Errorf("failed to calculate total earnings: %w", err))
	}
	return total, nil
}

// GetPerLotEarnings 依快照的場名分組彙總收入。
// 以快照場名分組，停車場刪除後歷史收入仍可歸屬。
func GetPerLotEarnings() ([]LotEarnings, error) {
	var earnings []LotEarnings
	if err := database.DB.Model(&models.ParkingReservation{}).
		Where("leaving_timestamp IS NOT NULL").
		Select("lot_name, COALESCE(SUM(total_cost), 0) AS total_earnings, COUNT(*) AS completed").
		Group("lot_name").
		Order("lot_name ASC").
		Scan(&earnings).Error; err != nil {
		log.Printf("Failed to calculate per-lot earnings: %v", err)
		return nil, persistenceError(fmt.Errorf("failed to calculate per-lot earnings: %w", err))
	}
	return earnings, nil
}

// GetRecentBookings 查詢最近結算的停車紀錄，依離場時間由新到舊
func GetRecentBookings(limit int) ([]models.ParkingReservation, error) {
	if limit <= 0 {
		limit = 10
	}

	var reservations []models.ParkingReservation
	if err := database.DB.
		Where("leaving_timestamp IS NOT NULL").
		Order("leaving_timestamp DESC").
		Limit(limit).
		Find(&reservations).Error; err != nil {
		log.Printf("Failed to fetch recent bookings: %v", err)
		return nil, persistenceError(fmt.Errorf("failed to fetch recent bookings: %w", err))
	}

	return reservations, nil
}

// AdminDashboard 定義管理員儀表板彙總資料
type AdminDashboard struct {
	Lots           []models.ParkingLotResponse  `json:"lots"`
	TotalSpots     int64                        `json:"total_spots"`
	OccupiedSpots  int64                        `json:"occupied_spots"`
	AvailableSpots int64                        `json:"available_spots"`
	TotalUsers     int64                        `json:"total_users"`
	TotalEarnings  float64                      `json:"total_earnings"`
	RecentBookings []models.ReservationResponse `json:"recent_bookings"`
}

// GetAdminDashboard 彙總管理員儀表板所需的統計資料，全部即時查詢不快取
func GetAdminDashboard() (*AdminDashboard, error) {
	lots, err := ListLots()
	if err != nil {
		return nil, err
	}

	var totalSpots, occupiedSpots, totalUsers int64
	if err := database.DB.Model(&models.ParkingSpot{}).Count(&totalSpots).Error; err != nil {
		log.Printf("Failed to count spots: %v", err)
		return nil, persistenceError(fmt.Errorf("failed to count spots: %w", err))
	}
	if err := database.DB.Model(&models.ParkingSpot{}).
		Where("status = ?", models.SpotOccupied).
		Count(&occupiedSpots).Error; err != nil {
		log.Printf("Failed to count occupied spots: %v", err)
		return nil, persistenceError(fmt.Errorf("failed to count occupied spots: %w", err))
	}
	if err := database.DB.Model(&models.User{}).
		Where("role = ?", models.RoleUser).
		Count(&totalUsers).Error; err != nil {
		log.Printf("Failed to count users: %v", err)
		return nil, persistenceError(fmt.Errorf("failed to count users: %w", err))
	}

	totalEarnings, err := GetEarningsSummary()
	if err != nil {
		return nil, err
	}

	recent, err := GetRecentBookings(10)
	if err != nil {
		return nil, err
	}

	dashboard := AdminDashboard{
		TotalSpots:     totalSpots,
		OccupiedSpots:  occupiedSpots,
		AvailableSpots: totalSpots - occupiedSpots,
		TotalUsers:     totalUsers,
		TotalEarnings:  totalEarnings,
	}
	for i := range lots {
		dashboard.Lots = append(dashboard.Lots, lots[i].ToResponse())
	}
	for i := range recent {
		dashboard.RecentBookings = append(dashboard.RecentBookings, recent[i].ToResponse())
	}

	return &dashboard, nil
}
