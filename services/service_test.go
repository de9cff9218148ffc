package services_test

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/D-Dynamico/Parking-Management/database"
	"github.com/D-Dynamico/Parking-Management/models"
	"github.com/D-Dynamico/Parking-Management/services"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq int64

// setupTestDB 建立獨立的 in-memory SQLite 資料庫並掛到 database.DB
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:servicetest%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// in-memory 資料庫跟著連線走，限制單一連線避免各連線各開一份
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.ParkingLot{},
		&models.ParkingSpot{},
		&models.ParkingReservation{},
	))

	database.DB = db
	t.Cleanup(func() {
		sqlDB.Close()
	})
}

// createTestUser 直接插入使用者，略過 bcrypt 以加快測試
func createTestUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Password: "not-a-real-hash",
		Role:     models.RoleUser,
	}
	require.NoError(t, database.DB.Create(&user).Error)
	return &user
}

// createTestLot 透過服務層建立停車場
func createTestLot(t *testing.T, name string, price float64, capacity int) *models.ParkingLot {
	t.Helper()
	lot, err := services.CreateLot(models.CreateLotRequest{
		PrimeLocationName:    name,
		Price:                price,
		Address:              "123 Test Street",
		PinCode:              "560001",
		MaximumNumberOfSpots: capacity,
	})
	require.NoError(t, err)
	return lot
}

// backdateArrival 將停車紀錄的進場時間往回調，用於模擬經過時間
func backdateArrival(t *testing.T, reservationID int, d time.Duration) {
	t.Helper()
	require.NoError(t, database.DB.Model(&models.ParkingReservation{}).
		Where("reservation_id = ?", reservationID).
		Update("parking_timestamp", time.Now().UTC().Add(-d)).Error)
}

// requireInvariants 檢查車位狀態與未離場紀錄的一致性，以及每人至多一筆未離場
func requireInvariants(t *testing.T) {
	t.Helper()

	mismatches, err := services.AuditSpotConsistency()
	require.NoError(t, err)
	require.Zero(t, mismatches, "spot status must agree with open reservations")

	var overbooked []int
	require.NoError(t, database.DB.Model(&models.ParkingReservation{}).
		Where("leaving_timestamp IS NULL").
		Group("user_id").
		Having("COUNT(*) > 1").
		Pluck("user_id", &overbooked).Error)
	require.Empty(t, overbooked, "no user may hold two open reservations")
}
