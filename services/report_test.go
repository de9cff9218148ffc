package services_test

import (
	"testing"
	"time"

	"github.com/D-Dynamico/Parking-Management/database"
	"github.com/D-Dynamico/Parking-Management/models"
	"github.com/D-Dynamico/Parking-Management/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completeParking 訂位、回調進場時間、離場，回傳結算後的紀錄
func completeParking(t *testing.T, userID, lotID int, parked time.Duration) *models.ParkingReservation {
	t.Helper()
	reservation, err := services.Book(userID, lotID)
	require.NoError(t, err)
	backdateArrival(t, reservation.ReservationID, parked)
	released, err := services.Release(userID)
	require.NoError(t, err)
	return released
}

func TestGetEarningsSummary(t *testing.T) {
	setupTestDB(t)

	mall := createTestLot(t, "Mall", 10.0, 2)
	airport := createTestLot(t, "Airport", 20.0, 2)
	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")

	// 未有任何結算紀錄時總收入為 0
	total, err := services.GetEarningsSummary()
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)

	completeParking(t, alice.UserID, mall.LotID, 2*time.Hour)     // 20.00
	completeParking(t, bob.UserID, airport.LotID, 90*time.Minute) // 30.00

	// 未離場的紀錄不計入收入
	_, err = services.Book(alice.UserID, mall.LotID)
	require.NoError(t, err)

	total, err = services.GetEarningsSummary()
	require.NoError(t, err)
	assert.InDelta(t, 50.0, total, 0.01)
}

func TestGetPerLotEarnings(t *testing.T) {
	setupTestDB(t)

	mall := createTestLot(t, "Mall", 10.0, 2)
	airport := createTestLot(t, "Airport", 20.0, 2)
	alice := createTestUser(t, "alice")

	completeParking(t, alice.UserID, mall.LotID, time.Hour)    // Mall 10.00
	completeParking(t, alice.UserID, mall.LotID, 2*time.Hour)  // Mall 20.00
	completeParking(t, alice.UserID, airport.LotID, time.Hour) // Airport 20.00

	perLot, err := services.GetPerLotEarnings()
	require.NoError(t, err)
	require.Len(t, perLot, 2)

	// 依場名排序
	assert.Equal(t, "Airport", perLot[0].LotName)
	assert.InDelta(t, 20.0, perLot[0].TotalEarnings, 0.01)
	assert.Equal(t, 1, perLot[0].Completed)
	assert.Equal(t, "Mall", perLot[1].LotName)
	assert.InDelta(t, 30.0, perLot[1].TotalEarnings, 0.01)
	assert.Equal(t, 2, perLot[1].Completed)
}

func TestGetRecentBookings(t *testing.T) {
	setupTestDB(t)

	mall := createTestLot(t, "Mall", 10.0, 1)
	alice := createTestUser(t, "alice")

	var ids []int
	for i := 0; i < 3; i++ {
		released := completeParking(t, alice.UserID, mall.LotID, time.Hour)
		ids = append(ids, released.ReservationID)
		// 錯開離場時間確保排序穩定
		require.NoError(t, database.DB.Model(&models.ParkingReservation{}).
			Where("reservation_id = ?", released.ReservationID).
			Update("leaving_timestamp", time.Now().UTC().Add(time.Duration(i-3)*time.Minute)).Error)
	}

	recent, err := services.GetRecentBookings(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	// 離場時間由新到舊
	assert.Equal(t, ids[2], recent[0].ReservationID)
	assert.Equal(t, ids[1], recent[1].ReservationID)
}

func TestGetAdminDashboard(t *testing.T) {
	setupTestDB(t)

	mall := createTestLot(t, "Mall", 10.0, 3)
	createTestLot(t, "Airport", 20.0, 2)
	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")

	completeParking(t, alice.UserID, mall.LotID, 2*time.Hour) // 20.00
	_, err := services.Book(bob.UserID, mall.LotID)
	require.NoError(t, err)

	dashboard, err := services.GetAdminDashboard()
	require.NoError(t, err)
	assert.Equal(t, int64(5), dashboard.TotalSpots)
	assert.Equal(t, int64(1), dashboard.OccupiedSpots)
	assert.Equal(t, int64(4), dashboard.AvailableSpots)
	assert.Equal(t, int64(2), dashboard.TotalUsers)
	assert.InDelta(t, 20.0, dashboard.TotalEarnings, 0.01)
	require.Len(t, dashboard.Lots, 2)
	require.Len(t, dashboard.RecentBookings, 1)
	assert.Equal(t, "Mall", dashboard.RecentBookings[0].LotName)
}

func TestAuditSpotConsistencyDetectsMismatch(t *testing.T) {
	setupTestDB(t)

	mall := createTestLot(t, "Mall", 10.0, 2)
	alice := createTestUser(t, "alice")
	_, err := services.Book(alice.UserID, mall.LotID)
	require.NoError(t, err)

	mismatches, err := services.AuditSpotConsistency()
	require.NoError(t, err)
	assert.Zero(t, mismatches)

	// 手動弄壞狀態，稽核要抓得出來
	require.NoError(t, database.DB.Model(&models.ParkingSpot{}).
		Where("lot_id = ?", mall.LotID).
		Update("status", models.SpotAvailable).Error)

	mismatches, err = services.AuditSpotConsistency()
	require.NoError(t, err)
	assert.Equal(t, 1, mismatches)
}
