package services_test

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/D-Dynamico/Parking-Management/database"
	"github.com/D-Dynamico/Parking-Management/models"
	"github.com/D-Dynamico/Parking-Management/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundCost(t *testing.T) {
	assert.Equal(t, 25.0, services.RoundCost(25.0))
	assert.Equal(t, 25.13, services.RoundCost(25.125)) // half-up
	assert.Equal(t, 0.33, services.RoundCost(1.0/3.0))
	assert.Equal(t, 0.0, services.RoundCost(0))
}

func TestCalculateTotalCost(t *testing.T) {
	arrival := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	// 2.5 小時 × 10.0/小時 = 25.00
	assert.Equal(t, 25.0, services.CalculateTotalCost(arrival, arrival.Add(150*time.Minute), 10.0))
	// 小數小時不取整
	assert.Equal(t, 5.0, services.CalculateTotalCost(arrival, arrival.Add(30*time.Minute), 10.0))
	// 時鐘回退以 0 計，不會算出負費用
	assert.Equal(t, 0.0, services.CalculateTotalCost(arrival, arrival.Add(-time.Hour), 10.0))
}

func TestBookFirstFit(t *testing.T) {
	setupTestDB(t)

	lot := createTestLot(t, "Mall", 10.0, 2)
	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")

	first, err := services.Book(alice.UserID, lot.LotID)
	require.NoError(t, err)
	assert.Equal(t, "MAL-001", first.SpotNumber)
	assert.Equal(t, 10.0, first.CostPerHour)
	assert.Equal(t, "Mall", first.LotName)
	assert.Nil(t, first.LeavingTimestamp)
	assert.Nil(t, first.TotalCost)

	second, err := services.Book(bob.UserID, lot.LotID)
	require.NoError(t, err)
	assert.Equal(t, "MAL-002", second.SpotNumber)

	requireInvariants(t)
}

func TestBookTakesLowestOrdinalAfterRelease(t *testing.T) {
	setupTestDB(t)

	lot := createTestLot(t, "Mall", 10.0, 3)
	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")

	// alice 停 MAL-001 後離場，bob 應該再拿到 MAL-001 而不是 MAL-003
	_, err := services.Book(alice.UserID, lot.LotID)
	require.NoError(t, err)
	_, err = services.Release(alice.UserID)
	require.NoError(t, err)

	reservation, err := services.Book(bob.UserID, lot.LotID)
	require.NoError(t, err)
	assert.Equal(t, "MAL-001", reservation.SpotNumber)
}

func TestBookAlreadyParked(t *testing.T) {
	setupTestDB(t)

	lot := createTestLot(t, "Mall", 10.0, 2)
	other := createTestLot(t, "Airport", 25.0, 2)
	alice := createTestUser(t, "alice")

	_, err := services.Book(alice.UserID, lot.LotID)
	require.NoError(t, err)

	// 同場或他場都不能再訂第二格
	_, err = services.Book(alice.UserID, lot.LotID)
	require.Error(t, err)
	assert.Equal(t, services.KindAlreadyParked, services.KindOf(err))

	_, err = services.Book(alice.UserID, other.LotID)
	require.Error(t, err)
	assert.Equal(t, services.KindAlreadyParked, services.KindOf(err))

	// 失敗不產生新紀錄
	var count int64
	require.NoError(t, database.DB.Model(&models.ParkingReservation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	requireInvariants(t)
}

func TestBookNotFound(t *testing.T) {
	setupTestDB(t)

	alice := createTestUser(t, "alice")

	_, err := services.Book(alice.UserID, 42)
	require.Error(t, err)
	assert.Equal(t, services.KindNotFound, services.KindOf(err))

	lot := createTestLot(t, "Mall", 10.0, 1)
	_, err = services.Book(999, lot.LotID)
	require.Error(t, err)
	assert.Equal(t, services.KindNotFound, services.KindOf(err))
}

func TestBookCapacityExceeded(t *testing.T) {
	setupTestDB(t)

	lot := createTestLot(t, "Mall", 10.0, 1)
	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")

	_, err := services.Book(alice.UserID, lot.LotID)
	require.NoError(t, err)

	_, err = services.Book(bob.UserID, lot.LotID)
	require.Error(t, err)
	assert.Equal(t, services.KindCapacityExceeded, services.KindOf(err))

	// 客滿失敗不留任何變更
	var count int64
	require.NoError(t, database.DB.Model(&models.ParkingReservation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	requireInvariants(t)
}

func TestBookReleaseRoundTrip(t *testing.T) {
	setupTestDB(t)

	lot := createTestLot(t, "Mall", 10.0, 2)
	alice := createTestUser(t, "alice")

	reservation, err := services.Book(alice.UserID, lot.LotID)
	require.NoError(t, err)

	var spot models.ParkingSpot
	require.NoError(t, database.DB.First(&spot, reservation.SpotID).Error)
	assert.Equal(t, models.SpotOccupied, spot.Status)

	// 模擬停了 2.5 小時
	backdateArrival(t, reservation.ReservationID, 150*time.Minute)

	released, err := services.Release(alice.UserID)
	require.NoError(t, err)
	require.NotNil(t, released.TotalCost)
	require.NotNil(t, released.LeavingTimestamp)
	assert.Equal(t, "MAL-001", released.SpotNumber)
	assert.InDelta(t, 25.0, *released.TotalCost, 0.01)
	assert.False(t, released.LeavingTimestamp.Before(released.ParkingTimestamp))

	require.NoError(t, database.DB.First(&spot, reservation.SpotID).Error)
	assert.Equal(t, models.SpotAvailable, spot.Status)

	requireInvariants(t)
}

func TestReleaseClockRegressionClampsToZero(t *testing.T) {
	setupTestDB(t)

	lot := createTestLot(t, "Mall", 10.0, 1)
	alice := createTestUser(t, "alice")

	reservation, err := services.Book(alice.UserID, lot.LotID)
	require.NoError(t, err)

	// 進場時間在未來，模擬時鐘回退
	require.NoError(t, database.DB.Model(&models.ParkingReservation{}).
		Where("reservation_id = ?", reservation.ReservationID).
		Update("parking_timestamp", time.Now().UTC().Add(time.Hour)).Error)

	released, err := services.Release(alice.UserID)
	require.NoError(t, err)
	require.NotNil(t, released.TotalCost)
	assert.Equal(t, 0.0, *released.TotalCost)
}

func TestReleaseTwiceFailsWithoutStateChange(t *testing.T) {
	setupTestDB(t)

	lot := createTestLot(t, "Mall", 10.0, 1)
	alice := createTestUser(t, "alice")

	reservation, err := services.Book(alice.UserID, lot.LotID)
	require.NoError(t, err)
	backdateArrival(t, reservation.ReservationID, time.Hour)

	released, err := services.Release(alice.UserID)
	require.NoError(t, err)

	_, err = services.Release(alice.UserID)
	require.Error(t, err)
	assert.Equal(t, services.KindNoActiveReservation, services.KindOf(err))

	// 紀錄結算後不再變動
	var stored models.ParkingReservation
	require.NoError(t, database.DB.First(&stored, reservation.ReservationID).Error)
	require.NotNil(t, stored.TotalCost)
	assert.InDelta(t, *released.TotalCost, *stored.TotalCost, 0.001)
	requireInvariants(t)
}

func TestReleaseWithoutBooking(t *testing.T) {
	setupTestDB(t)

	alice := createTestUser(t, "alice")

	_, err := services.Release(alice.UserID)
	require.Error(t, err)
	assert.Equal(t, services.KindNoActiveReservation, services.KindOf(err))
}

func TestGetActiveReservation(t *testing.T) {
	setupTestDB(t)

	lot := createTestLot(t, "Mall", 10.0, 1)
	alice := createTestUser(t, "alice")

	active, err := services.GetActiveReservation(alice.UserID)
	require.NoError(t, err)
	assert.Nil(t, active)

	booked, err := services.Book(alice.UserID, lot.LotID)
	require.NoError(t, err)

	active, err = services.GetActiveReservation(alice.UserID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, booked.ReservationID, active.ReservationID)

	_, err = services.Release(alice.UserID)
	require.NoError(t, err)

	active, err = services.GetActiveReservation(alice.UserID)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestGetHistoryOrderAndLimit(t *testing.T) {
	setupTestDB(t)

	lot := createTestLot(t, "Mall", 10.0, 1)
	alice := createTestUser(t, "alice")

	// 依序完成三次停車，進場時間遞增
	for i := 0; i < 3; i++ {
		reservation, err := services.Book(alice.UserID, lot.LotID)
		require.NoError(t, err)
		backdateArrival(t, reservation.ReservationID, time.Duration(3-i)*time.Hour)
		_, err = services.Release(alice.UserID)
		require.NoError(t, err)
	}

	history, err := services.GetHistory(alice.UserID, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	// 最近進場的排最前面
	assert.True(t, history[0].ParkingTimestamp.After(history[1].ParkingTimestamp))

	all, err := services.GetHistory(alice.UserID, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

// TestRandomizedBookReleaseInvariants 以隨機訂位/離場序列驗證不變量：
// 每人至多一筆未離場、車位狀態與未離場紀錄一致、費用不為負。
func TestRandomizedBookReleaseInvariants(t *testing.T) {
	setupTestDB(t)

	lot := createTestLot(t, "Mall", 10.0, 3)
	var users []*models.User
	for i := 0; i < 5; i++ {
		users = append(users, createTestUser(t, fmt.Sprintf("user%d", i)))
	}

	rng := rand.New(rand.NewSource(1))
	parked := make(map[int]bool)

	for step := 0; step < 200; step++ {
		user := users[rng.Intn(len(users))]
		if rng.Intn(2) == 0 {
			_, err := services.Book(user.UserID, lot.LotID)
			switch {
			case err == nil:
				require.False(t, parked[user.UserID], "booked while already parked")
				parked[user.UserID] = true
			case services.KindOf(err) == services.KindAlreadyParked:
				require.True(t, parked[user.UserID])
			case services.KindOf(err) == services.KindCapacityExceeded:
				require.GreaterOrEqual(t, countParked(parked), 3)
			default:
				t.Fatalf("unexpected book error: %v", err)
			}
		} else {
			released, err := services.Release(user.UserID)
			if err == nil {
				require.True(t, parked[user.UserID], "released without parking")
				require.NotNil(t, released.TotalCost)
				require.GreaterOrEqual(t, *released.TotalCost, 0.0)
				parked[user.UserID] = false
			} else {
				require.Equal(t, services.KindNoActiveReservation, services.KindOf(err))
				require.False(t, parked[user.UserID])
			}
		}
		requireInvariants(t)
	}
}

func countParked(parked map[int]bool) int {
	n := 0
	for _, p := range parked {
		if p {
			n++
		}
	}
	return n
}
