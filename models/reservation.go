package models

import "time"

// ParkingReservation 定義停車紀錄模型。
// leaving_timestamp 為 NULL 表示仍在停車中；total_cost 僅在離場時寫入一次。
// lot_name 與 spot_number 於訂位當下快照，停車場刪除後報表仍可歸屬。
type ParkingReservation struct {
	ReservationID    int        `json:"reservation_id" gorm:"primaryKey;autoIncrement;type:INT"`
	SpotID           int        `json:"spot_id" gorm:"index;not null;type:INT"`
	UserID           int        `json:"user_id" gorm:"index;not null;type:INT"`
	LotName          string     `json:"lot_name" gorm:"type:varchar(200);not null"`
	SpotNumber       string     `json:"spot_number" gorm:"type:varchar(20);not null"`
	ParkingTimestamp time.Time  `json:"parking_timestamp" gorm:"type:datetime;not null"`
	LeavingTimestamp *time.Time `json:"leaving_timestamp" gorm:"type:datetime;default:null"`
	CostPerHour      float64    `json:"cost_per_hour" gorm:"type:decimal(10,2);not null"` // 訂位當下快照的每小時費率
	TotalCost        *float64   `json:"total_cost" gorm:"type:decimal(10,2);default:null"`

	User User `json:"-" gorm:"foreignKey:UserID;references:UserID"`
}

func (ParkingReservation) TableName() string {
	return "parking_reservation"
}

// DurationHours 計算此次停車經過的小時數（含小數）
func (r *ParkingReservation) DurationHours(now time.Time) float64 {
	end := now
	if r.LeavingTimestamp != nil {
		end = *r.LeavingTimestamp
	}
	hours := end.Sub(r.ParkingTimestamp).Seconds() / 3600
	if hours < 0 {
		return 0
	}
	return hours
}

// ReservationResponse 定義停車紀錄回應結構
type ReservationResponse struct {
	ReservationID    int        `json:"reservation_id"`
	SpotID           int        `json:"spot_id"`
	UserID           int        `json:"user_id"`
	LotName          string     `json:"lot_name"`
	SpotNumber       string     `json:"spot_number"`
	ParkingTimestamp time.Time  `json:"parking_timestamp"`
	LeavingTimestamp *time.Time `json:"leaving_timestamp"`
	CostPerHour      float64    `json:"cost_per_hour"`
	TotalCost        *float64   `json:"total_cost"`
}

func (r *ParkingReservation) ToResponse() ReservationResponse {
	return ReservationResponse{
		ReservationID:    r.ReservationID,
		SpotID:           r.SpotID,
		UserID:           r.UserID,
		LotName:          r.LotName,
		SpotNumber:       r.SpotNumber,
		ParkingTimestamp: r.ParkingTimestamp,
		LeavingTimestamp: r.LeavingTimestamp,
		CostPerHour:      r.CostPerHour,
		TotalCost:        r.TotalCost,
	}
}
