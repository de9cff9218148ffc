package models

import "time"

// 車位狀態
const (
	SpotAvailable = "A"
	SpotOccupied  = "O"
)

// ParkingSpot 定義車位模型，spot_number 由停車場名稱前三碼加序號組成（如 MAL-001）
type ParkingSpot struct {
	SpotID     int       `json:"spot_id" gorm:"primaryKey;autoIncrement;type:INT"`
	LotID      int       `json:"lot_id" gorm:"index;not null;type:INT"`
	SpotNumber string    `json:"spot_number" gorm:"type:varchar(20);not null"`
	Status     string    `json:"status" gorm:"type:varchar(1);not null;default:'A'"`
	CreatedAt  time.Time `json:"created_at" gorm:"type:datetime;autoCreateTime"`

	Lot          ParkingLot           `json:"-" gorm:"foreignKey:LotID;references:LotID"`
	Reservations []ParkingReservation `json:"-" gorm:"foreignKey:SpotID;references:SpotID"`
}

func (ParkingSpot) TableName() string {
	return "parking_spot"
}

// ParkingSpotResponse 定義車位回應結構
type ParkingSpotResponse struct {
	SpotID     int    `json:"spot_id"`
	LotID      int    `json:"lot_id"`
	SpotNumber string `json:"spot_number"`
	Status     string `json:"status"`
}

func (p *ParkingSpot) ToResponse() ParkingSpotResponse {
	return ParkingSpotResponse{
		SpotID:     p.SpotID,
		LotID:      p.LotID,
		SpotNumber: p.SpotNumber,
		Status:     p.Status,
	}
}
