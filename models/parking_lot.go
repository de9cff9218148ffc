package models

import "time"

// ParkingLot 定義停車場模型，maximum_number_of_spots 建立後不可調整
type ParkingLot struct {
	LotID                int           `json:"lot_id" gorm:"primaryKey;autoIncrement;type:INT"`
	PrimeLocationName    string        `json:"prime_location_name" gorm:"type:varchar(200);not null"`
	Price                float64       `json:"price" gorm:"type:decimal(10,2);not null"` // 每小時費率
	Address              string        `json:"address" gorm:"type:varchar(255);not null"`
	PinCode              string        `json:"pin_code" gorm:"type:varchar(10);not null"`
	MaximumNumberOfSpots int           `json:"maximum_number_of_spots" gorm:"type:INT;not null"`
	CreatedAt            time.Time     `json:"created_at" gorm:"type:datetime;autoCreateTime"`
	Spots                []ParkingSpot `json:"spots,omitempty" gorm:"foreignKey:LotID;references:LotID"`

	AvailableSpots int `json:"-" gorm:"-"` // transient，不存DB，用於計算剩餘位子
	OccupiedSpots  int `json:"-" gorm:"-"`
}

func (ParkingLot) TableName() string {
	return "parking_lot"
}

// ParkingLotResponse 定義停車場回應結構
type ParkingLotResponse struct {
	LotID                int     `json:"lot_id"`
	PrimeLocationName    string  `json:"prime_location_name"`
	Price                float64 `json:"price"`
	Address              string  `json:"address"`
	PinCode              string  `json:"pin_code"`
	MaximumNumberOfSpots int     `json:"maximum_number_of_spots"`
	AvailableSpots       int     `json:"available_spots"`
	OccupiedSpots        int     `json:"occupied_spots"`
}

func (p *ParkingLot) ToResponse() ParkingLotResponse {
	return ParkingLotResponse{
		LotID:                p.LotID,
		PrimeLocationName:    p.PrimeLocationName,
		Price:                p.Price,
		Address:              p.Address,
		PinCode:              p.PinCode,
		MaximumNumberOfSpots: p.MaximumNumberOfSpots,
		AvailableSpots:       p.AvailableSpots,
		OccupiedSpots:        p.OccupiedSpots,
	}
}

// CreateLotRequest 用於 POST 建立停車場
type CreateLotRequest struct {
	PrimeLocationName    string  `json:"prime_location_name" binding:"required,max=200"`
	Price                float64 `json:"price" binding:"required,gt=0"`
	Address              string  `json:"address" binding:"required,max=255"`
	PinCode              string  `json:"pin_code" binding:"required,max=10"`
	MaximumNumberOfSpots int     `json:"maximum_number_of_spots" binding:"required,gt=0"`
}

// UpdateLotRequest 用於 PUT 更新，capacity 不可透過此操作修改
type UpdateLotRequest struct {
	PrimeLocationName *string  `json:"prime_location_name" binding:"omitempty,max=200"`
	Price             *float64 `json:"price" binding:"omitempty,gt=0"`
	Address           *string  `json:"address" binding:"omitempty,max=255"`
	PinCode           *string  `json:"pin_code" binding:"omitempty,max=10"`
}
