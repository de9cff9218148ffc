package models

import "time"

// 使用者角色
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User 定義使用者模型，role 註冊後不可變更
type User struct {
	UserID       int       `json:"user_id" gorm:"primaryKey;autoIncrement;type:INT"`
	Username     string    `json:"username" gorm:"type:varchar(100);uniqueIndex;not null" binding:"required,max=100"`
	Password     string    `json:"password,omitempty" gorm:"type:varchar(200);not null"`
	Role         string    `json:"role" gorm:"type:varchar(20);not null;default:'user'"`
	RegisteredAt time.Time `json:"registered_at" gorm:"type:datetime;autoCreateTime"`

	Reservations []ParkingReservation `json:"-" gorm:"foreignKey:UserID;references:UserID"`
}

func (User) TableName() string {
	return "user"
}

// UserResponse 定義使用者回應結構（不含密碼雜湊）
type UserResponse struct {
	UserID       int       `json:"user_id"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	RegisteredAt time.Time `json:"registered_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		UserID:       u.UserID,
		Username:     u.Username,
		Role:         u.Role,
		RegisteredAt: u.RegisteredAt,
	}
}
