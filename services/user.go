package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/D-Dynamico/Parking-Management/database"
	"github.com/D-Dynamico/Parking-Management/models"
	"github.com/D-Dynamico/Parking-Management/utils"

	"gorm.io/gorm"
)

// RegisterUser 註冊一般使用者，角色固定為 user，註冊後不可變更
func RegisterUser(username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, validationError("username and password are required")
	}
	if len(password) < 6 {
		return nil, validationError("password must be at least 6 characters long")
	}

	// 檢查使用者名稱是否已被使用
	var existing models.User
	if err := database.DB.Where("username = ?", username).First(&existing).Error; err == nil {
		return nil, conflictError("username %s is already taken", username)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to check for duplicate username: %v", err)
		return nil, persistenceError(fmt.Errorf("failed to check for duplicate username: %w", err))
	}

	// 哈希密碼
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		return nil, persistenceError(fmt.Errorf("failed to hash password: %w", err))
	}

	user := models.User{
		Username: username,
		Password: hashedPassword,
		Role:     models.RoleUser,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		log.Printf("Failed to register user %s: %v", username, err)
		return nil, persistenceError(fmt.Errorf("failed to register user: %w", err))
	}

	log.Printf("Successfully registered user %d (%s)", user.UserID, user.Username)
	return &user, nil
}

// LoginUser 驗證登入憑證並回傳使用者
func LoginUser(username, password string) (*models.User, error) {
	var user models.User
	if err := database.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("User %s not found", username)
			return nil, validationError("invalid username or password")
		}
		log.Printf("Failed to login user %s: %v", username, err)
		return nil, persistenceError(fmt.Errorf("failed to login user: %w", err))
	}

	// 驗證密碼
	if !utils.CheckPasswordHash(password, user.Password) {
		log.Printf("Invalid password for user %s", username)
		return nil, validationError("invalid username or password")
	}

	log.Printf("User %d (%s) logged in successfully", user.UserID, user.Username)
	return &user, nil
}

// GetUserByID 根據ID查詢使用者
func GetUserByID(id int) (*models.User, error) {
	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("user %d not found", id)
		}
		log.Printf("Failed to find user %d: %v", id, err)
		return nil, persistenceError(fmt.Errorf("failed to find user: %w", err))
	}
	return &user, nil
}

// ListUsers 查詢所有一般使用者（不含管理員），依ID排序
func ListUsers() ([]models.User, error) {
	var users []models.User
	if err := database.DB.
		Where("role = ?", models.RoleUser).
		Order("user_id ASC").
		Find(&users).Error; err != nil {
		log.Printf("Failed to fetch users: %v", err)
		return nil, persistenceError(fmt.Errorf("failed to fetch users: %w", err))
	}
	return users, nil
}

// EnsureAdminExists 確保預設管理員存在，重複呼叫不會重複建立
func EnsureAdminExists() error {
	var admin models.User
	if err := database.DB.Where("role = ?", models.RoleAdmin).First(&admin).Error; err == nil {
		log.Printf("Admin already exists: username=%s", admin.Username)
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}

	hashedPassword, err := utils.HashPassword("admin123")
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin = models.User{
		Username: "admin",
		Password: hashedPassword,
		Role:     models.RoleAdmin,
	}
	if err := database.DB.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}

	log.Printf("Default admin created: username=%s", admin.Username)
	return nil
}
