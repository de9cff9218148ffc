package handlers

import (
	"log"
	"net/http"

	"github.com/D-Dynamico/Parking-Management/models"
	"github.com/D-Dynamico/Parking-Management/services"
	"github.com/D-Dynamico/Parking-Management/utils"

	"github.com/gin-gonic/gin"
)

// CredentialsInput 定義註冊與登入共用的輸入結構體
type CredentialsInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterUser 註冊使用者資料檢查
func RegisterUser(c *gin.Context) {
	var input CredentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Invalid input data: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", "username and password are required")
		return
	}

	user, err := services.RegisterUser(input.Username, input.Password)
	if err != nil {
		log.Printf("Failed to register user %s: %v", input.Username, err)
		ServiceErrorResponse(c, "註冊失敗", err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "註冊成功", user.ToResponse())
}

// LoginUser 登入並簽發 token
func LoginUser(c *gin.Context) {
	var input CredentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Invalid input data: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", "username and password are required")
		return
	}

	user, err := services.LoginUser(input.Username, input.Password)
	if err != nil {
		log.Printf("Login failed for user %s: %v", input.Username, err)
		ErrorResponse(c, http.StatusUnauthorized, "登入失敗，檢查使用者名稱或密碼", "invalid credentials")
		return
	}

	token, err := utils.GenerateToken(user.UserID, user.Role)
	if err != nil {
		log.Printf("Failed to generate token for user %d: %v", user.UserID, err)
		ErrorResponse(c, http.StatusInternalServerError, "伺服器錯誤", "failed to generate token")
		return
	}

	SuccessResponse(c, http.StatusOK, "登入成功", gin.H{
		"token": token,
		"user":  user.ToResponse(),
	})
}

// ListUsers 查詢所有一般使用者（管理員專用）
func ListUsers(c *gin.Context) {
	users, err := services.ListUsers()
	if err != nil {
		log.Printf("Failed to list users: %v", err)
		ServiceErrorResponse(c, "查詢使用者失敗", err)
		return
	}

	responses := make([]models.UserResponse, len(users))
	for i := range users {
		responses[i] = users[i].ToResponse()
	}
	SuccessResponse(c, http.StatusOK, "查詢成功", responses)
}
