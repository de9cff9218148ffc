package routes

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/D-Dynamico/Parking-Management/handlers"
	"github.com/D-Dynamico/Parking-Management/models"
	"github.com/D-Dynamico/Parking-Management/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware 驗證 JWT token，並提取 user_id 和 role
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "缺少 Authorization 標頭",
				"error":   "Authorization header is required",
				"code":    "ERR_NO_AUTH_HEADER",
			})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無效的 Authorization 格式",
				"error":   "Authorization header must be in the format 'Bearer <token>'",
				"code":    "ERR_INVALID_AUTH_FORMAT",
			})
			c.Abort()
			return
		}

		// 明確要求檢查 exp 字段
		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return utils.JWTSecret, nil
		}, jwt.WithExpirationRequired())

		if err != nil {
			log.Printf("Token parsing error: %v", err)
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{
					"status":  false,
					"message": "token 已過期",
					"error":   "Token has expired",
					"code":    "ERR_TOKEN_EXPIRED",
				})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{
					"status":  false,
					"message": "無效的 token",
					"error":   err.Error(),
					"code":    "ERR_INVALID_TOKEN",
				})
			}
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			log.Printf("Invalid token claims or token is not valid")
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無效的 token 內容",
				"error":   "Invalid token claims or token is not valid",
				"code":    "ERR_INVALID_CLAIMS",
			})
			c.Abort()
			return
		}

		// 確認 user_id 字段
		userID, ok := claims["user_id"].(float64)
		if !ok {
			log.Printf("Missing or invalid user_id in token")
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無效的使用者 ID",
				"error":   "Invalid user_id in token",
				"code":    "ERR_INVALID_USER_ID",
			})
			c.Abort()
			return
		}

		// 確認 role 字段
		role, ok := claims["role"].(string)
		if !ok || (role != models.RoleUser && role != models.RoleAdmin) {
			log.Printf("Missing or invalid role in token: %v", role)
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無效的角色",
				"error":   "Invalid role in token",
				"code":    "ERR_INVALID_ROLE",
			})
			c.Abort()
			return
		}

		c.Set("user_id", int(userID))
		c.Set("role", role)
		c.Next()
	}
}

// RoleMiddleware 檢查使用者角色是否符合要求。
// 角色判斷集中在路由層，services 內不再分支檢查角色。
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無法獲取角色資訊",
				"error":   "Role not found in context",
				"code":    "ERR_ROLE_NOT_FOUND",
			})
			c.Abort()
			return
		}

		roleStr, ok := role.(string)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無效的角色類型",
				"error":   "Invalid role type",
				"code":    "ERR_INVALID_ROLE_TYPE",
			})
			c.Abort()
			return
		}

		allowed := false
		for _, allowedRole := range allowedRoles {
			if roleStr == allowedRole {
				allowed = true
				break
			}
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"status":  false,
				"message": "權限不足",
				"error":   "Insufficient role permissions",
				"code":    "ERR_INSUFFICIENT_PERMISSIONS",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func Path(router *gin.RouterGroup) {
	// 版本控制
	v1 := router.Group("/v1")
	{
		// 測試路由
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(200, gin.H{"message": "pong"})
		})

		// 使用者路由
		users := v1.Group("/users")
		{
			// 公開路由：不需要 token 驗證
			users.POST("/register", handlers.RegisterUser) // 註冊使用者
			users.POST("/login", handlers.LoginUser)       // 登入並取得 token

			// 受保護路由：需要 token 驗證
			usersWithAuth := users.Group("")
			usersWithAuth.Use(AuthMiddleware())
			{
				// 查詢所有使用者：管理員專屬
				usersWithAuth.GET("", RoleMiddleware(models.RoleAdmin), handlers.ListUsers)
			}
		}

		// 停車場路由
		lots := v1.Group("/lots")
		lots.Use(AuthMiddleware())
		{
			// 查詢停車場：任何已認證的使用者都可以訪問
			lots.GET("", RoleMiddleware(models.RoleUser, models.RoleAdmin), handlers.ListLots)
			lots.GET("/:id", RoleMiddleware(models.RoleUser, models.RoleAdmin), handlers.GetLotDetail)
			// 管理員專屬路由
			lots.POST("", RoleMiddleware(models.RoleAdmin), handlers.CreateLot)       // 建立停車場
			lots.PUT("/:id", RoleMiddleware(models.RoleAdmin), handlers.UpdateLot)    // 更新停車場
			lots.DELETE("/:id", RoleMiddleware(models.RoleAdmin), handlers.DeleteLot) // 刪除停車場
		}

		// 停車紀錄路由
		reservations := v1.Group("/reservations")
		reservations.Use(AuthMiddleware())
		{
			// 訂位與離場：僅一般使用者可以操作
			reservations.POST("", RoleMiddleware(models.RoleUser), handlers.BookSpot)
			reservations.POST("/release", RoleMiddleware(models.RoleUser), handlers.ReleaseSpot)
			reservations.GET("/active", RoleMiddleware(models.RoleUser), handlers.GetActiveReservation)
			reservations.GET("/history", RoleMiddleware(models.RoleUser), handlers.GetHistory)
		}

		// 儀表板路由
		dashboard := v1.Group("/dashboard")
		dashboard.Use(AuthMiddleware())
		{
			dashboard.GET("/admin", RoleMiddleware(models.RoleAdmin), handlers.GetAdminDashboard)
			dashboard.GET("/user", RoleMiddleware(models.RoleUser), handlers.GetUserDashboard)
		}

		// 報表路由
		reports := v1.Group("/reports")
		reports.Use(AuthMiddleware())
		{
			reports.GET("/earnings", RoleMiddleware(models.RoleAdmin), handlers.GetEarnings)
		}
	}
}
