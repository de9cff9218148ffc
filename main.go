package main

import (
	"log"
	"os"

	"github.com/D-Dynamico/Parking-Management/database"
	"github.com/D-Dynamico/Parking-Management/models"
	"github.com/D-Dynamico/Parking-Management/routes"
	"github.com/D-Dynamico/Parking-Management/services"
	"github.com/D-Dynamico/Parking-Management/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	// 載入 .env 檔案
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using default environment variables: %v", err)
	}

	// 初始化 JWTSecret
	utils.InitJWTSecret()

	// 初始化資料庫
	database.InitDB()

	// 執行資料庫遷移
	database.DB.AutoMigrate(
		&models.User{},
		&models.ParkingLot{},
		&models.ParkingSpot{},
		&models.ParkingReservation{},
	)
	log.Println("Database migration completed")

	// 確保預設管理員存在
	if err := services.EnsureAdminExists(); err != nil {
		log.Fatalf("Failed to ensure default admin: %v", err)
	}

	// 設置 Gin 模式
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "" {
		ginMode = gin.ReleaseMode
	}
	gin.SetMode(ginMode)
	log.Printf("Gin mode set to %s", ginMode)

	// 初始化 Gin 路由器
	r := gin.Default()

	// 創建一個 API 路由組
	api := r.Group("/api")
	{
		routes.Path(api)
	}

	// 啟動定時任務
	c := cron.New()

	// 車位狀態一致性稽核（每 5 分鐘執行一次，只讀不寫）
	_, err := c.AddFunc("*/5 * * * *", func() {
		log.Println("Running spot consistency audit...")
		if mismatches, err := services.AuditSpotConsistency(); err != nil {
			log.Printf("Failed to run spot consistency audit: %v", err)
		} else if mismatches > 0 {
			log.Printf("Spot consistency audit found %d mismatches", mismatches)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule spot consistency audit cron job: %v", err)
	}

	c.Start()
	log.Println("Cron jobs started")

	// 啟動伺服器
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
