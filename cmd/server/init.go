package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/config"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/database"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/global"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initColNames()         // Khởi tạo tên các collection trong database
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
}

// Hàm khởi tạo tên các collection trong database
func initColNames() {
	global.ColNames.Bookings = "bookings"
	global.ColNames.Brands = "brands"
	global.ColNames.EmailMessages = "email_messages"
	global.ColNames.ActivityEvents = "activity_events"

	logrus.Info("Initialized collection names")
}

// Hàm khởi tạo validator (global.InitValidator đăng ký custom validators:
// email_shape, short_code, channel_set)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.ServerConfig = config.NewConfig()
	if global.ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil")
	}
	logrus.Info("Initialized server config")
}

// Hàm khởi tạo kết nối database
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	logrus.Info("Connected to MongoDB")

	// Khởi tạo index cho các collection (unique shortCode/brand name,
	// index tra cứu correlation và audit)
	db := global.MongoDB_Session.Database(global.ServerConfig.MongoDB_DBName)
	database.EnsureIndexes(context.TODO(), db, global.ColNames)
	logrus.Info("Ensured collection indexes")
}
