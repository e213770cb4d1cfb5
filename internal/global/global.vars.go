package global

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/config"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/registry"
)

// CollectionName chứa tên các collection trong MongoDB
type CollectionName struct {
	Bookings       string // Tên collection cho booking dịch vụ
	Brands         string // Tên collection cho hãng thiết bị
	EmailMessages  string // Tên collection cho email liên quan đến booking
	ActivityEvents string // Tên collection cho activity/audit events (append-only)
}

// Các biến toàn cục
var Validate *validator.Validate        // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client       // Phiên kết nối tới MongoDB
var ServerConfig *config.Configuration  // Cấu hình của server
var ColNames CollectionName             // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
