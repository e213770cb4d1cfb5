package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng
type Configuration struct {
	Address               string `env:"ADDRESS" envDefault:":8080"`       // Địa chỉ server
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`  // URL kết nối cơ sở dữ liệu
	MongoDB_DBName        string `env:"MONGODB_DBNAME" envDefault:"kapoor_service"` // Tên cơ sở dữ liệu

	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Các origins được phép
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Cho phép gửi credentials
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`           // Số request tối đa trong window
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`         // Thời gian window (giây)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`      // Bật/tắt rate limiting

	// WhatsApp gateway (kênh gửi tin nhắn cho khách và brand)
	WhatsAppAPIURL   string `env:"WHATSAPP_API_URL"`   // URL gateway gửi WhatsApp message
	WhatsAppAPIToken string `env:"WHATSAPP_API_TOKEN"` // Bearer token của gateway

	// SMTP (kênh gửi email transactional)
	SMTPHost     string `env:"SMTP_HOST"`                               // SMTP host
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`              // SMTP port
	SMTPUsername string `env:"SMTP_USERNAME"`                           // SMTP username
	SMTPPassword string `env:"SMTP_PASSWORD"`                           // SMTP password
	SMTPFrom     string `env:"SMTP_FROM"`                               // Địa chỉ From
	SMTPFromName string `env:"SMTP_FROM_NAME" envDefault:"Kapoor & Sons"` // Tên hiển thị From

	// Automation bridge (workflow engine bên ngoài, gọi qua webhook)
	AutomationWebhookURL string `env:"AUTOMATION_WEBHOOK_URL"` // Endpoint automation bridge (chỉ bắn cho booking pending)
	GenericWebhookURL    string `env:"GENERIC_WEBHOOK_URL"`    // Endpoint generic webhook (creation + reschedule)
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	// Mặc định sử dụng môi trường development
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Tìm thư mục config/env bằng cách đi lên từ working directory
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", env))
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig sẽ đọc dữ liệu cấu hình từ file env và environment variables
func NewConfig() *Configuration {
	envPath := getEnvPath()
	if envPath != "" {
		// File env là optional — production dùng environment variables trực tiếp
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("Không thể load file env tại %s: %v\n", envPath, err)
		}
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}

	return &cfg
}
