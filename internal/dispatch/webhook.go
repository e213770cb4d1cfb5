package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	bookingmodels "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/booking/models"
	brandmodels "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/brand/models"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/logger"
)

// GenericWebhook bắn event tùy ý sang một endpoint bên ngoài (tích hợp tùy chọn).
// Kết quả là bool thành công — caller tự quyết có surface cho client hay không.
type GenericWebhook struct {
	url    string
	client *http.Client
}

// NewGenericWebhook tạo mới GenericWebhook
func NewGenericWebhook(url string) *GenericWebhook {
	return &GenericWebhook{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify POST {event, booking, brand} đến endpoint đã cấu hình.
// Trả về true khi endpoint nhận 2xx. Chưa cấu hình URL thì trả về false.
func (w *GenericWebhook) Notify(ctx context.Context, event string, booking *bookingmodels.Booking, brand *brandmodels.Brand) bool {
	if w.url == "" {
		return false
	}

	payload := map[string]interface{}{
		"event":   event,
		"booking": booking,
	}
	if brand != nil {
		payload["brand"] = brand
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		logger.GetAppLogger().WithError(err).Warn("Marshal payload webhook thất bại")
		return false
	}

	req, err := http.NewRequestWithContext(ctx, "POST", w.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		logger.GetAppLogger().WithError(err).Warnf("Gọi webhook %s thất bại", event)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.GetAppLogger().Warnf("Webhook %s trả về status %d", event, resp.StatusCode)
		return false
	}
	return true
}
