package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	bookingmodels "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/booking/models"
	brandmodels "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/brand/models"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/logger"
)

// AutomationResult là kết quả gọi automation bridge.
// Không bao giờ là error — thất bại trả về Triggered=false + Detail,
// caller log và ghi activity event rồi đi tiếp.
type AutomationResult struct {
	Triggered bool   `json:"triggered"`
	Detail    string `json:"detail,omitempty"`
}

// AutomationBridge gọi workflow engine bên ngoài (email automation) qua webhook.
type AutomationBridge struct {
	url    string
	client *http.Client
}

// NewAutomationBridge tạo mới AutomationBridge
func NewAutomationBridge(url string) *AutomationBridge {
	return &AutomationBridge{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Trigger POST snapshot của booking đến automation bridge.
// Chỉ gọi cho booking pending — caller kiểm tra status trước.
func (b *AutomationBridge) Trigger(ctx context.Context, booking *bookingmodels.Booking, brand *brandmodels.Brand) AutomationResult {
	if b.url == "" {
		return AutomationResult{Triggered: false, Detail: "automation bridge chưa được cấu hình"}
	}

	payload := map[string]interface{}{
		"bookingId": booking.ID.Hex(),
		"shortCode": booking.ShortCode,
		"customer": map[string]interface{}{
			"name":  booking.CustomerName,
			"phone": booking.CustomerPhone,
			"email": booking.CustomerEmail,
		},
		"product": map[string]interface{}{
			"name":     booking.ProductName,
			"brand":    booking.BrandName,
			"category": booking.Category,
			"model":    booking.ModelNumber,
			"issue":    booking.Issue,
		},
		"status":    booking.Status,
		"createdAt": booking.CreatedAt,
		"updatedAt": booking.UpdatedAt,
	}
	if brand != nil {
		payload["brandContact"] = map[string]interface{}{
			"name":           brand.Name,
			"whatsappNumber": brand.WhatsAppNumber,
			"email":          brand.Email,
		}
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return AutomationResult{Triggered: false, Detail: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", b.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return AutomationResult{Triggered: false, Detail: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		logger.GetAppLogger().WithError(err).Warn("Gọi automation bridge thất bại")
		return AutomationResult{Triggered: false, Detail: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := fmt.Sprintf("automation bridge trả về status %d", resp.StatusCode)
		logger.GetAppLogger().Warn(detail)
		return AutomationResult{Triggered: false, Detail: detail}
	}

	return AutomationResult{Triggered: true}
}
