// Package dto - DTO cho domain booking.
package dto

// BookingCreateInput là payload tạo booking mới
type BookingCreateInput struct {
	CustomerName  string `json:"customerName" validate:"required"`
	CustomerPhone string `json:"customerPhone"`
	CustomerEmail string `json:"customerEmail" validate:"omitempty,email_shape"`
	Address       string `json:"address"`

	ProductName string `json:"productName" validate:"required"`
	BrandName   string `json:"brandName"`
	Category    string `json:"category"`
	ModelNumber string `json:"modelNumber"`
	Issue       string `json:"issue"`
}

// BookingStatusUpdateInput là payload cập nhật trạng thái booking
type BookingStatusUpdateInput struct {
	Status string `json:"status" validate:"required,oneof=pending scheduled completed cancelled"`
	Note   string `json:"note"` // Ghi chú thêm vào timeline
}

// RescheduleInput là payload của POST /bookings/reschedule (nhận diện bằng shortCode)
type RescheduleInput struct {
	ShortCode string `json:"shortCode" validate:"required,short_code"` // Đã uppercase-normalize trước khi validate
}

// Requester là danh tính người gọi, đọc từ header gateway bởi IdentityMiddleware
type Requester struct {
	UserID string
	Role   string
	Email  string
}

// RescheduleResult là response của thao tác reschedule.
// WebhookOK phản ánh kết quả generic webhook — automation bridge thất bại
// không làm thao tác fail.
type RescheduleResult struct {
	WebhookOK             bool  `json:"webhookOk"`
	RescheduleCount       int   `json:"rescheduleCount"`
	LastRescheduleEmailAt int64 `json:"lastRescheduleEmailAt"`
}
