// Package dto - DTO cho domain brand.
package dto

// BrandCreateInput là payload tạo brand mới
type BrandCreateInput struct {
	Name              string   `json:"name" validate:"required"`
	WhatsAppNumber    string   `json:"whatsappNumber"`
	Email             string   `json:"email" validate:"omitempty,email_shape"`
	PreferredChannels []string `json:"preferredChannels" validate:"omitempty,channel_set"`
	NotifyMode        string   `json:"notifyMode" validate:"omitempty,oneof=whatsapp email both"`
	IsActive          *bool    `json:"isActive"` // nil = mặc định true
}

// BrandUpdateInput là payload cập nhật brand. Field nil/rỗng giữ nguyên giá trị cũ,
// trừ PreferredChannels/NotifyMode: gửi lên là tính lại cặp kênh.
type BrandUpdateInput struct {
	Name              *string  `json:"name"`
	WhatsAppNumber    *string  `json:"whatsappNumber"`
	Email             *string  `json:"email" validate:"omitempty"`
	PreferredChannels []string `json:"preferredChannels" validate:"omitempty,channel_set"`
	NotifyMode        *string  `json:"notifyMode" validate:"omitempty"`
	IsActive          *bool    `json:"isActive"`
}
