// Package models - model cho domain brand (hãng thiết bị).
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các kênh notification hỗ trợ cho brand.
const (
	ChannelWhatsApp = "whatsapp"
	ChannelEmail    = "email"
)

// Các giá trị của NotifyMode (field legacy, giữ sync với PreferredChannels).
const (
	NotifyModeWhatsApp = "whatsapp"
	NotifyModeEmail    = "email"
	NotifyModeBoth     = "both"
)

// Brand đại diện cho một hãng thiết bị cần được thông báo khi có booking.
// PreferredChannels là nguồn sự thật; NotifyMode là field legacy được tính lại
// mỗi lần lưu qua NormalizeChannels (client cũ vẫn đọc NotifyMode).
// Khi một kênh được chọn thì địa chỉ tương ứng đã được validate lúc lưu brand —
// dispatcher không validate lại.
type Brand struct {
	ID   primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name string             `json:"name" bson:"name"` // Tên brand, unique

	WhatsAppNumber string `json:"whatsappNumber,omitempty" bson:"whatsappNumber,omitempty"`
	Email          string `json:"email,omitempty" bson:"email,omitempty"`

	PreferredChannels []string `json:"preferredChannels,omitempty" bson:"preferredChannels,omitempty"` // Tập con của {whatsapp, email}
	NotifyMode        string   `json:"notifyMode,omitempty" bson:"notifyMode,omitempty"`               // Legacy: whatsapp | email | both

	IsActive bool `json:"isActive" bson:"isActive"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
