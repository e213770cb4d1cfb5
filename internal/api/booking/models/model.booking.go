// Package models - model cho domain booking (yêu cầu dịch vụ thiết bị).
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái vòng đời của booking.
// Booking ở trạng thái khác pending không còn bắn dispatch/automation,
// nhưng vẫn cập nhật được (phục vụ audit).
const (
	StatusPending   = "pending"
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// ValidStatuses tập các trạng thái hợp lệ
var ValidStatuses = map[string]bool{
	StatusPending:   true,
	StatusScheduled: true,
	StatusCompleted: true,
	StatusCancelled: true,
}

// BookingUpdate là một dòng trong timeline cập nhật của booking
type BookingUpdate struct {
	Text string             `json:"text" bson:"text"`                 // Nội dung cập nhật
	By   primitive.ObjectID `json:"by,omitempty" bson:"by,omitempty"` // Người cập nhật
	At   int64              `json:"at" bson:"at"`                     // Thời điểm (Unix milliseconds)
}

// Booking đại diện cho một yêu cầu dịch vụ của khách hàng.
// ShortCode là mã 6 ký tự duy nhất, sinh một lần khi tạo và không bao giờ đổi.
type Booking struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ShortCode string             `json:"shortCode" bson:"shortCode"` // Mã booking 6 ký tự (A-Z, 0-9), unique

	// Thông tin khách hàng
	CustomerName  string `json:"customerName" bson:"customerName"`
	CustomerPhone string `json:"customerPhone,omitempty" bson:"customerPhone,omitempty"` // Số WhatsApp
	CustomerEmail string `json:"customerEmail,omitempty" bson:"customerEmail,omitempty"`
	Address       string `json:"address,omitempty" bson:"address,omitempty"`

	// Thông tin thiết bị
	ProductName string `json:"productName" bson:"productName"`
	BrandName   string `json:"brandName,omitempty" bson:"brandName,omitempty"` // Tên brand, match exact với Brand.Name
	Category    string `json:"category,omitempty" bson:"category,omitempty"`
	ModelNumber string `json:"modelNumber,omitempty" bson:"modelNumber,omitempty"`
	Issue       string `json:"issue,omitempty" bson:"issue,omitempty"` // Mô tả sự cố

	Status     string             `json:"status" bson:"status"`
	AssignedTo primitive.ObjectID `json:"assignedTo,omitempty" bson:"assignedTo,omitempty"`
	CreatedBy  primitive.ObjectID `json:"createdBy,omitempty" bson:"createdBy,omitempty"`

	// Timeline cập nhật (append-only, theo thứ tự thời gian)
	Updates []BookingUpdate `json:"updates,omitempty" bson:"updates,omitempty"`

	// Trạng thái reschedule nudge, ghi nhận để quan sát. Không có cooldown gate.
	LastRescheduleEmailAt int64 `json:"lastRescheduleEmailAt,omitempty" bson:"lastRescheduleEmailAt,omitempty"` // 0 = chưa từng
	RescheduleCount       int   `json:"rescheduleCount" bson:"rescheduleCount"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
