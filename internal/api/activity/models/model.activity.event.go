// Package models - model cho domain activity (audit trail append-only).
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các loại activity event.
const (
	EventBookingCreated     = "booking_created"
	EventBookingUpdated     = "booking_updated"
	EventBookingRescheduled = "booking_rescheduled"

	EventWhatsAppSent   = "whatsapp_sent"
	EventWhatsAppFailed = "whatsapp_failed"
	EventEmailSent      = "email_sent"
	EventEmailFailed    = "email_failed"

	EventBrandNotifySkipped  = "brand_notify_skipped"
	EventCustomerUnreachable = "customer_unreachable"

	EventAutomationTriggered = "automation_triggered"
	EventAutomationFailed    = "automation_failed"
	EventWebhookSent         = "webhook_sent"
	EventWebhookFailed       = "webhook_failed"

	EventEmailReplyReceived = "email_reply_received"
	EventEmailReplyLinked   = "email_reply_linked"
)

// Mức độ nghiêm trọng của event.
const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// ActivityEvent là một bản ghi audit bất biến.
// Collection này append-only: service không có đường update/delete
// (housekeeping là việc của admin, ngoài service này).
type ActivityEvent struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	EventType string              `json:"eventType" bson:"eventType"`
	Message   string              `json:"message" bson:"message"`
	BookingID *primitive.ObjectID `json:"bookingId,omitempty" bson:"bookingId,omitempty"`
	Severity  string              `json:"severity" bson:"severity"` // info | success | warning | error

	Metadata map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"` // Channel, recipient, chi tiết lỗi...

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
}
