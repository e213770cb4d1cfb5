// Package models - model cho domain mail (email gắn với booking).
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Phân loại email.
// KindReply chỉ khi đã link được booking VÀ body khác rỗng;
// email đã link nhưng body rỗng vẫn là KindIncoming.
const (
	KindOutgoing = "outgoing"
	KindIncoming = "incoming"
	KindReply    = "reply"
)

// EmailMessage lưu một email inbound/outbound liên quan đến booking.
// BookingID một khi đã set thì không bao giờ bị ghi đè bởi lần correlation sau.
type EmailMessage struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	From    string `json:"from" bson:"from"`
	To      string `json:"to,omitempty" bson:"to,omitempty"`
	Subject string `json:"subject" bson:"subject"`
	Body    string `json:"body,omitempty" bson:"body,omitempty"`

	Kind string `json:"kind" bson:"kind"` // outgoing | incoming | reply

	// Correlation metadata (best-effort, thường thiếu)
	MessageID  string `json:"messageId,omitempty" bson:"messageId,omitempty"`   // Message-ID của chính email này
	InReplyTo  string `json:"inReplyTo,omitempty" bson:"inReplyTo,omitempty"`   // In-Reply-To header
	References string `json:"references,omitempty" bson:"references,omitempty"` // References header

	BookingID *primitive.ObjectID `json:"bookingId,omitempty" bson:"bookingId,omitempty"` // Booking đã link (nil nếu chưa)
	MatchedBy string              `json:"matchedBy,omitempty" bson:"matchedBy,omitempty"` // Heuristic đã match (diagnostics)

	ReceivedAt int64 `json:"receivedAt" bson:"receivedAt"` // Thời gian nhận (Unix milliseconds)
	CreatedAt  int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt  int64 `json:"updatedAt" bson:"updatedAt"`
}
