// Package dto - DTO cho domain mail.
package dto

import (
	"encoding/json"
	"strconv"
	"strings"
)

// EmailReplyInput là payload webhook inbound từ provider email.
// Provider hay gửi placeholder "=" hoặc chuỗi rỗng cho field thiếu —
// Normalize() quy hết về absent trước khi validate.
type EmailReplyInput struct {
	From       string `json:"from" validate:"required,email_shape"`
	To         string `json:"to"`
	Subject    string `json:"subject" validate:"required"`
	ReplyText  string `json:"replyText"`
	ReplySent  bool   `json:"replySent"`
	Timestamp  int64  `json:"timestamp"` // Unix milliseconds, 0 = dùng giờ nhận
	BookingID  string `json:"bookingId"` // Tham chiếu tường minh: hex ObjectID hoặc shortCode
	MessageID  string `json:"messageId"`
	InReplyTo  string `json:"inReplyTo"`
	References string `json:"references"`
}

// UnmarshalJSON decode chịu được kiểu lỏng lẻo của provider: timestamp và
// replySent có thể đến dưới dạng số/bool đúng kiểu, chuỗi chứa giá trị,
// hoặc placeholder "=" / "" / null. Placeholder quy về zero value (absent)
// thay vì làm hỏng cả payload — email hợp lệ không được mất chỉ vì một
// field phụ sai kiểu.
func (in *EmailReplyInput) UnmarshalJSON(data []byte) error {
	type plain EmailReplyInput
	aux := struct {
		*plain
		Timestamp json.RawMessage `json:"timestamp"`
		ReplySent json.RawMessage `json:"replySent"`
	}{plain: (*plain)(in)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	in.Timestamp = flexInt64(aux.Timestamp)
	in.ReplySent = flexBool(aux.ReplySent)
	return nil
}

// flexInt64 đọc một giá trị số có thể là number, chuỗi số, "=", "" hoặc null
func flexInt64(raw json.RawMessage) int64 {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return 0
		}
		v = strings.TrimSpace(normalizeField(v))
		if v == "" {
			return 0
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return n
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	// Một số provider gửi epoch millis dạng float
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int64(f)
	}
	return 0
}

// flexBool đọc một giá trị bool có thể là bool, chuỗi "true"/"false", "=", "" hoặc null
func flexBool(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return false
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return false
		}
		v = strings.TrimSpace(normalizeField(v))
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false
		}
		return b
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false
	}
	return b
}

// Normalize quy các giá trị placeholder của provider về absent.
// "=" và "" đều nghĩa là không có giá trị.
func (in *EmailReplyInput) Normalize() {
	in.From = normalizeField(in.From)
	in.To = normalizeField(in.To)
	in.Subject = normalizeField(in.Subject)
	in.ReplyText = normalizeField(in.ReplyText)
	in.BookingID = normalizeField(in.BookingID)
	in.MessageID = normalizeField(in.MessageID)
	in.InReplyTo = normalizeField(in.InReplyTo)
	in.References = normalizeField(in.References)
}

func normalizeField(v string) string {
	if v == "=" {
		return ""
	}
	return v
}

// EmailReplyResult là response của webhook inbound: kết quả correlation.
type EmailReplyResult struct {
	MessageDocID string `json:"messageDocId"`        // _id của EmailMessage vừa lưu
	BookingID    string `json:"bookingId,omitempty"` // Booking đã link, rỗng nếu không link được
	MatchedBy    string `json:"matchedBy,omitempty"` // Heuristic đã match
	Kind         string `json:"kind"`                // incoming | reply | outgoing
	Linked       bool   `json:"linked"`
}
