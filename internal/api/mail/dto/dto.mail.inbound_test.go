// Package dto - Test chuẩn hóa placeholder "=" của provider email.
package dto

import (
	"encoding/json"
	"testing"

	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/global"
)

func TestNormalize_PlaceholderEquals(t *testing.T) {
	in := &EmailReplyInput{
		From:      "khach@example.com",
		To:        "=",
		Subject:   "Re: booking #A3K9P2",
		ReplyText: "=",
		BookingID: "=",
		InReplyTo: "=",
	}
	in.Normalize()

	if in.To != "" || in.ReplyText != "" || in.BookingID != "" || in.InReplyTo != "" {
		t.Errorf("Placeholder \"=\" phải quy về rỗng: %+v", in)
	}
	if in.From != "khach@example.com" || in.Subject != "Re: booking #A3K9P2" {
		t.Error("Giá trị thật không được đụng đến khi normalize")
	}
}

func TestNormalize_KeepsRealValues(t *testing.T) {
	in := &EmailReplyInput{
		From:      "khach@example.com",
		Subject:   "Hỏi lịch",
		ReplyText: "= dấu bằng ở giữa câu vẫn giữ =x",
	}
	in.Normalize()

	// Chỉ giá trị đúng bằng "=" mới là placeholder
	if in.ReplyText == "" {
		t.Error("Body chứa dấu bằng nhưng khác \"=\" không được xóa")
	}
}

func TestValidate_InboundPayload(t *testing.T) {
	global.InitValidator()

	// Thiếu subject (provider gửi "=") phải bị từ chối trước khi lưu
	missing := &EmailReplyInput{From: "khach@example.com", Subject: "="}
	missing.Normalize()
	if err := global.Validate.Struct(missing); err == nil {
		t.Error("Payload thiếu subject phải bị từ chối")
	}

	// From sai định dạng email cũng bị từ chối
	badFrom := &EmailReplyInput{From: "không-phải-email", Subject: "Hỏi lịch"}
	badFrom.Normalize()
	if err := global.Validate.Struct(badFrom); err == nil {
		t.Error("From sai định dạng email phải bị từ chối")
	}

	// Payload đầy đủ phải qua được validate
	ok := &EmailReplyInput{From: "khach@example.com", Subject: "Re: booking #A3K9P2"}
	ok.Normalize()
	if err := global.Validate.Struct(ok); err != nil {
		t.Errorf("Payload hợp lệ không được bị từ chối: %v", err)
	}
}

func TestUnmarshal_FlexibleTimestampAndReplySent(t *testing.T) {
	// Provider gửi placeholder "=" cho field số/bool — payload vẫn phải
	// decode được, field quy về absent thay vì mất cả email
	var in EmailReplyInput
	body := []byte(`{"from":"lg@x.com","subject":"Re: #A3K9P2","timestamp":"=","replySent":"="}`)
	if err := json.Unmarshal(body, &in); err != nil {
		t.Fatalf("Payload có placeholder \"=\" ở field số phải decode được: %v", err)
	}
	if in.Timestamp != 0 || in.ReplySent {
		t.Errorf("Placeholder \"=\" phải quy về zero value: timestamp=%d replySent=%v", in.Timestamp, in.ReplySent)
	}
	if in.From != "lg@x.com" || in.Subject != "Re: #A3K9P2" {
		t.Error("Các field khác không được đụng đến")
	}

	// Chuỗi chứa giá trị thật vẫn đọc được
	var in2 EmailReplyInput
	body2 := []byte(`{"from":"lg@x.com","subject":"Hỏi lịch","timestamp":"1724966400000","replySent":"true"}`)
	if err := json.Unmarshal(body2, &in2); err != nil {
		t.Fatalf("Chuỗi số/bool phải decode được: %v", err)
	}
	if in2.Timestamp != 1724966400000 || !in2.ReplySent {
		t.Errorf("Giá trị trong chuỗi phải được parse: timestamp=%d replySent=%v", in2.Timestamp, in2.ReplySent)
	}

	// Kiểu đúng chuẩn vẫn đi qua như cũ
	var in3 EmailReplyInput
	body3 := []byte(`{"from":"lg@x.com","subject":"Hỏi lịch","timestamp":1724966400000,"replySent":true}`)
	if err := json.Unmarshal(body3, &in3); err != nil {
		t.Fatalf("Payload đúng kiểu phải decode được: %v", err)
	}
	if in3.Timestamp != 1724966400000 || !in3.ReplySent {
		t.Error("Payload đúng kiểu không được đổi giá trị")
	}
}
