// Package mailhdl - Test parse payload webhook: object đơn và mảng.
package mailhdl

import "testing"

func TestParseInbound_SingleObject(t *testing.T) {
	body := []byte(`{"from":"khach@example.com","subject":"Re: booking #A3K9P2","replyText":"Đổi lịch giúp tôi"}`)
	input, err := parseInbound(body)
	if err != nil {
		t.Fatalf("Parse object đơn lỗi: %v", err)
	}
	if input.From != "khach@example.com" || input.Subject != "Re: booking #A3K9P2" {
		t.Errorf("Parse sai field: %+v", input)
	}
}

func TestParseInbound_ArrayTakesFirst(t *testing.T) {
	body := []byte(`[{"from":"a@example.com","subject":"Thứ nhất"},{"from":"b@example.com","subject":"Thứ hai"}]`)
	input, err := parseInbound(body)
	if err != nil {
		t.Fatalf("Parse mảng lỗi: %v", err)
	}
	if input.From != "a@example.com" {
		t.Errorf("Phải lấy phần tử đầu của mảng, got from=%q", input.From)
	}
}

func TestParseInbound_InvalidJSON(t *testing.T) {
	if _, err := parseInbound([]byte(`không phải json`)); err == nil {
		t.Error("JSON hỏng phải trả về lỗi validation")
	}
	if _, err := parseInbound([]byte(`[]`)); err == nil {
		t.Error("Mảng rỗng phải trả về lỗi validation")
	}
}

func TestParseInbound_PlaceholderTimestamp(t *testing.T) {
	// Field số mang placeholder "=" không được làm rớt payload sang 400
	body := []byte(`{"from":"lg@x.com","subject":"Re: #A3K9P2","timestamp":"="}`)
	input, err := parseInbound(body)
	if err != nil {
		t.Fatalf("Payload hợp lệ có timestamp \"=\" phải parse được: %v", err)
	}
	if input.From != "lg@x.com" || input.Timestamp != 0 {
		t.Errorf("Parse sai: from=%q timestamp=%d", input.From, input.Timestamp)
	}
}
