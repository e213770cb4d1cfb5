// Package channels - các kênh gửi notification (WhatsApp gateway, email SMTP).
// Hợp đồng chung: thử gửi một lần, trả error nếu thất bại, không retry.
package channels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WhatsAppSender gửi tin nhắn qua WhatsApp gateway.
// Client được tạo một lần khi khởi động và inject vào dispatcher —
// không dùng lazy global.
type WhatsAppSender struct {
	apiURL string
	token  string
	client *http.Client
}

// NewWhatsAppSender tạo mới WhatsAppSender
func NewWhatsAppSender(apiURL, token string) *WhatsAppSender {
	return &WhatsAppSender{
		apiURL: apiURL,
		token:  token,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send gửi một tin nhắn text đến số WhatsApp.
// subject được ghép vào đầu nội dung vì WhatsApp không có khái niệm subject.
func (s *WhatsAppSender) Send(ctx context.Context, to string, subject string, text string) error {
	if s.apiURL == "" {
		return fmt.Errorf("whatsapp gateway chưa được cấu hình")
	}

	body := text
	if subject != "" {
		body = "*" + subject + "*\n\n" + text
	}

	payload := map[string]interface{}{
		"to":   to,
		"type": "text",
		"text": map[string]interface{}{
			"body": body,
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("whatsapp gateway trả về status %d", resp.StatusCode)
	}

	return nil
}
