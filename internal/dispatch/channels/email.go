package channels

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// EmailSender gửi email transactional qua SMTP.
type EmailSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
}

// NewEmailSender tạo mới EmailSender
func NewEmailSender(host string, port int, username, password, from, fromName string) *EmailSender {
	return &EmailSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		fromName: fromName,
	}
}

// Send gửi một email text đến địa chỉ nhận
func (s *EmailSender) Send(ctx context.Context, to string, subject string, text string) error {
	if s.host == "" {
		return fmt.Errorf("SMTP chưa được cấu hình")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("%s <%s>", s.fromName, s.from))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", text)

	dialer := gomail.NewDialer(s.host, s.port, s.username, s.password)
	return dialer.DialAndSend(msg)
}
