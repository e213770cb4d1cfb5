// Package router đăng ký các route thuộc domain mail: webhook email inbound.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	mailhdl "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/mail/handler"
	apirouter "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/router"
)

// Register đăng ký các route mail lên v1.
// Webhook không yêu cầu identity header — provider bên ngoài gọi trực tiếp.
func Register(v1 fiber.Router) error {
	mailHandler, err := mailhdl.NewMailHandler()
	if err != nil {
		return fmt.Errorf("tạo MailHandler: %w", err)
	}

	// POST /webhooks/email-reply — webhook inbound từ provider email
	apirouter.RegisterRouteWithMiddleware(v1, "/webhooks", "POST", "/email-reply", nil, mailHandler.HandleEmailReply)

	return nil
}
