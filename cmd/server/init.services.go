package main

import (
	"github.com/sirupsen/logrus"

	activitysvc "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/activity/service"
	bookingsvc "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/booking/service"
	brandsvc "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/brand/service"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/dispatch"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/dispatch/channels"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/global"
)

// bookingService giữ service nghiệp vụ chính, dựng một lần lúc start
// vì nó ôm các sender outbound dùng chung cho cả process
var bookingService *bookingsvc.BookingService

// InitServices dựng các sender kênh, dispatcher, automation bridge và
// generic webhook, rồi inject vào BookingService. Các collection phải
// được đăng ký vào registry trước khi gọi hàm này.
func InitServices() {
	cfg := global.ServerConfig

	whatsapp := channels.NewWhatsAppSender(cfg.WhatsAppAPIURL, cfg.WhatsAppAPIToken)
	email := channels.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, cfg.SMTPFromName)

	brands, err := brandsvc.NewBrandService()
	if err != nil {
		logrus.Fatalf("Failed to create brand service: %v", err)
	}
	activity, err := activitysvc.NewActivityService()
	if err != nil {
		logrus.Fatalf("Failed to create activity service: %v", err)
	}

	dispatcher := dispatch.NewDispatcher(whatsapp, email, brands, activity)
	automation := dispatch.NewAutomationBridge(cfg.AutomationWebhookURL)
	webhook := dispatch.NewGenericWebhook(cfg.GenericWebhookURL)

	bookingService, err = bookingsvc.NewBookingService(dispatcher, automation, webhook)
	if err != nil {
		logrus.Fatalf("Failed to create booking service: %v", err)
	}

	logrus.Info("Initialized outbound services (dispatcher, automation, webhook)")
}
