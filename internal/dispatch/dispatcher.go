// Package dispatch - dispatcher thông báo đa kênh cho booking.
// Fan-out sang khách hàng (WhatsApp + email) và sang brand theo kênh ưu tiên.
// Mỗi lần gửi ghi đúng một activity event; thất bại không retry, không chặn flow.
package dispatch

import (
	"context"
	"fmt"
	"sync"

	activitymodels "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/activity/models"
	bookingmodels "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/booking/models"
	brandmodels "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/brand/models"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/logger"
)

// Sender gửi một tin nhắn đến một địa chỉ trên một kênh cụ thể
type Sender interface {
	Send(ctx context.Context, to string, subject string, text string) error
}

// Auditor ghi activity event. Ghi thất bại không được lan ra ngoài.
type Auditor interface {
	Log(ctx context.Context, event activitymodels.ActivityEvent)
}

// BrandLookup tra brand đang active theo tên (match exact)
type BrandLookup interface {
	FindActiveByName(ctx context.Context, name string) (*brandmodels.Brand, error)
}

// Dispatcher điều phối thông báo khi booking được tạo.
// Senders được khởi tạo một lần lúc start và inject vào đây,
// không tạo mới theo từng request.
type Dispatcher struct {
	whatsapp Sender
	email    Sender
	brands   BrandLookup
	audit    Auditor
}

// NewDispatcher tạo mới Dispatcher
func NewDispatcher(whatsapp Sender, email Sender, brands BrandLookup, audit Auditor) *Dispatcher {
	return &Dispatcher{
		whatsapp: whatsapp,
		email:    email,
		brands:   brands,
		audit:    audit,
	}
}

// DispatchBookingCreated chạy fan-out thông báo cho một booking mới.
// Nhánh khách hàng và nhánh brand chạy song song, mỗi nhánh độc lập —
// một kênh fail không ngăn kênh còn lại. Hàm luôn chạy đến cùng,
// không trả về error: kết quả từng lần gửi nằm trong activity events.
func (d *Dispatcher) DispatchBookingCreated(ctx context.Context, booking *bookingmodels.Booking) {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		d.notifyCustomer(ctx, booking)
	}()
	go func() {
		defer wg.Done()
		d.notifyBrand(ctx, booking)
	}()

	wg.Wait()
}

// notifyCustomer gửi xác nhận booking cho khách hàng.
// WhatsApp gửi khi có customerPhone, email gửi khi có customerEmail,
// hai kênh độc lập nhau. Nếu không kênh nào gửi được (thiếu cả hai
// hoặc tất cả đều fail) ghi đúng một event customer_unreachable.
func (d *Dispatcher) notifyCustomer(ctx context.Context, booking *bookingmodels.Booking) {
	subject := fmt.Sprintf("Xác nhận booking #%s", booking.ShortCode)
	text := customerMessage(booking)

	attempted := 0
	succeeded := 0

	if booking.CustomerPhone != "" {
		attempted++
		if err := d.whatsapp.Send(ctx, booking.CustomerPhone, subject, text); err != nil {
			logger.GetAppLogger().WithError(err).Warnf("Gửi WhatsApp cho khách thất bại, booking %s", booking.ShortCode)
			d.audit.Log(ctx, activitymodels.ActivityEvent{
				EventType: activitymodels.EventWhatsAppFailed,
				Message:   fmt.Sprintf("Gửi WhatsApp cho khách hàng %s thất bại: %s", booking.CustomerName, err.Error()),
				BookingID: &booking.ID,
				Severity:  activitymodels.SeverityError,
				Metadata:  map[string]interface{}{"to": booking.CustomerPhone, "recipient": "customer"},
			})
		} else {
			succeeded++
			d.audit.Log(ctx, activitymodels.ActivityEvent{
				EventType: activitymodels.EventWhatsAppSent,
				Message:   fmt.Sprintf("Đã gửi WhatsApp xác nhận booking #%s cho khách hàng %s", booking.ShortCode, booking.CustomerName),
				BookingID: &booking.ID,
				Severity:  activitymodels.SeveritySuccess,
				Metadata:  map[string]interface{}{"to": booking.CustomerPhone, "recipient": "customer"},
			})
		}
	}

	if booking.CustomerEmail != "" {
		attempted++
		if err := d.email.Send(ctx, booking.CustomerEmail, subject, text); err != nil {
			logger.GetAppLogger().WithError(err).Warnf("Gửi email cho khách thất bại, booking %s", booking.ShortCode)
			d.audit.Log(ctx, activitymodels.ActivityEvent{
				EventType: activitymodels.EventEmailFailed,
				Message:   fmt.Sprintf("Gửi email cho khách hàng %s thất bại: %s", booking.CustomerName, err.Error()),
				BookingID: &booking.ID,
				Severity:  activitymodels.SeverityError,
				Metadata:  map[string]interface{}{"to": booking.CustomerEmail, "recipient": "customer"},
			})
		} else {
			succeeded++
			d.audit.Log(ctx, activitymodels.ActivityEvent{
				EventType: activitymodels.EventEmailSent,
				Message:   fmt.Sprintf("Đã gửi email xác nhận booking #%s cho khách hàng %s", booking.ShortCode, booking.CustomerName),
				BookingID: &booking.ID,
				Severity:  activitymodels.SeveritySuccess,
				Metadata:  map[string]interface{}{"to": booking.CustomerEmail, "recipient": "customer"},
			})
		}
	}

	if succeeded == 0 {
		reason := "tất cả các kênh đều gửi thất bại"
		if attempted == 0 {
			reason = "khách hàng không có số điện thoại lẫn email"
		}
		d.audit.Log(ctx, activitymodels.ActivityEvent{
			EventType: activitymodels.EventCustomerUnreachable,
			Message:   fmt.Sprintf("Không liên lạc được khách hàng %s cho booking #%s: %s", booking.CustomerName, booking.ShortCode, reason),
			BookingID: &booking.ID,
			Severity:  activitymodels.SeverityWarning,
		})
	}
}

// notifyBrand gửi thông báo booking mới đến brand của thiết bị.
// Brand không tồn tại / không active / thiếu địa chỉ kênh chỉ ghi
// event brand_notify_skipped, không coi là lỗi.
func (d *Dispatcher) notifyBrand(ctx context.Context, booking *bookingmodels.Booking) {
	if booking.BrandName == "" {
		return
	}

	brand, err := d.brands.FindActiveByName(ctx, booking.BrandName)
	if err != nil || brand == nil {
		d.audit.Log(ctx, activitymodels.ActivityEvent{
			EventType: activitymodels.EventBrandNotifySkipped,
			Message:   fmt.Sprintf("Bỏ qua thông báo brand cho booking #%s: không tìm thấy brand active tên %q", booking.ShortCode, booking.BrandName),
			BookingID: &booking.ID,
			Severity:  activitymodels.SeverityWarning,
			Metadata:  map[string]interface{}{"brandName": booking.BrandName},
		})
		return
	}

	subject := fmt.Sprintf("Booking mới #%s - %s", booking.ShortCode, booking.ProductName)
	text := brandMessage(booking)

	for _, channel := range brand.EffectiveChannels() {
		to := brand.AddressFor(channel)
		if to == "" {
			d.audit.Log(ctx, activitymodels.ActivityEvent{
				EventType: activitymodels.EventBrandNotifySkipped,
				Message:   fmt.Sprintf("Bỏ qua kênh %s cho brand %s: chưa cấu hình địa chỉ", channel, brand.Name),
				BookingID: &booking.ID,
				Severity:  activitymodels.SeverityWarning,
				Metadata:  map[string]interface{}{"brandName": brand.Name, "channel": channel},
			})
			continue
		}

		var sendErr error
		var sentType, failedType string
		switch channel {
		case brandmodels.ChannelWhatsApp:
			sendErr = d.whatsapp.Send(ctx, to, subject, text)
			sentType, failedType = activitymodels.EventWhatsAppSent, activitymodels.EventWhatsAppFailed
		case brandmodels.ChannelEmail:
			sendErr = d.email.Send(ctx, to, subject, text)
			sentType, failedType = activitymodels.EventEmailSent, activitymodels.EventEmailFailed
		default:
			continue
		}

		if sendErr != nil {
			logger.GetAppLogger().WithError(sendErr).Warnf("Gửi %s cho brand %s thất bại, booking %s", channel, brand.Name, booking.ShortCode)
			d.audit.Log(ctx, activitymodels.ActivityEvent{
				EventType: failedType,
				Message:   fmt.Sprintf("Gửi %s cho brand %s thất bại: %s", channel, brand.Name, sendErr.Error()),
				BookingID: &booking.ID,
				Severity:  activitymodels.SeverityError,
				Metadata:  map[string]interface{}{"to": to, "recipient": "brand", "brandName": brand.Name, "channel": channel},
			})
		} else {
			d.audit.Log(ctx, activitymodels.ActivityEvent{
				EventType: sentType,
				Message:   fmt.Sprintf("Đã thông báo booking #%s cho brand %s qua %s", booking.ShortCode, brand.Name, channel),
				BookingID: &booking.ID,
				Severity:  activitymodels.SeveritySuccess,
				Metadata:  map[string]interface{}{"to": to, "recipient": "brand", "brandName": brand.Name, "channel": channel},
			})
		}
	}
}

// customerMessage dựng nội dung tin xác nhận gửi khách hàng
func customerMessage(booking *bookingmodels.Booking) string {
	return fmt.Sprintf(
		"Chào %s, yêu cầu dịch vụ của bạn đã được ghi nhận.\n"+
			"Mã booking: #%s\n"+
			"Thiết bị: %s %s\n"+
			"Chúng tôi sẽ liên hệ lại để xếp lịch trong thời gian sớm nhất.",
		booking.CustomerName, booking.ShortCode, booking.BrandName, booking.ProductName)
}

// brandMessage dựng nội dung thông báo gửi brand
func brandMessage(booking *bookingmodels.Booking) string {
	return fmt.Sprintf(
		"Booking mới #%s\n"+
			"Khách hàng: %s (%s)\n"+
			"Thiết bị: %s, model %s\n"+
			"Sự cố: %s\n"+
			"Địa chỉ: %s",
		booking.ShortCode, booking.CustomerName, booking.CustomerPhone,
		booking.ProductName, booking.ModelNumber, booking.Issue, booking.Address)
}
