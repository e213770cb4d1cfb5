// Package dispatch - Test fan-out notification: hai kênh độc lập,
// customer_unreachable, brand hai kênh ghi đúng hai event.
package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	activitymodels "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/activity/models"
	bookingmodels "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/booking/models"
	brandmodels "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/brand/models"
)

// fakeSender ghi lại các lần gửi, fail tùy theo cấu hình
type fakeSender struct {
	mu    sync.Mutex
	sent  []string
	fails bool
}

func (f *fakeSender) Send(ctx context.Context, to, subject, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fails {
		return errors.New("gateway từ chối")
	}
	f.sent = append(f.sent, to)
	return nil
}

func (f *fakeSender) sentTo() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

// fakeAuditor gom activity event vào bộ nhớ
type fakeAuditor struct {
	mu     sync.Mutex
	events []activitymodels.ActivityEvent
}

func (f *fakeAuditor) Log(ctx context.Context, event activitymodels.ActivityEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeAuditor) byType(eventType string) []activitymodels.ActivityEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []activitymodels.ActivityEvent
	for _, e := range f.events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

// fakeBrandLookup trả về brand cố định theo tên
type fakeBrandLookup struct {
	brands map[string]*brandmodels.Brand
}

func (f *fakeBrandLookup) FindActiveByName(ctx context.Context, name string) (*brandmodels.Brand, error) {
	return f.brands[name], nil
}

func newTestBooking() *bookingmodels.Booking {
	return &bookingmodels.Booking{
		ID:            primitive.NewObjectID(),
		ShortCode:     "A3K9P2",
		CustomerName:  "Nguyễn Văn A",
		CustomerPhone: "+84901234567",
		CustomerEmail: "a@example.com",
		ProductName:   "Máy giặt",
		BrandName:     "AquaHome",
		Status:        bookingmodels.StatusPending,
	}
}

func TestDispatch_CustomerBothChannels(t *testing.T) {
	wa := &fakeSender{}
	mail := &fakeSender{}
	audit := &fakeAuditor{}
	d := NewDispatcher(wa, mail, &fakeBrandLookup{}, audit)

	booking := newTestBooking()
	booking.BrandName = "" // chỉ test nhánh khách hàng
	d.DispatchBookingCreated(context.Background(), booking)

	if len(wa.sentTo()) != 1 || wa.sentTo()[0] != booking.CustomerPhone {
		t.Errorf("WhatsApp phải gửi đến %s, got %v", booking.CustomerPhone, wa.sentTo())
	}
	if len(mail.sentTo()) != 1 || mail.sentTo()[0] != booking.CustomerEmail {
		t.Errorf("Email phải gửi đến %s, got %v", booking.CustomerEmail, mail.sentTo())
	}
	if n := len(audit.byType(activitymodels.EventWhatsAppSent)); n != 1 {
		t.Errorf("Phải có đúng 1 event whatsapp_sent, got %d", n)
	}
	if n := len(audit.byType(activitymodels.EventEmailSent)); n != 1 {
		t.Errorf("Phải có đúng 1 event email_sent, got %d", n)
	}
	if n := len(audit.byType(activitymodels.EventCustomerUnreachable)); n != 0 {
		t.Errorf("Gửi thành công thì không được có customer_unreachable, got %d", n)
	}
}

func TestDispatch_ChannelsIndependent(t *testing.T) {
	wa := &fakeSender{fails: true}
	mail := &fakeSender{}
	audit := &fakeAuditor{}
	d := NewDispatcher(wa, mail, &fakeBrandLookup{}, audit)

	booking := newTestBooking()
	booking.BrandName = ""
	d.DispatchBookingCreated(context.Background(), booking)

	// WhatsApp fail không được ngăn email
	if len(mail.sentTo()) != 1 {
		t.Error("Email phải vẫn gửi khi WhatsApp fail")
	}
	if n := len(audit.byType(activitymodels.EventWhatsAppFailed)); n != 1 {
		t.Errorf("Phải có đúng 1 event whatsapp_failed, got %d", n)
	}
	// Một kênh thành công thì không unreachable
	if n := len(audit.byType(activitymodels.EventCustomerUnreachable)); n != 0 {
		t.Errorf("Email thành công thì không được có customer_unreachable, got %d", n)
	}
}

func TestDispatch_CustomerUnreachable_NoContact(t *testing.T) {
	audit := &fakeAuditor{}
	d := NewDispatcher(&fakeSender{}, &fakeSender{}, &fakeBrandLookup{}, audit)

	booking := newTestBooking()
	booking.BrandName = ""
	booking.CustomerPhone = ""
	booking.CustomerEmail = ""
	d.DispatchBookingCreated(context.Background(), booking)

	unreachable := audit.byType(activitymodels.EventCustomerUnreachable)
	if len(unreachable) != 1 {
		t.Fatalf("Khách không có kênh nào phải sinh đúng 1 event customer_unreachable, got %d", len(unreachable))
	}
	if unreachable[0].Severity != activitymodels.SeverityWarning {
		t.Errorf("customer_unreachable phải là warning, got %q", unreachable[0].Severity)
	}
}

func TestDispatch_CustomerUnreachable_AllFail(t *testing.T) {
	audit := &fakeAuditor{}
	d := NewDispatcher(&fakeSender{fails: true}, &fakeSender{fails: true}, &fakeBrandLookup{}, audit)

	booking := newTestBooking()
	booking.BrandName = ""
	d.DispatchBookingCreated(context.Background(), booking)

	if n := len(audit.byType(activitymodels.EventCustomerUnreachable)); n != 1 {
		t.Errorf("Cả hai kênh fail phải sinh đúng 1 event customer_unreachable, got %d", n)
	}
	// Mỗi lần thử vẫn có event riêng của nó
	if n := len(audit.byType(activitymodels.EventWhatsAppFailed)); n != 1 {
		t.Errorf("Phải có 1 event whatsapp_failed, got %d", n)
	}
	if n := len(audit.byType(activitymodels.EventEmailFailed)); n != 1 {
		t.Errorf("Phải có 1 event email_failed, got %d", n)
	}
}

func TestDispatch_BrandDualChannel_TwoAuditEvents(t *testing.T) {
	wa := &fakeSender{}
	mail := &fakeSender{}
	audit := &fakeAuditor{}
	brands := &fakeBrandLookup{brands: map[string]*brandmodels.Brand{
		"AquaHome": {
			Name:              "AquaHome",
			WhatsAppNumber:    "+84987654321",
			Email:             "support@aquahome.vn",
			PreferredChannels: []string{"whatsapp", "email"},
			IsActive:          true,
		},
	}}
	d := NewDispatcher(wa, mail, brands, audit)

	booking := newTestBooking()
	booking.CustomerPhone = ""
	booking.CustomerEmail = "" // cô lập nhánh brand (chấp nhận 1 customer_unreachable)
	d.DispatchBookingCreated(context.Background(), booking)

	// Brand hai kênh: đúng hai event gửi độc lập, một cho mỗi kênh
	var brandEvents int
	for _, e := range audit.byType(activitymodels.EventWhatsAppSent) {
		if e.Metadata["recipient"] == "brand" {
			brandEvents++
		}
	}
	for _, e := range audit.byType(activitymodels.EventEmailSent) {
		if e.Metadata["recipient"] == "brand" {
			brandEvents++
		}
	}
	if brandEvents != 2 {
		t.Errorf("Brand both phải sinh đúng 2 event gửi (mỗi kênh một), got %d", brandEvents)
	}
}

func TestDispatch_BrandMissing_Skipped(t *testing.T) {
	audit := &fakeAuditor{}
	d := NewDispatcher(&fakeSender{}, &fakeSender{}, &fakeBrandLookup{}, audit)

	booking := newTestBooking() // BrandName=AquaHome nhưng lookup rỗng
	d.DispatchBookingCreated(context.Background(), booking)

	skipped := audit.byType(activitymodels.EventBrandNotifySkipped)
	if len(skipped) != 1 {
		t.Fatalf("Brand không tồn tại phải sinh 1 event brand_notify_skipped, got %d", len(skipped))
	}
	if skipped[0].Severity != activitymodels.SeverityWarning {
		t.Errorf("brand_notify_skipped phải là warning, không phải lỗi, got %q", skipped[0].Severity)
	}
}

func TestDispatch_BrandMissingAddress_SkippedPerChannel(t *testing.T) {
	wa := &fakeSender{}
	mail := &fakeSender{}
	audit := &fakeAuditor{}
	brands := &fakeBrandLookup{brands: map[string]*brandmodels.Brand{
		"AquaHome": {
			Name:              "AquaHome",
			Email:             "support@aquahome.vn",
			PreferredChannels: []string{"whatsapp", "email"}, // whatsapp chọn nhưng thiếu số
			IsActive:          true,
		},
	}}
	d := NewDispatcher(wa, mail, brands, audit)

	booking := newTestBooking()
	booking.CustomerPhone = ""
	booking.CustomerEmail = ""
	d.DispatchBookingCreated(context.Background(), booking)

	if n := len(audit.byType(activitymodels.EventBrandNotifySkipped)); n != 1 {
		t.Errorf("Kênh thiếu địa chỉ phải sinh 1 event brand_notify_skipped, got %d", n)
	}
	// Kênh còn lại vẫn gửi bình thường
	if len(mail.sentTo()) != 1 || mail.sentTo()[0] != "support@aquahome.vn" {
		t.Errorf("Email brand phải vẫn gửi, got %v", mail.sentTo())
	}
	if len(wa.sentTo()) != 0 {
		t.Errorf("WhatsApp không có số thì không được gửi, got %v", wa.sentTo())
	}
}

func TestDispatch_LegacyNotifyMode(t *testing.T) {
	wa := &fakeSender{}
	mail := &fakeSender{}
	audit := &fakeAuditor{}
	brands := &fakeBrandLookup{brands: map[string]*brandmodels.Brand{
		"AquaHome": {
			Name:           "AquaHome",
			WhatsAppNumber: "+84987654321",
			Email:          "support@aquahome.vn",
			NotifyMode:     brandmodels.NotifyModeBoth, // không có preferredChannels
			IsActive:       true,
		},
	}}
	d := NewDispatcher(wa, mail, brands, audit)

	booking := newTestBooking()
	booking.CustomerPhone = ""
	booking.CustomerEmail = ""
	d.DispatchBookingCreated(context.Background(), booking)

	if len(wa.sentTo()) != 1 || len(mail.sentTo()) != 1 {
		t.Errorf("NotifyMode both phải gửi cả hai kênh: wa=%v mail=%v", wa.sentTo(), mail.sentTo())
	}
}
