// Package bookingsvc - service cho domain booking: tạo booking với mã ngắn,
// fan-out notification nền, cập nhật trạng thái, reschedule.
package bookingsvc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	activitymodels "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/activity/models"
	activitysvc "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/activity/service"
	basesvc "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/base/service"
	bookingdto "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/booking/dto"
	bookingmodels "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/booking/models"
	brandmodels "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/brand/models"
	brandsvc "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/brand/service"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/events"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/common"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/dispatch"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/global"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/logger"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/utility"
)

// backgroundTaskTimeout bao trùm toàn bộ fan-out nền của một booking
// (dispatch + automation + webhook, mỗi call con đã có timeout 10s riêng)
const backgroundTaskTimeout = 60 * time.Second

// Các role được phép reschedule booking của người khác
var rescheduleRoles = map[string]bool{
	"admin":   true,
	"manager": true,
}

// BookingService là service nghiệp vụ chính của hệ thống.
// Dispatcher/automation/webhook được khởi tạo một lần lúc start và inject
// vào đây; service không tự dựng sender theo request.
type BookingService struct {
	base       *basesvc.BaseServiceMongoImpl[bookingmodels.Booking]
	activity   *activitysvc.ActivityService
	brands     *brandsvc.BrandService
	dispatcher *dispatch.Dispatcher
	automation *dispatch.AutomationBridge
	webhook    *dispatch.GenericWebhook
}

// NewBookingService tạo mới BookingService với các thành phần outbound đã dựng sẵn
func NewBookingService(dispatcher *dispatch.Dispatcher, automation *dispatch.AutomationBridge, webhook *dispatch.GenericWebhook) (*BookingService, error) {
	col, exist := global.RegistryCollections.Get(global.ColNames.Bookings)
	if !exist {
		return nil, fmt.Errorf("failed to get bookings collection: %v", common.ErrNotFound)
	}
	activity, err := activitysvc.NewActivityService()
	if err != nil {
		return nil, err
	}
	brands, err := brandsvc.NewBrandService()
	if err != nil {
		return nil, err
	}

	return &BookingService{
		base:       basesvc.NewBaseServiceMongo[bookingmodels.Booking](col),
		activity:   activity,
		brands:     brands,
		dispatcher: dispatcher,
		automation: automation,
		webhook:    webhook,
	}, nil
}

// Create tạo booking mới.
// Persist xong là báo thành công cho caller ngay; toàn bộ notification,
// automation và webhook chạy nền và không bao giờ làm creation fail.
// Đường fail duy nhất sau validate là persistence (kể cả cạn mã ngắn).
func (s *BookingService) Create(ctx context.Context, input *bookingdto.BookingCreateInput, createdBy primitive.ObjectID) (*bookingmodels.Booking, error) {
	shortCode, err := s.generateUniqueShortCode(ctx)
	if err != nil {
		return nil, err
	}

	booking := bookingmodels.Booking{
		ShortCode:     shortCode,
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		CustomerEmail: input.CustomerEmail,
		Address:       input.Address,
		ProductName:   input.ProductName,
		BrandName:     input.BrandName,
		Category:      input.Category,
		ModelNumber:   input.ModelNumber,
		Issue:         input.Issue,
		Status:        bookingmodels.StatusPending,
		CreatedBy:     createdBy,
	}

	created, err := s.base.InsertOne(ctx, booking)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}

	s.activity.Log(ctx, activitymodels.ActivityEvent{
		EventType: activitymodels.EventBookingCreated,
		Message:   fmt.Sprintf("Tạo booking #%s cho khách hàng %s (%s)", created.ShortCode, created.CustomerName, created.ProductName),
		BookingID: &created.ID,
		Severity:  activitymodels.SeverityInfo,
	})

	events.Emit(ctx, events.Event{
		Name:      events.EventBookingCreated,
		BookingID: created.ID,
		Payload:   created,
	})

	// Fan-out nền: request trả về ngay, mọi lỗi phía sau chỉ còn là
	// activity event + log
	snapshot := created
	go utility.GoProtect(func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), backgroundTaskTimeout)
		defer cancel()
		s.runPostCreate(bgCtx, &snapshot)
	})

	return &created, nil
}

// generateUniqueShortCode sinh mã ngắn chưa tồn tại trong collection,
// tối đa maxShortCodeAttempts lần thử
func (s *BookingService) generateUniqueShortCode(ctx context.Context) (string, error) {
	for i := 0; i < maxShortCodeAttempts; i++ {
		code := GenerateShortCode()
		exists, err := s.base.DocumentExists(ctx, bson.M{"shortCode": code})
		if err != nil {
			return "", common.ConvertMongoError(err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", common.ErrShortCodeExhausted
}

// runPostCreate chạy fan-out sau khi booking đã persist:
// dispatch notification, automation bridge (chỉ pending), generic webhook
func (s *BookingService) runPostCreate(ctx context.Context, booking *bookingmodels.Booking) {
	s.dispatcher.DispatchBookingCreated(ctx, booking)

	brand := s.lookupBrand(ctx, booking.BrandName)

	if booking.Status == bookingmodels.StatusPending {
		s.triggerAutomation(ctx, booking, brand)
	}

	s.notifyWebhook(ctx, "booking.created", booking, brand)
}

// lookupBrand tra brand cho payload outbound; không có brand → nil, không phải lỗi
func (s *BookingService) lookupBrand(ctx context.Context, name string) *brandmodels.Brand {
	if name == "" {
		return nil
	}
	brand, err := s.brands.FindActiveByName(ctx, name)
	if err != nil {
		logger.GetAppLogger().WithError(err).Warnf("Tra brand %q thất bại", name)
		return nil
	}
	return brand
}

// triggerAutomation gọi automation bridge và ghi activity event theo kết quả
func (s *BookingService) triggerAutomation(ctx context.Context, booking *bookingmodels.Booking, brand *brandmodels.Brand) dispatch.AutomationResult {
	result := s.automation.Trigger(ctx, booking, brand)
	if result.Triggered {
		s.activity.Log(ctx, activitymodels.ActivityEvent{
			EventType: activitymodels.EventAutomationTriggered,
			Message:   fmt.Sprintf("Đã kích hoạt automation cho booking #%s", booking.ShortCode),
			BookingID: &booking.ID,
			Severity:  activitymodels.SeveritySuccess,
		})
	} else {
		s.activity.Log(ctx, activitymodels.ActivityEvent{
			EventType: activitymodels.EventAutomationFailed,
			Message:   fmt.Sprintf("Automation cho booking #%s thất bại: %s", booking.ShortCode, result.Detail),
			BookingID: &booking.ID,
			Severity:  activitymodels.SeverityWarning,
			Metadata:  map[string]interface{}{"detail": result.Detail},
		})
	}
	return result
}

// notifyWebhook gọi generic webhook và ghi activity event theo kết quả
func (s *BookingService) notifyWebhook(ctx context.Context, event string, booking *bookingmodels.Booking, brand *brandmodels.Brand) bool {
	ok := s.webhook.Notify(ctx, event, booking, brand)
	if ok {
		s.activity.Log(ctx, activitymodels.ActivityEvent{
			EventType: activitymodels.EventWebhookSent,
			Message:   fmt.Sprintf("Đã gửi webhook %s cho booking #%s", event, booking.ShortCode),
			BookingID: &booking.ID,
			Severity:  activitymodels.SeveritySuccess,
			Metadata:  map[string]interface{}{"event": event},
		})
	} else {
		s.activity.Log(ctx, activitymodels.ActivityEvent{
			EventType: activitymodels.EventWebhookFailed,
			Message:   fmt.Sprintf("Webhook %s cho booking #%s thất bại", event, booking.ShortCode),
			BookingID: &booking.ID,
			Severity:  activitymodels.SeverityWarning,
			Metadata:  map[string]interface{}{"event": event},
		})
	}
	return ok
}

// FindOneById tra booking theo _id
func (s *BookingService) FindOneById(ctx context.Context, id primitive.ObjectID) (bookingmodels.Booking, error) {
	return s.base.FindOneById(ctx, id)
}

// FindOneByShortCode tra booking theo mã ngắn (không phân biệt hoa thường)
func (s *BookingService) FindOneByShortCode(ctx context.Context, code string) (bookingmodels.Booking, error) {
	return s.base.FindOne(ctx, bson.M{"shortCode": strings.ToUpper(strings.TrimSpace(code))}, nil)
}

// FindByIdOrCode tra booking theo hex ObjectID hoặc mã ngắn
func (s *BookingService) FindByIdOrCode(ctx context.Context, identifier string) (bookingmodels.Booking, error) {
	if oid, err := primitive.ObjectIDFromHex(identifier); err == nil {
		return s.base.FindOneById(ctx, oid)
	}
	return s.FindOneByShortCode(ctx, identifier)
}

// UpdateStatus cập nhật trạng thái booking (thao tác của staff).
// Persist + timeline + audit + realtime event; KHÔNG bắn lại dispatch
// hay automation — các bước đó chỉ chạy khi tạo booking.
func (s *BookingService) UpdateStatus(ctx context.Context, id primitive.ObjectID, input *bookingdto.BookingStatusUpdateInput, requester *bookingdto.Requester) (*bookingmodels.Booking, error) {
	if !bookingmodels.ValidStatuses[input.Status] {
		return nil, common.ErrInvalidState
	}

	booking, err := s.base.FindOneById(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := booking.Status
	booking.Status = input.Status

	text := input.Note
	if text == "" {
		text = fmt.Sprintf("Chuyển trạng thái %s → %s", previous, input.Status)
	}
	booking.Updates = append(booking.Updates, bookingmodels.BookingUpdate{
		Text: text,
		By:   requesterObjectID(requester),
		At:   utility.CurrentTimeInMilli(),
	})

	updated, err := s.base.UpdateById(ctx, id, booking)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}

	s.activity.Log(ctx, activitymodels.ActivityEvent{
		EventType: activitymodels.EventBookingUpdated,
		Message:   fmt.Sprintf("Booking #%s chuyển trạng thái %s → %s", updated.ShortCode, previous, updated.Status),
		BookingID: &updated.ID,
		Severity:  activitymodels.SeverityInfo,
		Metadata:  map[string]interface{}{"from": previous, "to": updated.Status},
	})

	events.Emit(ctx, events.Event{
		Name:      events.EventBookingUpdated,
		BookingID: updated.ID,
		Payload:   updated,
	})

	return &updated, nil
}

// RequestReschedule xử lý yêu cầu đổi lịch từ khách hàng hoặc staff.
// Automation bridge thất bại không làm thao tác fail; thành công/thất bại
// của thao tác đi theo generic webhook (WebhookOK).
// Không có cooldown — lastRescheduleEmailAt/rescheduleCount chỉ ghi nhận.
func (s *BookingService) RequestReschedule(ctx context.Context, identifier string, requester *bookingdto.Requester) (*bookingdto.RescheduleResult, error) {
	booking, err := s.FindByIdOrCode(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if err := authorizeReschedule(&booking, requester); err != nil {
		return nil, err
	}

	brand := s.lookupBrand(ctx, booking.BrandName)
	s.triggerAutomation(ctx, &booking, brand)
	webhookOK := s.notifyWebhook(ctx, "booking.reschedule_requested", &booking, brand)

	now := utility.CurrentTimeInMilli()
	booking.RescheduleCount++
	booking.LastRescheduleEmailAt = now
	booking.Updates = append(booking.Updates, bookingmodels.BookingUpdate{
		Text: "Khách hàng yêu cầu đổi lịch",
		By:   requesterObjectID(requester),
		At:   now,
	})

	updated, err := s.base.UpdateById(ctx, booking.ID, booking)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}

	s.activity.Log(ctx, activitymodels.ActivityEvent{
		EventType: activitymodels.EventBookingRescheduled,
		Message:   fmt.Sprintf("Yêu cầu đổi lịch cho booking #%s (lần thứ %d)", updated.ShortCode, updated.RescheduleCount),
		BookingID: &updated.ID,
		Severity:  activitymodels.SeverityInfo,
		Metadata:  map[string]interface{}{"webhookOk": webhookOK, "rescheduleCount": updated.RescheduleCount},
	})

	return &bookingdto.RescheduleResult{
		WebhookOK:             webhookOK,
		RescheduleCount:       updated.RescheduleCount,
		LastRescheduleEmailAt: updated.LastRescheduleEmailAt,
	}, nil
}

// authorizeReschedule kiểm tra quyền đổi lịch: người tạo booking,
// role admin/manager, hoặc chính khách hàng (so email không phân biệt
// hoa thường). Không thỏa điều kiện nào → PermissionError.
func authorizeReschedule(booking *bookingmodels.Booking, requester *bookingdto.Requester) error {
	if requester == nil {
		return common.ErrPermission
	}
	if requester.UserID != "" && !booking.CreatedBy.IsZero() && requester.UserID == booking.CreatedBy.Hex() {
		return nil
	}
	if rescheduleRoles[strings.ToLower(requester.Role)] {
		return nil
	}
	if requester.Email != "" && booking.CustomerEmail != "" && strings.EqualFold(requester.Email, booking.CustomerEmail) {
		return nil
	}
	return common.ErrPermission
}

// requesterObjectID đổi UserID dạng hex sang ObjectID, NilObjectID nếu thiếu
func requesterObjectID(requester *bookingdto.Requester) primitive.ObjectID {
	if requester == nil || requester.UserID == "" {
		return primitive.NilObjectID
	}
	oid, err := primitive.ObjectIDFromHex(requester.UserID)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}
