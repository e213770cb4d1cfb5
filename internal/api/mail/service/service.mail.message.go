package mailsvc

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	activitymodels "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/activity/models"
	activitysvc "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/activity/service"
	basesvc "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/base/service"
	bookingmodels "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/booking/models"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/events"
	maildto "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/mail/dto"
	mailmodels "github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/api/mail/models"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/common"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/global"
	"github.com/babur-hussain/KapoorAndSonsInstallation-sub000/internal/utility"
)

// MailService xử lý email inbound: correlation, phân loại, lưu trữ.
type MailService struct {
	messages *basesvc.BaseServiceMongoImpl[mailmodels.EmailMessage]
	bookings *basesvc.BaseServiceMongoImpl[bookingmodels.Booking]
	resolver *Resolver
	activity *activitysvc.ActivityService
}

// NewMailService tạo mới MailService
func NewMailService() (*MailService, error) {
	msgCol, exist := global.RegistryCollections.Get(global.ColNames.EmailMessages)
	if !exist {
		return nil, fmt.Errorf("failed to get email_messages collection: %v", common.ErrNotFound)
	}
	bookingCol, exist := global.RegistryCollections.Get(global.ColNames.Bookings)
	if !exist {
		return nil, fmt.Errorf("failed to get bookings collection: %v", common.ErrNotFound)
	}
	activity, err := activitysvc.NewActivityService()
	if err != nil {
		return nil, err
	}

	s := &MailService{
		messages: basesvc.NewBaseServiceMongo[mailmodels.EmailMessage](msgCol),
		bookings: basesvc.NewBaseServiceMongo[bookingmodels.Booking](bookingCol),
		activity: activity,
	}
	s.resolver = NewResolver(s)
	return s, nil
}

// ProcessInbound chạy correlation cho một email inbound rồi lưu lại.
// Input đã qua Normalize + validate ở handler; đến đây mọi nhánh đều persist
// (link được hay không), chỉ lỗi ghi DB mới trả về error.
func (s *MailService) ProcessInbound(ctx context.Context, input *maildto.EmailReplyInput) (*maildto.EmailReplyResult, error) {
	bookingID, matchedBy := s.resolver.Resolve(ctx, &ResolveInput{
		ExplicitRef: input.BookingID,
		From:        input.From,
		Subject:     input.Subject,
		Body:        input.ReplyText,
		InReplyTo:   input.InReplyTo,
	})

	receivedAt := input.Timestamp
	if receivedAt == 0 {
		receivedAt = utility.CurrentTimeInMilli()
	}

	msg := mailmodels.EmailMessage{
		From:       input.From,
		To:         input.To,
		Subject:    input.Subject,
		Body:       input.ReplyText,
		Kind:       classify(bookingID, input.ReplyText, input.ReplySent),
		MessageID:  input.MessageID,
		InReplyTo:  input.InReplyTo,
		References: input.References,
		BookingID:  bookingID,
		MatchedBy:  matchedBy,
		ReceivedAt: receivedAt,
	}

	created, err := s.messages.InsertOne(ctx, msg)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}

	s.auditInbound(ctx, &created)

	if bookingID != nil {
		events.Emit(ctx, events.Event{
			Name:      events.EventEmailReply,
			BookingID: *bookingID,
			Payload: map[string]interface{}{
				"messageDocId": created.ID.Hex(),
				"from":         created.From,
				"subject":      created.Subject,
				"kind":         created.Kind,
				"matchedBy":    created.MatchedBy,
			},
		})
	}

	result := &maildto.EmailReplyResult{
		MessageDocID: created.ID.Hex(),
		MatchedBy:    created.MatchedBy,
		Kind:         created.Kind,
		Linked:       bookingID != nil,
	}
	if bookingID != nil {
		result.BookingID = bookingID.Hex()
	}
	return result, nil
}

// classify phân loại email inbound.
// "reply" chỉ khi đã link booking VÀ body khác rỗng; "outgoing" khi
// provider báo replySent (bản ghi copy của email hệ thống đã gửi ra).
func classify(bookingID *primitive.ObjectID, body string, replySent bool) string {
	if replySent {
		return mailmodels.KindOutgoing
	}
	if bookingID != nil && body != "" {
		return mailmodels.KindReply
	}
	return mailmodels.KindIncoming
}

// auditInbound ghi activity event cho email vừa nhận:
// email_reply_received luôn luôn, email_reply_linked thêm khi link được
func (s *MailService) auditInbound(ctx context.Context, msg *mailmodels.EmailMessage) {
	s.activity.Log(ctx, activitymodels.ActivityEvent{
		EventType: activitymodels.EventEmailReplyReceived,
		Message:   fmt.Sprintf("Nhận email từ %s: %s", msg.From, msg.Subject),
		BookingID: msg.BookingID,
		Severity:  activitymodels.SeverityInfo,
		Metadata:  map[string]interface{}{"messageDocId": msg.ID.Hex(), "kind": msg.Kind},
	})
	if msg.BookingID != nil {
		s.activity.Log(ctx, activitymodels.ActivityEvent{
			EventType: activitymodels.EventEmailReplyLinked,
			Message:   fmt.Sprintf("Email từ %s đã link với booking qua heuristic %s", msg.From, msg.MatchedBy),
			BookingID: msg.BookingID,
			Severity:  activitymodels.SeveritySuccess,
			Metadata:  map[string]interface{}{"messageDocId": msg.ID.Hex(), "matchedBy": msg.MatchedBy},
		})
	}
}

// ===== ResolverStore =====

// FindBookingByID tra booking theo _id. Không thấy → (nil, nil).
func (s *MailService) FindBookingByID(ctx context.Context, id primitive.ObjectID) (*bookingmodels.Booking, error) {
	booking, err := s.bookings.FindOneById(ctx, id)
	if err != nil {
		return nil, ignoreNotFound(err)
	}
	return &booking, nil
}

// FindBookingByShortCode tra booking theo shortCode. Không thấy → (nil, nil).
func (s *MailService) FindBookingByShortCode(ctx context.Context, code string) (*bookingmodels.Booking, error) {
	booking, err := s.bookings.FindOne(ctx, bson.M{"shortCode": code}, nil)
	if err != nil {
		return nil, ignoreNotFound(err)
	}
	return &booking, nil
}

// FindNewestBookingByEmail tra booking mới nhất của một địa chỉ email
// (match exact, phân biệt hoa thường) tạo từ mốc since trở lại đây
func (s *MailService) FindNewestBookingByEmail(ctx context.Context, email string, since int64) (*bookingmodels.Booking, error) {
	opts := options.FindOne().SetSort(bson.M{"createdAt": -1})
	booking, err := s.bookings.FindOne(ctx, bson.M{
		"customerEmail": email,
		"createdAt":     bson.M{"$gte": since},
	}, opts)
	if err != nil {
		return nil, ignoreNotFound(err)
	}
	return &booking, nil
}

// FindMessageByMessageID tra email đã lưu theo Message-ID header
func (s *MailService) FindMessageByMessageID(ctx context.Context, messageID string) (*mailmodels.EmailMessage, error) {
	msg, err := s.messages.FindOne(ctx, bson.M{"messageId": messageID}, nil)
	if err != nil {
		return nil, ignoreNotFound(err)
	}
	return &msg, nil
}

// FindByBooking trả về các email đã link với một booking, mới nhận trước
func (s *MailService) FindByBooking(ctx context.Context, bookingID primitive.ObjectID) ([]mailmodels.EmailMessage, error) {
	opts := options.Find().SetSort(bson.M{"receivedAt": -1})
	return s.messages.Find(ctx, bson.M{"bookingId": bookingID}, opts)
}

// ignoreNotFound coi ErrNotFound là "không match" thay vì lỗi
func ignoreNotFound(err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	return err
}
